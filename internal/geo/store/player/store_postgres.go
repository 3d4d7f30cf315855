package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"projet/internal/geo/models"
	"projet/internal/platform/postgres"
	id "projet/pkg/domain"
	"projet/pkg/platform/sentinel"
)

const selectColumns = `SELECT id, alias, credential_secret, registered_at, is_administrator, city_id FROM player`

// PostgresStore persists players in PostgreSQL.
type PostgresStore struct {
	db postgres.DBTX
}

// NewPostgres constructs a PostgreSQL-backed player store over a pool or a
// transaction.
func NewPostgres(db postgres.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, player *models.Player) error {
	var newID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO player (alias, credential_secret, registered_at, is_administrator, city_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		postgres.NullString(player.Alias),
		postgres.NullString(player.CredentialSecret),
		postgres.NullTime(player.RegisteredAt),
		postgres.NullBool(player.IsAdministrator),
		postgres.NullID(player.CityID),
	).Scan(&newID)
	if err != nil {
		return translateWriteError("create player", err)
	}
	player.ID = id.PlayerID(newID)
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, player *models.Player) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE player
		SET alias = $2, credential_secret = $3, registered_at = $4, is_administrator = $5, city_id = $6
		WHERE id = $1`,
		int64(player.ID),
		postgres.NullString(player.Alias),
		postgres.NullString(player.CredentialSecret),
		postgres.NullTime(player.RegisteredAt),
		postgres.NullBool(player.IsAdministrator),
		postgres.NullID(player.CityID),
	)
	if err != nil {
		return translateWriteError("update player", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, playerID id.PlayerID) (*models.Player, error) {
	return s.find(ctx, selectColumns+` WHERE id = $1`, playerID)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, playerID id.PlayerID) (*models.Player, error) {
	return s.find(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, playerID)
}

func (s *PostgresStore) find(ctx context.Context, query string, playerID id.PlayerID) (*models.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx, query, int64(playerID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find player by id: %w", err)
	}
	return p, nil
}

// ListAll returns every player ordered by id.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Player, error) {
	return s.list(ctx, selectColumns+` ORDER BY id`)
}

// ListByCity returns the players of cityID ordered by id.
func (s *PostgresStore) ListByCity(ctx context.Context, cityID id.CityID) ([]*models.Player, error) {
	return s.list(ctx, selectColumns+` WHERE city_id = $1 ORDER BY id`, int64(cityID))
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.Player, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []*models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return out, nil
}

// DetachCity clears city_id on every player of cityID and returns the ids it
// touched.
func (s *PostgresStore) DetachCity(ctx context.Context, cityID id.CityID) ([]id.PlayerID, error) {
	rows, err := s.db.QueryContext(ctx,
		`UPDATE player SET city_id = NULL WHERE city_id = $1 RETURNING id`,
		int64(cityID),
	)
	if err != nil {
		return nil, fmt.Errorf("detach players from city: %w", err)
	}
	defer rows.Close()

	var touched []id.PlayerID
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("scan detached player: %w", err)
		}
		touched = append(touched, id.PlayerID(pid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("detach players from city: %w", err)
	}
	return touched, nil
}

// Delete removes the player. Unknown ids are ignored.
func (s *PostgresStore) Delete(ctx context.Context, playerID id.PlayerID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM player WHERE id = $1`, int64(playerID)); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*models.Player, error) {
	var (
		pid          int64
		alias        sql.NullString
		secret       sql.NullString
		registeredAt sql.NullTime
		isAdmin      sql.NullBool
		cityID       sql.NullInt64
	)
	if err := row.Scan(&pid, &alias, &secret, &registeredAt, &isAdmin, &cityID); err != nil {
		return nil, err
	}
	return &models.Player{
		ID:               id.PlayerID(pid),
		Alias:            postgres.StringPtr(alias),
		CredentialSecret: postgres.StringPtr(secret),
		RegisteredAt:     postgres.TimePtr(registeredAt),
		IsAdministrator:  postgres.BoolPtr(isAdmin),
		CityID:           postgres.IDPtr[id.CityID](cityID),
	}, nil
}

func translateWriteError(op string, err error) error {
	if postgres.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
