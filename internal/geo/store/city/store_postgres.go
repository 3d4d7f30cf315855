package city

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

const selectColumns = `SELECT id, name, postal_code, population_count, region_id FROM city`

// PostgresStore persists cities in PostgreSQL.
type PostgresStore struct {
	db postgres.DBTX
}

// NewPostgres constructs a PostgreSQL-backed city store over a pool or a
// transaction.
func NewPostgres(db postgres.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, city *models.City) error {
	var newID int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO city (name, postal_code, population_count, region_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		postgres.NullString(city.Name),
		postgres.NullString(city.PostalCode),
		postgres.NullInt32(city.PopulationCount),
		postgres.NullID(city.RegionID),
	).Scan(&newID)
	if err != nil {
		return translateWriteError("create city", err)
	}
	city.ID = id.CityID(newID)
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, city *models.City) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE city
		SET name = $2, postal_code = $3, population_count = $4, region_id = $5
		WHERE id = $1`,
		int64(city.ID),
		postgres.NullString(city.Name),
		postgres.NullString(city.PostalCode),
		postgres.NullInt32(city.PopulationCount),
		postgres.NullID(city.RegionID),
	)
	if err != nil {
		return translateWriteError("update city", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update city: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, cityID id.CityID) (*models.City, error) {
	return s.find(ctx, selectColumns+` WHERE id = $1`, cityID)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, cityID id.CityID) (*models.City, error) {
	return s.find(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, cityID)
}

func (s *PostgresStore) find(ctx context.Context, query string, cityID id.CityID) (*models.City, error) {
	c, err := scanCity(s.db.QueryRowContext(ctx, query, int64(cityID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find city by id: %w", err)
	}
	return c, nil
}

// ListAll returns every city ordered by id.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.City, error) {
	return s.list(ctx, selectColumns+` ORDER BY id`)
}

// ListByRegion returns the cities of regionID ordered by id.
func (s *PostgresStore) ListByRegion(ctx context.Context, regionID id.RegionID) ([]*models.City, error) {
	return s.list(ctx, selectColumns+` WHERE region_id = $1 ORDER BY id`, int64(regionID))
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.City, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []*models.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return out, nil
}

// DetachRegion clears region_id on every city of regionID and returns the
// ids it touched.
func (s *PostgresStore) DetachRegion(ctx context.Context, regionID id.RegionID) ([]id.CityID, error) {
	rows, err := s.db.QueryContext(ctx,
		`UPDATE city SET region_id = NULL WHERE region_id = $1 RETURNING id`,
		int64(regionID),
	)
	if err != nil {
		return nil, fmt.Errorf("detach cities from region: %w", err)
	}
	defer rows.Close()

	var touched []id.CityID
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			return nil, fmt.Errorf("scan detached city: %w", err)
		}
		touched = append(touched, id.CityID(cid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("detach cities from region: %w", err)
	}
	return touched, nil
}

// Delete removes the city. Unknown ids are ignored.
func (s *PostgresStore) Delete(ctx context.Context, cityID id.CityID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM city WHERE id = $1`, int64(cityID)); err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCity(row scanner) (*models.City, error) {
	var (
		cid        int64
		name       sql.NullString
		postalCode sql.NullString
		population sql.NullInt32
		regionID   sql.NullInt64
	)
	if err := row.Scan(&cid, &name, &postalCode, &population, &regionID); err != nil {
		return nil, err
	}
	return &models.City{
		ID:              id.CityID(cid),
		Name:            postgres.StringPtr(name),
		PostalCode:      postgres.StringPtr(postalCode),
		PopulationCount: postgres.Int32Ptr(population),
		RegionID:        postgres.IDPtr[id.RegionID](regionID),
	}, nil
}

func translateWriteError(op string, err error) error {
	if postgres.IsForeignKeyViolation(err) || postgres.IsCheckViolation(err) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
