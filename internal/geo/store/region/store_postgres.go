package region

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

// PostgresStore persists regions in PostgreSQL.
type PostgresStore struct {
	db postgres.DBTX
}

// NewPostgres constructs a PostgreSQL-backed region store over a pool or a
// transaction.
func NewPostgres(db postgres.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, region *models.Region) error {
	var newID int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO region (name) VALUES ($1) RETURNING id`,
		postgres.NullString(region.Name),
	).Scan(&newID)
	if err != nil {
		return fmt.Errorf("create region: %w", err)
	}
	region.ID = id.RegionID(newID)
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, region *models.Region) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE region SET name = $2 WHERE id = $1`,
		int64(region.ID), postgres.NullString(region.Name),
	)
	if err != nil {
		return fmt.Errorf("update region: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update region: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, regionID id.RegionID) (*models.Region, error) {
	return s.find(ctx, `SELECT id, name FROM region WHERE id = $1`, regionID)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, regionID id.RegionID) (*models.Region, error) {
	return s.find(ctx, `SELECT id, name FROM region WHERE id = $1 FOR UPDATE`, regionID)
}

func (s *PostgresStore) find(ctx context.Context, query string, regionID id.RegionID) (*models.Region, error) {
	r, err := scanRegion(s.db.QueryRowContext(ctx, query, int64(regionID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find region by id: %w", err)
	}
	return r, nil
}

// ListAll returns every region ordered by id.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Region, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM region ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var out []*models.Region
	for rows.Next() {
		r, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return out, nil
}

// Delete removes the region. Unknown ids are ignored.
func (s *PostgresStore) Delete(ctx context.Context, regionID id.RegionID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM region WHERE id = $1`, int64(regionID)); err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegion(row scanner) (*models.Region, error) {
	var (
		rid  int64
		name sql.NullString
	)
	if err := row.Scan(&rid, &name); err != nil {
		return nil, err
	}
	return &models.Region{ID: id.RegionID(rid), Name: postgres.StringPtr(name)}, nil
}
