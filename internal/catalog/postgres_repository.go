package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Interest weights are stored as a 9-element array in theme order.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const activityColumns = `
	id, name, section_id,
	opening_time_minutes, closing_time_minutes, duration_minutes,
	interests, latitude, longitude
`

// List retrieves the full catalog ordered by load position.
func (r *PostgresRepository) List(ctx context.Context) ([]Activity, error) {
	query := `SELECT` + activityColumns + `FROM activities ORDER BY position`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}

// Get retrieves an activity by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Activity, error) {
	query := `SELECT` + activityColumns + `FROM activities WHERE id = $1`

	a, err := scanActivity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	return a, nil
}

// ReplaceAll replaces the stored catalog in a single transaction.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, activities []Activity) error {
	if err := Validate(activities); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, `DELETE FROM activities`); err != nil {
		return err
	}

	insert := `
		INSERT INTO activities (` + activityColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for i, a := range activities {
		interests := make([]float64, len(a.Interests))
		copy(interests, a.Interests[:])

		_, err := tx.Exec(ctx, insert,
			a.ID, a.Name, a.SectionID,
			a.OpeningTime, a.ClosingTime, a.Duration,
			interests, a.Location.Lat, a.Location.Lon,
			i,
		)
		if err != nil {
			return fmt.Errorf("insert activity %q: %w", a.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// rowScanner abstracts pgx.Row and pgx.Rows for scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*Activity, error) {
	var (
		a         Activity
		interests []float64
	)

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.SectionID,
		&a.OpeningTime,
		&a.ClosingTime,
		&a.Duration,
		&interests,
		&a.Location.Lat,
		&a.Location.Lon,
	)
	if err != nil {
		return nil, err
	}

	if len(interests) != len(a.Interests) {
		return nil, fmt.Errorf("activity %q: expected %d interest weights, got %d", a.ID, len(a.Interests), len(interests))
	}
	copy(a.Interests[:], interests)

	return &a, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
