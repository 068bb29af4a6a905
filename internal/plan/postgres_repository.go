package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visitroute/visitroute/internal/itinerary"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// The itinerary payload is stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL plan repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new plan.
func (r *PostgresRepository) Create(ctx context.Context, p *Plan) error {
	payload, err := json.Marshal(p.Itinerary)
	if err != nil {
		return fmt.Errorf("marshal itinerary: %w", err)
	}

	query := `
		INSERT INTO plans (id, user_id, title, itinerary, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query, p.ID, p.UserID, p.Title, payload, p.CreatedAt)
	return err
}

// GetByID retrieves a plan by ID, scoped to its owner.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, planID string) (*Plan, error) {
	query := `
		SELECT id, user_id, title, itinerary, created_at
		FROM plans
		WHERE id = $1 AND user_id = $2
	`
	p, err := scanPlan(r.pool.QueryRow(ctx, query, planID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByUser returns the user's plans, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Plan, error) {
	query := `
		SELECT id, user_id, title, itinerary, created_at
		FROM plans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// Delete removes a plan, scoped to its owner.
func (r *PostgresRepository) Delete(ctx context.Context, userID, planID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*Plan, error) {
	var (
		p       Plan
		payload []byte
	)

	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &payload, &p.CreatedAt); err != nil {
		return nil, err
	}

	var it itinerary.Itinerary
	if err := json.Unmarshal(payload, &it); err != nil {
		return nil, fmt.Errorf("unmarshal itinerary for plan %q: %w", p.ID, err)
	}
	p.Itinerary = it

	return &p, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
