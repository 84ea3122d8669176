package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vouch/internal/dispute/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/platform/tx"
)

// Postgres persists disputes in the disputes table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const disputeColumns = `id, claim_id, raised_by, reason, status,
	resolution_notes, resolved_by, resolved_at, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, d *models.Dispute) error {
	q := tx.PickQuerier(ctx, s.pool)
	_, err := q.Exec(ctx, `
		INSERT INTO disputes (`+disputeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.ClaimID, d.RaisedBy, d.Reason, string(d.Status),
		d.ResolutionNotes, d.ResolvedBy, d.ResolvedAt, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert dispute: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, disputeID id.DisputeID) (*models.Dispute, error) {
	q := tx.PickQuerier(ctx, s.pool)
	row := q.QueryRow(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = $1`, disputeID)
	return scanDispute(row)
}

func (s *Postgres) Update(ctx context.Context, d *models.Dispute) error {
	q := tx.PickQuerier(ctx, s.pool)
	tag, err := q.Exec(ctx, `
		UPDATE disputes SET
			status = $2, resolution_notes = $3, resolved_by = $4,
			resolved_at = $5, updated_at = $6
		WHERE id = $1`,
		d.ID, string(d.Status), d.ResolutionNotes, d.ResolvedBy,
		d.ResolvedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update dispute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.DisputeStatus) ([]*models.Dispute, error) {
	return s.list(ctx, `WHERE status = $1`, string(status))
}

func (s *Postgres) ListByClaim(ctx context.Context, claimID id.ClaimID) ([]*models.Dispute, error) {
	return s.list(ctx, `WHERE claim_id = $1`, claimID)
}

func (s *Postgres) HasOpenForClaim(ctx context.Context, claimID id.ClaimID) (bool, error) {
	q := tx.PickQuerier(ctx, s.pool)
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM disputes
			WHERE claim_id = $1 AND status IN ('open', 'under_review')
		)`, claimID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open disputes: %w", err)
	}
	return exists, nil
}

func (s *Postgres) list(ctx context.Context, where string, arg any) ([]*models.Dispute, error) {
	q := tx.PickQuerier(ctx, s.pool)
	rows, err := q.Query(ctx,
		`SELECT `+disputeColumns+` FROM disputes `+where+` ORDER BY created_at, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()

	var out []*models.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disputes: %w", err)
	}
	return out, nil
}

func scanDispute(row pgx.Row) (*models.Dispute, error) {
	var (
		d      models.Dispute
		status string
	)
	err := row.Scan(
		&d.ID, &d.ClaimID, &d.RaisedBy, &d.Reason, &status,
		&d.ResolutionNotes, &d.ResolvedBy, &d.ResolvedAt, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan dispute: %w", err)
	}
	d.Status = models.DisputeStatus(status)
	return &d, nil
}
