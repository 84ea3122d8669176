package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vouch/internal/verification/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/tx"
)

// Postgres persists the verification ledger. Append-only by convention;
// there is no update or delete path.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const recordColumns = `id, claim_id, verifier_id, org_id, outcome, notes,
	role_type, verified_start_date, verified_end_date, valid_until, created_at`

func (s *Postgres) Append(ctx context.Context, rec *models.Record) error {
	q := tx.PickQuerier(ctx, s.pool)
	_, err := q.Exec(ctx, `
		INSERT INTO verification_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.ClaimID, rec.VerifierID, rec.OrgID, string(rec.Outcome), rec.Notes,
		rec.RoleType, rec.VerifiedStartDate, rec.VerifiedEndDate, rec.ValidUntil, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}

func (s *Postgres) ListByClaim(ctx context.Context, claimID id.ClaimID) ([]*models.Record, error) {
	q := tx.PickQuerier(ctx, s.pool)
	rows, err := q.Query(ctx, `
		SELECT `+recordColumns+` FROM verification_records
		WHERE claim_id = $1
		ORDER BY created_at, id`, claimID)
	if err != nil {
		return nil, fmt.Errorf("list verification records: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification records: %w", err)
	}
	return out, nil
}

func (s *Postgres) CountByClaim(ctx context.Context, claimID id.ClaimID) (int, error) {
	q := tx.PickQuerier(ctx, s.pool)
	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM verification_records WHERE claim_id = $1`, claimID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count verification records: %w", err)
	}
	return n, nil
}

func scanRecord(row pgx.Row) (*models.Record, error) {
	var (
		rec     models.Record
		outcome string
	)
	err := row.Scan(
		&rec.ID, &rec.ClaimID, &rec.VerifierID, &rec.OrgID, &outcome, &rec.Notes,
		&rec.RoleType, &rec.VerifiedStartDate, &rec.VerifiedEndDate, &rec.ValidUntil, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan verification record: %w", err)
	}
	rec.Outcome = models.Outcome(outcome)
	return &rec, nil
}
