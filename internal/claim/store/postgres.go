package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vouch/internal/claim/models"
	id "vouch/pkg/domain"
	"vouch/pkg/platform/sentinel"
	"vouch/pkg/platform/tx"
)

// Postgres persists claims in the claims table. Methods honor a context
// transaction when one is active.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const claimColumns = `id, candidate_id, title, claim_type, organization_name,
	supervisor_name, supervisor_contact, start_date, end_date, description,
	skill_tags, evidence_visibility, status, credibility_score,
	credibility_breakdown, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, c *models.Claim) error {
	breakdown, err := marshalBreakdown(c.CredibilityBreakdown)
	if err != nil {
		return err
	}
	q := tx.PickQuerier(ctx, s.pool)
	_, err = q.Exec(ctx, `
		INSERT INTO claims (`+claimColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		c.ID, c.CandidateID, c.Title, c.ClaimType, c.OrganizationName,
		c.SupervisorName, c.SupervisorContact, c.StartDate, c.EndDate, c.Description,
		c.SkillTags, string(c.Visibility), string(c.Status), c.CredibilityScore,
		breakdown, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	q := tx.PickQuerier(ctx, s.pool)
	row := q.QueryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, claimID)
	return scanClaim(row)
}

// GetForUpdate locks the claim row for the duration of the surrounding
// transaction. Outside a transaction it degrades to a plain read.
func (s *Postgres) GetForUpdate(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	q, inTx := tx.From(ctx)
	if !inTx {
		return s.Get(ctx, claimID)
	}
	row := q.QueryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1 FOR UPDATE`, claimID)
	return scanClaim(row)
}

func (s *Postgres) Update(ctx context.Context, c *models.Claim) error {
	breakdown, err := marshalBreakdown(c.CredibilityBreakdown)
	if err != nil {
		return err
	}
	q := tx.PickQuerier(ctx, s.pool)
	tag, err := q.Exec(ctx, `
		UPDATE claims SET
			title = $2, claim_type = $3, organization_name = $4,
			supervisor_name = $5, supervisor_contact = $6, start_date = $7,
			end_date = $8, description = $9, skill_tags = $10,
			evidence_visibility = $11, status = $12, credibility_score = $13,
			credibility_breakdown = $14, updated_at = $15
		WHERE id = $1`,
		c.ID, c.Title, c.ClaimType, c.OrganizationName,
		c.SupervisorName, c.SupervisorContact, c.StartDate,
		c.EndDate, c.Description, c.SkillTags,
		string(c.Visibility), string(c.Status), c.CredibilityScore,
		breakdown, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListByCandidate(ctx context.Context, candidateID id.UserID) ([]*models.Claim, error) {
	q := tx.PickQuerier(ctx, s.pool)
	rows, err := q.Query(ctx, `
		SELECT `+claimColumns+` FROM claims
		WHERE candidate_id = $1
		ORDER BY created_at, id`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list claims by candidate: %w", err)
	}
	defer rows.Close()
	return scanClaims(rows)
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.ClaimStatus) ([]*models.Claim, error) {
	q := tx.PickQuerier(ctx, s.pool)
	rows, err := q.Query(ctx, `
		SELECT `+claimColumns+` FROM claims
		WHERE status = $1
		ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list claims by status: %w", err)
	}
	defer rows.Close()
	return scanClaims(rows)
}

func scanClaims(rows pgx.Rows) ([]*models.Claim, error) {
	var out []*models.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}
	return out, nil
}

func scanClaim(row pgx.Row) (*models.Claim, error) {
	var (
		c          models.Claim
		status     string
		visibility string
		breakdown  []byte
	)
	err := row.Scan(
		&c.ID, &c.CandidateID, &c.Title, &c.ClaimType, &c.OrganizationName,
		&c.SupervisorName, &c.SupervisorContact, &c.StartDate, &c.EndDate, &c.Description,
		&c.SkillTags, &visibility, &status, &c.CredibilityScore,
		&breakdown, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan claim: %w", err)
	}
	c.Status = models.ClaimStatus(status)
	c.Visibility = models.EvidenceVisibility(visibility)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &c.CredibilityBreakdown); err != nil {
			return nil, fmt.Errorf("decode score breakdown: %w", err)
		}
	}
	return &c, nil
}

func marshalBreakdown(entries []models.ScoreBreakdown) ([]byte, error) {
	if entries == nil {
		return nil, nil
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode score breakdown: %w", err)
	}
	return b, nil
}
