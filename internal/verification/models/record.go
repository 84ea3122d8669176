// Package models defines the verification ledger's record types.
package models

import (
	"time"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

// Outcome is a verifier's decision on a claim.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// ParseOutcome constructs an Outcome from external input.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeApproved, OutcomeRejected:
		return Outcome(s), nil
	case "":
		return "", dErrors.New(dErrors.CodeInvalidInput, "outcome cannot be empty")
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid outcome")
	}
}

func (o Outcome) String() string { return string(o) }

// Record is an immutable decision artifact appended to the ledger.
// Corrections require a new record, never an edit; the ledger interface
// exposes no update or delete.
type Record struct {
	ID         id.VerificationID `json:"id"`
	ClaimID    id.ClaimID        `json:"claim_id"`
	VerifierID id.UserID         `json:"verifier_id"`
	OrgID      *id.OrgID         `json:"org_id,omitempty"`
	Outcome    Outcome           `json:"outcome"`
	Notes      string            `json:"notes,omitempty"`
	RoleType   string            `json:"role_type,omitempty"`

	// Verifier-asserted date range, when it differs from the claim's.
	VerifiedStartDate *time.Time `json:"verified_start_date,omitempty"`
	VerifiedEndDate   *time.Time `json:"verified_end_date,omitempty"`

	// ValidUntil bounds how long this verification vouches for the claim.
	// Scoring penalizes claims whose only verifications have lapsed.
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewRecord validates and constructs a ledger record.
func NewRecord(recordID id.VerificationID, claimID id.ClaimID, verifierID id.UserID, outcome Outcome, now time.Time) (*Record, error) {
	if claimID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "claim id is required")
	}
	if verifierID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "verifier id is required")
	}
	if _, err := ParseOutcome(outcome.String()); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "outcome must be approved or rejected")
	}
	return &Record{
		ID:         recordID,
		ClaimID:    claimID,
		VerifierID: verifierID,
		Outcome:    outcome,
		CreatedAt:  now,
	}, nil
}
