// Package models holds the experience-claim aggregate and its lifecycle state
// machine.
package models

import (
	"time"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

// ClaimStatus is the lifecycle state of a claim.
type ClaimStatus string

const (
	StatusDraft    ClaimStatus = "draft"
	StatusPending  ClaimStatus = "pending"
	StatusVerified ClaimStatus = "verified"
	StatusRejected ClaimStatus = "rejected"
	StatusExpired  ClaimStatus = "expired"
	StatusDisputed ClaimStatus = "disputed"
)

var validStatuses = map[ClaimStatus]bool{
	StatusDraft:    true,
	StatusPending:  true,
	StatusVerified: true,
	StatusRejected: true,
	StatusExpired:  true,
	StatusDisputed: true,
}

// ParseClaimStatus constructs a ClaimStatus from external input.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	st := ClaimStatus(s)
	if !validStatuses[st] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid claim status")
	}
	return st, nil
}

func (s ClaimStatus) String() string { return string(s) }

// EvidenceVisibility controls who may see a claim's evidence files.
type EvidenceVisibility string

const (
	VisibilityPublic       EvidenceVisibility = "public"
	VisibilityVerifierOnly EvidenceVisibility = "verifier_only"
)

// ParseEvidenceVisibility constructs an EvidenceVisibility from external
// input. Empty input defaults to verifier_only.
func ParseEvidenceVisibility(s string) (EvidenceVisibility, error) {
	switch EvidenceVisibility(s) {
	case VisibilityPublic, VisibilityVerifierOnly:
		return EvidenceVisibility(s), nil
	case "":
		return VisibilityVerifierOnly, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid evidence visibility")
	}
}

func (v EvidenceVisibility) String() string { return string(v) }

// ScoreBreakdown is one factor entry of a credibility score. The slice order
// is part of the contract: recomputation must yield an identical sequence.
type ScoreBreakdown struct {
	Factor string  `json:"factor"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Claim is the aggregate root for a candidate's experience assertion.
//
// Invariants:
//   - StartDate <= EndDate
//   - All descriptive fields are populated before a claim leaves draft
//   - CredibilityScore is set if and only if the claim has been decided;
//     it survives the move to disputed so the prior score stays auditable
//   - Field edits are only permitted in draft and pending
type Claim struct {
	ID          id.ClaimID `json:"id"`
	CandidateID id.UserID  `json:"candidate_id"`

	Title             string             `json:"title"`
	ClaimType         string             `json:"claim_type"`
	OrganizationName  string             `json:"organization_name"`
	SupervisorName    string             `json:"supervisor_name"`
	SupervisorContact string             `json:"supervisor_contact"`
	StartDate         time.Time          `json:"start_date"`
	EndDate           time.Time          `json:"end_date"`
	Description       string             `json:"description"`
	SkillTags         []string           `json:"skill_tags"`
	Visibility        EvidenceVisibility `json:"evidence_visibility"`

	Status               ClaimStatus      `json:"status"`
	CredibilityScore     *float64         `json:"credibility_score,omitempty"`
	CredibilityBreakdown []ScoreBreakdown `json:"credibility_breakdown,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClaim validates and constructs a draft claim.
func NewClaim(claimID id.ClaimID, candidateID id.UserID, fields ClaimFields, now time.Time) (*Claim, error) {
	if candidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "candidate id is required")
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}
	return &Claim{
		ID:                claimID,
		CandidateID:       candidateID,
		Title:             fields.Title,
		ClaimType:         fields.ClaimType,
		OrganizationName:  fields.OrganizationName,
		SupervisorName:    fields.SupervisorName,
		SupervisorContact: fields.SupervisorContact,
		StartDate:         fields.StartDate,
		EndDate:           fields.EndDate,
		Description:       fields.Description,
		SkillTags:         fields.SkillTags,
		Visibility:        fields.Visibility,
		Status:            StatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ClaimFields carries the candidate-editable descriptive fields.
type ClaimFields struct {
	Title             string
	ClaimType         string
	OrganizationName  string
	SupervisorName    string
	SupervisorContact string
	StartDate         time.Time
	EndDate           time.Time
	Description       string
	SkillTags         []string
	Visibility        EvidenceVisibility
}

func (f ClaimFields) validate() error {
	switch {
	case f.Title == "":
		return dErrors.New(dErrors.CodeValidation, "title is required")
	case f.ClaimType == "":
		return dErrors.New(dErrors.CodeValidation, "claim_type is required")
	case f.OrganizationName == "":
		return dErrors.New(dErrors.CodeValidation, "organization_name is required")
	case f.SupervisorName == "":
		return dErrors.New(dErrors.CodeValidation, "supervisor_name is required")
	case f.SupervisorContact == "":
		return dErrors.New(dErrors.CodeValidation, "supervisor_contact is required")
	case f.Description == "":
		return dErrors.New(dErrors.CodeValidation, "description is required")
	case f.StartDate.IsZero() || f.EndDate.IsZero():
		return dErrors.New(dErrors.CodeValidation, "start_date and end_date are required")
	case f.EndDate.Before(f.StartDate):
		return dErrors.New(dErrors.CodeValidation, "end_date must not be before start_date")
	}
	if f.Visibility != VisibilityPublic && f.Visibility != VisibilityVerifierOnly {
		return dErrors.New(dErrors.CodeValidation, "evidence_visibility must be public or verifier_only")
	}
	return nil
}

// Editable reports whether candidate field edits are currently allowed.
func (c *Claim) Editable() bool {
	return c.Status == StatusDraft || c.Status == StatusPending
}

// CanEdit checks the edit precondition.
func (c *Claim) CanEdit() error {
	if !c.Editable() {
		return dErrors.New(dErrors.CodeInvalidState, "only draft or pending claims can be edited")
	}
	return nil
}

// ApplyUpdate replaces the descriptive fields. Call CanEdit first; the fields
// are re-validated so a pending claim cannot be edited into an invalid shape.
func (c *Claim) ApplyUpdate(fields ClaimFields, now time.Time) error {
	if err := fields.validate(); err != nil {
		return err
	}
	c.Title = fields.Title
	c.ClaimType = fields.ClaimType
	c.OrganizationName = fields.OrganizationName
	c.SupervisorName = fields.SupervisorName
	c.SupervisorContact = fields.SupervisorContact
	c.StartDate = fields.StartDate
	c.EndDate = fields.EndDate
	c.Description = fields.Description
	c.SkillTags = fields.SkillTags
	c.Visibility = fields.Visibility
	c.UpdatedAt = now
	return nil
}

// Fields returns the current descriptive fields, for partial-update merging.
func (c *Claim) Fields() ClaimFields {
	return ClaimFields{
		Title:             c.Title,
		ClaimType:         c.ClaimType,
		OrganizationName:  c.OrganizationName,
		SupervisorName:    c.SupervisorName,
		SupervisorContact: c.SupervisorContact,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		Description:       c.Description,
		SkillTags:         c.SkillTags,
		Visibility:        c.Visibility,
	}
}

// CanSubmit checks the draft -> pending transition precondition.
func (c *Claim) CanSubmit() error {
	switch c.Status {
	case StatusDraft:
		// fall through to field validation
	case StatusPending, StatusVerified:
		return dErrors.New(dErrors.CodeInvalidState, "claim has already been submitted")
	default:
		return dErrors.New(dErrors.CodeInvalidState, "claim cannot be submitted from status "+c.Status.String())
	}
	return c.Fields().validate()
}

// ApplySubmission moves the claim to pending. Call CanSubmit first.
func (c *Claim) ApplySubmission(now time.Time) {
	c.Status = StatusPending
	c.UpdatedAt = now
}

// CanDecide checks the pending -> verified/rejected transition precondition.
// A decision against any other status is an invalid transition.
func (c *Claim) CanDecide() error {
	if c.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidTransition, "claim is not pending verification")
	}
	return nil
}

// ApplyDecision moves the claim to verified or rejected and records the
// scoring result. The caller computes score and breakdown with the new status
// already applied, inside the same exclusive transition that appended the
// ledger record. Call CanDecide first.
func (c *Claim) ApplyDecision(approved bool, score float64, breakdown []ScoreBreakdown, now time.Time) {
	if approved {
		c.Status = StatusVerified
	} else {
		c.Status = StatusRejected
	}
	c.CredibilityScore = &score
	c.CredibilityBreakdown = breakdown
	c.UpdatedAt = now
}

// CanMarkDisputed checks the dispute hook precondition: only claims that have
// been decided (or are already disputed, for re-opened disputes) can be
// contested.
func (c *Claim) CanMarkDisputed() error {
	switch c.Status {
	case StatusVerified, StatusRejected, StatusDisputed:
		return nil
	default:
		return dErrors.New(dErrors.CodeInvalidState, "only decided claims can be disputed")
	}
}

// ApplyDisputed marks the claim disputed. The stored score and breakdown are
// deliberately left untouched for audit. Call CanMarkDisputed first.
func (c *Claim) ApplyDisputed(now time.Time) {
	c.Status = StatusDisputed
	c.UpdatedAt = now
}

// PubliclyVisible reports whether outsiders may read this claim through the
// public report view.
func (c *Claim) PubliclyVisible() bool {
	return c.Status == StatusVerified
}

// OwnedBy reports whether the given user is the claim's candidate.
func (c *Claim) OwnedBy(userID id.UserID) bool {
	return c.CandidateID == userID
}
