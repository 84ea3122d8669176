// Package models defines the dispute aggregate and its state machine.
//
// A dispute contests a decided claim. Opening one marks the claim disputed;
// resolving or dismissing it closes the dispute without rewriting the
// claim's stored score or status, so the decision history stays intact.
package models

import (
	"time"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

type DisputeStatus string

const (
	StatusOpen        DisputeStatus = "open"
	StatusUnderReview DisputeStatus = "under_review"
	StatusResolved    DisputeStatus = "resolved"
	StatusDismissed   DisputeStatus = "dismissed"
)

var validStatuses = map[DisputeStatus]bool{
	StatusOpen:        true,
	StatusUnderReview: true,
	StatusResolved:    true,
	StatusDismissed:   true,
}

func ParseDisputeStatus(s string) (DisputeStatus, error) {
	status := DisputeStatus(s)
	if !validStatuses[status] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid dispute status: "+s)
	}
	return status, nil
}

func (s DisputeStatus) String() string { return string(s) }

// Closed reports whether the dispute reached a terminal state.
func (s DisputeStatus) Closed() bool {
	return s == StatusResolved || s == StatusDismissed
}

type Dispute struct {
	ID      id.DisputeID `json:"id"`
	ClaimID id.ClaimID   `json:"claim_id"`

	RaisedBy id.UserID     `json:"raised_by"`
	Reason   string        `json:"reason"`
	Status   DisputeStatus `json:"status"`

	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	ResolvedBy      *id.UserID `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDispute(disputeID id.DisputeID, claimID id.ClaimID, raisedBy id.UserID, reason string, now time.Time) (*Dispute, error) {
	if claimID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "claim id is required")
	}
	if raisedBy.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "raised_by is required")
	}
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return &Dispute{
		ID:        disputeID,
		ClaimID:   claimID,
		RaisedBy:  raisedBy,
		Reason:    reason,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanReview checks the open -> under_review precondition.
func (d *Dispute) CanReview() error {
	if d.Status != StatusOpen {
		return dErrors.New(dErrors.CodeInvalidTransition, "only open disputes can move to review")
	}
	return nil
}

// ApplyReview moves the dispute under review. Call CanReview first.
func (d *Dispute) ApplyReview(now time.Time) {
	d.Status = StatusUnderReview
	d.UpdatedAt = now
}

// CanClose checks the under_review -> resolved/dismissed precondition.
func (d *Dispute) CanClose() error {
	if d.Status != StatusUnderReview {
		return dErrors.New(dErrors.CodeInvalidTransition, "only disputes under review can be closed")
	}
	return nil
}

// ApplyResolution closes the dispute as resolved. Call CanClose first.
func (d *Dispute) ApplyResolution(resolvedBy id.UserID, notes string, now time.Time) {
	d.close(StatusResolved, resolvedBy, notes, now)
}

// ApplyDismissal closes the dispute as dismissed. Call CanClose first.
func (d *Dispute) ApplyDismissal(resolvedBy id.UserID, notes string, now time.Time) {
	d.close(StatusDismissed, resolvedBy, notes, now)
}

func (d *Dispute) close(status DisputeStatus, resolvedBy id.UserID, notes string, now time.Time) {
	d.Status = status
	d.ResolutionNotes = notes
	d.ResolvedBy = &resolvedBy
	t := now
	d.ResolvedAt = &t
	d.UpdatedAt = now
}

// RaisedByUser reports whether the given user opened this dispute.
func (d *Dispute) RaisedByUser(userID id.UserID) bool {
	return d.RaisedBy == userID
}
