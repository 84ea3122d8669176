// Package domain holds shared domain primitives: typed identifiers and the
// role enum. Typed IDs make it a compile error to pass a claim ID where a
// user ID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "vouch/pkg/domain-errors"
)

// Typed identifiers for each aggregate. Construct via the Parse functions at
// trust boundaries; direct casting bypasses validation.
type (
	UserID         uuid.UUID
	ClaimID        uuid.UUID
	VerificationID uuid.UUID
	DisputeID      uuid.UUID
	OrgID          uuid.UUID
	EvidenceID     uuid.UUID
)

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewClaimID() ClaimID               { return ClaimID(uuid.New()) }
func NewVerificationID() VerificationID { return VerificationID(uuid.New()) }
func NewDisputeID() DisputeID           { return DisputeID(uuid.New()) }
func NewOrgID() OrgID                   { return OrgID(uuid.New()) }
func NewEvidenceID() EvidenceID         { return EvidenceID(uuid.New()) }

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ClaimID) String() string        { return uuid.UUID(id).String() }
func (id VerificationID) String() string { return uuid.UUID(id).String() }
func (id DisputeID) String() string      { return uuid.UUID(id).String() }
func (id OrgID) String() string          { return uuid.UUID(id).String() }
func (id EvidenceID) String() string     { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ClaimID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id VerificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DisputeID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id OrgID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id EvidenceID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// MarshalText implementations keep typed IDs JSON-friendly as plain UUID
// strings rather than uuid.UUID's byte-array encoding.
func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id ClaimID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id VerificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id DisputeID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id OrgID) MarshalText() ([]byte, error)          { return []byte(id.String()), nil }
func (id EvidenceID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ClaimID) UnmarshalText(b []byte) error {
	parsed, err := ParseClaimID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *VerificationID) UnmarshalText(b []byte) error {
	parsed, err := parseUUID(string(b), "verification id")
	if err != nil {
		return err
	}
	*id = VerificationID(parsed)
	return nil
}

func (id *DisputeID) UnmarshalText(b []byte) error {
	parsed, err := ParseDisputeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *OrgID) UnmarshalText(b []byte) error {
	parsed, err := ParseOrgID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EvidenceID) UnmarshalText(b []byte) error {
	parsed, err := parseUUID(string(b), "evidence id")
	if err != nil {
		return err
	}
	*id = EvidenceID(parsed)
	return nil
}

// ParseUserID validates that s is a non-empty, non-nil UUID.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseUUID(s, "user id")
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseClaimID validates that s is a non-empty, non-nil UUID.
func ParseClaimID(s string) (ClaimID, error) {
	parsed, err := parseUUID(s, "claim id")
	if err != nil {
		return ClaimID{}, err
	}
	return ClaimID(parsed), nil
}

// ParseVerificationID validates that s is a non-empty, non-nil UUID.
func ParseVerificationID(s string) (VerificationID, error) {
	parsed, err := parseUUID(s, "verification id")
	if err != nil {
		return VerificationID{}, err
	}
	return VerificationID(parsed), nil
}

// ParseDisputeID validates that s is a non-empty, non-nil UUID.
func ParseDisputeID(s string) (DisputeID, error) {
	parsed, err := parseUUID(s, "dispute id")
	if err != nil {
		return DisputeID{}, err
	}
	return DisputeID(parsed), nil
}

// ParseOrgID validates that s is a non-empty, non-nil UUID.
func ParseOrgID(s string) (OrgID, error) {
	parsed, err := parseUUID(s, "org id")
	if err != nil {
		return OrgID{}, err
	}
	return OrgID(parsed), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be the nil UUID")
	}
	return parsed, nil
}
