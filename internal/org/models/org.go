// Package models defines the organization registry aggregate. Verifiers
// attach an organization to their decisions; admins vouch for the
// organizations themselves.
package models

import (
	"time"

	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

type OrgStatus string

const (
	OrgUnverified OrgStatus = "unverified"
	OrgPending    OrgStatus = "pending"
	OrgVerified   OrgStatus = "verified"
)

var validStatuses = map[OrgStatus]bool{
	OrgUnverified: true,
	OrgPending:    true,
	OrgVerified:   true,
}

func ParseOrgStatus(s string) (OrgStatus, error) {
	status := OrgStatus(s)
	if !validStatuses[status] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid organization status: "+s)
	}
	return status, nil
}

func (s OrgStatus) String() string { return string(s) }

type Organization struct {
	ID                 id.OrgID  `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number,omitempty"`
	ContactEmail       string    `json:"contact_email"`
	Status             OrgStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewOrganization(orgID id.OrgID, name, registrationNumber, contactEmail string, now time.Time) (*Organization, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if contactEmail == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "contact_email is required")
	}
	return &Organization{
		ID:                 orgID,
		Name:               name,
		RegistrationNumber: registrationNumber,
		ContactEmail:       contactEmail,
		Status:             OrgUnverified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// SetStatus records an admin's registry decision.
func (o *Organization) SetStatus(status OrgStatus, now time.Time) error {
	if !validStatuses[status] {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid organization status: "+string(status))
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}
