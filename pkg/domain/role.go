package domain

import dErrors "vouch/pkg/domain-errors"

// Role identifies what an authenticated actor may do. The core only ever
// checks role membership and claim ownership as operation preconditions.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleVerifier  Role = "verifier"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

var validRoles = map[Role]bool{
	RoleCandidate: true,
	RoleVerifier:  true,
	RoleEmployer:  true,
	RoleAdmin:     true,
}

// ParseRole constructs a Role from external input (registration payloads,
// token claims). Returns CodeInvalidInput for empty or unknown values.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated principal passed into every service operation.
// It is built by the auth middleware from validated token claims; services
// never look at tokens themselves.
type Actor struct {
	ID   UserID
	Role Role
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role Role) bool {
	return a.Role == role
}
