// Package identity describes who is making a request.
package identity

import "strings"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// ParseRole normalizes raw into a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleRecruiter:
		return RoleRecruiter, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Principal is the authenticated caller. The zero value is anonymous.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) Authenticated() bool { return strings.TrimSpace(p.ID) != "" }

func (p Principal) Is(role Role) bool { return p.Authenticated() && p.Role == role }

func (p Principal) IsAdmin() bool { return p.Is(RoleAdmin) }
