// Package models provides data structures for the Textloom platform.
package models

import "fmt"

// Role represents a user's role within a project.
type Role string

const (
	RoleOwner      Role = "Owner"      // Full control, including project deletion
	RoleManager    Role = "Manager"    // Can invite members and manage lower roles
	RoleEditor     Role = "Editor"     // Can edit project content
	RoleTranslator Role = "Translator" // Can submit translations
	RoleReviewer   Role = "Reviewer"   // Read and review access only
)

// roleRanks is the single source of truth for role ordering.
// Higher rank means more privilege.
var roleRanks = map[Role]int{
	RoleReviewer:   10,
	RoleTranslator: 20,
	RoleEditor:     30,
	RoleManager:    40,
	RoleOwner:      50,
}

// Rank returns the role's position in the hierarchy. Unknown roles rank
// below every defined role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is a defined role.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r ranks at or above other.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// OutRanks reports whether r ranks strictly above other.
func (r Role) OutRanks(other Role) bool {
	return r.Rank() > other.Rank()
}

// ParseRole validates a wire role string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// ParseInvitableRole validates a role that may be granted through an
// invitation. Owner is never invitable.
func ParseInvitableRole(s string) (Role, error) {
	r, err := ParseRole(s)
	if err != nil {
		return "", err
	}
	if r == RoleOwner {
		return "", fmt.Errorf("role %q cannot be granted by invitation", s)
	}
	return r, nil
}
