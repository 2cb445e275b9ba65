package token

import "fmt"

// Role is the access level carried by a session token.
type Role string

const (
	// RoleNone is the role of a guest session.
	RoleNone      Role = ""
	RoleUser      Role = "user"
	RoleLibrarian Role = "librarian"
)

// ParseRole converts a claim value into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleUser, RoleLibrarian:
		return Role(value), nil
	default:
		return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, value)
	}
}

func (r Role) String() string {
	if r == RoleNone {
		return "guest"
	}
	return string(r)
}

// Identity is the claim payload of a session token.
// It is advisory: the backend re-checks every request on its own.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
