package domain

// Role is the closed set of roles a principal can hold. Using a dedicated
// type instead of raw strings means an allowed-role set with a typo fails to
// compile rather than silently denying everyone.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a claim string onto the closed enumeration. Unknown values
// come back as ("", false); callers treat that the same as an absent role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }
