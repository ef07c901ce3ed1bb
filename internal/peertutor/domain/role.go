package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Role is a capability level. Levels are ordered and AtLeast is the only
// comparison callers should make.
type Role int

const (
	RoleUser  Role = 0
	RoleAdmin Role = 2
)

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// Valid reports whether r is one of the named roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole accepts a role name ("user", "admin") or its level ("0", "2").
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || !Role(n).Valid() {
		return 0, fmt.Errorf("unknown role %q", s)
	}
	return Role(n), nil
}
