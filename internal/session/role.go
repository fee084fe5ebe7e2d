package session

import "strings"

// Role is the typed role tag of a user.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleTechnician
	RoleManager
	RoleAdmin
)

var roleTags = map[Role]string{
	RoleUser:       "usuario",
	RoleTechnician: "tecnico",
	RoleManager:    "gerente",
	RoleAdmin:      "admin",
}

// ParseRole maps a backend role tag to a Role. Unrecognized tags yield
// RoleUnknown, which is denied everything.
func ParseRole(tag string) Role {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for r, t := range roleTags {
		if t == tag {
			return r
		}
	}
	return RoleUnknown
}

// String returns the backend tag for r.
func (r Role) String() string {
	if t, ok := roleTags[r]; ok {
		return t
	}
	return "desconhecido"
}

// Label returns the human label for r.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleManager:
		return "Gerente"
	case RoleTechnician:
		return "Técnico"
	case RoleUser:
		return "Usuário"
	default:
		return "Desconhecido"
	}
}

// Roles lists every known role from least to most privileged.
func Roles() []Role {
	return []Role{RoleUser, RoleTechnician, RoleManager, RoleAdmin}
}
