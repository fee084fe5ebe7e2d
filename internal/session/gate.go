package session

// Requirement describes what a page, section or button needs. Either
// Roles is set (any one role suffices) or Resource and Action are. The
// zero Requirement only asks for a logged-in user.
type Requirement struct {
	Roles    []Role
	Resource Resource
	Action   Action
}

// NeedRoles builds a role-set requirement.
func NeedRoles(roles ...Role) Requirement {
	return Requirement{Roles: roles}
}

// Need builds a resource/action requirement.
func Need(resource Resource, action Action) Requirement {
	return Requirement{Resource: resource, Action: action}
}

// Gate reports whether s satisfies req. It is a UI convenience and not an
// authorization boundary: the backend checks every request on its own.
func Gate(s *Session, req Requirement) bool {
	if !s.Authenticated() {
		return false
	}
	if len(req.Roles) > 0 {
		return s.HasRole(req.Roles...)
	}
	if req.Resource == "" && req.Action == "" {
		return true
	}
	return s.Can(req.Resource, req.Action)
}

// Guard returns body when s satisfies req and DeniedMessage otherwise.
func Guard(s *Session, req Requirement, body func() string) string {
	if !Gate(s, req) {
		return DeniedMessage
	}
	return body()
}
