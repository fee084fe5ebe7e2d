package page

import "github.com/nhle/maintenance-admin/internal/session"

// Actor names the logged-in user in journal entries.
func Actor(s *session.Session) string {
	if s == nil {
		return ""
	}
	if s.User.Username != "" {
		return s.User.Username
	}
	return s.User.Email
}
