package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nhle/maintenance-admin/internal/model"
)

// DeniedMessage replaces the body of a page the session may not see.
const DeniedMessage = "Acesso negado: você não tem permissão para acessar esta página."

// ErrTokenExpired is returned by Restore when the stored token has expired.
var ErrTokenExpired = errors.New("token expired")

// Session is the identity of the logged-in user. It is passed explicitly
// to every page; a nil *Session means nobody is logged in.
type Session struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}

// Claims are the fields the backend puts in its JWTs.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the claims of token without verifying its signature.
// The signing key lives on the backend; the client only reads the claims
// to decide whether a stored token is still worth presenting.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing token claims: %w", err)
	}
	return claims, nil
}

// New builds a session from a login response.
func New(token string, user model.User) *Session {
	s := &Session{User: user, Token: token}
	if claims, err := ParseClaims(token); err == nil && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

// Restore rebuilds a session from a persisted token using only its claims.
// The user profile is partial until refreshed from the backend.
func Restore(token string, now time.Time) (*Session, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	s := &Session{
		Token: token,
		User: model.User{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
			Role:     claims.Role,
			Ativo:    true,
		},
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// WithUser returns a copy of s carrying the refreshed profile u.
func (s *Session) WithUser(u model.User) *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.User = u
	return &cp
}

// Authenticated reports whether s belongs to a logged-in, active user.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User.Ativo
}

// Expired reports whether the token has a known expiry at or before now.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Role returns the typed role of the session user.
func (s *Session) Role() Role {
	if s == nil {
		return RoleUnknown
	}
	return ParseRole(s.User.Role)
}

// HasRole reports whether the session user holds any of roles.
func (s *Session) HasRole(roles ...Role) bool {
	if !s.Authenticated() {
		return false
	}
	r := s.Role()
	for _, want := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// Can reports whether the session user may perform action on resource.
func (s *Session) Can(resource Resource, action Action) bool {
	if !s.Authenticated() {
		return false
	}
	return Allowed(s.Role(), resource, action)
}
