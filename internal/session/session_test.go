package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maintenance-admin/internal/model"
)

func signToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID:   7,
		Username: "maria",
		Email:    "maria@example.com",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":   RoleAdmin,
		" Admin ": RoleAdmin,
		"gerente": RoleManager,
		"tecnico": RoleTechnician,
		"usuario": RoleUser,
		"root":    RoleUnknown,
		"":        RoleUnknown,
	}
	for tag, want := range cases {
		assert.Equal(t, want, ParseRole(tag), "tag %q", tag)
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for _, r := range Roles() {
		assert.Equal(t, r, ParseRole(r.String()))
	}
}

func TestAllowedTable(t *testing.T) {
	assert.True(t, Allowed(RoleAdmin, ResourceSectors, ActionDelete))
	assert.True(t, Allowed(RoleManager, ResourceSectors, ActionUpdate))
	assert.False(t, Allowed(RoleManager, ResourceSectors, ActionDelete))
	assert.True(t, Allowed(RoleTechnician, ResourceSectors, ActionView))
	assert.False(t, Allowed(RoleTechnician, ResourceNotifications, ActionView))
	assert.False(t, Allowed(RoleUser, ResourceSectors, ActionView))
	assert.False(t, Allowed(RoleUnknown, ResourceDashboard, ActionView))
}

func TestGate(t *testing.T) {
	admin := &Session{Token: "t", User: model.User{Role: "admin", Ativo: true}}
	tech := &Session{Token: "t", User: model.User{Role: "tecnico", Ativo: true}}
	inactive := &Session{Token: "t", User: model.User{Role: "admin", Ativo: false}}

	assert.True(t, Gate(admin, NeedRoles(RoleAdmin, RoleManager)))
	assert.False(t, Gate(tech, NeedRoles(RoleAdmin, RoleManager)))
	assert.True(t, Gate(tech, Need(ResourceSectors, ActionView)))
	assert.False(t, Gate(tech, Need(ResourceSectors, ActionCreate)))
	assert.True(t, Gate(tech, Requirement{}))

	assert.False(t, Gate(nil, Requirement{}), "nil session is denied")
	assert.False(t, Gate(inactive, Need(ResourceSectors, ActionView)))
}

func TestGuardRendersDeniedMessage(t *testing.T) {
	tech := &Session{Token: "t", User: model.User{Role: "tecnico", Ativo: true}}
	body := func() string { return "page body" }

	assert.Equal(t, DeniedMessage, Guard(tech, Need(ResourceNotifications, ActionView), body))
	assert.Equal(t, "page body", Guard(tech, Need(ResourceSectors, ActionView), body))
	assert.Equal(t, DeniedMessage, Guard(nil, Requirement{}, body))
}

func TestRestore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s, err := Restore(signToken(t, "gerente", now.Add(time.Hour)), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.User.ID)
	assert.Equal(t, "maria", s.User.Username)
	assert.Equal(t, RoleManager, s.Role())
	assert.True(t, s.Authenticated())
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))

	_, err = Restore(signToken(t, "gerente", now.Add(-time.Minute)), now)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = Restore("not-a-jwt", now)
	assert.Error(t, err)
}

func TestNewReadsExpiry(t *testing.T) {
	exp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s := New(signToken(t, "admin", exp), model.User{ID: 1, Role: "admin", Ativo: true})
	assert.True(t, s.ExpiresAt.Equal(exp))

	opaque := New("opaque-token", model.User{ID: 1, Role: "admin", Ativo: true})
	assert.True(t, opaque.ExpiresAt.IsZero())
	assert.False(t, opaque.Expired(time.Now()))
}

func TestWithUserCopies(t *testing.T) {
	s := &Session{Token: "t", User: model.User{Nome: "old", Ativo: true}}
	s2 := s.WithUser(model.User{Nome: "new", Ativo: true})
	assert.Equal(t, "old", s.User.Nome)
	assert.Equal(t, "new", s2.User.Nome)
	assert.Equal(t, "t", s2.Token)

	var none *Session
	assert.Nil(t, none.WithUser(model.User{}))
}
