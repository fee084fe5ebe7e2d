package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return New(keyring.NewArrayKeyring(nil))
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore()

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok, "no token stored yet")

	require.NoError(t, s.SaveToken("abc.def.ghi"))
	tok, err = s.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	require.NoError(t, s.ClearToken())
	tok, err = s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore()

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	s := newTestStore()
	assert.NoError(t, s.Delete("nope"))
}
