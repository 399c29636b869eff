package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mock = Credentials{Username: "test", Password: "1234"}

func TestLogin(t *testing.T) {
	s := NewSession(true, mock)
	assert.False(t, s.LoggedIn())

	assert.ErrorIs(t, s.Login("", "1234"), ErrEmptyCredentials)
	assert.ErrorIs(t, s.Login("test", ""), ErrEmptyCredentials)
	assert.ErrorIs(t, s.Login("test", "12345"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.Login("Test", "1234"), ErrInvalidCredentials)
	assert.False(t, s.LoggedIn())

	require.NoError(t, s.Login("  test ", "1234"))
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "test", s.User())

	s.Logout()
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.User())
}

func TestNotRequired(t *testing.T) {
	s := NewSession(false, mock)
	assert.False(t, s.Required())
	assert.True(t, s.LoggedIn())
	s.Logout()
	assert.True(t, s.LoggedIn())
}
