package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLogout(t *testing.T) {
	svc, err := New("demo", "warung123")
	require.NoError(t, err)

	_, _, err = svc.Login("demo", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("someone", "warung123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, svc.User())

	user, token, err := svc.Login("demo", "warung123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "demo", user.Username)
	assert.Equal(t, "cashier", user.Role)
	assert.Equal(t, token, svc.Token())
	assert.Equal(t, user, svc.User())

	svc.Logout()
	assert.Nil(t, svc.User())
	assert.Empty(t, svc.Token())
}
