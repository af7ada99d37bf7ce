package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_NormalizesEmail(t *testing.T) {
	user, err := NewUser(1, " alice ", " Alice@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)

	_, err = NewUser(1, "bob", "bob.example.com")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser(1, "", "bob@example.com")
	require.ErrorIs(t, err, ErrEmptyUsername)
}

func TestUser_DisplayName(t *testing.T) {
	user := &User{Username: "alice"}
	require.Equal(t, "alice", user.DisplayName())

	user.UpdateProfile(" Alice ", "Liddell", "")
	require.Equal(t, "Alice Liddell", user.DisplayName())
}
