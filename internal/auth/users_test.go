// ABOUTME: Tests for the credential registry
// ABOUTME: Covers the built-in user, wrong passwords, and unknown users

package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUsers_Authenticate(t *testing.T) {
	users, err := DefaultUsers()
	require.NoError(t, err)

	p, err := users.Authenticate("in28Minutes", "dummy")
	require.NoError(t, err)
	assert.Equal(t, "in28Minutes", p.Username())
	assert.ElementsMatch(t, []string{RoleUser, RoleAdmin}, p.Roles)
}

func TestUsers_Authenticate_Rejects(t *testing.T) {
	users, err := DefaultUsers()
	require.NoError(t, err)

	tests := []struct {
		name, username, password string
	}{
		{"wrong password", "in28Minutes", "wrong"},
		{"unknown user", "nobody", "dummy"},
		{"username is case sensitive", "IN28MINUTES", "dummy"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := users.Authenticate(tt.username, tt.password)
			if !errors.Is(err, ErrBadCredentials) {
				t.Errorf("Authenticate() error = %v, want ErrBadCredentials", err)
			}
			if p != nil {
				t.Errorf("Authenticate() principal = %v, want nil", p)
			}
		})
	}
}

func TestUsers_AddRequiresName(t *testing.T) {
	assert.Error(t, NewUsers().Add("", "pw"))
}

func TestUsers_RolesAreCopied(t *testing.T) {
	users := NewUsers()
	require.NoError(t, users.Add("bob", "pw", RoleUser))

	p, err := users.Authenticate("bob", "pw")
	require.NoError(t, err)
	p.Roles[0] = RoleAdmin

	again, err := users.Authenticate("bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, []string{RoleUser}, again.Roles)
}
