// ABOUTME: In-memory credential registry with bcrypt password hashes
// ABOUTME: Ships the single built-in in28Minutes principal

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when a username/password pair is rejected.
var ErrBadCredentials = errors.New("bad credentials")

// Built-in login.
const (
	DefaultUsername = "in28Minutes"
	defaultPassword = "dummy"
)

// dummyHash is compared against when the user is unknown so that lookups of
// missing and existing users take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type userRecord struct {
	passwordHash []byte
	roles        []string
}

// Users authenticates username/password pairs.
type Users struct {
	users map[string]userRecord
}

// NewUsers creates an empty registry.
func NewUsers() *Users {
	return &Users{users: make(map[string]userRecord)}
}

// DefaultUsers returns the registry holding the single built-in principal
// with roles USER and ADMIN.
func DefaultUsers() (*Users, error) {
	u := NewUsers()
	if err := u.Add(DefaultUsername, defaultPassword, RoleUser, RoleAdmin); err != nil {
		return nil, err
	}
	return u, nil
}

// Add registers a user, hashing the password with bcrypt.
func (u *Users) Add(username, password string, roles ...string) error {
	if username == "" {
		return errors.New("username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.users[username] = userRecord{
		passwordHash: hash,
		roles:        append([]string(nil), roles...),
	}
	return nil
}

// Authenticate checks the credentials and returns the matching principal.
// Usernames are matched exactly.
func (u *Users) Authenticate(username, password string) (*Principal, error) {
	rec, ok := u.users[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	return &Principal{
		Name:  username,
		Roles: append([]string(nil), rec.roles...),
	}, nil
}
