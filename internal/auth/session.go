// ABOUTME: Cookie sessions carried as HS256 JWTs with a server-side revocation list
// ABOUTME: Logout revokes the token ID; a background loop prunes expired revocations

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "todo_session"

	// DefaultSessionDuration is used when no duration is configured.
	DefaultSessionDuration = 12 * time.Hour

	// MinSecretLength is the minimum accepted HMAC secret size in bytes.
	MinSecretLength = 32
)

// Session errors
var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
	ErrRevokedSession = errors.New("session revoked")
)

// sessionClaims is the JWT payload stored in the session cookie.
type sessionClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies session cookies.
type Sessions struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token ID -> token expiry
	cancel  context.CancelFunc
}

// NewSessions creates a session manager. An empty secret is replaced by a
// random one, so sessions do not survive a restart.
func NewSessions(secret []byte, duration time.Duration) (*Sessions, error) {
	if len(secret) == 0 {
		secret = make([]byte, MinSecretLength)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Sessions{
		secret:   secret,
		duration: duration,
		now:      time.Now,
		revoked:  make(map[string]time.Time),
		cancel:   cancel,
	}
	go s.cleanupLoop(ctx)
	return s, nil
}

// Close stops the cleanup goroutine.
func (s *Sessions) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Issue signs a session token for the principal.
func (s *Sessions) Issue(p *Principal) (token string, expiresAt time.Time, err error) {
	now := s.now()
	expiresAt = now.Add(s.duration)
	claims := sessionClaims{
		Roles: p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session: %w", err)
	}
	return token, expiresAt, nil
}

// Verify validates a session token and returns its principal.
func (s *Sessions) Verify(tokenString string) (*Principal, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, ErrRevokedSession
	}

	return &Principal{Name: claims.Subject, Roles: claims.Roles}, nil
}

// Revoke invalidates a session token until it would have expired anyway.
// Invalid tokens are ignored.
func (s *Sessions) Revoke(tokenString string) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[claims.ID] = claims.ExpiresAt.Time
}

func (s *Sessions) parse(tokenString string) (*sessionClaims, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return &claims, nil
}

// FromRequest returns the principal of the request's session cookie.
func (s *Sessions) FromRequest(r *http.Request) (*Principal, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidSession
	}
	return s.Verify(cookie.Value)
}

// Start issues a session for p and sets the cookie.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request, p *Principal) error {
	token, expiresAt, err := s.Issue(p)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End revokes the request's session and clears the cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		s.Revoke(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (s *Sessions) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pruneRevoked()
		}
	}
}

// pruneRevoked forgets revocations of tokens that have expired on their own.
func (s *Sessions) pruneRevoked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
}
