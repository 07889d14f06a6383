// ABOUTME: HTTP middleware enforcing the access rules on every request
// ABOUTME: Resolves the session principal, checks CSRF on posts, and redirects anonymous callers to login

package auth

import (
	"log/slog"
	"net/http"
)

// LoginPath is where anonymous callers are sent.
const LoginPath = "/login"

// Gate is the request filter in front of every route.
type Gate struct {
	rules    Rules
	sessions *Sessions
	denied   http.Handler
	logger   *slog.Logger
}

// GateConfig configures a Gate.
type GateConfig struct {
	Rules    Rules
	Sessions *Sessions
	// Denied renders the 403 response. Defaults to a plain-text error.
	Denied http.Handler
	Logger *slog.Logger
}

// NewGate creates a gate. A nil rule list means DefaultRules.
func NewGate(cfg GateConfig) *Gate {
	g := &Gate{
		rules:    cfg.Rules,
		sessions: cfg.Sessions,
		denied:   cfg.Denied,
		logger:   cfg.Logger,
	}
	if g.rules == nil {
		g.rules = DefaultRules()
	}
	if g.denied == nil {
		g.denied = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Access Denied", http.StatusForbidden)
		})
	}
	if g.logger == nil {
		g.logger = slog.Default().With("component", "gate")
	}
	return g
}

// Middleware wraps next with CSRF and access checks.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, _ = EnsureCSRFToken(w, r)

		if !safeMethod(r.Method) && !ValidCSRF(r) {
			g.logger.Warn("rejected request with invalid CSRF token", "method", r.Method, "path", r.URL.Path)
			g.denied.ServeHTTP(w, r)
			return
		}

		var principal any
		if p, err := g.sessions.FromRequest(r); err == nil {
			principal = p
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}

		switch g.rules.Evaluate(r.URL.Path, principal) {
		case Allow:
			next.ServeHTTP(w, r)
		case Unauthenticated:
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		default:
			g.logger.Warn("access denied", "path", r.URL.Path, "user", UsernameOf(principal))
			g.denied.ServeHTTP(w, r)
		}
	})
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
