// ABOUTME: Ordered path-pattern access rules evaluated per request
// ABOUTME: First matching rule wins; requests matching no rule are denied

package auth

import (
	"path"
	"strings"
)

// AccessKind is what a rule demands of the caller.
type AccessKind int

const (
	// AccessDeny rejects every caller.
	AccessDeny AccessKind = iota
	// AccessPermitAll lets anonymous callers through.
	AccessPermitAll
	// AccessAuthenticated requires any logged-in principal.
	AccessAuthenticated
	// AccessRole requires a principal holding Access.Role.
	AccessRole
)

// Access is a rule's requirement.
type Access struct {
	Kind AccessKind
	Role string
}

// PermitAll allows anonymous access.
func PermitAll() Access { return Access{Kind: AccessPermitAll} }

// Authenticated requires a logged-in principal.
func Authenticated() Access { return Access{Kind: AccessAuthenticated} }

// HasRole requires a principal holding role.
func HasRole(role string) Access { return Access{Kind: AccessRole, Role: role} }

// Rule binds an Ant-style path pattern to an access requirement.
// "*" matches within one path segment, "**" matches any number of segments.
type Rule struct {
	Pattern string
	Access  Access
}

// Decision is the outcome of evaluating the rules for one request.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// Unauthenticated means the caller must log in first.
	Unauthenticated
	// Forbidden means the caller is logged in but not allowed.
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Rules is an ordered rule list.
type Rules []Rule

// DefaultRules returns the application's access policy.
func DefaultRules() Rules {
	return Rules{
		{Pattern: "/login", Access: PermitAll()},
		{Pattern: "/health", Access: PermitAll()},
		{Pattern: "/logout", Access: Authenticated()},
		{Pattern: "/", Access: HasRole(RoleUser)},
		{Pattern: "/*todo*/**", Access: HasRole(RoleUser)},
		{Pattern: "/help", Access: HasRole(RoleUser)},
	}
}

// Match returns the first rule matching urlPath.
func (rs Rules) Match(urlPath string) (Rule, bool) {
	for _, r := range rs {
		if MatchPattern(r.Pattern, urlPath) {
			return r, true
		}
	}
	return Rule{}, false
}

// Evaluate decides whether principal (nil when anonymous) may access urlPath.
func (rs Rules) Evaluate(urlPath string, principal any) Decision {
	access := Access{Kind: AccessDeny}
	if r, ok := rs.Match(urlPath); ok {
		access = r.Access
	}

	if access.Kind == AccessPermitAll {
		return Allow
	}
	if principal == nil {
		return Unauthenticated
	}

	switch access.Kind {
	case AccessAuthenticated:
		return Allow
	case AccessRole:
		for _, role := range rolesOf(principal) {
			if role == access.Role {
				return Allow
			}
		}
		return Forbidden
	default:
		return Forbidden
	}
}

// MatchPattern reports whether urlPath matches the Ant-style pattern.
func MatchPattern(pattern, urlPath string) bool {
	return matchSegments(splitPath(pattern), splitPath(urlPath))
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segs []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], segs[0])
		if err != nil || !ok {
			return false
		}
		pattern, segs = pattern[1:], segs[1:]
	}
	return len(segs) == 0
}
