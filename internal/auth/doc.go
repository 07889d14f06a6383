// Package auth provides form-login authentication and path-based authorization
// for the todo web application.
//
// # Principals
//
// A logged-in caller is a *Principal with a name and a set of roles. Handlers
// read it back with FromContext or CurrentUser. UsernameOf accepts any
// principal value: structured identities report their Username, everything
// else falls back to its string form.
//
// # Sessions
//
// Sessions are HS256 JWTs stored in the todo_session cookie. Each token carries
// a unique ID so that logout can revoke it before it expires.
//
// # Access rules
//
// Rules is an ordered list of Ant-style path patterns. The first matching rule
// decides; a path matching no rule is denied. Anonymous callers hitting a
// protected path are redirected to /login, logged-in callers lacking the
// required role get 403.
//
// # CSRF
//
// Every non-safe request must echo the todo_csrf cookie value in the
// csrf_token form field or the X-CSRF-Token header.
package auth
