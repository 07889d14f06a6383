// ABOUTME: Tests for principal context helpers
// ABOUTME: Covers structured and fallback username resolution

package auth

import (
	"context"
	"testing"
)

type plainStringer struct{ name string }

func (p plainStringer) String() string { return "stringer:" + p.name }

func TestUsernameOf(t *testing.T) {
	tests := []struct {
		name      string
		principal any
		want      string
	}{
		{"nil", nil, ""},
		{"principal", &Principal{Name: "in28Minutes", Roles: []string{RoleUser}}, "in28Minutes"},
		{"stringer", plainStringer{name: "bob"}, "stringer:bob"},
		{"plain string", "alice", "alice"},
		{"number", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UsernameOf(tt.principal); got != tt.want {
				t.Errorf("UsernameOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromContext_Present(t *testing.T) {
	p := &Principal{Name: "in28Minutes"}
	ctx := WithPrincipal(context.Background(), p)

	got, ok := FromContext(ctx).(*Principal)
	if !ok {
		t.Fatalf("FromContext() type = %T, want *Principal", FromContext(ctx))
	}
	if got != p {
		t.Error("expected the same principal back")
	}
	if CurrentUser(ctx) != "in28Minutes" {
		t.Errorf("CurrentUser() = %q", CurrentUser(ctx))
	}
}

func TestFromContext_Missing(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
	if got := CurrentUser(context.Background()); got != "" {
		t.Errorf("CurrentUser() = %q, want empty", got)
	}
}

func TestPrincipal_HasRole(t *testing.T) {
	p := &Principal{Name: "x", Roles: []string{RoleUser, RoleAdmin}}
	if !p.HasRole(RoleAdmin) {
		t.Error("expected ADMIN role")
	}
	if p.HasRole("OWNER") {
		t.Error("unexpected OWNER role")
	}
}
