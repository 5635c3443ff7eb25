package event

import (
	"testing"

	"github.com/mithunkr7/event-invite-backend/internal/auth"
)

func userWithRole(id uint, roleName string) *auth.User {
	return &auth.User{ID: id, Role: auth.UserRole{RoleName: roleName}}
}

func TestResolveRole(t *testing.T) {
	ev := &Event{
		ID:     1,
		HostID: 10,
		CoHosts: []CoHost{
			{EventID: 1, UserID: 20, Role: CoHostRoleCoHost},
			{EventID: 1, UserID: 30, Role: CoHostRoleViewer},
		},
	}

	t.Run("platform admin short-circuits", func(t *testing.T) {
		// Admin wins even when the same user also owns the event.
		admin := userWithRole(10, auth.RoleAdmin)
		if got := ResolveRole(admin, ev); got != RoleAdmin {
			t.Fatalf("got %q, want ADMIN", got)
		}
	})

	t.Run("ownership yields HOST", func(t *testing.T) {
		if got := ResolveRole(userWithRole(10, auth.RoleHost), ev); got != RoleHost {
			t.Fatalf("got %q, want HOST", got)
		}
	})

	t.Run("cohost row yields COHOST or VIEWER", func(t *testing.T) {
		if got := ResolveRole(userWithRole(20, auth.RoleMember), ev); got != RoleCoHost {
			t.Fatalf("got %q, want COHOST", got)
		}
		if got := ResolveRole(userWithRole(30, auth.RoleMember), ev); got != RoleViewer {
			t.Fatalf("got %q, want VIEWER", got)
		}
	})

	t.Run("stranger has no access", func(t *testing.T) {
		if got := ResolveRole(userWithRole(99, auth.RoleHost), ev); got != "" {
			t.Fatalf("got %q, want empty", got)
		}
	})

	t.Run("nil inputs resolve to no access", func(t *testing.T) {
		if ResolveRole(nil, ev) != "" || ResolveRole(userWithRole(10, auth.RoleHost), nil) != "" {
			t.Fatal("nil user or event must resolve to no access")
		}
	})
}

func TestCanManage(t *testing.T) {
	allowed := []string{RoleAdmin, RoleHost, RoleCoHost}
	for _, role := range allowed {
		if !CanManage(role) {
			t.Errorf("%s must be able to manage", role)
		}
	}
	if CanManage(RoleViewer) {
		t.Error("viewer must not manage")
	}
	if CanManage("") {
		t.Error("no access must not manage")
	}
}

func TestCanRead(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleHost, RoleCoHost, RoleViewer} {
		if !CanRead(role) {
			t.Errorf("%s must be able to read", role)
		}
	}
	if CanRead("") {
		t.Error("no access must not read")
	}
}
