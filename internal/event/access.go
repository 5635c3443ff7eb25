package event

import (
	"github.com/mithunkr7/event-invite-backend/internal/auth"
)

// ResolveRole determines an actor's role for an event, in precedence order:
// platform admin short-circuits to ADMIN, event ownership yields HOST, a
// co-host row yields COHOST or VIEWER per its stored role, else "" (no
// access). CoHosts must be preloaded on ev.
func ResolveRole(user *auth.User, ev *Event) string {
	if user == nil || ev == nil {
		return ""
	}
	if user.Role.RoleName == auth.RoleAdmin {
		return RoleAdmin
	}
	if ev.HostID == user.ID {
		return RoleHost
	}
	for _, ch := range ev.CoHosts {
		if ch.UserID == user.ID {
			if ch.Role == CoHostRoleViewer {
				return RoleViewer
			}
			return RoleCoHost
		}
	}
	return ""
}

// CanManage reports whether a resolved role may change guests, notifications,
// or event configuration. Viewers and outsiders may not.
func CanManage(role string) bool {
	switch role {
	case RoleAdmin, RoleHost, RoleCoHost:
		return true
	}
	return false
}

// CanRead reports whether a resolved role may see the event's guest data.
func CanRead(role string) bool {
	return role != ""
}
