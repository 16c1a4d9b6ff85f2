// Package access derives the per-request access context from the identity
// claims the auth middleware stored. Everything downstream that touches
// person rows takes one of these instead of re-reading the request.
package access

import (
	"context"

	"lineage/internal/identity"
	"lineage/internal/platform/middleware"
)

// Context is the accessor's view of the world: who they are and whether
// they may see non-public records they do not own.
type Context struct {
	UserID        int64
	Authenticated bool
	Privileged    bool
}

// Anonymous is the access context of an unauthenticated request.
var Anonymous = Context{}

// FromRequestContext builds an access context from middleware-populated
// request context. Missing claims yield the anonymous context.
func FromRequestContext(ctx context.Context) Context {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		return Anonymous
	}
	return Context{
		UserID:        userID,
		Authenticated: true,
		Privileged:    isPrivileged(middleware.GetRoles(ctx)),
	}
}

func isPrivileged(roles []string) bool {
	for _, role := range roles {
		if role == identity.RoleAdmin || role == identity.RoleModerator {
			return true
		}
	}
	return false
}
