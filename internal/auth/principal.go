// Package auth issues and validates JWTs and hashes passwords.
package auth

import (
	"context"

	"team-task-manager/internal/entities"
)

// Principal represents the authenticated caller from JWT.
type Principal struct {
	UserID int64
	Role   entities.GlobalRole
	Teams  []entities.Membership
}

// IsAdmin reports whether the caller holds the global admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == entities.RoleAdmin
}

// TeamRole returns the caller role in a team and whether the caller is a member.
func (p *Principal) TeamRole(teamID int64) (entities.TeamRole, bool) {
	for _, m := range p.Teams {
		if m.TeamID == teamID {
			return m.Role, true
		}
	}
	return "", false
}

// ManagesAnyTeam reports whether the caller is MANAGER in at least one team.
func (p *Principal) ManagesAnyTeam() bool {
	for _, m := range p.Teams {
		if m.Role == entities.TeamRoleManager {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
