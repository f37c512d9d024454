package entities

import "time"

// TeamRole is a role of a member inside a team.
type TeamRole string

const (
	// TeamRoleManager manages tasks of the team.
	TeamRoleManager TeamRole = "MANAGER"
	// TeamRoleExecutor works on tasks.
	TeamRoleExecutor TeamRole = "EXECUTOR"
)

// Valid reports whether r is a known team role.
func (r TeamRole) Valid() bool {
	return r == TeamRoleManager || r == TeamRoleExecutor
}

// Team is a named group of users.
type Team struct {
	ID                  int64
	Name                string
	Description         string
	InviteCode          string
	InviteCodeExpiresAt time.Time
	IsActive            bool
	CreatedAt           time.Time
}

// TeamUpdate is a partial team update. The invite fields are set by the service
// whenever the name changes or a new code is requested.
type TeamUpdate struct {
	Name                *string
	Description         *string
	IsActive            *bool
	InviteCode          *string
	InviteCodeExpiresAt *time.Time
}

// TeamMember is a flat view of a membership joined with the user.
type TeamMember struct {
	UserID    int64
	Email     string
	FirstName string
	LastName  string
	Role      TeamRole
	JoinedAt  time.Time
	UpdatedAt time.Time
}

// TeamDetails is a team with members and tasks.
type TeamDetails struct {
	Team
	Members []TeamMember
	Tasks   []TaskDetails
}

// MemberAdd requests adding a user by email.
type MemberAdd struct {
	Email string
	Role  TeamRole
}

// AddedUser describes a user that was added by a bulk operation.
type AddedUser struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
}

// BulkAddResult reports per-entry outcome of a bulk add.
type BulkAddResult struct {
	Added  []AddedUser
	Errors []string
}

// BulkRemoveResult reports which ids were removed.
type BulkRemoveResult struct {
	Removed  []int64
	NotFound []int64
}
