package entities

import "time"

// GlobalRole is a system-wide role of a user.
type GlobalRole string

const (
	// RoleUser is the default role.
	RoleUser GlobalRole = "user"
	// RoleManager may evaluate tasks.
	RoleManager GlobalRole = "manager"
	// RoleAdmin bypasses most team checks.
	RoleAdmin GlobalRole = "admin"
)

// Valid reports whether r is a known global role.
func (r GlobalRole) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is a domain representation of an account.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         GlobalRole
	CreatedAt    time.Time
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserTeam is a membership as seen from the user side.
type UserTeam struct {
	TeamID   int64
	TeamName string
	Role     TeamRole
}

// UserWithTeams is a user together with its memberships.
type UserWithTeams struct {
	User
	Teams []UserTeam
}

// UserUpdate is a partial user update. Nil fields are left untouched.
// Password is the plaintext supplied by the caller; storage only reads PasswordHash.
type UserUpdate struct {
	Email        *string
	FirstName    *string
	LastName     *string
	Password     *string
	PasswordHash *string
}

// Credentials is the login projection of a user.
type Credentials struct {
	UserID       int64
	PasswordHash string
	Role         GlobalRole
	Teams        []Membership
}

// Membership is a compact (team, role) pair carried in tokens.
type Membership struct {
	TeamID int64    `json:"team_id"`
	Role   TeamRole `json:"role"`
}
