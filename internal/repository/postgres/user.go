package postgres

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	userColumns = "id, email, first_name, last_name, password_hash, role, created_at"

	insertUserQuery = `
INSERT INTO users(email, first_name, last_name, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns
	listUsersQuery       = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	selectUserQuery      = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	selectUserByEmail    = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	selectUserTeamsQuery = `
SELECT tu.team_id, t.name, tu.role
FROM team_users tu
JOIN teams t ON t.id = tu.team_id
WHERE tu.user_id=$1
ORDER BY tu.team_id`
	updateUserQuery = `
UPDATE users SET
    email = COALESCE($2, email),
    first_name = COALESCE($3, first_name),
    last_name = COALESCE($4, last_name),
    password_hash = COALESCE($5, password_hash)
WHERE id=$1
RETURNING ` + userColumns
	setUserRoleQuery  = `UPDATE users SET role=$2 WHERE id=$1 RETURNING ` + userColumns
	deleteUserQuery   = `DELETE FROM users WHERE id=$1`
	selectCredentials = `SELECT id, password_hash, role FROM users WHERE email=$1`
	selectMemberships = `SELECT team_id, role FROM team_users WHERE user_id=$1 ORDER BY team_id`
	missingUsersQuery = `
SELECT x FROM unnest($1::bigint[]) AS x
WHERE NOT EXISTS (SELECT 1 FROM users u WHERE u.id = x)
ORDER BY x`
)

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]entities.User, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return entities.User{}, err
		}
		return *u, nil
	})
}

// CreateUser inserts a user whose password is already hashed.
func (p *Postgres) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	created, err := scanUser(p.db.QueryRow(ctx, insertUserQuery,
		user.Email, user.FirstName, user.LastName, user.PasswordHash, user.Role))
	if err != nil {
		if violates(err, codeUniqueViolation, "") {
			return nil, entities.ErrEmailTaken
		}
		p.log.Errorw("failed to insert user", "error", err, "email", user.Email)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	p.log.Infow("user created", "user_id", created.ID)
	return created, nil
}

// ListUsers returns all users ordered by id.
func (p *Postgres) ListUsers(ctx context.Context) ([]entities.User, error) {
	rows, err := p.db.Query(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}

// GetUser fetches user by id.
func (p *Postgres) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	return p.getUser(ctx, p.db, selectUserQuery, userID)
}

// GetUserByEmail fetches user by email.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return p.getUser(ctx, p.db, selectUserByEmail, email)
}

func (p *Postgres) getUser(ctx context.Context, q querier, query string, arg any) (*entities.User, error) {
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserWithTeams fetches user and its team memberships.
func (p *Postgres) GetUserWithTeams(ctx context.Context, userID int64) (*entities.UserWithTeams, error) {
	u, err := p.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, selectUserTeamsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("get user teams: %w", err)
	}
	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.UserTeam, error) {
		var t entities.UserTeam
		err := row.Scan(&t.TeamID, &t.TeamName, &t.Role)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan user teams: %w", err)
	}

	return &entities.UserWithTeams{User: *u, Teams: teams}, nil
}

// UpdateUser applies a partial update. Only PasswordHash is persisted for passwords.
func (p *Postgres) UpdateUser(ctx context.Context, userID int64, upd entities.UserUpdate) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, updateUserQuery,
		userID, upd.Email, upd.FirstName, upd.LastName, upd.PasswordHash))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, entities.ErrUserNotFound
		case violates(err, codeUniqueViolation, ""):
			return nil, entities.ErrEmailTaken
		}
		p.log.Errorw("failed to update user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// SetUserRole changes the global role of a user.
func (p *Postgres) SetUserRole(ctx context.Context, userID int64, role entities.GlobalRole) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, setUserRoleQuery, userID, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("set user role: %w", err)
	}

	p.log.Infow("user role updated", "user_id", userID, "role", role)
	return u, nil
}

// DeleteUser removes a user with its memberships.
func (p *Postgres) DeleteUser(ctx context.Context, userID int64) error {
	tag, err := p.db.Exec(ctx, deleteUserQuery, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

// GetCredentials returns the login projection of a user by email.
func (p *Postgres) GetCredentials(ctx context.Context, email string) (*entities.Credentials, error) {
	var c entities.Credentials
	if err := p.db.QueryRow(ctx, selectCredentials, email).Scan(&c.UserID, &c.PasswordHash, &c.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	rows, err := p.db.Query(ctx, selectMemberships, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("get memberships: %w", err)
	}
	c.Teams, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Membership, error) {
		var m entities.Membership
		err := row.Scan(&m.TeamID, &m.Role)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan memberships: %w", err)
	}
	return &c, nil
}

// MissingUsers returns the subset of ids without a user row, sorted ascending.
func (p *Postgres) MissingUsers(ctx context.Context, userIDs []int64) ([]int64, error) {
	return missingUsers(ctx, p.db, userIDs)
}

func missingUsers(ctx context.Context, q querier, userIDs []int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := q.Query(ctx, missingUsersQuery, userIDs)
	if err != nil {
		return nil, fmt.Errorf("check users: %w", err)
	}
	ids, err := collectIDs(rows)
	if err != nil {
		return nil, fmt.Errorf("scan missing users: %w", err)
	}
	return ids, nil
}
