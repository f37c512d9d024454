package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	teamUsersTeamFK = "team_users_team_id_fkey"

	selectUserIDByEmail = `SELECT id, email, first_name, last_name FROM users WHERE email=$1`
	insertMemberQuery   = `
INSERT INTO team_users(team_id, user_id, role)
VALUES ($1, $2, $3)
RETURNING joined_at, updated_at`
	selectCandidatesByEmail = `
SELECT u.id, u.email, u.first_name, u.last_name, tu.user_id IS NOT NULL
FROM users u
LEFT JOIN team_users tu ON tu.user_id = u.id AND tu.team_id = $1
WHERE u.email = ANY($2)`
	joinMemberQuery    = `INSERT INTO team_users(team_id, user_id, role) VALUES ($1, $2, $3)`
	deleteMemberQuery  = `DELETE FROM team_users WHERE team_id=$1 AND user_id=$2`
	deleteMembersQuery = `DELETE FROM team_users WHERE team_id=$1 AND user_id = ANY($2) RETURNING user_id`
	updateMemberRole   = `UPDATE team_users SET role=$3, updated_at=NOW() WHERE team_id=$1 AND user_id=$2`
	listTeamUsersQuery = `
SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.role, u.created_at
FROM users u
JOIN team_users tu ON tu.user_id = u.id
WHERE tu.team_id=$1
ORDER BY u.id`
)

func memberWriteError(err error) error {
	switch {
	case violates(err, codeUniqueViolation, ""):
		return entities.ErrAlreadyMember
	case violates(err, codeForeignKeyViolation, teamUsersTeamFK):
		return entities.ErrTeamNotFound
	case violates(err, codeForeignKeyViolation, ""):
		return entities.ErrUserNotFound
	}
	return nil
}

// AddTeamMember adds the user with the given email to a team.
func (p *Postgres) AddTeamMember(ctx context.Context, teamID int64, add entities.MemberAdd) (*entities.TeamMember, error) {
	var m entities.TeamMember
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, selectUserIDByEmail, add.Email).Scan(&m.UserID, &m.Email, &m.FirstName, &m.LastName); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrUserNotFound
			}
			return fmt.Errorf("lookup user: %w", err)
		}
		if err := tx.QueryRow(ctx, insertMemberQuery, teamID, m.UserID, add.Role).Scan(&m.JoinedAt, &m.UpdatedAt); err != nil {
			if mapped := memberWriteError(err); mapped != nil {
				return mapped
			}
			return fmt.Errorf("insert member: %w", err)
		}
		m.Role = add.Role
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("team member added", "team_id", teamID, "user_id", m.UserID, "role", m.Role)
	return &m, nil
}

// AddTeamMembers adds users by email, collecting a message for every entry that could not be added.
func (p *Postgres) AddTeamMembers(ctx context.Context, teamID int64, adds []entities.MemberAdd) (entities.BulkAddResult, error) {
	res := entities.BulkAddResult{Added: []entities.AddedUser{}, Errors: []string{}}

	emails := make([]string, 0, len(adds))
	for _, a := range adds {
		emails = append(emails, a.Email)
	}

	type candidate struct {
		user   entities.AddedUser
		member bool
	}

	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := p.getTeamTx(ctx, tx, teamID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, selectCandidatesByEmail, teamID, emails)
		if err != nil {
			return fmt.Errorf("select candidates: %w", err)
		}
		found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (candidate, error) {
			var c candidate
			err := row.Scan(&c.user.ID, &c.user.Email, &c.user.FirstName, &c.user.LastName, &c.member)
			return c, err
		})
		if err != nil {
			return fmt.Errorf("scan candidates: %w", err)
		}

		byEmail := make(map[string]candidate, len(found))
		for _, c := range found {
			byEmail[c.user.Email] = c
		}

		for _, a := range adds {
			c, ok := byEmail[a.Email]
			switch {
			case !ok:
				res.Errors = append(res.Errors, fmt.Sprintf("User with email %s not found", a.Email))
				continue
			case c.member:
				res.Errors = append(res.Errors, fmt.Sprintf("User with email %s is already a member of the team", a.Email))
				continue
			}

			if _, err := tx.Exec(ctx, joinMemberQuery, teamID, c.user.ID, a.Role); err != nil {
				return fmt.Errorf("insert member: %w", err)
			}
			c.member = true
			byEmail[a.Email] = c
			res.Added = append(res.Added, c.user)
		}
		return nil
	})
	if err != nil {
		return entities.BulkAddResult{}, err
	}

	p.log.Infow("team members added", "team_id", teamID, "added", len(res.Added), "errors", len(res.Errors))
	return res, nil
}

func (p *Postgres) getTeamTx(ctx context.Context, q querier, teamID int64) (*entities.Team, error) {
	t, err := scanTeam(q.QueryRow(ctx, selectTeamQuery, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

// JoinTeam inserts a membership for an existing user id.
func (p *Postgres) JoinTeam(ctx context.Context, teamID, userID int64, role entities.TeamRole) error {
	if _, err := p.db.Exec(ctx, joinMemberQuery, teamID, userID, role); err != nil {
		if mapped := memberWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("join team: %w", err)
	}
	p.log.Infow("user joined team", "team_id", teamID, "user_id", userID)
	return nil
}

// RemoveTeamMember deletes a single membership.
func (p *Postgres) RemoveTeamMember(ctx context.Context, teamID, userID int64) error {
	tag, err := p.db.Exec(ctx, deleteMemberQuery, teamID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotMember
	}
	p.log.Infow("team member removed", "team_id", teamID, "user_id", userID)
	return nil
}

// RemoveTeamMembers deletes memberships and reports ids that had none.
func (p *Postgres) RemoveTeamMembers(ctx context.Context, teamID int64, userIDs []int64) (entities.BulkRemoveResult, error) {
	rows, err := p.db.Query(ctx, deleteMembersQuery, teamID, userIDs)
	if err != nil {
		return entities.BulkRemoveResult{}, fmt.Errorf("remove members: %w", err)
	}
	removed, err := collectIDs(rows)
	if err != nil {
		return entities.BulkRemoveResult{}, fmt.Errorf("scan removed members: %w", err)
	}

	p.log.Infow("team members removed", "team_id", teamID, "removed", len(removed))
	return entities.BulkRemoveResult{Removed: removed, NotFound: notFoundIDs(userIDs, removed)}, nil
}

// UpdateTeamMemberRole changes a member role.
func (p *Postgres) UpdateTeamMemberRole(ctx context.Context, teamID, userID int64, role entities.TeamRole) error {
	tag, err := p.db.Exec(ctx, updateMemberRole, teamID, userID, role)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotMember
	}
	p.log.Infow("team member role updated", "team_id", teamID, "user_id", userID, "role", role)
	return nil
}

// ListTeamUsers returns users that belong to a team.
func (p *Postgres) ListTeamUsers(ctx context.Context, teamID int64) ([]entities.User, error) {
	rows, err := p.db.Query(ctx, listTeamUsersQuery, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("scan team users: %w", err)
	}
	return users, nil
}

// notFoundIDs returns the distinct requested ids absent from done, sorted ascending.
func notFoundIDs(requested, done []int64) []int64 {
	seen := make(map[int64]struct{}, len(done))
	for _, id := range done {
		seen[id] = struct{}{}
	}
	missing := make([]int64, 0)
	for _, id := range requested {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
