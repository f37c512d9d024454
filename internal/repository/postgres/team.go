package postgres

import (
	"context"
	"errors"
	"fmt"

	"team-task-manager/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	teamNameConstraint   = "teams_name_key"
	teamInviteConstraint = "teams_invite_code_key"

	teamColumns = "id, name, description, invite_code, invite_code_expires_at, is_active, created_at"

	teamNameTakenQuery = `SELECT EXISTS (SELECT 1 FROM teams WHERE lower(name) = lower($1) AND id <> $2)`
	insertTeamQuery    = `
INSERT INTO teams(name, description, invite_code, invite_code_expires_at, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + teamColumns
	insertManagerQuery     = `INSERT INTO team_users(team_id, user_id, role) VALUES ($1, $2, 'MANAGER')`
	listTeamsQuery         = `SELECT ` + teamColumns + ` FROM teams ORDER BY id`
	selectTeamQuery        = `SELECT ` + teamColumns + ` FROM teams WHERE id=$1`
	selectTeamByInvite     = `SELECT ` + teamColumns + ` FROM teams WHERE invite_code=$1`
	selectTeamMembersQuery = `
SELECT tu.user_id, u.email, u.first_name, u.last_name, tu.role, tu.joined_at, tu.updated_at
FROM team_users tu
JOIN users u ON u.id = tu.user_id
WHERE tu.team_id=$1
ORDER BY tu.joined_at, tu.user_id`
	updateTeamQuery = `
UPDATE teams SET
    name = COALESCE($2, name),
    description = COALESCE($3, description),
    is_active = COALESCE($4, is_active),
    invite_code = COALESCE($5, invite_code),
    invite_code_expires_at = COALESCE($6, invite_code_expires_at)
WHERE id=$1
RETURNING ` + teamColumns
	deleteTeamQuery = `DELETE FROM teams WHERE id=$1`
)

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.InviteCode, &t.InviteCodeExpiresAt, &t.IsActive, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func teamWriteError(err error) error {
	switch {
	case violates(err, codeUniqueViolation, teamNameConstraint):
		return entities.ErrTeamExists
	case violates(err, codeUniqueViolation, teamInviteConstraint):
		return entities.ErrInviteCodeConflict
	}
	return nil
}

// TeamNameTaken reports whether another team already uses name, ignoring case.
func (p *Postgres) TeamNameTaken(ctx context.Context, name string, excludeTeamID int64) (bool, error) {
	var taken bool
	if err := p.db.QueryRow(ctx, teamNameTakenQuery, name, excludeTeamID).Scan(&taken); err != nil {
		return false, fmt.Errorf("check team name: %w", err)
	}
	return taken, nil
}

// CreateTeam inserts a team and registers managerID as its MANAGER.
func (p *Postgres) CreateTeam(ctx context.Context, team entities.Team, managerID int64) (*entities.Team, error) {
	var created *entities.Team
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		t, err := scanTeam(tx.QueryRow(ctx, insertTeamQuery,
			team.Name, team.Description, team.InviteCode, team.InviteCodeExpiresAt, team.IsActive))
		if err != nil {
			if mapped := teamWriteError(err); mapped != nil {
				return mapped
			}
			return fmt.Errorf("insert team: %w", err)
		}

		if managerID > 0 {
			if _, err := tx.Exec(ctx, insertManagerQuery, t.ID, managerID); err != nil {
				if violates(err, codeForeignKeyViolation, "") {
					return entities.ErrUserNotFound
				}
				return fmt.Errorf("insert team manager: %w", err)
			}
		}
		created = t
		return nil
	})
	if err != nil {
		if !errors.Is(err, entities.ErrInviteCodeConflict) && !errors.Is(err, entities.ErrTeamExists) {
			p.log.Errorw("failed to create team", "error", err, "team", team.Name)
		}
		return nil, err
	}

	p.log.Infow("team created", "team_id", created.ID, "team", created.Name, "manager_id", managerID)
	return created, nil
}

// ListTeams returns all teams ordered by id.
func (p *Postgres) ListTeams(ctx context.Context) ([]entities.Team, error) {
	rows, err := p.db.Query(ctx, listTeamsQuery)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Team, error) {
		t, err := scanTeam(row)
		if err != nil {
			return entities.Team{}, err
		}
		return *t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan teams: %w", err)
	}
	return teams, nil
}

// GetTeam fetches team by id.
func (p *Postgres) GetTeam(ctx context.Context, teamID int64) (*entities.Team, error) {
	return p.getTeam(ctx, selectTeamQuery, teamID)
}

// GetTeamByInviteCode fetches team by its invite code.
func (p *Postgres) GetTeamByInviteCode(ctx context.Context, code string) (*entities.Team, error) {
	t, err := p.getTeam(ctx, selectTeamByInvite, code)
	if errors.Is(err, entities.ErrTeamNotFound) {
		return nil, entities.ErrInviteNotFound
	}
	return t, err
}

func (p *Postgres) getTeam(ctx context.Context, query string, arg any) (*entities.Team, error) {
	t, err := scanTeam(p.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

// GetTeamDetails fetches team with members and tasks.
func (p *Postgres) GetTeamDetails(ctx context.Context, teamID int64) (*entities.TeamDetails, error) {
	team, err := p.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, selectTeamMembersQuery, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team members: %w", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.TeamMember, error) {
		var m entities.TeamMember
		err := row.Scan(&m.UserID, &m.Email, &m.FirstName, &m.LastName, &m.Role, &m.JoinedAt, &m.UpdatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan team members: %w", err)
	}

	tasks, err := p.ListTeamTasks(ctx, teamID, entities.TaskFilter{})
	if err != nil {
		return nil, err
	}
	details, err := p.loadTaskDetails(ctx, p.db, tasks)
	if err != nil {
		return nil, err
	}

	return &entities.TeamDetails{Team: *team, Members: members, Tasks: details}, nil
}

// UpdateTeam applies a partial update.
func (p *Postgres) UpdateTeam(ctx context.Context, teamID int64, upd entities.TeamUpdate) (*entities.Team, error) {
	t, err := scanTeam(p.db.QueryRow(ctx, updateTeamQuery,
		teamID, upd.Name, upd.Description, upd.IsActive, upd.InviteCode, upd.InviteCodeExpiresAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		if mapped := teamWriteError(err); mapped != nil {
			return nil, mapped
		}
		p.log.Errorw("failed to update team", "error", err, "team_id", teamID)
		return nil, fmt.Errorf("update team: %w", err)
	}

	p.log.Infow("team updated", "team_id", teamID)
	return t, nil
}

// DeleteTeam removes a team together with memberships and tasks.
func (p *Postgres) DeleteTeam(ctx context.Context, teamID int64) error {
	tag, err := p.db.Exec(ctx, deleteTeamQuery, teamID)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrTeamNotFound
	}
	p.log.Infow("team deleted", "team_id", teamID)
	return nil
}
