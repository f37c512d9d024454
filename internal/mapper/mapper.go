// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"team-task-manager/internal/entities"
	"team-task-manager/internal/transport/http/dto"
)

func mapSlice[S, D any](src []S, fn func(S) D) []D {
	out := make([]D, 0, len(src))
	for _, s := range src {
		out = append(out, fn(s))
	}
	return out
}

// ToUser maps entities.User to transport model.
func ToUser(u entities.User) dto.User {
	return dto.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// ToUsers maps a user list.
func ToUsers(users []entities.User) []dto.User {
	return mapSlice(users, ToUser)
}

// ToUserWithTeams maps a user with memberships.
func ToUserWithTeams(u entities.UserWithTeams) dto.UserWithTeams {
	return dto.UserWithTeams{
		User: ToUser(u.User),
		Teams: mapSlice(u.Teams, func(t entities.UserTeam) dto.UserTeam {
			return dto.UserTeam{TeamID: t.TeamID, TeamName: t.TeamName, Role: string(t.Role)}
		}),
	}
}

// FromUserUpdate builds a partial user update.
func FromUserUpdate(src dto.UserUpdate) entities.UserUpdate {
	return entities.UserUpdate{
		Email:     src.Email,
		FirstName: src.FirstName,
		LastName:  src.LastName,
		Password:  src.Password,
	}
}

// ToTeam maps entities.Team to transport model.
func ToTeam(t entities.Team) dto.Team {
	return dto.Team{
		ID:                  t.ID,
		Name:                t.Name,
		Description:         t.Description,
		InviteCode:          t.InviteCode,
		InviteCodeExpiresAt: t.InviteCodeExpiresAt,
		IsActive:            t.IsActive,
		CreatedAt:           t.CreatedAt,
	}
}

// ToTeams maps a team list.
func ToTeams(teams []entities.Team) []dto.Team {
	return mapSlice(teams, ToTeam)
}

// FromTeamCreate builds a new team. Teams are active unless stated otherwise.
func FromTeamCreate(src dto.TeamCreate) entities.Team {
	active := true
	if src.IsActive != nil {
		active = *src.IsActive
	}
	return entities.Team{Name: src.Name, Description: src.Description, IsActive: active}
}

// FromTeamUpdate builds a partial team update.
func FromTeamUpdate(src dto.TeamUpdate) entities.TeamUpdate {
	return entities.TeamUpdate{Name: src.Name, Description: src.Description, IsActive: src.IsActive}
}

// ToTeamMember maps a membership.
func ToTeamMember(m entities.TeamMember) dto.TeamMember {
	return dto.TeamMember{
		UserID:    m.UserID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Role:      string(m.Role),
		JoinedAt:  m.JoinedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToTeamDetails maps a team with members and tasks.
func ToTeamDetails(d entities.TeamDetails) dto.TeamDetails {
	return dto.TeamDetails{
		Team:      ToTeam(d.Team),
		TeamUsers: mapSlice(d.Members, ToTeamMember),
		Tasks:     mapSlice(d.Tasks, ToTaskDetails),
	}
}

// FromMemberAdd builds a membership request.
func FromMemberAdd(src dto.MemberAdd) entities.MemberAdd {
	return entities.MemberAdd{Email: src.Email, Role: entities.TeamRole(src.Role)}
}

// FromMemberAdds maps a bulk membership request.
func FromMemberAdds(src []dto.MemberAdd) []entities.MemberAdd {
	return mapSlice(src, FromMemberAdd)
}

// ToBulkAdd maps a bulk add outcome.
func ToBulkAdd(res entities.BulkAddResult) dto.BulkAddResponse {
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	return dto.BulkAddResponse{
		Added: mapSlice(res.Added, func(u entities.AddedUser) dto.AddedUser {
			return dto.AddedUser{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
		}),
		Errors: errs,
	}
}

// ToBulkRemove maps a bulk remove outcome.
func ToBulkRemove(res entities.BulkRemoveResult) dto.BulkRemoveResponse {
	out := dto.BulkRemoveResponse{Removed: res.Removed, NotFound: res.NotFound}
	if out.Removed == nil {
		out.Removed = []int64{}
	}
	if out.NotFound == nil {
		out.NotFound = []int64{}
	}
	return out
}

// FromTaskCreate builds a new task.
func FromTaskCreate(src dto.TaskCreate) entities.Task {
	return entities.Task{
		Title:       src.Title,
		Description: src.Description,
		Status:      entities.TaskStatus(src.Status),
		Priority:    entities.TaskPriority(src.Priority),
		DueDate:     src.DueDate,
	}
}

// FromTaskUpdate builds a partial task update.
func FromTaskUpdate(src dto.TaskUpdate) entities.TaskUpdate {
	upd := entities.TaskUpdate{Title: src.Title, Description: src.Description, DueDate: src.DueDate}
	if src.Priority != nil {
		p := entities.TaskPriority(*src.Priority)
		upd.Priority = &p
	}
	return upd
}

// ToTask maps entities.Task to transport model.
func ToTask(t entities.Task) dto.Task {
	return dto.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatorID:   t.CreatorID,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		TeamID:      t.TeamID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTasks maps a task list.
func ToTasks(tasks []entities.Task) []dto.Task {
	return mapSlice(tasks, ToTask)
}

// ToTaskAssignee maps an assignment.
func ToTaskAssignee(a entities.TaskAssignee) dto.TaskAssignee {
	return dto.TaskAssignee{UserID: a.UserID, Email: a.Email, Role: a.Role, AssignedAt: a.AssignedAt}
}

// ToTaskDetails maps a task with creator email and assignees.
func ToTaskDetails(d entities.TaskDetails) dto.TaskDetails {
	return dto.TaskDetails{
		Task:         ToTask(d.Task),
		CreatorEmail: d.CreatorEmail,
		Assignees:    mapSlice(d.Assignees, ToTaskAssignee),
	}
}

// ToStatusHistory maps status changes.
func ToStatusHistory(changes []entities.StatusChange) []dto.StatusChange {
	return mapSlice(changes, func(s entities.StatusChange) dto.StatusChange {
		return dto.StatusChange{
			ID:          s.ID,
			TaskID:      s.TaskID,
			ChangedByID: s.ChangedByID,
			NewStatus:   string(s.NewStatus),
			ChangedAt:   s.ChangedAt,
		}
	})
}

// FromAssigneeAdds maps a bulk assignment request.
func FromAssigneeAdds(src []dto.AssigneeAdd) []entities.AssigneeAdd {
	return mapSlice(src, func(a dto.AssigneeAdd) entities.AssigneeAdd {
		return entities.AssigneeAdd{UserID: a.UserID, Role: a.Role}
	})
}

// ToComment maps a comment.
func ToComment(c entities.Comment) dto.Comment {
	return dto.Comment{ID: c.ID, TaskID: c.TaskID, AuthorID: c.AuthorID, Content: c.Content, CreatedAt: c.CreatedAt}
}

// ToComments maps a comment list.
func ToComments(comments []entities.Comment) []dto.Comment {
	return mapSlice(comments, ToComment)
}

// ToEvaluation maps an evaluation.
func ToEvaluation(e entities.Evaluation) dto.Evaluation {
	return dto.Evaluation{
		ID:                e.ID,
		TaskID:            e.TaskID,
		EvaluatorID:       e.EvaluatorID,
		Score:             e.Score,
		Feedback:          e.Feedback,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		EvaluatorFullName: e.EvaluatorFullName,
	}
}

// ToEvaluations maps an evaluation list.
func ToEvaluations(evals []entities.Evaluation) []dto.Evaluation {
	return mapSlice(evals, ToEvaluation)
}

// FromMeetingCreate builds a meeting request.
func FromMeetingCreate(src dto.MeetingCreate) entities.MeetingCreate {
	return entities.MeetingCreate{
		Title:          src.Title,
		Description:    src.Description,
		Location:       src.Location,
		StartAt:        src.StartAt,
		EndAt:          src.EndAt,
		ParticipantIDs: src.ParticipantIDs,
	}
}

// FromMeetingUpdate builds a partial meeting update.
func FromMeetingUpdate(src dto.MeetingUpdate) entities.MeetingUpdate {
	upd := entities.MeetingUpdate{
		Title:                src.Title,
		Description:          src.Description,
		Location:             src.Location,
		StartAt:              src.StartAt,
		EndAt:                src.EndAt,
		AddParticipantIDs:    src.AddParticipantIDs,
		RemoveParticipantIDs: src.RemoveParticipantIDs,
	}
	if src.Status != nil {
		s := entities.MeetingStatus(*src.Status)
		upd.Status = &s
	}
	return upd
}

// ToMeeting maps a meeting.
func ToMeeting(m entities.Meeting) dto.Meeting {
	return dto.Meeting{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Location:      m.Location,
		StartAt:       m.StartAt,
		EndAt:         m.EndAt,
		CreatorID:     m.CreatorID,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
		CancelledAt:   m.CancelledAt,
		CancelledByID: m.CancelledByID,
	}
}

// ToMeetings maps a meeting list.
func ToMeetings(meetings []entities.Meeting) []dto.Meeting {
	return mapSlice(meetings, ToMeeting)
}

func toPerson(u entities.User) dto.Person {
	return dto.Person{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// ToMeetingDetails maps a meeting with its people.
func ToMeetingDetails(d entities.MeetingDetails) dto.MeetingDetails {
	out := dto.MeetingDetails{
		Meeting:      ToMeeting(d.Meeting),
		Creator:      toPerson(d.Creator),
		Participants: mapSlice(d.Participants, toPerson),
	}
	if d.CancelledBy != nil {
		p := toPerson(*d.CancelledBy)
		out.CancelledBy = &p
	}
	return out
}

// ToCalendar maps calendar days to the date keyed response.
func ToCalendar(days []entities.CalendarDay) dto.Calendar {
	out := make(dto.Calendar, len(days))
	for _, day := range days {
		out[day.Date] = mapSlice(day.Events, func(e entities.CalendarEvent) dto.CalendarEvent {
			ev := dto.CalendarEvent{Type: string(e.Type), ID: e.ID, Title: e.Title}
			at := e.At
			if e.Type == entities.EventTask {
				ev.DueDate = &at
			} else {
				ev.Start, ev.End = &at, e.End
			}
			return ev
		})
	}
	return out
}
