package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"teamchat/internal/id"
	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/presence"
	"teamchat/internal/realtime"
	"teamchat/internal/repositories"
)

type AnnounceResult struct {
	Scheduled int  `json:"scheduled"`
	Failed    int  `json:"failed"`
	Mirrored  bool `json:"mirrored"`
}

type TeamService interface {
	Create(ctx context.Context, actor Actor, name string) (*models.Team, error)
	Get(ctx context.Context, teamID int64, actor Actor) (*models.Team, error)
	ListForMember(ctx context.Context, actor Actor) ([]models.Team, error)
	AddMember(ctx context.Context, teamID int64, actor Actor, userID int64) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID int64, actor Actor, userID int64) (*models.Team, error)
	Invite(ctx context.Context, teamID int64, actor Actor, email string) error
	Announce(ctx context.Context, teamID int64, actor Actor, subject, text string) (*AnnounceResult, error)
	Stats(ctx context.Context, teamID int64, actor Actor) (*models.TeamStats, error)
	Heartbeat(ctx context.Context, teamID int64, actor Actor, sessionID string, interval time.Duration) (string, error)
	Disconnect(ctx context.Context, sessionToken string) error
	RequireMember(ctx context.Context, teamID, userID int64) (*models.Team, error)
}

type teamService struct {
	stores    repositories.Stores
	presence  presence.Service
	events    realtime.Publisher
	notifier  *Notifier
	scheduler notify.Scheduler
	mirror    notify.Mirror
	now       func() time.Time
}

func NewTeamService(
	stores repositories.Stores,
	presenceSvc presence.Service,
	events realtime.Publisher,
	notifier *Notifier,
	mirror notify.Mirror,
) TeamService {
	return &teamService{
		stores:    stores,
		presence:  presenceSvc,
		events:    events,
		notifier:  notifier,
		scheduler: notifier.scheduler,
		mirror:    mirror,
		now:       time.Now,
	}
}

// PresenceRoom is the presence room key of a team.
func PresenceRoom(teamID int64) string {
	return strconv.FormatInt(teamID, 10)
}

func (s *teamService) RequireMember(ctx context.Context, teamID, userID int64) (*models.Team, error) {
	return requireMember(ctx, s.stores.Teams(), teamID, userID)
}

func (s *teamService) Create(ctx context.Context, actor Actor, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("team name is required")
	}
	team := &models.Team{
		ID:        id.New(),
		Name:      name,
		MemberIDs: []int64{actor.ID},
		CreatedAt: s.now().UTC(),
	}
	if err := s.stores.Teams().Create(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	slog.InfoContext(ctx, "team created", "team_id", team.ID, "owner", actor.ID)
	return team, nil
}

func (s *teamService) Get(ctx context.Context, teamID int64, actor Actor) (*models.Team, error) {
	return s.RequireMember(ctx, teamID, actor.ID)
}

func (s *teamService) ListForMember(ctx context.Context, actor Actor) ([]models.Team, error) {
	teams, err := s.stores.Teams().ListForMember(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if teams == nil {
		teams = []models.Team{}
	}
	return teams, nil
}

func (s *teamService) AddMember(ctx context.Context, teamID int64, actor Actor, userID int64) (*models.Team, error) {
	if _, err := s.RequireMember(ctx, teamID, actor.ID); err != nil {
		return nil, err
	}
	if _, err := s.stores.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.stores.Teams().AddMember(ctx, teamID, userID); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	publish(ctx, s.events, realtime.EventTeamUpdated, teamID, userID)
	return s.stores.Teams().GetByID(ctx, teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID int64, actor Actor, userID int64) (*models.Team, error) {
	team, err := s.RequireMember(ctx, teamID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(userID) {
		return nil, fmt.Errorf("member: %w", ErrNotFound)
	}
	if err := s.stores.Teams().RemoveMember(ctx, teamID, userID); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	slog.InfoContext(ctx, "member removed", "team_id", teamID, "user_id", userID, "by", actor.ID)
	publish(ctx, s.events, realtime.EventTeamUpdated, teamID, userID)
	return s.stores.Teams().GetByID(ctx, teamID)
}

func (s *teamService) Invite(ctx context.Context, teamID int64, actor Actor, email string) error {
	team, err := s.RequireMember(ctx, teamID, actor.ID)
	if err != nil {
		return err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return validationError("invalid email %q", email)
	}
	s.notifier.schedule(ctx, notify.Job{
		Type:   models.EmailTeamInvitation,
		Email:  s.notifier.Templates().TeamInvitation(addr.Address, actor.Name, team.Name),
		TeamID: &team.ID,
	}, 0)
	return nil
}

// Announce schedules one email per member. A failure for one member does not
// stop the others.
func (s *teamService) Announce(ctx context.Context, teamID int64, actor Actor, subject, text string) (*AnnounceResult, error) {
	team, err := s.RequireMember(ctx, teamID, actor.ID)
	if err != nil {
		return nil, err
	}
	subject, text = strings.TrimSpace(subject), strings.TrimSpace(text)
	if subject == "" || text == "" {
		return nil, validationError("subject and text are required")
	}

	members, err := s.stores.Users().GetByIDs(ctx, team.MemberIDs)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	res := &AnnounceResult{}
	tpl := s.notifier.Templates()
	for _, m := range members {
		job := notify.Job{
			Type:   models.EmailAnnouncement,
			Email:  tpl.Announcement(m.Email, team.Name, actor.Name, subject, text),
			TeamID: &team.ID,
		}
		if err := s.scheduler.Schedule(ctx, job, 0); err != nil {
			res.Failed++
			slog.ErrorContext(ctx, "failed to schedule announcement", "team_id", teamID, "user_id", m.ID, "error", err)
			continue
		}
		res.Scheduled++
	}

	if err := s.mirror.Announce(ctx, team.Name, actor.Name, subject+"\n"+text); err != nil {
		slog.WarnContext(ctx, "announcement mirror failed", "team_id", teamID, "error", err)
	} else {
		res.Mirrored = true
	}
	return res, nil
}

// Stats computes online status from the live presence snapshot on every call.
func (s *teamService) Stats(ctx context.Context, teamID int64, actor Actor) (*models.TeamStats, error) {
	team, err := s.RequireMember(ctx, teamID, actor.ID)
	if err != nil {
		return nil, err
	}
	online, err := s.presence.OnlineUserIDs(ctx, PresenceRoom(teamID))
	if err != nil {
		return nil, fmt.Errorf("presence: %w", err)
	}
	users, err := s.stores.Users().GetByIDs(ctx, team.MemberIDs)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	names := make(map[int64]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}

	stats := &models.TeamStats{
		TeamID:       teamID,
		TotalMembers: len(team.MemberIDs),
		Members:      make([]models.MemberPresence, 0, len(team.MemberIDs)),
		TaskCounts:   make(map[models.TaskStatus]int, len(models.TaskStatuses)),
	}
	for _, uid := range team.MemberIDs {
		isOnline := online[uid]
		if isOnline {
			stats.OnlineCount++
		}
		stats.Members = append(stats.Members, models.MemberPresence{UserID: uid, Name: names[uid], Online: isOnline})
	}

	tasks, err := s.stores.Tasks().FindByTeam(ctx, teamID, models.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for _, st := range models.TaskStatuses {
		stats.TaskCounts[st] = 0
	}
	now := s.now()
	for i := range tasks {
		stats.TaskCounts[tasks[i].Status]++
		if tasks[i].IsOverdue(now) {
			stats.OverdueTasks++
		}
	}
	return stats, nil
}

func (s *teamService) Heartbeat(ctx context.Context, teamID int64, actor Actor, sessionID string, interval time.Duration) (string, error) {
	if _, err := s.RequireMember(ctx, teamID, actor.ID); err != nil {
		return "", err
	}
	return s.presence.Heartbeat(ctx, PresenceRoom(teamID), actor.ID, sessionID, interval)
}

func (s *teamService) Disconnect(ctx context.Context, sessionToken string) error {
	if strings.TrimSpace(sessionToken) == "" {
		return validationError("session token is required")
	}
	err := s.presence.Disconnect(ctx, sessionToken)
	if errors.Is(err, presence.ErrUnknownSession) {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	return err
}
