package services

import (
	"context"
	"log/slog"
	"time"

	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/realtime"
	"teamchat/internal/repositories"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   int64
	Name string
}

// Notifier schedules best-effort emails. Failures are logged and never
// returned to the caller.
type Notifier struct {
	scheduler notify.Scheduler
	templates notify.Templates
	stagger   time.Duration
}

func NewNotifier(scheduler notify.Scheduler, templates notify.Templates, stagger time.Duration) *Notifier {
	return &Notifier{scheduler: scheduler, templates: templates, stagger: stagger}
}

func (n *Notifier) Templates() notify.Templates {
	return n.templates
}

func (n *Notifier) schedule(ctx context.Context, job notify.Job, delay time.Duration) {
	if job.Email.To == "" {
		slog.WarnContext(ctx, "skipping email without recipient", "type", job.Type)
		return
	}
	if err := n.scheduler.Schedule(ctx, job, delay); err != nil {
		slog.ErrorContext(ctx, "failed to schedule email", "type", job.Type, "to", job.Email.To, "error", err)
	}
}

func publish(ctx context.Context, pub realtime.Publisher, typ realtime.EventType, teamID, id int64) {
	if err := pub.Publish(ctx, realtime.Event{Type: typ, TeamID: teamID, ID: id}); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "type", typ, "team_id", teamID, "error", err)
	}
}

// lookupUser returns nil when the user is unknown.
func lookupUser(ctx context.Context, users repositories.UserRepository, id int64) *models.User {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "user lookup failed", "user_id", id, "error", err)
		return nil
	}
	return u
}

// actorName falls back to the stored user when the token carried no name.
func actorName(ctx context.Context, users repositories.UserRepository, a Actor) string {
	if a.Name != "" {
		return a.Name
	}
	if u := lookupUser(ctx, users, a.ID); u != nil {
		return u.DisplayName()
	}
	return ""
}

// requireMember loads the team and checks that userID belongs to it.
func requireMember(ctx context.Context, teams repositories.TeamRepository, teamID, userID int64) (*models.Team, error) {
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(userID) {
		return nil, ErrNotTeamMember
	}
	return team, nil
}

func ptr[T any](v T) *T {
	return &v
}
