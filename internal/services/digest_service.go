package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/repositories"
)

// Dispatcher delivers emails synchronously and records each attempt.
type Dispatcher interface {
	Dispatch(ctx context.Context, job notify.Job) error
	DispatchBatch(ctx context.Context, jobs []notify.Job) notify.BatchResult
}

type DigestService interface {
	SendDaily(ctx context.Context, teamID int64) (*notify.BatchResult, error)
	SendDailyAll(ctx context.Context) (*notify.BatchResult, error)
}

type digestService struct {
	stores     repositories.Stores
	dispatcher Dispatcher
	templates  notify.Templates
}

func NewDigestService(stores repositories.Stores, dispatcher Dispatcher, templates notify.Templates) DigestService {
	return &digestService{stores: stores, dispatcher: dispatcher, templates: templates}
}

// SendDaily mails every member their pending and completed tasks. Members
// with neither are skipped; one failed delivery does not stop the rest.
func (s *digestService) SendDaily(ctx context.Context, teamID int64) (*notify.BatchResult, error) {
	team, err := s.stores.Teams().GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members, err := s.stores.Users().GetByIDs(ctx, team.MemberIDs)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	tasks, err := s.stores.Tasks().FindByTeam(ctx, teamID, models.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var jobs []notify.Job
	for _, m := range members {
		pending, completed := splitForDigest(tasks, m.ID)
		if len(pending) == 0 && len(completed) == 0 {
			continue
		}
		jobs = append(jobs, notify.Job{
			Type:   models.EmailDailyDigest,
			Email:  s.templates.DailyDigest(m.Email, m.DisplayName(), team.Name, pending, completed),
			TeamID: &team.ID,
		})
	}

	res := s.dispatcher.DispatchBatch(ctx, jobs)
	slog.InfoContext(ctx, "daily digest sent", "team_id", teamID, "sent", res.Sent, "failed", res.Failed)
	return &res, nil
}

func (s *digestService) SendDailyAll(ctx context.Context) (*notify.BatchResult, error) {
	teams, err := s.stores.Teams().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	total := &notify.BatchResult{}
	for _, t := range teams {
		res, err := s.SendDaily(ctx, t.ID)
		if err != nil {
			slog.ErrorContext(ctx, "daily digest failed", "team_id", t.ID, "error", err)
			continue
		}
		total.Sent += res.Sent
		total.Failed += res.Failed
		total.Failures = append(total.Failures, res.Failures...)
	}
	return total, nil
}

// splitForDigest returns the user's open tasks ordered by due date (undated
// last) and their completed tasks.
func splitForDigest(tasks []models.Task, userID int64) (pending, completed []models.Task) {
	for _, t := range tasks {
		if t.AssigneeID != userID {
			continue
		}
		if t.Status == models.StatusDone {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i].DueDate, pending[j].DueDate
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})
	return pending, completed
}
