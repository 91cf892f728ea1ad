package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"teamchat/internal/logger"
	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/repositories"
)

// relevancePrefix is how many leading runes of each text take part in the
// overlap check between a nudged message and a task's original message.
const relevancePrefix = 20

type NudgeResult struct {
	RecipientID  int64  `json:"recipient_id"`
	TaskRelated  bool   `json:"task_related"`
	TaskID       *int64 `json:"task_id,omitempty"`
	OverdueCount int    `json:"overdue_count"`
}

type NudgeService interface {
	Nudge(ctx context.Context, teamID, messageID int64, nudger Actor) (*NudgeResult, error)
}

type nudgeService struct {
	stores   repositories.Stores
	notifier *Notifier
	keywords []string
	now      func() time.Time
}

func NewNudgeService(stores repositories.Stores, notifier *Notifier, keywords []string) NudgeService {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &nudgeService{stores: stores, notifier: notifier, keywords: lowered, now: time.Now}
}

func (s *nudgeService) Nudge(ctx context.Context, teamID, messageID int64, nudger Actor) (*NudgeResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{TeamID: &teamID, MessageID: &messageID, UserID: &nudger.ID})

	if _, err := requireMember(ctx, s.stores.Teams(), teamID, nudger.ID); err != nil {
		return nil, err
	}
	nudger.Name = actorName(ctx, s.stores.Users(), nudger)
	msg, err := s.stores.Messages().GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.TeamID != teamID {
		return nil, fmt.Errorf("message: %w", ErrNotFound)
	}

	teamTasks, err := s.stores.Tasks().FindByTeam(ctx, teamID, models.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list team tasks: %w", err)
	}

	selfNudge := msg.AuthorID == nudger.ID
	related := relatedTasks(teamTasks, msg.AuthorID, nudger.ID, selfNudge)

	recipientID := msg.AuthorID
	if selfNudge {
		if latest := latestCreatedBy(related, nudger.ID); latest != nil {
			recipientID = latest.AssigneeID
		}
	}

	relevant := mostRelevantTask(related, msg.Content)

	overdue, err := s.stores.Tasks().ListOverdue(ctx, teamID, recipientID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}

	recipient, err := s.stores.Users().GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient.Email == "" {
		return nil, fmt.Errorf("recipient email: %w", ErrNotFound)
	}

	taskRelated := (relevant != nil || selfNudge) &&
		(s.hasKeyword(msg.Content) || hasTaskFor(teamTasks, recipientID) || len(overdue) > 0)

	res := &NudgeResult{RecipientID: recipientID, TaskRelated: taskRelated, OverdueCount: len(overdue)}
	tpl := s.notifier.Templates()
	name := recipient.DisplayName()

	if taskRelated {
		job := notify.Job{
			Type:      models.EmailTaskNudge,
			Email:     tpl.TaskNudge(recipient.Email, name, nudger.Name, msg.Content, relevant),
			MessageID: &msg.ID,
			TeamID:    &teamID,
		}
		if relevant != nil {
			res.TaskID = &relevant.ID
			job.TaskID = &relevant.ID
		}
		s.notifier.schedule(ctx, job, 0)

		if len(overdue) > 0 {
			s.notifier.schedule(ctx, notify.Job{
				Type:   models.EmailOverdueReminder,
				Email:  tpl.OverdueReminder(recipient.Email, name, overdue),
				TeamID: &teamID,
			}, s.notifier.stagger)
		}
	} else {
		s.notifier.schedule(ctx, notify.Job{
			Type:      models.EmailNudge,
			Email:     tpl.Nudge(recipient.Email, name, nudger.Name, msg.Content),
			MessageID: &msg.ID,
			TeamID:    &teamID,
		}, 0)
	}

	slog.InfoContext(ctx, "nudge sent",
		"recipient_id", recipientID, "self", selfNudge, "task_related", taskRelated, "overdue", len(overdue))
	return res, nil
}

func (s *nudgeService) hasKeyword(content string) bool {
	lower := strings.ToLower(content)
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// relatedTasks returns tasks assigned to or created by author, plus tasks
// created by the nudger on a self-nudge.
func relatedTasks(tasks []models.Task, authorID, nudgerID int64, selfNudge bool) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.AssigneeID == authorID || t.CreatedBy == authorID || (selfNudge && t.CreatedBy == nudgerID) {
			out = append(out, t)
		}
	}
	return out
}

func latestCreatedBy(tasks []models.Task, userID int64) *models.Task {
	var latest *models.Task
	for i := range tasks {
		if tasks[i].CreatedBy != userID {
			continue
		}
		if latest == nil || tasks[i].CreatedAt.After(latest.CreatedAt) {
			latest = &tasks[i]
		}
	}
	return latest
}

func mostRecent(tasks []models.Task) *models.Task {
	var latest *models.Task
	for i := range tasks {
		if latest == nil || tasks[i].CreatedAt.After(latest.CreatedAt) {
			latest = &tasks[i]
		}
	}
	return latest
}

// mostRelevantTask prefers the newest task whose original message overlaps
// content, falling back to the newest task.
func mostRelevantTask(tasks []models.Task, content string) *models.Task {
	var matching []models.Task
	for _, t := range tasks {
		if t.OriginalMessage != nil && textsOverlap(*t.OriginalMessage, content) {
			matching = append(matching, t)
		}
	}
	if len(matching) > 0 {
		return mostRecent(matching)
	}
	return mostRecent(tasks)
}

func textsOverlap(original, content string) bool {
	o := strings.ToLower(strings.TrimSpace(original))
	c := strings.ToLower(strings.TrimSpace(content))
	if o == "" || c == "" {
		return false
	}
	return strings.Contains(c, runePrefix(o, relevancePrefix)) || strings.Contains(o, runePrefix(c, relevancePrefix))
}

func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func hasTaskFor(tasks []models.Task, userID int64) bool {
	for _, t := range tasks {
		if t.AssigneeID == userID || t.CreatedBy == userID {
			return true
		}
	}
	return false
}
