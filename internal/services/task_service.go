package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"teamchat/internal/id"
	"teamchat/internal/logger"
	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/pdf"
	"teamchat/internal/realtime"
	"teamchat/internal/repositories"
)

type CreateTaskInput struct {
	Title       string
	Description string
	AssigneeID  *int64
	DueDate     *time.Time
	Priority    models.TaskPriority
}

// UpdateTaskInput carries a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssigneeID  *int64
	DueDate     *time.Time
	ClearDue    bool
	Priority    *models.TaskPriority
	Status      *models.TaskStatus
}

// TaskService defines the board operations of a team.
type TaskService interface {
	Create(ctx context.Context, teamID int64, actor Actor, in CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, teamID, taskID int64, actor Actor) (*models.Task, error)
	List(ctx context.Context, teamID int64, actor Actor, filter models.TaskFilter) ([]models.Task, error)
	Board(ctx context.Context, teamID int64, actor Actor) (*models.Board, error)
	Update(ctx context.Context, teamID, taskID int64, actor Actor, in UpdateTaskInput) (*models.Task, error)
	UpdateStatus(ctx context.Context, teamID, taskID int64, actor Actor, to models.TaskStatus) (*models.Task, error)
	Delete(ctx context.Context, teamID, taskID int64, actor Actor) error
	ExportBoard(ctx context.Context, teamID int64, actor Actor, w io.Writer) error
}

type taskService struct {
	stores   repositories.Stores
	events   realtime.Publisher
	notifier *Notifier
	pdf      pdf.Generator
	now      func() time.Time
}

func NewTaskService(stores repositories.Stores, events realtime.Publisher, notifier *Notifier, gen pdf.Generator) TaskService {
	return &taskService{stores: stores, events: events, notifier: notifier, pdf: gen, now: time.Now}
}

func (s *taskService) Create(ctx context.Context, teamID int64, actor Actor, in CreateTaskInput) (*models.Task, error) {
	team, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if in.AssigneeID == nil {
		return nil, validationError("assignee is required")
	}
	if !team.HasMember(*in.AssigneeID) {
		return nil, validationError("assignee is not a team member")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, validationError("unknown priority %q", in.Priority)
	}

	assignee := lookupUser(ctx, s.stores.Users(), *in.AssigneeID)
	now := s.now().UTC()
	task := &models.Task{
		ID:           id.New(),
		TeamID:       teamID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Status:       models.StatusTodo,
		Priority:     in.Priority,
		AssigneeID:   *in.AssigneeID,
		AssigneeName: displayNameOr(assignee, ""),
		CreatedBy:    actor.ID,
		DueDate:      in.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.stores.Tasks().Store(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TeamID: &teamID, TaskID: &task.ID})
	slog.InfoContext(ctx, "task created", "assignee_id", task.AssigneeID)

	if assignee != nil {
		s.notifier.schedule(ctx, notify.Job{
			Type:   models.EmailTaskNotification,
			Email:  s.notifier.Templates().TaskAssigned(assignee.Email, assignee.DisplayName(), actor.Name, task.Title, task.DueDate),
			TaskID: &task.ID,
			TeamID: &task.TeamID,
		}, 0)
	}
	publish(ctx, s.events, realtime.EventTaskCreated, teamID, task.ID)
	return task, nil
}

func (s *taskService) Get(ctx context.Context, teamID, taskID int64, actor Actor) (*models.Task, error) {
	if _, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID); err != nil {
		return nil, err
	}
	return s.find(ctx, teamID, taskID)
}

func (s *taskService) find(ctx context.Context, teamID, taskID int64) (*models.Task, error) {
	task, err := s.stores.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.TeamID != teamID {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, teamID int64, actor Actor, filter models.TaskFilter) ([]models.Task, error) {
	if _, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, validationError("unknown status %q", *filter.Status)
	}
	return s.stores.Tasks().FindByTeam(ctx, teamID, filter)
}

func (s *taskService) Board(ctx context.Context, teamID int64, actor Actor) (*models.Board, error) {
	tasks, err := s.List(ctx, teamID, actor, models.TaskFilter{})
	if err != nil {
		return nil, err
	}
	return buildBoard(teamID, tasks), nil
}

// buildBoard groups tasks by status. Within a column tasks with a due date
// come first, earliest due first, then by creation time.
func buildBoard(teamID int64, tasks []models.Task) *models.Board {
	board := &models.Board{TeamID: teamID, Columns: make(map[models.TaskStatus][]models.Task, len(models.TaskStatuses))}
	for _, st := range models.TaskStatuses {
		board.Columns[st] = []models.Task{}
	}
	for _, t := range tasks {
		board.Columns[t.Status] = append(board.Columns[t.Status], t)
	}
	for _, col := range board.Columns {
		sort.SliceStable(col, func(i, j int) bool {
			a, b := col[i], col[j]
			switch {
			case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
				return a.DueDate.Before(*b.DueDate)
			case a.DueDate != nil && b.DueDate == nil:
				return true
			case a.DueDate == nil && b.DueDate != nil:
				return false
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
	}
	return board
}

func (s *taskService) Update(ctx context.Context, teamID, taskID int64, actor Actor, in UpdateTaskInput) (*models.Task, error) {
	team, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID)
	if err != nil {
		return nil, err
	}
	task, err := s.find(ctx, teamID, taskID)
	if err != nil {
		return nil, err
	}
	prevStatus := task.Status

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, validationError("title must not be empty")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.AssigneeID != nil && *in.AssigneeID != task.AssigneeID {
		if !team.HasMember(*in.AssigneeID) {
			return nil, validationError("assignee is not a team member")
		}
		task.AssigneeID = *in.AssigneeID
		task.AssigneeName = displayNameOr(lookupUser(ctx, s.stores.Users(), *in.AssigneeID), "")
	}
	if in.ClearDue {
		task.DueDate = nil
	} else if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, validationError("unknown priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, validationError("unknown status %q", *in.Status)
		}
		task.Status = *in.Status
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.stores.Tasks().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.afterStatusChange(ctx, task, prevStatus, actor)
	publish(ctx, s.events, realtime.EventTaskUpdated, teamID, task.ID)
	return task, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, teamID, taskID int64, actor Actor, to models.TaskStatus) (*models.Task, error) {
	if !to.Valid() {
		return nil, validationError("unknown status %q", to)
	}
	if _, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID); err != nil {
		return nil, err
	}
	task, err := s.find(ctx, teamID, taskID)
	if err != nil {
		return nil, err
	}
	prev := task.Status

	now := s.now().UTC()
	if err := s.stores.Tasks().UpdateStatus(ctx, taskID, to, now); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	task.Status = to
	task.UpdatedAt = now

	s.afterStatusChange(ctx, task, prev, actor)
	publish(ctx, s.events, realtime.EventTaskUpdated, teamID, task.ID)
	return task, nil
}

// afterStatusChange emails the creator when a task enters done.
func (s *taskService) afterStatusChange(ctx context.Context, task *models.Task, prev models.TaskStatus, actor Actor) {
	if prev == models.StatusDone || task.Status != models.StatusDone {
		return
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{TaskID: &task.ID})
	slog.InfoContext(ctx, "task completed", "by", actor.ID)

	creator := lookupUser(ctx, s.stores.Users(), task.CreatedBy)
	if creator == nil {
		return
	}
	s.notifier.schedule(ctx, notify.Job{
		Type:   models.EmailTaskCompletion,
		Email:  s.notifier.Templates().TaskCompleted(creator.Email, task.AssigneeName, task.Title),
		TaskID: &task.ID,
		TeamID: &task.TeamID,
	}, 0)
}

func (s *taskService) Delete(ctx context.Context, teamID, taskID int64, actor Actor) error {
	if _, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID); err != nil {
		return err
	}
	if _, err := s.find(ctx, teamID, taskID); err != nil {
		return err
	}
	if err := s.stores.Tasks().Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	publish(ctx, s.events, realtime.EventTaskDeleted, teamID, taskID)
	return nil
}

func (s *taskService) ExportBoard(ctx context.Context, teamID int64, actor Actor, w io.Writer) error {
	team, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID)
	if err != nil {
		return err
	}
	board, err := s.Board(ctx, teamID, actor)
	if err != nil {
		return err
	}
	return s.pdf.RenderBoard(w, pdf.BoardData{TeamName: team.Name, Board: *board, GeneratedAt: s.now()})
}
