package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"teamchat/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindBySourceMessage(ctx context.Context, messageID int64) (*models.Task, error)
	FindByTeam(ctx context.Context, teamID int64, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus, at time.Time) error
	Delete(ctx context.Context, id int64) error
	ListOverdue(ctx context.Context, teamID, assigneeID int64, now time.Time) ([]models.Task, error)
}

type taskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, team_id, title, description, status, priority,
       assignee_id, assignee_name, created_by, due_date, original_message, source_message_id,
       created_at, updated_at`

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t        models.Task
		due      sql.NullTime
		original sql.NullString
		source   sql.NullInt64
	)
	if err := row.Scan(
		&t.ID, &t.TeamID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AssigneeID, &t.AssigneeName, &t.CreatedBy, &due, &original, &source,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.DueDate = timePtr(due)
	t.OriginalMessage = stringPtr(original)
	t.SourceMessageID = int64Ptr(source)
	return &t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			id, team_id, title, description, status, priority,
			assignee_id, assignee_name, created_by, due_date, original_message, source_message_id,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.TeamID, task.Title, task.Description, task.Status, task.Priority,
		task.AssigneeID, task.AssigneeName, task.CreatedBy, nullTime(task.DueDate),
		nullString(task.OriginalMessage), nullInt64(task.SourceMessageID),
		task.CreatedAt, task.UpdatedAt,
	)
	return err
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "task")
	}
	return task, nil
}

func (r *taskRepository) FindBySourceMessage(ctx context.Context, messageID int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE source_message_id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, messageID))
	if err != nil {
		return nil, notFound(err, "task")
	}
	return task, nil
}

func (r *taskRepository) FindByTeam(ctx context.Context, teamID int64, filter models.TaskFilter) ([]models.Task, error) {
	conditions := []string{"team_id = $1"}
	args := []any{teamID}
	argID := 2

	if filter.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf("assignee_id = $%d", argID))
		args = append(args, *filter.AssigneeID)
		argID++
	}
	if filter.CreatedBy != nil {
		conditions = append(conditions, fmt.Sprintf("created_by = $%d", argID))
		args = append(args, *filter.CreatedBy)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, args...)
}

func (r *taskRepository) list(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, status=$3, priority=$4,
			assignee_id=$5, assignee_name=$6, due_date=$7, updated_at=$8
		WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority,
		task.AssigneeID, task.AssigneeName, nullTime(task.DueDate), task.UpdatedAt, task.ID,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, "task")
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=$2 WHERE id=$3`, to, at, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, "task")
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, "task")
}

func (r *taskRepository) ListOverdue(ctx context.Context, teamID, assigneeID int64, now time.Time) ([]models.Task, error) {
	q := `
SELECT ` + taskColumns + `
FROM tasks
WHERE team_id = $1
  AND assignee_id = $2
  AND status <> 'done'
  AND due_date IS NOT NULL
  AND due_date < $3
ORDER BY due_date ASC`
	return r.list(ctx, q, teamID, assigneeID, now)
}
