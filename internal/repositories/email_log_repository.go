package repositories

import (
	"context"
	"database/sql"

	"teamchat/internal/models"
)

type EmailLogRepository interface {
	Create(ctx context.Context, entry *models.EmailLog) error
	List(ctx context.Context, limit int) ([]models.EmailLog, error)
}

type emailLogRepository struct {
	db DBTX
}

func NewEmailLogRepository(db DBTX) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, e *models.EmailLog) error {
	const q = `
		INSERT INTO email_logs (id, type, recipient, subject, status, sent_at, message_id, task_id, team_id, error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Type, e.To, e.Subject, e.Status, e.SentAt,
		nullInt64(e.MessageID), nullInt64(e.TaskID), nullInt64(e.TeamID), nullString(e.Error),
	)
	return err
}

func (r *emailLogRepository) List(ctx context.Context, limit int) ([]models.EmailLog, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
		SELECT id, type, recipient, subject, status, sent_at, message_id, task_id, team_id, error
		FROM email_logs
		ORDER BY sent_at DESC, id DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EmailLog
	for rows.Next() {
		var (
			e                     models.EmailLog
			msgID, taskID, teamID sql.NullInt64
			errText               sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Type, &e.To, &e.Subject, &e.Status, &e.SentAt,
			&msgID, &taskID, &teamID, &errText); err != nil {
			return nil, err
		}
		e.MessageID = int64Ptr(msgID)
		e.TaskID = int64Ptr(taskID)
		e.TeamID = int64Ptr(teamID)
		e.Error = stringPtr(errText)
		out = append(out, e)
	}
	return out, rows.Err()
}
