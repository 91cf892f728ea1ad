package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"teamchat/internal/models"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Message, error)
	ListConversation(ctx context.Context, conv models.Conversation, viewerID int64, limit int) ([]models.Message, error)
	UpdateProposal(ctx context.Context, id int64, proposal *models.TaskProposal) error
	UpdateReactions(ctx context.Context, id int64, reactions []models.Reaction) error
	DeleteConversation(ctx context.Context, conv models.Conversation, viewerID int64) (int64, error)
	// ListAcceptedWithoutTask pages through accepted proposals that never
	// produced a task, in id order after afterID.
	ListAcceptedWithoutTask(ctx context.Context, afterID int64, limit int) ([]models.Message, error)
}

type messageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `
	m.id, m.team_id, m.author_id, m.author_name, m.content, m.message_type,
	m.recipient_id, m.recipient_name, m.attachment,
	m.is_task, m.task_status, m.task_assignee_id, m.task_assignee_name, m.task_due_date, m.task_created_by,
	m.task_responded_by, m.task_responded_by_name, m.task_responded_at, m.task_id,
	m.reactions, m.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		msg           models.Message
		recipientID   sql.NullInt64
		recipientName sql.NullString
		attachment    []byte
		isTask        bool
		taskStatus    sql.NullString
		assigneeID    sql.NullInt64
		assigneeName  sql.NullString
		dueDate       sql.NullTime
		createdBy     sql.NullInt64
		respondedBy   sql.NullInt64
		respondedName sql.NullString
		respondedAt   sql.NullTime
		taskID        sql.NullInt64
		reactions     []byte
	)
	if err := row.Scan(
		&msg.ID, &msg.TeamID, &msg.AuthorID, &msg.AuthorName, &msg.Content, &msg.Type,
		&recipientID, &recipientName, &attachment,
		&isTask, &taskStatus, &assigneeID, &assigneeName, &dueDate, &createdBy,
		&respondedBy, &respondedName, &respondedAt, &taskID,
		&reactions, &msg.CreatedAt,
	); err != nil {
		return nil, err
	}

	msg.RecipientID = int64Ptr(recipientID)
	msg.RecipientName = stringPtr(recipientName)
	if len(attachment) > 0 {
		var a models.Attachment
		if err := json.Unmarshal(attachment, &a); err != nil {
			return nil, fmt.Errorf("decode attachment of message %d: %w", msg.ID, err)
		}
		msg.Attachment = &a
	}
	if isTask {
		p := &models.TaskProposal{
			Status:       models.ProposalStatus(taskStatus.String),
			AssigneeID:   assigneeID.Int64,
			AssigneeName: assigneeName.String,
			DueDate:      timePtr(dueDate),
			CreatedBy:    createdBy.Int64,
			TaskID:       int64Ptr(taskID),
		}
		if respondedBy.Valid {
			p.Response = &models.ProposalResponse{
				RespondedBy:     respondedBy.Int64,
				RespondedByName: respondedName.String,
				RespondedAt:     respondedAt.Time,
			}
		}
		msg.Task = p
	}
	msg.Reactions = []models.Reaction{}
	if len(reactions) > 0 {
		if err := json.Unmarshal(reactions, &msg.Reactions); err != nil {
			return nil, fmt.Errorf("decode reactions of message %d: %w", msg.ID, err)
		}
	}
	return &msg, nil
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	var attachment []byte
	if msg.Attachment != nil {
		b, err := json.Marshal(msg.Attachment)
		if err != nil {
			return fmt.Errorf("encode attachment: %w", err)
		}
		attachment = b
	}
	if msg.Reactions == nil {
		msg.Reactions = []models.Reaction{}
	}
	reactions, err := json.Marshal(msg.Reactions)
	if err != nil {
		return fmt.Errorf("encode reactions: %w", err)
	}

	var (
		taskStatus   sql.NullString
		assigneeID   sql.NullInt64
		assigneeName sql.NullString
		dueDate      sql.NullTime
		createdBy    sql.NullInt64
	)
	if p := msg.Task; p != nil {
		taskStatus = sql.NullString{String: string(p.Status), Valid: true}
		assigneeID = sql.NullInt64{Int64: p.AssigneeID, Valid: true}
		assigneeName = sql.NullString{String: p.AssigneeName, Valid: true}
		dueDate = nullTime(p.DueDate)
		createdBy = sql.NullInt64{Int64: p.CreatedBy, Valid: true}
	}

	const q = `
		INSERT INTO messages (
			id, team_id, author_id, author_name, content, message_type,
			recipient_id, recipient_name, attachment,
			is_task, task_status, task_assignee_id, task_assignee_name, task_due_date, task_created_by,
			reactions, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err = r.db.ExecContext(ctx, q,
		msg.ID, msg.TeamID, msg.AuthorID, msg.AuthorName, msg.Content, msg.Type,
		nullInt64(msg.RecipientID), nullString(msg.RecipientName), attachment,
		msg.Task != nil, taskStatus, assigneeID, assigneeName, dueDate, createdBy,
		reactions, msg.CreatedAt,
	)
	return err
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	q := `SELECT ` + messageColumns + ` FROM messages m WHERE m.id = $1`
	msg, err := scanMessage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "message")
	}
	return msg, nil
}

func (r *messageRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Message, error) {
	q := `SELECT ` + messageColumns + ` FROM messages m WHERE m.id = $1 FOR UPDATE`
	msg, err := scanMessage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "message")
	}
	return msg, nil
}

// conversationWhere returns the predicate selecting one conversation's rows,
// with parameters starting at $1.
func conversationWhere(conv models.Conversation, viewerID int64) (string, []any) {
	if conv.IsDirect() {
		return `m.team_id = $1 AND m.message_type = 'direct'
			AND ((m.author_id = $2 AND m.recipient_id = $3) OR (m.author_id = $3 AND m.recipient_id = $2))`,
			[]any{conv.TeamID, viewerID, conv.PeerID}
	}
	return `m.team_id = $1 AND m.message_type = 'general'`, []any{conv.TeamID}
}

func (r *messageRepository) ListConversation(ctx context.Context, conv models.Conversation, viewerID int64, limit int) ([]models.Message, error) {
	where, args := conversationWhere(conv, viewerID)
	q := fmt.Sprintf(`
		SELECT * FROM (
			SELECT %s FROM messages m
			WHERE %s
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT $%d
		) recent
		ORDER BY created_at ASC, id ASC`, messageColumns, where, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *msg)
	}
	return out, rows.Err()
}

func (r *messageRepository) UpdateProposal(ctx context.Context, id int64, p *models.TaskProposal) error {
	var (
		respondedBy   sql.NullInt64
		respondedName sql.NullString
		respondedAt   sql.NullTime
	)
	if p.Response != nil {
		respondedBy = sql.NullInt64{Int64: p.Response.RespondedBy, Valid: true}
		respondedName = sql.NullString{String: p.Response.RespondedByName, Valid: true}
		respondedAt = sql.NullTime{Time: p.Response.RespondedAt, Valid: true}
	}
	const q = `
		UPDATE messages SET
			task_status=$1, task_due_date=$2,
			task_responded_by=$3, task_responded_by_name=$4, task_responded_at=$5,
			task_id=$6
		WHERE id=$7 AND is_task`
	res, err := r.db.ExecContext(ctx, q,
		p.Status, nullTime(p.DueDate), respondedBy, respondedName, respondedAt, nullInt64(p.TaskID), id)
	if err != nil {
		return err
	}
	return expectOneRow(res, "message")
}

func (r *messageRepository) UpdateReactions(ctx context.Context, id int64, reactions []models.Reaction) error {
	if reactions == nil {
		reactions = []models.Reaction{}
	}
	b, err := json.Marshal(reactions)
	if err != nil {
		return fmt.Errorf("encode reactions: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET reactions=$1 WHERE id=$2`, b, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, "message")
}

func (r *messageRepository) DeleteConversation(ctx context.Context, conv models.Conversation, viewerID int64) (int64, error) {
	where, args := conversationWhere(conv, viewerID)
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages m WHERE `+where, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *messageRepository) ListAcceptedWithoutTask(ctx context.Context, afterID int64, limit int) ([]models.Message, error) {
	q := `
		SELECT ` + messageColumns + `
		FROM messages m
		WHERE m.is_task AND m.task_status = 'accepted' AND m.task_id IS NULL AND m.id > $1
		ORDER BY m.id ASC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *msg)
	}
	return out, rows.Err()
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
