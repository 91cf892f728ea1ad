package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"teamchat/internal/id"
	"teamchat/internal/logger"
	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/realtime"
	"teamchat/internal/repositories"
	"teamchat/internal/storage"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 500
)

type SendMessageInput struct {
	Content     string
	Type        models.MessageType
	RecipientID *int64
	IsTask      bool
	AssigneeID  *int64
	DueDate     *time.Time
}

type FileUpload struct {
	FileName string
	MIMEType string
	Reader   io.Reader
}

type RespondInput struct {
	Status   models.ProposalStatus
	Priority *models.TaskPriority
	DueDate  *time.Time
}

type RespondResult struct {
	Message *models.Message `json:"message"`
	Task    *models.Task    `json:"task,omitempty"`
}

type MessageService interface {
	Send(ctx context.Context, teamID int64, actor Actor, in SendMessageInput) (*models.Message, error)
	SendFile(ctx context.Context, teamID int64, actor Actor, upload FileUpload, in SendMessageInput) (*models.Message, error)
	List(ctx context.Context, teamID int64, viewer Actor, conv models.Conversation, limit int) ([]models.Message, error)
	ClearConversation(ctx context.Context, teamID int64, viewer Actor, conv models.Conversation) (int64, error)
	RespondToTask(ctx context.Context, teamID, messageID int64, actor Actor, in RespondInput) (*RespondResult, error)
	AddReaction(ctx context.Context, teamID, messageID int64, actor Actor, emoji string) (*models.Message, error)
	RemoveReaction(ctx context.Context, teamID, messageID int64, actor Actor, emoji string) (*models.Message, error)
}

type messageService struct {
	stores   repositories.Stores
	tx       repositories.TxRunner
	files    storage.FileStore
	events   realtime.Publisher
	notifier *Notifier
	now      func() time.Time
}

func NewMessageService(
	stores repositories.Stores,
	tx repositories.TxRunner,
	files storage.FileStore,
	events realtime.Publisher,
	notifier *Notifier,
) MessageService {
	return &messageService{
		stores:   stores,
		tx:       tx,
		files:    files,
		events:   events,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *messageService) Send(ctx context.Context, teamID int64, actor Actor, in SendMessageInput) (*models.Message, error) {
	team, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, team, actor, in, nil)
}

func (s *messageService) SendFile(ctx context.Context, teamID int64, actor Actor, upload FileUpload, in SendMessageInput) (*models.Message, error) {
	team, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(upload.FileName)
	if name == "" || upload.Reader == nil {
		return nil, validationError("file is required")
	}

	storageID, size, err := s.files.Save(ctx, name, upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}
	if strings.TrimSpace(in.Content) == "" {
		in.Content = name
	}
	return s.send(ctx, team, actor, in, &models.Attachment{
		StorageID: storageID,
		FileName:  name,
		MIMEType:  upload.MIMEType,
		Size:      size,
	})
}

func (s *messageService) send(ctx context.Context, team *models.Team, actor Actor, in SendMessageInput, attachment *models.Attachment) (*models.Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{TeamID: &team.ID, UserID: &actor.ID})

	content := strings.TrimSpace(in.Content)
	if content == "" && attachment == nil {
		return nil, validationError("content is required")
	}
	if in.Type == "" {
		in.Type = models.MessageTypeGeneral
	}
	if !in.Type.Valid() {
		return nil, validationError("unknown message type %q", in.Type)
	}

	msg := &models.Message{
		ID:         id.New(),
		TeamID:     team.ID,
		AuthorID:   actor.ID,
		AuthorName: actorName(ctx, s.stores.Users(), actor),
		Content:    content,
		Type:       in.Type,
		Attachment: attachment,
		Reactions:  []models.Reaction{},
		CreatedAt:  s.now().UTC(),
	}

	users := s.stores.Users()

	var recipient *models.User
	if in.Type == models.MessageTypeDirect {
		if in.RecipientID == nil {
			return nil, validationError("direct message requires a recipient")
		}
		if !team.HasMember(*in.RecipientID) {
			return nil, validationError("recipient is not a team member")
		}
		recipient, _ = users.GetByID(ctx, *in.RecipientID)
		msg.RecipientID = ptr(*in.RecipientID)
		msg.RecipientName = ptr(displayNameOr(recipient, ""))
	}

	var assignee *models.User
	if in.IsTask {
		assigneeID := in.AssigneeID
		if assigneeID == nil && in.Type == models.MessageTypeDirect {
			assigneeID = in.RecipientID
		}
		if assigneeID == nil {
			return nil, validationError("a task in the general channel needs an assignee")
		}
		if !team.HasMember(*assigneeID) {
			return nil, validationError("assignee is not a team member")
		}
		if recipient != nil && recipient.ID == *assigneeID {
			assignee = recipient
		} else {
			assignee = lookupUser(ctx, users, *assigneeID)
		}
		msg.Task = &models.TaskProposal{
			Status:       models.ProposalPending,
			AssigneeID:   *assigneeID,
			AssigneeName: displayNameOr(assignee, ""),
			DueDate:      in.DueDate,
			CreatedBy:    actor.ID,
		}
	}

	if err := s.stores.Messages().Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	slog.InfoContext(ctx, "message sent", "message_id", msg.ID, "type", msg.Type, "is_task", msg.IsTask())

	if msg.Task != nil && assignee != nil {
		email := s.notifier.Templates().TaskAssigned(assignee.Email, assignee.DisplayName(), msg.AuthorName, msg.Content, msg.Task.DueDate)
		s.notifier.schedule(ctx, notify.Job{
			Type:      models.EmailTaskNotification,
			Email:     email,
			MessageID: &msg.ID,
			TeamID:    &msg.TeamID,
		}, 0)
	}
	publish(ctx, s.events, realtime.EventMessageCreated, msg.TeamID, msg.ID)
	return msg, nil
}

func (s *messageService) List(ctx context.Context, teamID int64, viewer Actor, conv models.Conversation, limit int) ([]models.Message, error) {
	if _, err := requireMember(ctx, s.stores.Teams(), teamID, viewer.ID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	limit = min(limit, maxMessageLimit)
	conv.TeamID = teamID

	msgs, err := s.stores.Messages().ListConversation(ctx, conv, viewer.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *messageService) ClearConversation(ctx context.Context, teamID int64, viewer Actor, conv models.Conversation) (int64, error) {
	if _, err := requireMember(ctx, s.stores.Teams(), teamID, viewer.ID); err != nil {
		return 0, err
	}
	conv.TeamID = teamID

	n, err := s.stores.Messages().DeleteConversation(ctx, conv, viewer.ID)
	if err != nil {
		return 0, fmt.Errorf("clear conversation: %w", err)
	}
	slog.InfoContext(ctx, "conversation cleared", "team_id", teamID, "type", conv.Type, "deleted", n)
	publish(ctx, s.events, realtime.EventConversationCleared, teamID, 0)
	return n, nil
}

func (s *messageService) RespondToTask(ctx context.Context, teamID, messageID int64, actor Actor, in RespondInput) (*RespondResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{TeamID: &teamID, MessageID: &messageID, UserID: &actor.ID})

	if _, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID); err != nil {
		return nil, err
	}
	actor.Name = actorName(ctx, s.stores.Users(), actor)

	var res RespondResult
	err := s.tx.WithTx(ctx, func(st repositories.Stores) error {
		msg, err := st.Messages().GetByIDForUpdate(ctx, messageID)
		if err != nil {
			return err
		}
		if msg.TeamID != teamID {
			return fmt.Errorf("message: %w", ErrNotFound)
		}
		if !msg.IsTask() {
			return ErrNotTaskProposal
		}
		if msg.Task.AssigneeID != actor.ID {
			return ErrNotAssignee
		}
		if msg.Task.Status.Terminal() {
			return ErrAlreadyResponded
		}
		if in.Status != models.ProposalAccepted && in.Status != models.ProposalRejected {
			return validationError("status must be accepted or rejected")
		}
		priority := models.PriorityMedium
		if in.Priority != nil {
			if !in.Priority.Valid() {
				return validationError("unknown priority %q", *in.Priority)
			}
			priority = *in.Priority
		}

		now := s.now().UTC()
		proposal := *msg.Task
		proposal.Status = in.Status
		proposal.Response = &models.ProposalResponse{
			RespondedBy:     actor.ID,
			RespondedByName: actor.Name,
			RespondedAt:     now,
		}
		if in.Status == models.ProposalAccepted {
			task := taskFromProposal(msg, priority, in.DueDate, now)
			if err := st.Tasks().Store(ctx, task); err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			proposal.TaskID = &task.ID
			res.Task = task
		}
		if err := st.Messages().UpdateProposal(ctx, msg.ID, &proposal); err != nil {
			return fmt.Errorf("update proposal: %w", err)
		}
		msg.Task = &proposal
		res.Message = msg
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := res.Message
	slog.InfoContext(ctx, "task proposal answered", "status", msg.Task.Status)

	if proposer := lookupUser(ctx, s.stores.Users(), msg.Task.CreatedBy); proposer != nil {
		job := notify.Job{
			Type:      models.EmailTaskNotification,
			Email:     s.notifier.Templates().ProposalAnswered(proposer.Email, actor.Name, msg.Content, msg.Task.Status),
			MessageID: &msg.ID,
			TeamID:    &msg.TeamID,
		}
		if res.Task != nil {
			job.TaskID = &res.Task.ID
		}
		s.notifier.schedule(ctx, job, 0)
	}

	publish(ctx, s.events, realtime.EventMessageUpdated, msg.TeamID, msg.ID)
	if res.Task != nil {
		publish(ctx, s.events, realtime.EventTaskCreated, msg.TeamID, res.Task.ID)
	}
	return &res, nil
}

// taskFromProposal builds the task created when a proposal is accepted.
// dueOverride wins over the proposal's due date when set.
func taskFromProposal(msg *models.Message, priority models.TaskPriority, dueOverride *time.Time, now time.Time) *models.Task {
	due := msg.Task.DueDate
	if dueOverride != nil {
		due = dueOverride
	}
	return &models.Task{
		ID:              id.New(),
		TeamID:          msg.TeamID,
		Title:           msg.Content,
		Description:     msg.Content,
		Status:          models.StatusTodo,
		Priority:        priority,
		AssigneeID:      msg.Task.AssigneeID,
		AssigneeName:    msg.Task.AssigneeName,
		CreatedBy:       msg.Task.CreatedBy,
		DueDate:         due,
		OriginalMessage: ptr(msg.Content),
		SourceMessageID: ptr(msg.ID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *messageService) AddReaction(ctx context.Context, teamID, messageID int64, actor Actor, emoji string) (*models.Message, error) {
	name := actorName(ctx, s.stores.Users(), actor)
	return s.updateReactions(ctx, teamID, messageID, actor, emoji, func(rs []models.Reaction) []models.Reaction {
		return ToggleReaction(rs, emoji, models.ReactionUser{UserID: actor.ID, UserName: name, Timestamp: s.now().UTC()})
	})
}

func (s *messageService) RemoveReaction(ctx context.Context, teamID, messageID int64, actor Actor, emoji string) (*models.Message, error) {
	return s.updateReactions(ctx, teamID, messageID, actor, emoji, func(rs []models.Reaction) []models.Reaction {
		return RemoveReaction(rs, emoji, actor.ID)
	})
}

func (s *messageService) updateReactions(
	ctx context.Context,
	teamID, messageID int64,
	actor Actor,
	emoji string,
	apply func([]models.Reaction) []models.Reaction,
) (*models.Message, error) {
	if strings.TrimSpace(emoji) == "" {
		return nil, validationError("emoji is required")
	}
	if _, err := requireMember(ctx, s.stores.Teams(), teamID, actor.ID); err != nil {
		return nil, err
	}

	var updated *models.Message
	err := s.tx.WithTx(ctx, func(st repositories.Stores) error {
		msg, err := st.Messages().GetByIDForUpdate(ctx, messageID)
		if err != nil {
			return err
		}
		if msg.TeamID != teamID {
			return fmt.Errorf("message: %w", ErrNotFound)
		}
		msg.Reactions = apply(msg.Reactions)
		if err := st.Messages().UpdateReactions(ctx, msg.ID, msg.Reactions); err != nil {
			return fmt.Errorf("update reactions: %w", err)
		}
		updated = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, realtime.EventMessageUpdated, teamID, messageID)
	return updated, nil
}

func displayNameOr(u *models.User, fallback string) string {
	if u == nil {
		return fallback
	}
	return u.DisplayName()
}
