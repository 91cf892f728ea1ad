package models

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	MessageTypeGeneral MessageType = "general"
	MessageTypeDirect  MessageType = "direct"
)

func (t MessageType) Valid() bool {
	return t == MessageTypeGeneral || t == MessageTypeDirect
}

// ProposalStatus is the response state of a task proposal carried by a message.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalPending, ProposalAccepted, ProposalRejected:
		return true
	}
	return false
}

func (s ProposalStatus) Terminal() bool {
	return s == ProposalAccepted || s == ProposalRejected
}

type Attachment struct {
	StorageID string `json:"storage_id"`
	FileName  string `json:"file_name"`
	MIMEType  string `json:"mime_type"`
	Size      int64  `json:"size"`
}

type ProposalResponse struct {
	RespondedBy     int64     `json:"responded_by"`
	RespondedByName string    `json:"responded_by_name"`
	RespondedAt     time.Time `json:"responded_at"`
}

// TaskProposal is present on a message iff the message asks its assignee to take a task.
type TaskProposal struct {
	Status       ProposalStatus    `json:"status"`
	AssigneeID   int64             `json:"assignee_id"`
	AssigneeName string            `json:"assignee_name"`
	DueDate      *time.Time        `json:"due_date,omitempty"`
	CreatedBy    int64             `json:"created_by"`
	Response     *ProposalResponse `json:"response,omitempty"`
	// TaskID is set when acceptance produced a task. It stays set after
	// that task is deleted.
	TaskID *int64 `json:"task_id,omitempty"`
}

type ReactionUser struct {
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}

type Reaction struct {
	Emoji string         `json:"emoji"`
	Users []ReactionUser `json:"users"`
}

type Message struct {
	ID            int64         `json:"id"`
	TeamID        int64         `json:"team_id"`
	AuthorID      int64         `json:"author_id"`
	AuthorName    string        `json:"author_name"`
	Content       string        `json:"content"`
	Type          MessageType   `json:"message_type"`
	RecipientID   *int64        `json:"recipient_id,omitempty"`
	RecipientName *string       `json:"recipient_name,omitempty"`
	Attachment    *Attachment   `json:"attachment,omitempty"`
	Task          *TaskProposal `json:"task,omitempty"`
	Reactions     []Reaction    `json:"reactions"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (m *Message) IsTask() bool {
	return m.Task != nil
}

// MarshalJSON adds an is_task flag so clients need not probe the task object.
func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	return json.Marshal(struct {
		plain
		IsTask bool `json:"is_task"`
	}{plain(m), m.Task != nil})
}
