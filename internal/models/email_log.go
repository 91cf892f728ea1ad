package models

import "time"

type EmailType string

const (
	EmailTaskNotification EmailType = "task_notification"
	EmailTaskCompletion   EmailType = "task_completion"
	EmailNudge            EmailType = "nudge"
	EmailTaskNudge        EmailType = "task_nudge"
	EmailOverdueReminder  EmailType = "overdue_reminder"
	EmailDailyDigest      EmailType = "daily_digest"
	EmailTeamInvitation   EmailType = "team_invitation"
	EmailAnnouncement     EmailType = "announcement"
	EmailCustom           EmailType = "custom"
)

type EmailStatus string

const (
	EmailSent  EmailStatus = "sent"
	EmailError EmailStatus = "error"
)

// EmailLog is an append-only delivery record.
type EmailLog struct {
	ID        int64       `json:"id"`
	Type      EmailType   `json:"type"`
	To        string      `json:"to"`
	Subject   string      `json:"subject"`
	Status    EmailStatus `json:"status"`
	SentAt    time.Time   `json:"sent_at"`
	MessageID *int64      `json:"message_id,omitempty"`
	TaskID    *int64      `json:"task_id,omitempty"`
	TeamID    *int64      `json:"team_id,omitempty"`
	Error     *string     `json:"error,omitempty"`
}
