package notify

import (
	"context"
	"log/slog"
	"time"

	"teamchat/internal/id"
	"teamchat/internal/models"
	"teamchat/internal/repositories"
)

// Dispatcher delivers jobs and records one email log row per attempt.
// Delivery is attempted once.
type Dispatcher struct {
	sender Sender
	logs   repositories.EmailLogRepository
	now    func() time.Time
}

func NewDispatcher(sender Sender, logs repositories.EmailLogRepository) *Dispatcher {
	return &Dispatcher{sender: sender, logs: logs, now: time.Now}
}

// Dispatch sends job and returns the delivery error, if any. A failure to
// write the log row is logged, not returned.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) error {
	sendErr := d.sender.Send(ctx, job.Email)

	entry := &models.EmailLog{
		ID:        id.New(),
		Type:      job.Type,
		To:        job.Email.To,
		Subject:   job.Email.Subject,
		Status:    models.EmailSent,
		SentAt:    d.now().UTC(),
		MessageID: job.MessageID,
		TaskID:    job.TaskID,
		TeamID:    job.TeamID,
	}
	if sendErr != nil {
		msg := sendErr.Error()
		entry.Status = models.EmailError
		entry.Error = &msg
		slog.WarnContext(ctx, "email delivery failed",
			"type", job.Type, "to", job.Email.To, "error", sendErr)
	} else {
		slog.InfoContext(ctx, "email sent", "type", job.Type, "to", job.Email.To)
	}

	if err := d.logs.Create(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to record email log", "type", job.Type, "error", err)
	}
	return sendErr
}

type BatchFailure struct {
	To    string `json:"to"`
	Error string `json:"error"`
}

type BatchResult struct {
	Sent     int            `json:"sent"`
	Failed   int            `json:"failed"`
	Failures []BatchFailure `json:"failures,omitempty"`
}

// DispatchBatch attempts every job regardless of earlier failures.
func (d *Dispatcher) DispatchBatch(ctx context.Context, jobs []Job) BatchResult {
	var res BatchResult
	for _, job := range jobs {
		if err := d.Dispatch(ctx, job); err != nil {
			res.Failed++
			res.Failures = append(res.Failures, BatchFailure{To: job.Email.To, Error: err.Error()})
			continue
		}
		res.Sent++
	}
	return res
}
