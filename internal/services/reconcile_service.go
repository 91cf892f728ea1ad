package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"teamchat/internal/models"
	"teamchat/internal/realtime"
	"teamchat/internal/repositories"
)

const reconcileBatch = 100

type ReconcileResult struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}

// ReconcileService recreates tasks for accepted proposals that have none.
type ReconcileService interface {
	Run(ctx context.Context) (*ReconcileResult, error)
}

type reconcileService struct {
	stores    repositories.Stores
	tx        repositories.TxRunner
	events    realtime.Publisher
	now       func() time.Time
	batchSize int
}

func NewReconcileService(stores repositories.Stores, tx repositories.TxRunner, events realtime.Publisher) ReconcileService {
	return &reconcileService{stores: stores, tx: tx, events: events, now: time.Now, batchSize: reconcileBatch}
}

// Run walks every accepted proposal whose task was never recorded. Rows that
// fail are skipped for the rest of the run so later ones are still reached.
func (s *reconcileService) Run(ctx context.Context) (*ReconcileResult, error) {
	res := &ReconcileResult{}
	var after int64
	for {
		batch, err := s.stores.Messages().ListAcceptedWithoutTask(ctx, after, s.batchSize)
		if err != nil {
			return res, fmt.Errorf("find orphaned proposals: %w", err)
		}
		res.Checked += len(batch)

		for i := range batch {
			after = batch[i].ID
			task, err := s.repair(ctx, batch[i].ID)
			if err != nil {
				res.Failed++
				slog.ErrorContext(ctx, "reconcile failed", "message_id", batch[i].ID, "error", err)
				continue
			}
			if task == nil {
				continue
			}
			res.Repaired++
			slog.InfoContext(ctx, "recreated task for accepted proposal", "message_id", batch[i].ID, "task_id", task.ID)
			publish(ctx, s.events, realtime.EventTaskCreated, task.TeamID, task.ID)
		}

		if len(batch) < s.batchSize {
			return res, nil
		}
	}
}

// repair creates the missing task and records it on the proposal. A task
// that already exists for the message is linked instead of duplicated.
func (s *reconcileService) repair(ctx context.Context, messageID int64) (*models.Task, error) {
	var created *models.Task
	err := s.tx.WithTx(ctx, func(st repositories.Stores) error {
		msg, err := st.Messages().GetByIDForUpdate(ctx, messageID)
		if err != nil {
			return err
		}
		if !msg.IsTask() || msg.Task.Status != models.ProposalAccepted || msg.Task.TaskID != nil {
			return nil
		}

		proposal := *msg.Task
		existing, err := st.Tasks().FindBySourceMessage(ctx, messageID)
		switch {
		case err == nil:
			proposal.TaskID = &existing.ID
		case errors.Is(err, repositories.ErrNotFound):
			at := s.now().UTC()
			if msg.Task.Response != nil {
				at = msg.Task.Response.RespondedAt
			}
			task := taskFromProposal(msg, models.PriorityMedium, nil, at)
			if err := st.Tasks().Store(ctx, task); err != nil {
				return err
			}
			proposal.TaskID = &task.ID
			created = task
		default:
			return err
		}
		return st.Messages().UpdateProposal(ctx, messageID, &proposal)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
