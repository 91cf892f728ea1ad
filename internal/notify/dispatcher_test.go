package notify

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/models"
)

var _ = Describe("Dispatcher", func() {
	var (
		ctx    context.Context
		sender *mockSender
		logs   *memoryEmailLogs
		d      *Dispatcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		sender = &mockSender{}
		logs = &memoryEmailLogs{}
		d = NewDispatcher(sender, logs)
	})

	It("records a sent row with the job metadata", func() {
		taskID := int64(42)
		err := d.Dispatch(ctx, Job{
			Type:   models.EmailTaskNotification,
			Email:  Email{To: "alice@example.com", Subject: "New task"},
			TaskID: &taskID,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(logs.entries).To(HaveLen(1))
		Expect(logs.entries[0].Status).To(Equal(models.EmailSent))
		Expect(*logs.entries[0].TaskID).To(Equal(int64(42)))
		Expect(logs.entries[0].Error).To(BeNil())
	})

	It("records the failure and returns it", func() {
		sender.sendFn = func(Email) error { return errors.New("smtp down") }

		err := d.Dispatch(ctx, Job{Type: models.EmailNudge, Email: Email{To: "bob@example.com"}})

		Expect(err).To(MatchError("smtp down"))
		Expect(logs.entries).To(HaveLen(1))
		Expect(logs.entries[0].Status).To(Equal(models.EmailError))
		Expect(*logs.entries[0].Error).To(Equal("smtp down"))
	})

	It("keeps sending the rest of a batch after one failure", func() {
		sender.sendFn = func(e Email) error {
			if e.To == "m3@example.com" {
				return errors.New("mailbox full")
			}
			return nil
		}
		var jobs []Job
		for _, to := range []string{"m1@example.com", "m2@example.com", "m3@example.com", "m4@example.com"} {
			jobs = append(jobs, Job{Type: models.EmailAnnouncement, Email: Email{To: to}})
		}

		res := d.DispatchBatch(ctx, jobs)

		Expect(res.Sent).To(Equal(3))
		Expect(res.Failed).To(Equal(1))
		Expect(res.Failures).To(ConsistOf(BatchFailure{To: "m3@example.com", Error: "mailbox full"}))
		Expect(sender.sent).To(HaveLen(3))
		Expect(logs.entries).To(HaveLen(4))

		var failed []string
		for _, e := range logs.entries {
			if e.Status == models.EmailError {
				failed = append(failed, e.To)
			}
		}
		Expect(failed).To(ConsistOf("m3@example.com"))
	})

	It("reports an unconfigured provider", func() {
		d = NewDispatcher(unconfiguredSender{}, logs)

		err := d.Dispatch(ctx, Job{Type: models.EmailCustom, Email: Email{To: "x@example.com"}})

		Expect(errors.Is(err, ErrNotConfigured)).To(BeTrue())
	})
})
