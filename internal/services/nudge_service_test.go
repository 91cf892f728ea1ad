package services

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/models"
	"teamchat/internal/notify"
)

var _ = Describe("NudgeService", func() {
	var (
		ctx context.Context
		env *testEnv
		svc *nudgeService
	)

	BeforeEach(func() {
		ctx = context.Background()
		env = newTestEnv()
		svc = env.nudgeService()
	})

	message := func(author models.User, content string) models.Message {
		m := models.Message{
			ID:         5000 + int64(len(content)),
			TeamID:     testTeamID,
			AuthorID:   author.ID,
			AuthorName: author.DisplayName(),
			Content:    content,
			Type:       models.MessageTypeGeneral,
			Reactions:  []models.Reaction{},
			CreatedAt:  env.clock.Add(-time.Minute),
		}
		env.db.putMessage(m)
		return m
	}

	It("sends a plain nudge when nothing suggests a task", func() {
		msg := message(env.carol, "lunch?")

		res, err := svc.Nudge(ctx, testTeamID, msg.ID, actor(env.alice))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.RecipientID).To(Equal(env.carol.ID))
		Expect(res.TaskRelated).To(BeFalse())
		Expect(env.sched.ofType(models.EmailNudge)).To(HaveLen(1))
		Expect(env.sched.ofType(models.EmailTaskNudge)).To(BeEmpty())
	})

	It("names the nudger from the user record when the token has no name", func() {
		msg := message(env.carol, "lunch?")

		_, err := svc.Nudge(ctx, testTeamID, msg.ID, Actor{ID: env.alice.ID})

		Expect(err).NotTo(HaveOccurred())
		jobs := env.sched.ofType(models.EmailNudge)
		Expect(jobs).To(HaveLen(1))
		Expect(jobs[0].job.Email.Subject).To(Equal("Alice nudged you"))
	})

	It("redirects a self-nudge to the assignee of the nudger's latest task", func() {
		older := env.seedTask("Review the PR", env.alice, env.bob, -2*time.Hour, func(t *models.Task) {
			t.OriginalMessage = ptr("Review the PR")
		})
		env.seedTask("Deploy", env.carol, env.bob, -time.Hour, nil)
		msg := message(env.bob, "Review the PR")

		res, err := svc.Nudge(ctx, testTeamID, msg.ID, actor(env.bob))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.RecipientID).To(Equal(env.carol.ID))
		Expect(res.TaskRelated).To(BeTrue())
		Expect(*res.TaskID).To(Equal(older.ID))

		jobs := env.sched.ofType(models.EmailTaskNudge)
		Expect(jobs).To(HaveLen(1))
		Expect(jobs[0].job.Email.To).To(Equal("carol@example.com"))
		Expect(*jobs[0].job.TaskID).To(Equal(older.ID))
	})

	It("falls back to the most recent related task when no text overlaps", func() {
		env.seedTask("Old", env.bob, env.alice, -3*time.Hour, func(t *models.Task) { t.OriginalMessage = ptr("something else") })
		newest := env.seedTask("New", env.bob, env.alice, -time.Hour, nil)
		msg := message(env.bob, "any update on the deadline?")

		res, err := svc.Nudge(ctx, testTeamID, msg.ID, actor(env.alice))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.RecipientID).To(Equal(env.bob.ID))
		Expect(*res.TaskID).To(Equal(newest.ID))
	})

	It("staggers an overdue reminder after the task nudge", func() {
		yesterday := env.clock.Add(-24 * time.Hour)
		env.seedTask("Write report", env.bob, env.alice, -48*time.Hour, func(t *models.Task) { t.DueDate = &yesterday })
		env.seedTask("Finished", env.bob, env.alice, -48*time.Hour, func(t *models.Task) {
			t.DueDate = &yesterday
			t.Status = models.StatusDone
		})
		msg := message(env.bob, "TASK status?")

		res, err := svc.Nudge(ctx, testTeamID, msg.ID, actor(env.alice))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.TaskRelated).To(BeTrue())
		Expect(res.OverdueCount).To(Equal(1))

		nudges := env.sched.ofType(models.EmailTaskNudge)
		reminders := env.sched.ofType(models.EmailOverdueReminder)
		Expect(nudges).To(HaveLen(1))
		Expect(nudges[0].delay).To(BeZero())
		Expect(reminders).To(HaveLen(1))
		Expect(reminders[0].delay).To(Equal(5 * time.Second))
		Expect(reminders[0].job.Email.To).To(Equal("bob@example.com"))
	})

	It("treats a self-nudge with a keyword as task related without a task", func() {
		msg := message(env.alice, "please complete the form")

		res, err := svc.Nudge(ctx, testTeamID, msg.ID, actor(env.alice))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.RecipientID).To(Equal(env.alice.ID))
		Expect(res.TaskRelated).To(BeTrue())
		Expect(res.TaskID).To(BeNil())
	})

	It("fails when the recipient has no email", func() {
		env.db.putUser(models.User{ID: env.carol.ID, ExternalID: "ext-Carol"})
		msg := message(env.carol, "hey")

		_, err := svc.Nudge(ctx, testTeamID, msg.ID, actor(env.alice))

		Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		Expect(env.sched.jobs).To(BeEmpty())
	})

	It("swallows scheduling failures", func() {
		env.sched.scheduleFn = func(notify.Job) error { return errors.New("queue down") }
		msg := message(env.carol, "hey")

		_, err := svc.Nudge(ctx, testTeamID, msg.ID, actor(env.alice))

		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("textsOverlap", func() {
	DescribeTable("matches on the first twenty runes either way",
		func(original, content string, want bool) {
			Expect(textsOverlap(original, content)).To(Equal(want))
		},
		Entry("identical", "Review the PR", "review the pr", true),
		Entry("content quotes the task", "Fix login", "about: fix login, any news?", true),
		Entry("long texts sharing a prefix", "Atualizar a documentação da API pública", "atualizar a documentação amanhã", true),
		Entry("overlap past the prefix only", "Please review the deployment checklist", "Checklist for the deployment", false),
		Entry("short content inside original", "deploy the release today", "the release", true),
		Entry("unrelated", "Deploy", "lunch?", false),
		Entry("empty original", "", "anything", false),
	)
})
