package notify

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"teamchat/internal/models"
)

var _ = Describe("RedisQueue", func() {
	var (
		ctx   context.Context
		queue *RedisQueue
		clock time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		mr := miniredis.RunT(GinkgoT())
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(client.Close)
		clock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		queue = NewRedisQueue(client, "test:notifications")
		queue.now = func() time.Time { return clock }
	})

	job := func(to string) Job {
		return Job{Type: models.EmailNudge, Email: Email{To: to, Subject: "hi"}}
	}

	It("holds delayed jobs until they are due", func() {
		Expect(queue.Schedule(ctx, job("now@example.com"), 0)).To(Succeed())
		Expect(queue.Schedule(ctx, job("later@example.com"), 5*time.Second)).To(Succeed())

		jobs, err := queue.Claim(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(jobs).To(HaveLen(1))
		Expect(jobs[0].Email.To).To(Equal("now@example.com"))

		clock = clock.Add(5 * time.Second)
		jobs, err = queue.Claim(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(jobs).To(HaveLen(1))
		Expect(jobs[0].Email.To).To(Equal("later@example.com"))

		n, err := queue.Len(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})

	It("keeps identical jobs distinct", func() {
		Expect(queue.Schedule(ctx, job("a@example.com"), 0)).To(Succeed())
		Expect(queue.Schedule(ctx, job("a@example.com"), 0)).To(Succeed())

		jobs, err := queue.Claim(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(jobs).To(HaveLen(2))
	})

	It("drains due jobs through the dispatcher", func() {
		sender := &mockSender{}
		logs := &memoryEmailLogs{}
		worker := NewWorker(queue, NewDispatcher(sender, logs), time.Second, 2)
		for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			Expect(queue.Schedule(ctx, job(to), 0)).To(Succeed())
		}

		handled, err := worker.RunOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(handled).To(Equal(3))
		Expect(sender.sent).To(HaveLen(3))
		Expect(logs.entries).To(HaveLen(3))
	})
})
