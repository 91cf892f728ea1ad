package services

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/models"
)

var _ = Describe("UserService", func() {
	var (
		ctx context.Context
		env *testEnv
		svc UserService
	)

	BeforeEach(func() {
		ctx = context.Background()
		env = newTestEnv()
		svc = NewUserService(env.db.stores().Users())
	})

	It("inserts unknown identities", func() {
		u, err := svc.Upsert(ctx, models.IdentityUser{ExternalID: "user_01", Email: "erin@example.com", FirstName: ptr("Erin")})

		Expect(err).NotTo(HaveOccurred())
		Expect(u.ID).NotTo(BeZero())
		got, err := svc.GetByExternalID(ctx, "user_01")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.DisplayName()).To(Equal("Erin"))
	})

	It("patches existing identities in place", func() {
		u, err := svc.Upsert(ctx, models.IdentityUser{ExternalID: "ext-Alice", Email: "alice@new.example.com", FirstName: ptr("Alicia")})

		Expect(err).NotTo(HaveOccurred())
		Expect(u.ID).To(Equal(env.alice.ID))
		got, err := svc.GetByID(ctx, env.alice.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Email).To(Equal("alice@new.example.com"))
		Expect(got.DisplayName()).To(Equal("Alicia"))
	})

	It("requires an external id and email", func() {
		_, err := svc.Upsert(ctx, models.IdentityUser{Email: "x@example.com"})
		Expect(errors.Is(err, ErrValidation)).To(BeTrue())

		_, err = svc.Upsert(ctx, models.IdentityUser{ExternalID: "user_02"})
		Expect(errors.Is(err, ErrValidation)).To(BeTrue())
	})

	It("deletes idempotently", func() {
		Expect(svc.DeleteByExternalID(ctx, "ext-Dave")).To(Succeed())
		Expect(svc.DeleteByExternalID(ctx, "ext-Dave")).To(Succeed())

		_, err := svc.GetByID(ctx, env.dave.ID)
		Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
	})

	DescribeTable("identity events",
		func(event string, handled bool) {
			ok, err := svc.HandleIdentityEvent(ctx, event, models.IdentityUser{ExternalID: "ext-Carol", Email: "carol@example.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(Equal(handled))
		},
		Entry("created", IdentityUserCreated, true),
		Entry("updated", IdentityUserUpdated, true),
		Entry("deleted", IdentityUserDeleted, true),
		Entry("unrelated", "organization.created", false),
	)
})
