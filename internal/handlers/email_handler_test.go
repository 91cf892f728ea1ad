package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/handlers"
	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/services"
)

var _ = Describe("EmailHandler", func() {
	var (
		emails  *mockEmailService
		digests *mockDigestService
		teams   *mockTeamService
		router  *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		emails = &mockEmailService{}
		digests = &mockDigestService{}
		teams = &mockTeamService{}
		h := handlers.NewEmailHandler(emails, digests, teams)

		router = gin.New()
		router.POST("/emails/send", withUser(1, "Alice"), h.Send)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/emails/send", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("sends an ad-hoc email", func() {
		emails.sendFn = func(_ context.Context, in services.SendEmailInput) error {
			Expect(in.To).To(Equal("bob@example.com"))
			Expect(*in.TaskID).To(Equal(int64(9)))
			return nil
		}
		w := send(`{"to":"bob@example.com","subject":"Hi","html":"<p>x</p>","taskId":9}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"sent"`))
	})

	It("returns 500 with a clear message when smtp is not configured", func() {
		emails.sendFn = func(context.Context, services.SendEmailInput) error {
			return services.ErrEmailNotConfigured
		}
		w := send(`{"to":"bob@example.com","subject":"Hi","html":"x"}`)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("not configured"))
	})

	Describe("daily digest", func() {
		It("requires a team", func() {
			Expect(send(`{"type":"daily_digest"}`).Code).To(Equal(http.StatusBadRequest))
		})

		It("refuses callers outside the team", func() {
			teams.requireMemberFn = func(context.Context, int64, int64) (*models.Team, error) {
				return nil, services.ErrNotTeamMember
			}
			Expect(send(`{"type":"daily_digest","teamId":100}`).Code).To(Equal(http.StatusForbidden))
		})

		It("reports per-member results", func() {
			digests.sendDailyFn = func(_ context.Context, teamID int64) (*notify.BatchResult, error) {
				Expect(teamID).To(Equal(int64(100)))
				return &notify.BatchResult{
					Sent:     2,
					Failed:   1,
					Failures: []notify.BatchFailure{{To: "bob@example.com", Error: "mailbox full"}},
				}, nil
			}

			w := send(`{"type":"daily_digest","teamId":100}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"sent":2`))
			Expect(w.Body.String()).To(ContainSubstring("mailbox full"))
		})
	})
})
