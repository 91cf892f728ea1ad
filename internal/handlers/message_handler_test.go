package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/handlers"
	"teamchat/internal/models"
	"teamchat/internal/services"
)

var _ = Describe("MessageHandler", func() {
	var (
		messages *mockMessageService
		nudges   *mockNudgeService
		router   *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		messages = &mockMessageService{}
		nudges = &mockNudgeService{}
		h := handlers.NewMessageHandler(messages, nudges, nil)

		router = gin.New()
		team := router.Group("/teams/:teamID", withUser(2, "Bob"))
		team.GET("/messages", h.List)
		team.POST("/messages", h.Send)
		team.POST("/messages/:messageID/respond", h.Respond)
		team.POST("/messages/:messageID/reactions", h.AddReaction)
		team.POST("/messages/:messageID/nudge", h.Nudge)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Send", func() {
		It("passes the task proposal through to the service", func() {
			var got services.SendMessageInput
			messages.sendFn = func(_ context.Context, teamID int64, actor services.Actor, in services.SendMessageInput) (*models.Message, error) {
				Expect(teamID).To(Equal(int64(100)))
				Expect(actor).To(Equal(services.Actor{ID: 2, Name: "Bob"}))
				got = in
				return &models.Message{ID: 7, TeamID: teamID, Content: in.Content}, nil
			}

			w := do(http.MethodPost, "/teams/100/messages",
				`{"content":"ship it","is_task":true,"assignee_id":3,"due_date":"2026-03-01T12:00:00Z"}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(got.IsTask).To(BeTrue())
			Expect(*got.AssigneeID).To(Equal(int64(3)))
			Expect(got.DueDate.Year()).To(Equal(2026))
		})

		It("rejects a malformed due date before calling the service", func() {
			w := do(http.MethodPost, "/teams/100/messages", `{"content":"x","due_date":"tomorrow"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("due_date"))
		})

		It("rejects a non-numeric team id", func() {
			w := do(http.MethodPost, "/teams/abc/messages", `{"content":"x"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("List", func() {
		It("requires peer_id for direct conversations", func() {
			w := do(http.MethodGet, "/teams/100/messages?type=direct", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("builds the direct conversation from the query", func() {
			messages.listFn = func(_ context.Context, _ int64, viewer services.Actor, conv models.Conversation, limit int) ([]models.Message, error) {
				Expect(viewer.ID).To(Equal(int64(2)))
				Expect(conv).To(Equal(models.DirectConversation(100, 3)))
				Expect(limit).To(Equal(20))
				return []models.Message{{ID: 1}}, nil
			}

			w := do(http.MethodGet, "/teams/100/messages?type=direct&peer_id=3&limit=20", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			var got []models.Message
			Expect(json.Unmarshal(w.Body.Bytes(), &got)).To(Succeed())
			Expect(got).To(HaveLen(1))
		})
	})

	Describe("Respond", func() {
		DescribeTable("maps service errors onto status codes",
			func(err error, code int) {
				messages.respondFn = func(context.Context, int64, int64, services.Actor, services.RespondInput) (*services.RespondResult, error) {
					return nil, err
				}
				w := do(http.MethodPost, "/teams/100/messages/10/respond", `{"status":"accepted"}`)
				Expect(w.Code).To(Equal(code))
			},
			Entry("validation", fmt.Errorf("%w: bad status", services.ErrValidation), http.StatusBadRequest),
			Entry("not a proposal", services.ErrNotTaskProposal, http.StatusBadRequest),
			Entry("not the assignee", services.ErrNotAssignee, http.StatusForbidden),
			Entry("not a member", services.ErrNotTeamMember, http.StatusForbidden),
			Entry("missing message", fmt.Errorf("message: %w", services.ErrNotFound), http.StatusNotFound),
			Entry("already answered", services.ErrAlreadyResponded, http.StatusConflict),
			Entry("anything else", errors.New("db down"), http.StatusInternalServerError),
		)

		It("hides unexpected errors behind a generic message", func() {
			messages.respondFn = func(context.Context, int64, int64, services.Actor, services.RespondInput) (*services.RespondResult, error) {
				return nil, errors.New("pq: connection refused")
			}
			w := do(http.MethodPost, "/teams/100/messages/10/respond", `{"status":"accepted"}`)
			Expect(w.Body.String()).NotTo(ContainSubstring("pq"))
		})

		It("requires a status", func() {
			w := do(http.MethodPost, "/teams/100/messages/10/respond", `{}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns the message and the created task", func() {
			messages.respondFn = func(_ context.Context, teamID, messageID int64, actor services.Actor, in services.RespondInput) (*services.RespondResult, error) {
				Expect(messageID).To(Equal(int64(10)))
				Expect(in.Status).To(Equal(models.ProposalAccepted))
				Expect(*in.Priority).To(Equal(models.PriorityHigh))
				return &services.RespondResult{
					Message: &models.Message{ID: messageID},
					Task:    &models.Task{ID: 55, TeamID: teamID},
				}, nil
			}

			w := do(http.MethodPost, "/teams/100/messages/10/respond", `{"status":"accepted","priority":"high"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"id":55`))
		})
	})

	It("requires an emoji to react", func() {
		w := do(http.MethodPost, "/teams/100/messages/10/reactions", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns the nudge result", func() {
		nudges.nudgeFn = func(_ context.Context, _, messageID int64, nudger services.Actor) (*services.NudgeResult, error) {
			Expect(nudger.Name).To(Equal("Bob"))
			return &services.NudgeResult{RecipientID: 3, OverdueCount: 2}, nil
		}
		w := do(http.MethodPost, "/teams/100/messages/10/nudge", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"overdue_count":2`))
	})
})
