package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamchat/internal/handlers"
	"teamchat/internal/models"
)

var _ = Describe("IdentityWebhookHandler", func() {
	const userCreated = `{"id":"evt_1","event":"user.created","data":{"id":"user_01","email":"carol@example.com","first_name":"Carol"}}`

	var (
		users     *mockUserService
		validator *mockValidator
		router    *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		users = &mockUserService{}
		validator = &mockValidator{validateFn: func(header, body string) (string, error) {
			if header != "t=1, v1=good" {
				return "", errors.New("invalid signature")
			}
			return body, nil
		}}
		router = gin.New()
		router.POST("/webhooks/identity", handlers.NewIdentityWebhookHandler(users, validator).Handle)
	})

	post := func(signature, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", strings.NewReader(body))
		req.Header.Set("WorkOS-Signature", signature)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("rejects a bad signature without touching users", func() {
		w := post("t=1, v1=forged", userCreated)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(users.calls).To(BeZero())
	})

	It("maps the event payload onto an identity user", func() {
		users.handleFn = func(_ context.Context, event string, in models.IdentityUser) (bool, error) {
			Expect(event).To(Equal("user.created"))
			Expect(in.ExternalID).To(Equal("user_01"))
			Expect(in.Email).To(Equal("carol@example.com"))
			Expect(*in.FirstName).To(Equal("Carol"))
			Expect(in.LastName).To(BeNil())
			return true, nil
		}

		w := post("t=1, v1=good", userCreated)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"handled":true`))
		Expect(users.calls).To(Equal(1))
	})

	It("acknowledges events it does not handle", func() {
		users.handleFn = func(context.Context, string, models.IdentityUser) (bool, error) {
			return false, nil
		}
		w := post("t=1, v1=good", `{"id":"evt_2","event":"organization.created","data":{}}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"handled":false`))
	})

	It("rejects a payload that is not json", func() {
		Expect(post("t=1, v1=good", "nope").Code).To(Equal(http.StatusBadRequest))
		Expect(users.calls).To(BeZero())
	})
})
