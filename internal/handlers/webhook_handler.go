package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamchat/internal/models"
	"teamchat/internal/services"
)

const (
	signatureHeader = "WorkOS-Signature"
	maxWebhookBytes = 1 << 20
)

// PayloadValidator checks a webhook signature header against the raw body.
// *webhooks.Client from workos-go satisfies it.
type PayloadValidator interface {
	ValidatePayload(header string, body string) (string, error)
}

type IdentityWebhookHandler struct {
	users     services.UserService
	validator PayloadValidator
}

func NewIdentityWebhookHandler(users services.UserService, validator PayloadValidator) *IdentityWebhookHandler {
	return &IdentityWebhookHandler{users: users, validator: validator}
}

type identityEvent struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Data  struct {
		ID                string  `json:"id"`
		Email             string  `json:"email"`
		FirstName         *string `json:"first_name"`
		LastName          *string `json:"last_name"`
		ProfilePictureURL *string `json:"profile_picture_url"`
	} `json:"data"`
}

// Handle godoc
// @Summary      Identity provider user events
// @Tags         Webhooks
// @Accept       json
// @Param        WorkOS-Signature  header  string  true  "Signature"
// @Success      200
// @Failure      401  {object}  errorResponse
// @Router       /webhooks/identity [post]
func (h *IdentityWebhookHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		badRequest(c, err)
		return
	}
	payload, err := h.validator.ValidatePayload(c.GetHeader(signatureHeader), string(body))
	if err != nil {
		slog.WarnContext(ctx, "identity webhook rejected", "error", err)
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
		return
	}

	var ev identityEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		badRequest(c, err)
		return
	}

	handled, err := h.users.HandleIdentityEvent(ctx, ev.Event, models.IdentityUser{
		ExternalID: ev.Data.ID,
		Email:      ev.Data.Email,
		FirstName:  ev.Data.FirstName,
		LastName:   ev.Data.LastName,
		AvatarURL:  ev.Data.ProfilePictureURL,
	})
	if err != nil {
		respondError(c, err, "failed to apply identity event")
		return
	}
	slog.InfoContext(ctx, "identity webhook processed", "event_id", ev.ID, "event", ev.Event, "handled", handled)
	c.JSON(http.StatusOK, gin.H{"received": true, "handled": handled})
}
