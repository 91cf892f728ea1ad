package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamchat/internal/middleware"
	"teamchat/internal/models"
	"teamchat/internal/services"
)

type EmailHandler struct {
	emails  services.EmailService
	digests services.DigestService
	teams   middleware.MembershipChecker
}

func NewEmailHandler(emails services.EmailService, digests services.DigestService, teams middleware.MembershipChecker) *EmailHandler {
	return &EmailHandler{emails: emails, digests: digests, teams: teams}
}

type sendEmailRequest struct {
	Type    models.EmailType `json:"type"`
	TeamID  *int64           `json:"teamId"`
	To      string           `json:"to"`
	Subject string           `json:"subject"`
	HTML    string           `json:"html"`
	TaskID  *int64           `json:"taskId"`
}

// Send godoc
// @Summary      Send an ad-hoc email or a team's daily digest
// @Description  With type=daily_digest and teamId the digest is sent to every member with tasks.
// @Tags         Emails
// @Accept       json
// @Produce      json
// @Param        email  body  sendEmailRequest  true  "Email"
// @Success      200  {object}  dataResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Security     BearerAuth
// @Router       /emails/send [post]
func (h *EmailHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Type == models.EmailDailyDigest {
		if req.TeamID == nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "teamId is required"})
			return
		}
		if _, err := h.teams.RequireMember(ctx, *req.TeamID, actorFrom(c).ID); err != nil {
			respondError(c, err, "failed to send digest")
			return
		}
		res, err := h.digests.SendDaily(ctx, *req.TeamID)
		if err != nil {
			respondError(c, err, "failed to send digest")
			return
		}
		c.JSON(http.StatusOK, dataResponse{Data: res})
		return
	}

	err := h.emails.Send(ctx, services.SendEmailInput{
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
		TaskID:  req.TaskID,
	})
	if err != nil {
		respondError(c, err, "failed to send email")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Data: gin.H{"to": req.To, "status": models.EmailSent}})
}
