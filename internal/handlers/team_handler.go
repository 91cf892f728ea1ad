package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamchat/internal/services"
)

type TeamHandler struct {
	teams services.TeamService
}

func NewTeamHandler(teams services.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

type createTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

type addMemberRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

type inviteRequest struct {
	Email string `json:"email" binding:"required"`
}

type announceRequest struct {
	Subject string `json:"subject" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

type heartbeatRequest struct {
	SessionID       string `json:"session_id"`
	IntervalSeconds int    `json:"interval_seconds"`
}

type disconnectRequest struct {
	SessionToken string `json:"session_token" binding:"required"`
}

// Create godoc
// @Summary      Create a team owned by the caller
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Param        team  body  createTeamRequest  true  "Team"
// @Success      201  {object}  models.Team
// @Security     BearerAuth
// @Router       /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	team, err := h.teams.Create(c.Request.Context(), actorFrom(c), req.Name)
	if err != nil {
		respondError(c, err, "failed to create team")
		return
	}
	c.JSON(http.StatusCreated, team)
}

// List godoc
// @Summary      Teams the caller belongs to
// @Tags         Teams
// @Produce      json
// @Success      200  {array}  models.Team
// @Security     BearerAuth
// @Router       /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teams.ListForMember(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err, "failed to list teams")
		return
	}
	c.JSON(http.StatusOK, teams)
}

// Get godoc
// @Summary      Get a team
// @Tags         Teams
// @Produce      json
// @Param        teamID  path  int  true  "Team ID"
// @Success      200  {object}  models.Team
// @Security     BearerAuth
// @Router       /teams/{teamID} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	team, err := h.teams.Get(c.Request.Context(), teamID, actorFrom(c))
	if err != nil {
		respondError(c, err, "failed to get team")
		return
	}
	c.JSON(http.StatusOK, team)
}

// AddMember godoc
// @Summary      Add a user to the team
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Param        teamID  path  int               true  "Team ID"
// @Param        member  body  addMemberRequest  true  "User"
// @Success      200  {object}  models.Team
// @Security     BearerAuth
// @Router       /teams/{teamID}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	team, err := h.teams.AddMember(c.Request.Context(), teamID, actorFrom(c), req.UserID)
	if err != nil {
		respondError(c, err, "failed to add member")
		return
	}
	c.JSON(http.StatusOK, team)
}

// RemoveMember godoc
// @Summary      Remove a user from the team
// @Tags         Teams
// @Produce      json
// @Param        teamID  path  int  true  "Team ID"
// @Param        userID  path  int  true  "User ID"
// @Success      200  {object}  models.Team
// @Security     BearerAuth
// @Router       /teams/{teamID}/members/{userID} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	userID, err := int64Param(c, "userID")
	if err != nil {
		badRequest(c, err)
		return
	}
	team, err := h.teams.RemoveMember(c.Request.Context(), teamID, actorFrom(c), userID)
	if err != nil {
		respondError(c, err, "failed to remove member")
		return
	}
	c.JSON(http.StatusOK, team)
}

// Invite godoc
// @Summary      Email an invitation to join the team
// @Tags         Teams
// @Accept       json
// @Param        teamID      path  int            true  "Team ID"
// @Param        invitation  body  inviteRequest  true  "Invitee"
// @Success      202
// @Security     BearerAuth
// @Router       /teams/{teamID}/invitations [post]
func (h *TeamHandler) Invite(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.teams.Invite(c.Request.Context(), teamID, actorFrom(c), req.Email); err != nil {
		respondError(c, err, "failed to invite")
		return
	}
	c.Status(http.StatusAccepted)
}

// Announce godoc
// @Summary      Email an announcement to every member
// @Tags         Teams
// @Accept       json
// @Produce      json
// @Param        teamID        path  int              true  "Team ID"
// @Param        announcement  body  announceRequest  true  "Announcement"
// @Success      202  {object}  services.AnnounceResult
// @Security     BearerAuth
// @Router       /teams/{teamID}/announcements [post]
func (h *TeamHandler) Announce(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req announceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.teams.Announce(c.Request.Context(), teamID, actorFrom(c), req.Subject, req.Text)
	if err != nil {
		respondError(c, err, "failed to announce")
		return
	}
	c.JSON(http.StatusAccepted, res)
}

// Stats godoc
// @Summary      Member presence and task counts
// @Tags         Teams
// @Produce      json
// @Param        teamID  path  int  true  "Team ID"
// @Success      200  {object}  models.TeamStats
// @Security     BearerAuth
// @Router       /teams/{teamID}/stats [get]
func (h *TeamHandler) Stats(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	stats, err := h.teams.Stats(c.Request.Context(), teamID, actorFrom(c))
	if err != nil {
		respondError(c, err, "failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Heartbeat godoc
// @Summary      Mark the caller online in the team
// @Tags         Presence
// @Accept       json
// @Produce      json
// @Param        teamID     path  int               true  "Team ID"
// @Param        heartbeat  body  heartbeatRequest  false "Session"
// @Success      200  {object}  map[string]string
// @Security     BearerAuth
// @Router       /teams/{teamID}/presence/heartbeat [post]
func (h *TeamHandler) Heartbeat(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req heartbeatRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	interval := time.Duration(req.IntervalSeconds) * time.Second
	token, err := h.teams.Heartbeat(c.Request.Context(), teamID, actorFrom(c), req.SessionID, interval)
	if err != nil {
		respondError(c, err, "failed to record heartbeat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_token": token})
}

// Disconnect godoc
// @Summary      End a presence session
// @Tags         Presence
// @Accept       json
// @Param        session  body  disconnectRequest  true  "Session"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /presence/disconnect [post]
func (h *TeamHandler) Disconnect(c *gin.Context) {
	var req disconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.teams.Disconnect(c.Request.Context(), req.SessionToken); err != nil {
		respondError(c, err, "failed to disconnect")
		return
	}
	c.Status(http.StatusNoContent)
}
