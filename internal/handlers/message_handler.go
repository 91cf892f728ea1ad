package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamchat/internal/models"
	"teamchat/internal/services"
	"teamchat/internal/storage"
)

const maxUploadBytes = 25 << 20

type MessageHandler struct {
	messages services.MessageService
	nudges   services.NudgeService
	files    storage.FileStore
}

func NewMessageHandler(messages services.MessageService, nudges services.NudgeService, files storage.FileStore) *MessageHandler {
	return &MessageHandler{messages: messages, nudges: nudges, files: files}
}

type sendMessageRequest struct {
	Content     string             `json:"content" form:"content"`
	Type        models.MessageType `json:"message_type" form:"message_type"`
	RecipientID *int64             `json:"recipient_id" form:"recipient_id"`
	IsTask      bool               `json:"is_task" form:"is_task"`
	AssigneeID  *int64             `json:"assignee_id" form:"assignee_id"`
	DueDate     *string            `json:"due_date" form:"due_date"`
}

func (r sendMessageRequest) input() (services.SendMessageInput, error) {
	due, err := parseTime(r.DueDate, "due_date")
	if err != nil {
		return services.SendMessageInput{}, err
	}
	return services.SendMessageInput{
		Content:     r.Content,
		Type:        r.Type,
		RecipientID: r.RecipientID,
		IsTask:      r.IsTask,
		AssigneeID:  r.AssigneeID,
		DueDate:     due,
	}, nil
}

type respondRequest struct {
	Status   models.ProposalStatus `json:"status" binding:"required"`
	Priority *models.TaskPriority  `json:"priority"`
	DueDate  *string               `json:"due_date"`
}

type reactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// conversation reads ?type=general|direct&peer_id=.
func conversation(c *gin.Context, teamID int64) (models.Conversation, error) {
	switch models.MessageType(c.DefaultQuery("type", string(models.MessageTypeGeneral))) {
	case models.MessageTypeGeneral:
		return models.GeneralConversation(teamID), nil
	case models.MessageTypeDirect:
		peer, err := optionalInt64Query(c, "peer_id")
		if err != nil {
			return models.Conversation{}, err
		}
		if peer == nil {
			return models.Conversation{}, errors.New("peer_id is required for direct conversations")
		}
		return models.DirectConversation(teamID, *peer), nil
	default:
		return models.Conversation{}, errors.New("invalid type")
	}
}

// List godoc
// @Summary      List messages of a conversation
// @Tags         Messages
// @Produce      json
// @Param        teamID   path   int     true   "Team ID"
// @Param        type     query  string  false  "general or direct"
// @Param        peer_id  query  int     false  "Other participant of a direct conversation"
// @Param        limit    query  int     false  "Max messages (default 100)"
// @Success      200  {array}   models.Message
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	conv, err := conversation(c, teamID)
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	msgs, err := h.messages.List(c.Request.Context(), teamID, actorFrom(c), conv, limit)
	if err != nil {
		respondError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Send godoc
// @Summary      Send a message, optionally as a task proposal
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        teamID   path  int                 true  "Team ID"
// @Param        message  body  sendMessageRequest  true  "Message"
// @Success      201  {object}  models.Message
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), teamID, actorFrom(c), in)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// SendFile godoc
// @Summary      Send a message with an attachment
// @Tags         Messages
// @Accept       multipart/form-data
// @Produce      json
// @Param        teamID  path      int   true  "Team ID"
// @Param        file    formData  file  true  "Attachment"
// @Success      201  {object}  models.Message
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages/file [post]
func (h *MessageHandler) SendFile(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, errors.New("file is required"))
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := req.input()
	if err != nil {
		badRequest(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		badRequest(c, errors.New("cannot read file"))
		return
	}
	defer f.Close()

	msg, err := h.messages.SendFile(c.Request.Context(), teamID, actorFrom(c), services.FileUpload{
		FileName: fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Reader:   f,
	}, in)
	if err != nil {
		respondError(c, err, "failed to send file")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Clear godoc
// @Summary      Delete every message of a conversation
// @Tags         Messages
// @Produce      json
// @Param        teamID   path   int     true   "Team ID"
// @Param        type     query  string  false  "general or direct"
// @Param        peer_id  query  int     false  "Other participant of a direct conversation"
// @Success      200  {object}  map[string]int64
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages [delete]
func (h *MessageHandler) Clear(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	conv, err := conversation(c, teamID)
	if err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.messages.ClearConversation(c.Request.Context(), teamID, actorFrom(c), conv)
	if err != nil {
		respondError(c, err, "failed to clear conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// Respond godoc
// @Summary      Accept or reject a task proposal
// @Description  Only the assignee may answer, once. Accepting creates the task.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        teamID     path  int             true  "Team ID"
// @Param        messageID  path  int             true  "Message ID"
// @Param        response   body  respondRequest  true  "Response"
// @Success      200  {object}  services.RespondResult
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages/{messageID}/respond [post]
func (h *MessageHandler) Respond(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	messageID, err := int64Param(c, "messageID")
	if err != nil {
		badRequest(c, err)
		return
	}
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	due, err := parseTime(req.DueDate, "due_date")
	if err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.messages.RespondToTask(c.Request.Context(), teamID, messageID, actorFrom(c), services.RespondInput{
		Status:   req.Status,
		Priority: req.Priority,
		DueDate:  due,
	})
	if err != nil {
		respondError(c, err, "failed to respond to task")
		return
	}
	c.JSON(http.StatusOK, res)
}

// AddReaction godoc
// @Summary      Toggle the caller's reaction
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        teamID     path  int              true  "Team ID"
// @Param        messageID  path  int              true  "Message ID"
// @Param        reaction   body  reactionRequest  true  "Emoji"
// @Success      200  {object}  models.Message
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages/{messageID}/reactions [post]
func (h *MessageHandler) AddReaction(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	messageID, err := int64Param(c, "messageID")
	if err != nil {
		badRequest(c, err)
		return
	}
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.messages.AddReaction(c.Request.Context(), teamID, messageID, actorFrom(c), req.Emoji)
	if err != nil {
		respondError(c, err, "failed to update reaction")
		return
	}
	c.JSON(http.StatusOK, msg)
}

// RemoveReaction godoc
// @Summary      Remove the caller's reaction
// @Tags         Messages
// @Produce      json
// @Param        teamID     path   int     true  "Team ID"
// @Param        messageID  path   int     true  "Message ID"
// @Param        emoji      query  string  true  "Emoji"
// @Success      200  {object}  models.Message
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages/{messageID}/reactions [delete]
func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	messageID, err := int64Param(c, "messageID")
	if err != nil {
		badRequest(c, err)
		return
	}
	emoji := c.Query("emoji")
	if emoji == "" {
		badRequest(c, errors.New("emoji is required"))
		return
	}
	msg, err := h.messages.RemoveReaction(c.Request.Context(), teamID, messageID, actorFrom(c), emoji)
	if err != nil {
		respondError(c, err, "failed to update reaction")
		return
	}
	c.JSON(http.StatusOK, msg)
}

// Nudge godoc
// @Summary      Remind the right person about a message
// @Tags         Messages
// @Produce      json
// @Param        teamID     path  int  true  "Team ID"
// @Param        messageID  path  int  true  "Message ID"
// @Success      200  {object}  services.NudgeResult
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /teams/{teamID}/messages/{messageID}/nudge [post]
func (h *MessageHandler) Nudge(c *gin.Context) {
	teamID, err := teamIDFrom(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	messageID, err := int64Param(c, "messageID")
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.nudges.Nudge(c.Request.Context(), teamID, messageID, actorFrom(c))
	if err != nil {
		respondError(c, err, "failed to nudge")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Download godoc
// @Summary      Download an attachment
// @Tags         Messages
// @Produce      octet-stream
// @Param        storageID  path  string  true  "Storage ID"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /files/{storageID} [get]
func (h *MessageHandler) Download(c *gin.Context) {
	storageID := c.Param("storageID")
	path, err := h.files.Path(storageID)
	if errors.Is(err, storage.ErrFileNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "file not found"})
		return
	}
	if err != nil {
		respondError(c, err, "failed to open file")
		return
	}
	name := c.DefaultQuery("name", filepath.Base(path))
	if c.Query("inline") == "1" {
		c.File(path)
		return
	}
	c.FileAttachment(path, filepath.Base(name))
}
