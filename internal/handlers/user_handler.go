package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamchat/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me godoc
// @Summary      The authenticated user
// @Tags         Users
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.GetByID(c.Request.Context(), actorFrom(c).ID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}
	c.JSON(http.StatusOK, u)
}

// Get godoc
// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Param        userID  path  int  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /users/{userID} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, err := int64Param(c, "userID")
	if err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}
	c.JSON(http.StatusOK, u)
}
