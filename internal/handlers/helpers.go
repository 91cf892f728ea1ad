package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamchat/internal/middleware"
	"teamchat/internal/models"
	"teamchat/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{ID: c.GetInt64(middleware.CtxUserID), Name: c.GetString(middleware.CtxUserName)}
}

// teamIDFrom prefers the team resolved by RequireTeamMember.
func teamIDFrom(c *gin.Context) (int64, error) {
	if v, ok := c.Get(middleware.CtxTeam); ok {
		if t, ok := v.(*models.Team); ok {
			return t.ID, nil
		}
	}
	return int64Param(c, "teamID")
}

func int64Param(c *gin.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// optionalInt64Query returns nil when the parameter is absent.
func optionalInt64Query(c *gin.Context, name string) (*int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

func parseTime(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s (RFC3339)", field)
	}
	return &t, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// respondError maps service errors onto status codes. Unexpected errors are
// logged and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrNotTaskProposal):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotAssignee), errors.Is(err, services.ErrNotTeamMember):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrAlreadyResponded):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrEmailNotConfigured):
		slog.ErrorContext(ctx, "email is not configured", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "email service is not configured"})
	default:
		slog.ErrorContext(ctx, fallback, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: fallback})
	}
}
