package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamchat/internal/logger"
	"teamchat/internal/models"
	"teamchat/internal/services"
)

const CtxTeam = "team"

// MembershipChecker resolves a team and confirms userID belongs to it.
type MembershipChecker interface {
	RequireMember(ctx context.Context, teamID, userID int64) (*models.Team, error)
}

// RequireTeamMember guards routes under /teams/:teamID.
func RequireTeamMember(checker MembershipChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, err := strconv.ParseInt(c.Param("teamID"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
			return
		}
		userID := c.GetInt64(CtxUserID)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
			return
		}

		team, err := checker.RequireMember(c.Request.Context(), teamID, userID)
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		case errors.Is(err, services.ErrNotTeamMember):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load team"})
			return
		}

		c.Set(CtxTeam, team)
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{TeamID: &team.ID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
