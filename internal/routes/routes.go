package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"teamchat/internal/handlers"
	"teamchat/internal/middleware"
)

type Handlers struct {
	Users    *handlers.UserHandler
	Teams    *handlers.TeamHandler
	Messages *handlers.MessageHandler
	Tasks    *handlers.TaskHandler
	Emails   *handlers.EmailHandler
	Events   *handlers.EventHandler
	Identity *handlers.IdentityWebhookHandler
}

type Config struct {
	JWTSecret []byte
	Teams     middleware.MembershipChecker
}

func SetupRoutes(r *gin.Engine, h Handlers, cfg Config) *gin.Engine {
	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if h.Identity != nil {
		r.POST("/webhooks/identity", h.Identity.Handle)
	}

	// ---- protected
	v1 := r.Group("/api/v1", middleware.Auth(cfg.JWTSecret))

	v1.GET("/users/me", h.Users.Me)
	v1.GET("/users/:userID", h.Users.Get)
	v1.GET("/teams", h.Teams.List)
	v1.POST("/teams", h.Teams.Create)
	v1.POST("/presence/disconnect", h.Teams.Disconnect)
	v1.POST("/emails/send", h.Emails.Send)
	v1.GET("/files/:storageID", h.Messages.Download)

	team := v1.Group("/teams/:teamID", middleware.RequireTeamMember(cfg.Teams))
	{
		team.GET("", h.Teams.Get)
		team.GET("/stats", h.Teams.Stats)
		team.POST("/members", h.Teams.AddMember)
		team.DELETE("/members/:userID", h.Teams.RemoveMember)
		team.POST("/invitations", h.Teams.Invite)
		team.POST("/announcements", h.Teams.Announce)
		team.POST("/presence/heartbeat", h.Teams.Heartbeat)
		team.GET("/events", h.Events.Stream)
	}

	msgs := team.Group("/messages")
	{
		msgs.GET("", h.Messages.List)
		msgs.POST("", h.Messages.Send)
		msgs.DELETE("", h.Messages.Clear)
		msgs.POST("/file", h.Messages.SendFile)
		msgs.POST("/:messageID/respond", h.Messages.Respond)
		msgs.POST("/:messageID/reactions", h.Messages.AddReaction)
		msgs.DELETE("/:messageID/reactions", h.Messages.RemoveReaction)
		msgs.POST("/:messageID/nudge", h.Messages.Nudge)
	}

	tasks := team.Group("/tasks")
	{
		tasks.POST("", h.Tasks.Create)
		tasks.GET("", h.Tasks.List)
		tasks.GET("/board", h.Tasks.Board)
		tasks.GET("/board.pdf", h.Tasks.BoardPDF)
		tasks.GET("/:taskID", h.Tasks.Get)
		tasks.PATCH("/:taskID", h.Tasks.Update)
		tasks.PUT("/:taskID/status", h.Tasks.UpdateStatus)
		tasks.DELETE("/:taskID", h.Tasks.Delete)
	}

	return r
}
