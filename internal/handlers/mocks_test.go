package handlers_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"teamchat/internal/middleware"
	"teamchat/internal/models"
	"teamchat/internal/notify"
	"teamchat/internal/services"
)

var errUnexpected = errors.New("unexpected call")

// withUser stands in for the JWT middleware.
func withUser(id int64, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, id)
		c.Set(middleware.CtxUserName, name)
		c.Next()
	}
}

type mockMessageService struct {
	sendFn    func(ctx context.Context, teamID int64, actor services.Actor, in services.SendMessageInput) (*models.Message, error)
	listFn    func(ctx context.Context, teamID int64, viewer services.Actor, conv models.Conversation, limit int) ([]models.Message, error)
	respondFn func(ctx context.Context, teamID, messageID int64, actor services.Actor, in services.RespondInput) (*services.RespondResult, error)
	reactFn   func(ctx context.Context, teamID, messageID int64, actor services.Actor, emoji string) (*models.Message, error)
}

func (m *mockMessageService) Send(ctx context.Context, teamID int64, actor services.Actor, in services.SendMessageInput) (*models.Message, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, teamID, actor, in)
	}
	return nil, errUnexpected
}

func (m *mockMessageService) SendFile(context.Context, int64, services.Actor, services.FileUpload, services.SendMessageInput) (*models.Message, error) {
	return nil, errUnexpected
}

func (m *mockMessageService) List(ctx context.Context, teamID int64, viewer services.Actor, conv models.Conversation, limit int) ([]models.Message, error) {
	if m.listFn != nil {
		return m.listFn(ctx, teamID, viewer, conv, limit)
	}
	return nil, errUnexpected
}

func (m *mockMessageService) ClearConversation(context.Context, int64, services.Actor, models.Conversation) (int64, error) {
	return 0, errUnexpected
}

func (m *mockMessageService) RespondToTask(ctx context.Context, teamID, messageID int64, actor services.Actor, in services.RespondInput) (*services.RespondResult, error) {
	if m.respondFn != nil {
		return m.respondFn(ctx, teamID, messageID, actor, in)
	}
	return nil, errUnexpected
}

func (m *mockMessageService) AddReaction(ctx context.Context, teamID, messageID int64, actor services.Actor, emoji string) (*models.Message, error) {
	if m.reactFn != nil {
		return m.reactFn(ctx, teamID, messageID, actor, emoji)
	}
	return nil, errUnexpected
}

func (m *mockMessageService) RemoveReaction(ctx context.Context, teamID, messageID int64, actor services.Actor, emoji string) (*models.Message, error) {
	return m.AddReaction(ctx, teamID, messageID, actor, emoji)
}

type mockNudgeService struct {
	nudgeFn func(ctx context.Context, teamID, messageID int64, nudger services.Actor) (*services.NudgeResult, error)
}

func (m *mockNudgeService) Nudge(ctx context.Context, teamID, messageID int64, nudger services.Actor) (*services.NudgeResult, error) {
	if m.nudgeFn != nil {
		return m.nudgeFn(ctx, teamID, messageID, nudger)
	}
	return nil, errUnexpected
}

type mockTaskService struct {
	createFn func(ctx context.Context, teamID int64, actor services.Actor, in services.CreateTaskInput) (*models.Task, error)
	listFn   func(ctx context.Context, teamID int64, actor services.Actor, filter models.TaskFilter) ([]models.Task, error)
	statusFn func(ctx context.Context, teamID, taskID int64, actor services.Actor, to models.TaskStatus) (*models.Task, error)
	exportFn func(ctx context.Context, teamID int64, actor services.Actor, w io.Writer) error
	deleteFn func(ctx context.Context, teamID, taskID int64, actor services.Actor) error
}

func (m *mockTaskService) Create(ctx context.Context, teamID int64, actor services.Actor, in services.CreateTaskInput) (*models.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, teamID, actor, in)
	}
	return nil, errUnexpected
}

func (m *mockTaskService) Get(context.Context, int64, int64, services.Actor) (*models.Task, error) {
	return nil, errUnexpected
}

func (m *mockTaskService) List(ctx context.Context, teamID int64, actor services.Actor, filter models.TaskFilter) ([]models.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, teamID, actor, filter)
	}
	return nil, errUnexpected
}

func (m *mockTaskService) Board(context.Context, int64, services.Actor) (*models.Board, error) {
	return nil, errUnexpected
}

func (m *mockTaskService) Update(context.Context, int64, int64, services.Actor, services.UpdateTaskInput) (*models.Task, error) {
	return nil, errUnexpected
}

func (m *mockTaskService) UpdateStatus(ctx context.Context, teamID, taskID int64, actor services.Actor, to models.TaskStatus) (*models.Task, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, teamID, taskID, actor, to)
	}
	return nil, errUnexpected
}

func (m *mockTaskService) Delete(ctx context.Context, teamID, taskID int64, actor services.Actor) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, teamID, taskID, actor)
	}
	return errUnexpected
}

func (m *mockTaskService) ExportBoard(ctx context.Context, teamID int64, actor services.Actor, w io.Writer) error {
	if m.exportFn != nil {
		return m.exportFn(ctx, teamID, actor, w)
	}
	return errUnexpected
}

type mockTeamService struct {
	statsFn         func(ctx context.Context, teamID int64, actor services.Actor) (*models.TeamStats, error)
	heartbeatFn     func(ctx context.Context, teamID int64, actor services.Actor, sessionID string, interval time.Duration) (string, error)
	disconnectFn    func(ctx context.Context, token string) error
	requireMemberFn func(ctx context.Context, teamID, userID int64) (*models.Team, error)
}

func (m *mockTeamService) Create(context.Context, services.Actor, string) (*models.Team, error) {
	return nil, errUnexpected
}

func (m *mockTeamService) Get(context.Context, int64, services.Actor) (*models.Team, error) {
	return nil, errUnexpected
}

func (m *mockTeamService) ListForMember(context.Context, services.Actor) ([]models.Team, error) {
	return nil, errUnexpected
}

func (m *mockTeamService) AddMember(context.Context, int64, services.Actor, int64) (*models.Team, error) {
	return nil, errUnexpected
}

func (m *mockTeamService) RemoveMember(context.Context, int64, services.Actor, int64) (*models.Team, error) {
	return nil, errUnexpected
}

func (m *mockTeamService) Invite(context.Context, int64, services.Actor, string) error {
	return errUnexpected
}

func (m *mockTeamService) Announce(context.Context, int64, services.Actor, string, string) (*services.AnnounceResult, error) {
	return nil, errUnexpected
}

func (m *mockTeamService) Stats(ctx context.Context, teamID int64, actor services.Actor) (*models.TeamStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, teamID, actor)
	}
	return nil, errUnexpected
}

func (m *mockTeamService) Heartbeat(ctx context.Context, teamID int64, actor services.Actor, sessionID string, interval time.Duration) (string, error) {
	if m.heartbeatFn != nil {
		return m.heartbeatFn(ctx, teamID, actor, sessionID, interval)
	}
	return "", errUnexpected
}

func (m *mockTeamService) Disconnect(ctx context.Context, token string) error {
	if m.disconnectFn != nil {
		return m.disconnectFn(ctx, token)
	}
	return errUnexpected
}

func (m *mockTeamService) RequireMember(ctx context.Context, teamID, userID int64) (*models.Team, error) {
	if m.requireMemberFn != nil {
		return m.requireMemberFn(ctx, teamID, userID)
	}
	return &models.Team{ID: teamID, MemberIDs: []int64{userID}}, nil
}

type mockEmailService struct {
	sendFn func(ctx context.Context, in services.SendEmailInput) error
}

func (m *mockEmailService) Send(ctx context.Context, in services.SendEmailInput) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, in)
	}
	return errUnexpected
}

type mockDigestService struct {
	sendDailyFn func(ctx context.Context, teamID int64) (*notify.BatchResult, error)
}

func (m *mockDigestService) SendDaily(ctx context.Context, teamID int64) (*notify.BatchResult, error) {
	if m.sendDailyFn != nil {
		return m.sendDailyFn(ctx, teamID)
	}
	return nil, errUnexpected
}

func (m *mockDigestService) SendDailyAll(context.Context) (*notify.BatchResult, error) {
	return nil, errUnexpected
}

type mockUserService struct {
	handleFn func(ctx context.Context, event string, in models.IdentityUser) (bool, error)
	calls    int
}

func (m *mockUserService) GetByID(context.Context, int64) (*models.User, error) {
	return nil, errUnexpected
}

func (m *mockUserService) GetByExternalID(context.Context, string) (*models.User, error) {
	return nil, errUnexpected
}

func (m *mockUserService) Upsert(context.Context, models.IdentityUser) (*models.User, error) {
	return nil, errUnexpected
}

func (m *mockUserService) DeleteByExternalID(context.Context, string) error {
	return errUnexpected
}

func (m *mockUserService) HandleIdentityEvent(ctx context.Context, event string, in models.IdentityUser) (bool, error) {
	m.calls++
	if m.handleFn != nil {
		return m.handleFn(ctx, event, in)
	}
	return false, errUnexpected
}

type mockValidator struct {
	validateFn func(header, body string) (string, error)
}

func (m *mockValidator) ValidatePayload(header, body string) (string, error) {
	return m.validateFn(header, body)
}
