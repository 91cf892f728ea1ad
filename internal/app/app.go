package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/workos/workos-go/v6/pkg/webhooks"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "teamchat/docs"
	"teamchat/internal/config"
	"teamchat/internal/handlers"
	"teamchat/internal/id"
	"teamchat/internal/logger"
	"teamchat/internal/middleware"
	"teamchat/internal/notify"
	"teamchat/internal/pdf"
	"teamchat/internal/presence"
	"teamchat/internal/realtime"
	"teamchat/internal/repositories"
	"teamchat/internal/routes"
	"teamchat/internal/services"
	"teamchat/internal/storage"
	"teamchat/internal/telemetry"
)

const (
	shutdownTimeout = 10 * time.Second
	fontPath        = "assets/fonts/DejaVuSans.ttf"
)

// App holds the process-wide dependencies shared by every command.
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Redis     *redis.Client
	telemetry *telemetry.Telemetry

	Stores     repositories.Stores
	Tx         repositories.TxRunner
	Hub        *realtime.Hub
	Queue      *notify.RedisQueue
	Dispatcher *notify.Dispatcher
	Templates  notify.Templates
	Files      *storage.LocalStore

	Messages  services.MessageService
	Tasks     services.TaskService
	Teams     services.TeamService
	Nudges    services.NudgeService
	Users     services.UserService
	Digests   services.DigestService
	Emails    services.EmailService
	Reconcile services.ReconcileService
}

// New sets up telemetry and logging, connects Postgres and Redis, and wires
// the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// OTel must init before logger (logger uses OTel provider in production)
	tel, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init otel: %w", err)
	}
	logger.Setup(cfg)
	if tel != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	}

	if err := id.Init(cfg.NodeID); err != nil {
		return nil, fmt.Errorf("init id generator: %w", err)
	}

	db, err := OpenDB(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	slog.InfoContext(ctx, "redis connected")

	files, err := storage.NewLocalStore(cfg.Files.RootDir)
	if err != nil {
		db.Close()
		rdb.Close()
		return nil, err
	}

	mirror, err := notify.NewMirror(cfg.Telegram)
	if err != nil {
		slog.WarnContext(ctx, "telegram mirror disabled", "error", err)
		mirror, _ = notify.NewMirror(config.TelegramConfig{})
	}

	a := &App{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		telemetry: tel,
		Stores:    repositories.NewStores(db),
		Tx:        repositories.NewTxRunner(db),
		Hub:       realtime.NewHub(rdb, ""),
		Queue:     notify.NewRedisQueue(rdb, cfg.Notifications.QueueKey),
		Templates: notify.Templates{AppURL: cfg.Email.AppURL},
		Files:     files,
	}
	if !cfg.Email.Configured() {
		slog.WarnContext(ctx, "smtp is not configured; emails will be logged as errors")
	}
	a.Dispatcher = notify.NewDispatcher(notify.NewSMTPSender(cfg.Email), a.Stores.EmailLogs())

	notifier := services.NewNotifier(a.Queue, a.Templates, cfg.Notifications.Stagger)
	presenceSvc := presence.NewRedisService(rdb, cfg.Presence.TTL)

	a.Messages = services.NewMessageService(a.Stores, a.Tx, files, a.Hub, notifier)
	a.Tasks = services.NewTaskService(a.Stores, a.Hub, notifier, pdf.NewBoardGenerator(fontPath))
	a.Teams = services.NewTeamService(a.Stores, presenceSvc, a.Hub, notifier, mirror)
	a.Nudges = services.NewNudgeService(a.Stores, notifier, cfg.Nudge.AllKeywords())
	a.Users = services.NewUserService(a.Stores.Users())
	a.Digests = services.NewDigestService(a.Stores, a.Dispatcher, a.Templates)
	a.Emails = services.NewEmailService(a.Dispatcher)
	a.Reconcile = services.NewReconcileService(a.Stores, a.Tx, a.Hub)
	return a, nil
}

func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	slog.InfoContext(ctx, "database connected")
	return db, nil
}

func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		slog.ErrorContext(ctx, "redis close error", "error", err)
	}
	if err := a.DB.Close(); err != nil {
		slog.ErrorContext(ctx, "database close error", "error", err)
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "otel shutdown error", "error", err)
		}
	}
}

func (a *App) Router() *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if a.Config.OTel.Enabled() {
		router.Use(otelgin.Middleware(a.Config.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	var identity *handlers.IdentityWebhookHandler
	if secret := a.Config.WorkOS.WebhookSecret; secret != "" {
		identity = handlers.NewIdentityWebhookHandler(a.Users, webhooks.NewClient(secret))
	} else {
		slog.Warn("identity webhook disabled (no webhook secret configured)")
	}

	return routes.SetupRoutes(router, routes.Handlers{
		Users:    handlers.NewUserHandler(a.Users),
		Teams:    handlers.NewTeamHandler(a.Teams),
		Messages: handlers.NewMessageHandler(a.Messages, a.Nudges, a.Files),
		Tasks:    handlers.NewTaskHandler(a.Tasks),
		Emails:   handlers.NewEmailHandler(a.Emails, a.Digests, a.Teams),
		Events:   handlers.NewEventHandler(a.Hub),
		Identity: identity,
	}, routes.Config{
		JWTSecret: []byte(a.Config.Auth.JWTSecret),
		Teams:     a.Teams,
	})
}

// Serve runs the HTTP server and the realtime relay until SIGINT/SIGTERM.
func (a *App) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.Hub.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "realtime hub stopped", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server starting", "port", a.Config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}
	slog.InfoContext(shutdownCtx, "shutdown complete")
	return nil
}

// RunWorker repairs accepted proposals without tasks, then drains the
// notification queue until SIGINT/SIGTERM.
func (a *App) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if res, err := a.Reconcile.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "startup reconcile failed", "error", err)
	} else {
		slog.InfoContext(ctx, "startup reconcile done", "checked", res.Checked, "repaired", res.Repaired, "failed", res.Failed)
	}

	worker := notify.NewWorker(a.Queue, a.Dispatcher, a.Config.Notifications.PollInterval, a.Config.Notifications.BatchSize)
	slog.InfoContext(ctx, "notification worker starting", "queue", a.Config.Notifications.QueueKey)
	return worker.Run(ctx)
}
