package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type FilesConfig struct {
	RootDir string `yaml:"root_dir"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	AppURL       string `yaml:"app_url"`
}

func (e EmailConfig) Configured() bool {
	return e.SMTPHost != "" && e.FromEmail != ""
}

type OTelConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Headers        string `yaml:"headers"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	// SampleRatio is the fraction of new traces kept, in (0, 1].
	SampleRatio float64 `yaml:"sample_ratio"`
}

func (o OTelConfig) Enabled() bool {
	return o.Endpoint != ""
}

type PresenceConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type NotificationsConfig struct {
	QueueKey     string        `yaml:"queue_key"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Stagger      time.Duration `yaml:"stagger"`
	BatchSize    int64         `yaml:"batch_size"`
}

// NudgeConfig holds the task keywords per locale used to classify nudges.
type NudgeConfig struct {
	Keywords map[string][]string `yaml:"keywords"`
}

// AllKeywords flattens every locale's list.
func (n NudgeConfig) AllKeywords() []string {
	var out []string
	for _, words := range n.Keywords {
		out = append(out, words...)
	}
	return out
}

type Config struct {
	Env    string `yaml:"env"`
	NodeID int64  `yaml:"node_id"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	WorkOS struct {
		WebhookSecret string `yaml:"webhook_secret"`
	} `yaml:"workos"`
	Email         EmailConfig         `yaml:"email"`
	Files         FilesConfig         `yaml:"files"`
	Telegram      TelegramConfig      `yaml:"telegram"`
	OTel          OTelConfig          `yaml:"otel"`
	Presence      PresenceConfig      `yaml:"presence"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Nudge         NudgeConfig         `yaml:"nudge"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Load reads the YAML file at path, applies TEAMCHAT_* environment overrides
// (a .env file is loaded first when present) and fills defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only deployment
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "TEAMCHAT_ENV")
	setString(&cfg.Database.DSN, "TEAMCHAT_DATABASE_URL")
	setString(&cfg.Redis.URL, "TEAMCHAT_REDIS_URL")
	setString(&cfg.Auth.JWTSecret, "TEAMCHAT_JWT_SECRET")
	setString(&cfg.WorkOS.WebhookSecret, "TEAMCHAT_WORKOS_WEBHOOK_SECRET")
	setString(&cfg.Email.SMTPHost, "TEAMCHAT_SMTP_HOST")
	setString(&cfg.Email.SMTPUser, "TEAMCHAT_SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "TEAMCHAT_SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "TEAMCHAT_FROM_EMAIL")
	setString(&cfg.Telegram.BotToken, "TEAMCHAT_TELEGRAM_BOT_TOKEN")
	setString(&cfg.OTel.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.OTel.Headers, "OTEL_EXPORTER_OTLP_HEADERS")

	if v := os.Getenv("TEAMCHAT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TEAMCHAT_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("TEAMCHAT_NODE_ID"); v != "" {
		nodeID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TEAMCHAT_NODE_ID: %w", err)
		}
		cfg.NodeID = nodeID
	}
	if v := os.Getenv("TEAMCHAT_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TEAMCHAT_SMTP_PORT: %w", err)
		}
		cfg.Email.SMTPPort = port
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.OTel.ServiceName == "" {
		cfg.OTel.ServiceName = "teamchat"
	}
	if cfg.OTel.SampleRatio <= 0 || cfg.OTel.SampleRatio > 1 {
		cfg.OTel.SampleRatio = 1
	}
	if cfg.Presence.TTL == 0 {
		cfg.Presence.TTL = 30 * time.Second
	}
	if cfg.Notifications.QueueKey == "" {
		cfg.Notifications.QueueKey = "teamchat:notifications"
	}
	if cfg.Notifications.PollInterval == 0 {
		cfg.Notifications.PollInterval = time.Second
	}
	if cfg.Notifications.Stagger == 0 {
		cfg.Notifications.Stagger = 5 * time.Second
	}
	if cfg.Notifications.BatchSize == 0 {
		cfg.Notifications.BatchSize = 50
	}
	if len(cfg.Nudge.Keywords) == 0 {
		cfg.Nudge.Keywords = DefaultNudgeKeywords()
	}
}

func DefaultNudgeKeywords() map[string][]string {
	return map[string][]string{
		"pt": {"tarefa", "responsável", "prazo", "concluir"},
		"en": {"task", "assign", "deadline", "complete"},
	}
}
