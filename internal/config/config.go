package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"leasehub-backend/internal/utils"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Health    HealthConfig    `yaml:"health" envconfig:"HEALTH"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DB"`
	JWT       JWTConfig       `yaml:"jwt" envconfig:"JWT"`
	Redis     RedisConfig     `yaml:"redis" envconfig:"REDIS"`
	Email     EmailConfig     `yaml:"email" envconfig:"EMAIL"`
	Push      PushConfig      `yaml:"push" envconfig:"PUSH"`
	NATS      NATSConfig      `yaml:"nats" envconfig:"NATS"`
	Tracing   TracingConfig   `yaml:"tracing" envconfig:"TRACING"`
	Cache     CacheConfig     `yaml:"cache" envconfig:"CACHE"`
	Webhooks  WebhookConfig   `yaml:"webhooks" envconfig:"WEBHOOK"`
	CORS      CORSConfig      `yaml:"cors" envconfig:"CORS"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	Scoring   ScoringConfig   `yaml:"scoring" envconfig:"SCORING"`
	Scheduler SchedulerConfig `yaml:"scheduler" envconfig:"SCHEDULER"`
}

// ServerConfig contains REST server settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

// HealthConfig contains the gRPC health probe listener
type HealthConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes" split_words:"true"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes" split_words:"true"`
	Issuer             string `yaml:"issuer"`
}

// RedisConfig contains the token revocation store
type RedisConfig struct {
	URL string `yaml:"url"`
}

// EmailConfig selects the outbound mail provider: smtp, sendgrid, ses or log
type EmailConfig struct {
	Provider string         `yaml:"provider"`
	From     string         `yaml:"from"`
	FromName string         `yaml:"from_name" split_words:"true"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
	SES      SESConfig      `yaml:"ses"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type SendGridConfig struct {
	APIKey string `yaml:"api_key" split_words:"true"`
}

type SESConfig struct {
	Region string `yaml:"region"`
}

// PushConfig contains Firebase Cloud Messaging settings
type PushConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file" split_words:"true"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix" split_words:"true"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name" split_words:"true"`
	SampleRatio float64 `yaml:"sample_ratio" split_words:"true"`
}

// CacheConfig sizes the in-memory property cache
type CacheConfig struct {
	Capacity int           `yaml:"capacity"`
	Shards   int           `yaml:"shards"`
	TTL      time.Duration `yaml:"ttl"`
}

type WebhookConfig struct {
	DocuSignSecret string `yaml:"docusign_secret" envconfig:"DOCUSIGN_SECRET"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// ScoringConfig overrides the tenant scoring thresholds
type ScoringConfig struct {
	AffordabilityWeight float64 `yaml:"affordability_weight" split_words:"true"`
	DebtWeight          float64 `yaml:"debt_weight" split_words:"true"`
	IncomeMultiple      float64 `yaml:"income_multiple" split_words:"true"`
	MaxDTI              float64 `yaml:"max_dti" envconfig:"MAX_DTI"`
	CeilingDTI          float64 `yaml:"ceiling_dti" envconfig:"CEILING_DTI"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkOverduePayments       string `yaml:"mark_overdue_payments" split_words:"true"`
	SendOverdueReminders      string `yaml:"send_overdue_reminders" split_words:"true"`
	RemindPendingLeaseReviews string `yaml:"remind_pending_lease_reviews" split_words:"true"`
	NotifyStaleEscalations    string `yaml:"notify_stale_escalations" split_words:"true"`
	LeaseReviewReminderDays   int    `yaml:"lease_review_reminder_days" split_words:"true"`
	StaleEscalationDays       int    `yaml:"stale_escalation_days" split_words:"true"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables win over the file, e.g. DB_HOST or JWT_SECRET
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Health.Port < 0 || c.Health.Port > 65535 || (c.Health.Port != 0 && c.Health.Port == c.Server.Port) {
		return fmt.Errorf("invalid health port: %d", c.Health.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "leasehub"
	}

	switch c.Email.Provider {
	case "":
		c.Email.Provider = "log"
	case "log":
	case "smtp":
		if c.Email.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Email.SMTP.Port <= 0 || c.Email.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.SMTP.Port)
		}
	case "sendgrid":
		if c.Email.SendGrid.APIKey == "" {
			return fmt.Errorf("sendgrid api key is required")
		}
	case "ses":
		if c.Email.SES.Region == "" {
			return fmt.Errorf("SES region is required")
		}
	default:
		return fmt.Errorf("unknown email provider: %s", c.Email.Provider)
	}
	if c.Email.Provider != "log" && c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Leasehub"
	}

	if c.Push.Enabled && c.Push.CredentialsFile == "" {
		return fmt.Errorf("push credentials file is required when push is enabled")
	}

	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "leasehub"
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing endpoint is required when tracing is enabled")
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "leasehub-backend"
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = 1
	}

	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 20 * time.Second
	}

	if c.Cache.Capacity == 0 {
		c.Cache.Capacity = 10000
	}
	if c.Cache.Shards == 0 {
		c.Cache.Shards = 10
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Scheduler defaults
	if c.Scheduler.MarkOverduePayments == "" {
		c.Scheduler.MarkOverduePayments = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendOverdueReminders == "" {
		c.Scheduler.SendOverdueReminders = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.RemindPendingLeaseReviews == "" {
		c.Scheduler.RemindPendingLeaseReviews = "0 0 9 * * *" // Daily at 9 AM UTC
	}
	if c.Scheduler.NotifyStaleEscalations == "" {
		c.Scheduler.NotifyStaleEscalations = "0 0 10 * * MON" // Mondays at 10 AM UTC
	}
	if c.Scheduler.LeaseReviewReminderDays == 0 {
		c.Scheduler.LeaseReviewReminderDays = 3
	}
	if c.Scheduler.StaleEscalationDays == 0 {
		c.Scheduler.StaleEscalationDays = 7
	}

	if err := c.Scoring.Thresholds().Validate(); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}

	return nil
}

// Thresholds converts the scoring section for utils.ScoreTenant.
func (s ScoringConfig) Thresholds() utils.ScoringThresholds {
	return utils.ScoringThresholds{
		AffordabilityWeight: s.AffordabilityWeight,
		DebtWeight:          s.DebtWeight,
		IncomeMultiple:      s.IncomeMultiple,
		MaxDTI:              s.MaxDTI,
		CeilingDTI:          s.CeilingDTI,
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the REST server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health server address
func (c *Config) GetHealthAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Health.Port)
}
