package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

const (
	RunModePolling = "polling"
	RunModeWebhook = "webhook"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	ChatID   int64  `envconfig:"CHAT_ID"` // production destination; 0 disables the daily run

	DeepSeekAPIKey    string        `envconfig:"DEEPSEEK_API_KEY"`
	DeepSeekURL       string        `envconfig:"DEEPSEEK_URL" default:"https://api.deepseek.com/v1/chat/completions"`
	DeepSeekModel     string        `envconfig:"DEEPSEEK_MODEL" default:"deepseek-chat"`
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"15s"`

	TZ                 string   `envconfig:"TZ" default:"Europe/Moscow"`
	NotifyAt           string   `envconfig:"NOTIFY_AT" default:"09:00"`
	Holidays           []string `envconfig:"HOLIDAYS" default:"01.01,23.02,08.03,01.05,09.05,12.06,04.11"`
	SkipNonWorkingDays bool     `envconfig:"SKIP_NON_WORKING_DAYS" default:"false"`
	DedupeDaily        bool     `envconfig:"DEDUPE_DAILY" default:"false"`

	BirthdaysFile string `envconfig:"BIRTHDAYS_FILE" default:"birthdays.json"` // .json or .yaml
	ExportFile    string `envconfig:"EXPORT_FILE" default:"import_birthdays.csv"`
	DBPath        string `envconfig:"DB_PATH" default:"./data/birthday.db"`

	RunMode     string `envconfig:"RUN_MODE" default:"polling"` // polling|webhook
	WebhookURL  string `envconfig:"WEBHOOK_URL"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`    // debug|info|warn|error
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"` // json|console

	// Resolved by Validate.
	Location  *time.Location `ignored:"true"`
	NotifyAtM int            `ignored:"true"`
}

// Load reads an optional .env file and then environment variables into Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field rules and resolves derived values.
func (c *Config) Validate() error {
	loc, err := domain.ValidateTZ(c.TZ)
	if err != nil {
		return fmt.Errorf("TZ: %w", err)
	}
	c.Location = loc

	at, err := domain.ParseClock(c.NotifyAt)
	if err != nil {
		return fmt.Errorf("NOTIFY_AT: %w", err)
	}
	c.NotifyAtM = at

	if _, err := domain.NewHolidayCalendar(c.Holidays); err != nil {
		return fmt.Errorf("HOLIDAYS: %w", err)
	}

	c.RunMode = strings.ToLower(strings.TrimSpace(c.RunMode))
	switch c.RunMode {
	case RunModePolling:
	case RunModeWebhook:
		if c.WebhookURL == "" {
			return errors.New("WEBHOOK_URL is required in webhook mode")
		}
	default:
		return fmt.Errorf("RUN_MODE: unsupported %q", c.RunMode)
	}
	if c.GenerationTimeout <= 0 {
		return errors.New("GENERATION_TIMEOUT must be positive")
	}
	return nil
}

// GenerationEnabled reports whether a text-generation backend is configured.
func (c Config) GenerationEnabled() bool {
	return c.DeepSeekAPIKey != ""
}
