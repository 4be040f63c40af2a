package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host image

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	Feeds      FeedsConfig      `yaml:"feeds"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	StyleClash StyleClashConfig `yaml:"style_clash"`
	Notifier   NotifierConfig   `yaml:"notifier"`
	AI         AIConfig         `yaml:"ai"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`       // empty disables Redis; alert markers are kept in memory
	AlertTTL time.Duration `yaml:"alert_ttl"` // lifetime of once-per-day alert markers
}

type FeedsConfig struct {
	ESPNSiteURL  string        `yaml:"espn_site_url" validate:"required,url"`
	ESPNWebURL   string        `yaml:"espn_web_url" validate:"required,url"`
	NBAStatsURL  string        `yaml:"nba_stats_url" validate:"required,url"`
	Season       string        `yaml:"season" validate:"required"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	AthleteLimit int           `yaml:"athlete_limit" validate:"gte=1"`
	RecentGames  int           `yaml:"recent_games" validate:"gte=1"` // games averaged for team points per game
}

type ScoringConfig struct {
	HomeCourt         float64           `yaml:"home_court"`
	BackToBackPenalty float64           `yaml:"back_to_back_penalty" validate:"gte=0"`
	CheckBackToBack   bool              `yaml:"check_back_to_back"`
	TeamAliases       map[string]string `yaml:"team_aliases"` // scoreboard name -> stats source name
}

type StyleClashConfig struct {
	TopDefensive        int     `yaml:"top_defensive" validate:"gte=1"`
	TopOffensive        int     `yaml:"top_offensive" validate:"gte=1"`
	CandidateLimit      int     `yaml:"candidate_limit" validate:"gte=1"`
	TeamTotalMinAverage float64 `yaml:"team_total_min_average"` // free ticket: minimum recent average for a team total leg
}

type NotifierConfig struct {
	TelegramBotToken string        `yaml:"telegram_bot_token"`
	TelegramChatID   int64         `yaml:"telegram_chat_id" validate:"required_with=TelegramBotToken"`
	PickCap          int           `yaml:"pick_cap" validate:"gte=0"`
	SendInterval     time.Duration `yaml:"send_interval"`
	QueueSize        int           `yaml:"queue_size" validate:"gte=1"`
	DryRun           bool          `yaml:"dry_run"` // log messages instead of sending them
}

type AIConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url" validate:"required,url"`
	Models            []string      `yaml:"models" validate:"required,min=1,dive,required"` // tried in order
	Temperature       float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	TopP              float64       `yaml:"top_p" validate:"gte=0,lte=1"`
	TopK              int           `yaml:"top_k" validate:"gte=0"`
	MaxOutputTokens   int           `yaml:"max_output_tokens" validate:"gte=1"`
	Timeout           time.Duration `yaml:"timeout"`
	RetryAttempts     int           `yaml:"retry_attempts" validate:"gte=1"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`
	RetryMaxDelay     time.Duration `yaml:"retry_max_delay"`
	BreakerFailures   uint32        `yaml:"breaker_failures" validate:"gte=1"`
	BreakerTimeout    time.Duration `yaml:"breaker_timeout"`
	FallbackText      string        `yaml:"fallback_text" validate:"required"`
}

type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timezone string        `yaml:"timezone" validate:"required,timezone"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the ops server
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	File   string `yaml:"file"` // optional JSON log file, in addition to stdout
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, os.Getenv)
}

// Parse decodes YAML, applies environment overrides through getenv, fills defaults and validates.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyEnv overrides secrets and endpoints from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	if v := getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Notifier.TelegramBotToken = v
	}
	if v := getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		c.Notifier.TelegramChatID = chatID
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	return nil
}

// SetDefaults fills every zero value with the production default.
func (c *Config) SetDefaults() {
	if c.Postgres.MaxOpenConns == 0 {
		c.Postgres.MaxOpenConns = 5
	}
	if c.Postgres.MaxIdleConns == 0 {
		c.Postgres.MaxIdleConns = 2
	}
	if c.Postgres.ConnMaxLifetime == 0 {
		c.Postgres.ConnMaxLifetime = time.Hour
	}
	if c.Redis.AlertTTL == 0 {
		c.Redis.AlertTTL = 36 * time.Hour
	}

	if c.Feeds.ESPNSiteURL == "" {
		c.Feeds.ESPNSiteURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba"
	}
	if c.Feeds.ESPNWebURL == "" {
		c.Feeds.ESPNWebURL = "https://site.web.api.espn.com/apis"
	}
	if c.Feeds.NBAStatsURL == "" {
		c.Feeds.NBAStatsURL = "https://stats.nba.com/stats"
	}
	if c.Feeds.Season == "" {
		c.Feeds.Season = "2025-26"
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = 20 * time.Second
	}
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = "Mozilla/5.0"
	}
	if c.Feeds.AthleteLimit == 0 {
		c.Feeds.AthleteLimit = 50
	}
	if c.Feeds.RecentGames == 0 {
		c.Feeds.RecentGames = 3
	}

	if c.Scoring.HomeCourt == 0 {
		c.Scoring.HomeCourt = 2.5
	}
	if c.Scoring.BackToBackPenalty == 0 {
		c.Scoring.BackToBackPenalty = 2.0
	}

	if c.StyleClash.TopDefensive == 0 {
		c.StyleClash.TopDefensive = 8
	}
	if c.StyleClash.TopOffensive == 0 {
		c.StyleClash.TopOffensive = 5
	}
	if c.StyleClash.CandidateLimit == 0 {
		c.StyleClash.CandidateLimit = 10
	}
	if c.StyleClash.TeamTotalMinAverage == 0 {
		c.StyleClash.TeamTotalMinAverage = 105
	}

	if c.Notifier.PickCap == 0 {
		c.Notifier.PickCap = 5
	}
	if c.Notifier.SendInterval == 0 {
		c.Notifier.SendInterval = 2 * time.Second
	}
	if c.Notifier.QueueSize == 0 {
		c.Notifier.QueueSize = 100
	}

	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if len(c.AI.Models) == 0 {
		c.AI.Models = []string{"gemini-2.0-flash", "gemini-2.0-flash-001", "gemini-2.0-flash-lite", "gemini-flash-lite-latest"}
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = 0.2
	}
	if c.AI.TopP == 0 {
		c.AI.TopP = 0.95
	}
	if c.AI.TopK == 0 {
		c.AI.TopK = 40
	}
	if c.AI.MaxOutputTokens == 0 {
		c.AI.MaxOutputTokens = 300
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 30 * time.Second
	}
	if c.AI.RetryAttempts == 0 {
		c.AI.RetryAttempts = 3
	}
	if c.AI.RetryInitialDelay == 0 {
		c.AI.RetryInitialDelay = 2 * time.Second
	}
	if c.AI.RetryMaxDelay == 0 {
		c.AI.RetryMaxDelay = 30 * time.Second
	}
	if c.AI.BreakerFailures == 0 {
		c.AI.BreakerFailures = 3
	}
	if c.AI.BreakerTimeout == 0 {
		c.AI.BreakerTimeout = 10 * time.Minute
	}
	if c.AI.FallbackText == "" {
		c.AI.FallbackText = "• Intense pace expected.\n\n• High-scoring tendency."
	}

	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = time.Hour
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "America/Sao_Paulo"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks the struct tags of the whole tree.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location returns the zone every scheduled time is normalized to.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
