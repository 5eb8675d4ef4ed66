// Package config provides configuration management for the value parlay bot.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/value-parlay/internal/parlay"
	"github.com/yourusername/value-parlay/internal/picks"
	"github.com/yourusername/value-parlay/internal/stake"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Predictions   PredictionsConfig   `mapstructure:"predictions" validate:"required"`
	OddsAPI       OddsAPIConfig       `mapstructure:"odds_api" validate:"required"`
	Picks         PicksConfig         `mapstructure:"picks" validate:"required"`
	Parlay        ParlayConfig        `mapstructure:"parlay" validate:"required"`
	Staking       StakingConfig       `mapstructure:"staking" validate:"required"`
	Backtest      BacktestConfig      `mapstructure:"backtest" validate:"required"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// PredictionsConfig represents the prediction service client configuration
type PredictionsConfig struct {
	URL             string `mapstructure:"url" validate:"required,url"`
	APIKey          string `mapstructure:"api_key"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts   int    `mapstructure:"retry_attempts" validate:"gte=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// OddsAPIConfig represents the bookmaker odds API client configuration
type OddsAPIConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
}

// PicksConfig holds the acceptance thresholds for single-match value picks
type PicksConfig struct {
	MinProbability    float64 `mapstructure:"min_probability" validate:"required,gt=0,lte=1"`
	MinEdge           float64 `mapstructure:"min_edge" validate:"required,gt=0,lt=1"`
	MinOdds           float64 `mapstructure:"min_odds" validate:"required,gt=1"`
	MaxOdds           float64 `mapstructure:"max_odds" validate:"required,gt=1"`
	MaxPicksPerLeague int     `mapstructure:"max_picks_per_league" validate:"gte=0"`
}

// ParlayConfig bounds the combination search
type ParlayConfig struct {
	MinPicks               int     `mapstructure:"min_picks" validate:"required,gt=0"`
	MaxPicks               int     `mapstructure:"max_picks" validate:"required,gt=0"`
	MinTotalOdds           float64 `mapstructure:"min_total_odds" validate:"required,gt=1"`
	MaxTotalOdds           float64 `mapstructure:"max_total_odds" validate:"required,gt=1"`
	MinCombinedProbability float64 `mapstructure:"min_combined_probability" validate:"gte=0,lte=1"`
	TimeoutSeconds         int     `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// StakingConfig holds the fractional Kelly staking parameters
type StakingConfig struct {
	InitialBankroll float64 `mapstructure:"initial_bankroll" validate:"gte=0"`

	KellyFraction float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MaxBetPct     float64 `mapstructure:"max_bet_pct" validate:"required,gt=0,lte=1"`
	MinEdgeFloor  float64 `mapstructure:"min_edge_floor" validate:"gte=0"`
	MinBankroll   float64 `mapstructure:"min_bankroll" validate:"gte=0"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate       string  `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string  `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	InitialBankroll float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	HistoryPath     string  `mapstructure:"history_path"`
	OutputPath      string  `mapstructure:"output_path" validate:"required"`
}

// NotificationsConfig represents Telegram broadcast configuration
type NotificationsConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	BotToken       string   `mapstructure:"bot_token"`
	ChatIDs        []string `mapstructure:"chat_ids"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig holds the daily run schedule
type SchedulerConfig struct {
	DailyRunCron string `mapstructure:"daily_run_cron" validate:"required"`
	Timezone     string `mapstructure:"timezone"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PickCriteria converts the picks section into evaluator criteria
func (c *Config) PickCriteria() picks.Criteria {
	return picks.Criteria{
		MinProbability: c.Picks.MinProbability,
		MinEdge:        c.Picks.MinEdge,
		MinOdds:        c.Picks.MinOdds,
		MaxOdds:        c.Picks.MaxOdds,
	}
}

// ParlayConstraints converts the parlay section into optimizer constraints
func (c *Config) ParlayConstraints() parlay.Constraints {
	return parlay.Constraints{
		MinPicks:               c.Parlay.MinPicks,
		MaxPicks:               c.Parlay.MaxPicks,
		MinTotalOdds:           c.Parlay.MinTotalOdds,
		MaxTotalOdds:           c.Parlay.MaxTotalOdds,
		MinCombinedProbability: c.Parlay.MinCombinedProbability,
	}
}

// StakeConfig converts the staking section into sizer configuration
func (c *Config) StakeConfig() stake.Config {
	return stake.Config{
		KellyFraction: c.Staking.KellyFraction,
		MaxBetPct:     c.Staking.MaxBetPct,
		MinEdgeFloor:  c.Staking.MinEdgeFloor,
		MinBankroll:   c.Staking.MinBankroll,
	}
}

// ParlayTimeout returns the optimizer search budget, zero means unbounded
func (c *Config) ParlayTimeout() time.Duration {
	return time.Duration(c.Parlay.TimeoutSeconds) * time.Second
}

// PredictionsTimeout returns the prediction client request timeout
func (c *Config) PredictionsTimeout() time.Duration {
	return time.Duration(c.Predictions.TimeoutSeconds) * time.Second
}
