// Package main provides the entry point for the betting bot service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/value-parlay/internal/bot"
	"github.com/yourusername/value-parlay/internal/config"
	"github.com/yourusername/value-parlay/internal/database"
	"github.com/yourusername/value-parlay/internal/datasource"
	"github.com/yourusername/value-parlay/internal/logger"
	"github.com/yourusername/value-parlay/internal/metrics"
	"github.com/yourusername/value-parlay/internal/notify"
	"github.com/yourusername/value-parlay/internal/predictions"
	"github.com/yourusername/value-parlay/internal/repository"
	"github.com/yourusername/value-parlay/internal/scheduler"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "bot",
		Short: "Value parlay betting bot",
		Long:  "Evaluates daily match predictions, builds value parlays and sizes stakes with fractional Kelly.",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")

	rootCmd.AddCommand(newRunOnceCmd())
	rootCmd.AddCommand(newScheduleCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunOnceCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "run-once",
		Short: "Run a single daily cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().UTC()
			if dateFlag != "" {
				parsed, err := time.Parse("2006-01-02", dateFlag)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", dateFlag, err)
				}
				date = parsed
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			return app.orchestrator.RunOnce(ctx, date)
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "run for a specific date (YYYY-MM-DD, default today)")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily cycle on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			sched, err := scheduler.NewScheduler(app.orchestrator, app.cfg.Scheduler.Timezone, app.logger)
			if err != nil {
				return fmt.Errorf("failed to create scheduler: %w", err)
			}
			if err := sched.ScheduleDailyRun(app.cfg.Scheduler.DailyRunCron); err != nil {
				return fmt.Errorf("failed to schedule daily run: %w", err)
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			var metricsServer *http.Server
			if app.cfg.Metrics.Enabled {
				metricsServer = startMetricsServer(app.cfg, app.logger)
				defer shutdownMetricsServer(metricsServer, app.logger)
			}

			app.logger.WithFields(logrus.Fields{
				"cron":     app.cfg.Scheduler.DailyRunCron,
				"next_run": sched.NextRun().Format(time.RFC3339),
			}).Info("Bot started")

			<-ctx.Done()
			app.logger.Info("Shutdown signal received")
			return nil
		},
	}
}

// app bundles the wired dependencies of a bot process
type app struct {
	cfg          *config.Config
	logger       *logrus.Logger
	db           *database.DB
	orchestrator *bot.Orchestrator
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Stored parameter overrides take precedence over file config, so
	// thresholds can be tuned without a redeploy.
	params := repository.NewConfigurationProvider(repository.NewPostgresParameterRepository(db), appLog)
	applied, err := params.Apply(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Warn("Failed to apply stored parameter overrides")
	} else if applied > 0 {
		appLog.WithField("count", applied).Info("Applied stored parameter overrides")
	}

	predictionsClient := predictions.NewClient(predictions.ClientConfig{
		URL:           cfg.Predictions.URL,
		APIKey:        cfg.Predictions.APIKey,
		Timeout:       cfg.PredictionsTimeout(),
		RetryAttempts: cfg.Predictions.RetryAttempts,
		CacheTTL:      time.Duration(cfg.Predictions.CacheTTLSeconds) * time.Second,
	}, appLog)

	oddsHTTP := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.OddsAPI.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.OddsAPI.RetryAttempts,
		RetryWaitMin:      time.Second,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         cfg.OddsAPI.RequestsPerSecond,
		Burst:             cfg.OddsAPI.Burst,
		CircuitBreakerMax: 5,
	}, appLog)
	oddsClient := datasource.NewOddsClient(oddsHTTP, cfg.OddsAPI.BaseURL, cfg.OddsAPI.APIKey, appLog)

	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Notifications.Enabled {
		notifier = notify.NewTelegramNotifier(notify.TelegramConfig{
			BotToken: cfg.Notifications.BotToken,
			ChatIDs:  cfg.Notifications.ChatIDs,
			Timeout:  time.Duration(cfg.Notifications.TimeoutSeconds) * time.Second,
		}, appLog)
	}

	orchestrator, err := bot.NewOrchestrator(cfg, predictionsClient, oddsClient, bot.Repositories{
		Match:    repository.NewPostgresMatchRepository(db),
		Bet:      repository.NewPostgresBetRepository(db),
		Bankroll: repository.NewPostgresBankrollRepository(db),
	}, notifier, appLog)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	return &app{cfg: cfg, logger: appLog, db: db, orchestrator: orchestrator}, nil
}

func startMetricsServer(cfg *config.Config, appLog *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		appLog.WithFields(logrus.Fields{
			"port": cfg.Metrics.Port,
			"path": cfg.Metrics.Path,
		}).Info("Metrics server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server failed")
		}
	}()
	return server
}

func shutdownMetricsServer(server *http.Server, appLog *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLog.WithError(err).Warn("Metrics server shutdown failed")
	}
}
