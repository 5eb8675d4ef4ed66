// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-parlay/internal/backtest"
	"github.com/yourusername/value-parlay/internal/config"
	"github.com/yourusername/value-parlay/internal/database"
	"github.com/yourusername/value-parlay/internal/datasource"
	"github.com/yourusername/value-parlay/internal/logger"
	"github.com/yourusername/value-parlay/internal/metrics"
	"github.com/yourusername/value-parlay/internal/repository"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		startDate   = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate     = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		bankroll    = flag.Float64("bankroll", 0, "Override initial bankroll")
		historyPath = flag.String("history", "", "Override path to the historical CSV file")
		output      = flag.String("output", "", "Override output path for the JSON report")
		balanceCSV  = flag.String("balance-csv", "", "Optional output path for the daily balance CSV")
		useDB       = flag.Bool("use-db", false, "Read history from the database instead of a CSV file")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	btConfig := buildBacktestConfig(cfg, appLog, *startDate, *endDate, *bankroll, *output)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	predictions, truth, db := buildProviders(ctx, cfg, appLog, *historyPath, *useDB)
	if db != nil {
		defer db.Close()
	}

	engine, err := backtest.NewEngine(btConfig, predictions, truth, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create engine: %v", err)
	}

	started := time.Now()
	result, runErr := engine.Run(ctx)
	metrics.RecordBacktestDuration(time.Since(started).Seconds())
	if runErr != nil && result == nil {
		appLog.Fatalf("Backtest failed: %v", runErr)
	}
	if runErr != nil {
		appLog.WithError(runErr).Warn("Backtest interrupted, reporting partial result")
	}

	fmt.Print(backtest.GenerateConsoleReport(result))

	if btConfig.OutputPath != "" {
		if err := backtest.ExportJSON(result, btConfig.OutputPath); err != nil {
			appLog.Fatalf("Failed to write report: %v", err)
		}
		appLog.WithField("path", btConfig.OutputPath).Info("Report written")
	}

	if *balanceCSV != "" {
		if err := backtest.ExportBalanceCSV(result, *balanceCSV); err != nil {
			appLog.Fatalf("Failed to write balance history: %v", err)
		}
		appLog.WithField("path", *balanceCSV).Info("Balance history written")
	}

	if db != nil {
		// ctx may already be cancelled after an interrupt; the partial
		// result should still be persisted
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		results := repository.NewPostgresBacktestResultRepository(db)
		if err := results.Save(saveCtx, result); err != nil {
			appLog.WithError(err).Warn("Failed to persist backtest result")
		}
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(context.Background(), cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildBacktestConfig(cfg *config.Config, appLog *logrus.Logger, startOverride, endOverride string, bankrollOverride float64, outputOverride string) backtest.Config {
	btConfig, err := backtest.FromConfig(cfg)
	if err != nil {
		appLog.Fatalf("Invalid backtest config: %v", err)
	}
	if startOverride != "" {
		parsed, err := time.Parse("2006-01-02", startOverride)
		if err != nil {
			appLog.Fatalf("Invalid start date: %v", err)
		}
		btConfig.StartDate = parsed
	}
	if endOverride != "" {
		parsed, err := time.Parse("2006-01-02", endOverride)
		if err != nil {
			appLog.Fatalf("Invalid end date: %v", err)
		}
		btConfig.EndDate = parsed
	}
	if bankrollOverride > 0 {
		btConfig.InitialBankroll = bankrollOverride
	}
	if outputOverride != "" {
		btConfig.OutputPath = outputOverride
	}
	if err := btConfig.Validate(); err != nil {
		appLog.Fatalf("Invalid backtest config: %v", err)
	}
	return btConfig
}

// buildProviders wires the historical data source: a CSV file by default,
// the database when -use-db is set
func buildProviders(ctx context.Context, cfg *config.Config, appLog *logrus.Logger, historyOverride string, useDB bool) (datasource.PredictionProvider, datasource.GroundTruthProvider, *database.DB) {
	if useDB {
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			appLog.Fatalf("Failed to connect to database: %v", err)
		}
		provider := datasource.NewRepositoryHistoryProvider(repository.NewPostgresMatchRepository(db))
		return provider, provider, db
	}

	path := historyOverride
	if path == "" {
		path = cfg.Backtest.HistoryPath
	}
	if path == "" {
		appLog.Fatal("No history file configured; set backtest.history_path or pass -history")
	}

	provider, err := datasource.NewCSVHistoryProvider(path)
	if err != nil {
		appLog.Fatalf("Failed to load history file: %v", err)
	}
	return provider, provider, nil
}
