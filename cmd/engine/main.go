// Package main provides the entry point for the long-running prediction
// engine daemon: scheduled scan, reconcile and evaluate cycles with health
// and metrics endpoints.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/prop-scout/internal/config"
	"github.com/yourusername/prop-scout/internal/database"
	"github.com/yourusername/prop-scout/internal/health"
	"github.com/yourusername/prop-scout/internal/logger"
	"github.com/yourusername/prop-scout/internal/metrics"
	"github.com/yourusername/prop-scout/internal/provider"
	"github.com/yourusername/prop-scout/internal/repository"
	"github.com/yourusername/prop-scout/internal/scheduler"
	"github.com/yourusername/prop-scout/internal/scorer"
	"github.com/yourusername/prop-scout/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	log        *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Run the prop prediction engine daemon",
	Long:  `Runs the scheduled prediction pipeline: daily prop scoring, periodic outcome reconciliation, and nightly model performance evaluation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return err
		}
	}

	if err := config.Validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	log = logger.NewLogger(cfg.App.LogLevel)
	return nil
}

func setupDependencies() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return err
	}

	repos, err = repository.NewRepositories(db)
	return err
}

func buildServices() (*service.ScanService, *service.ReconcileService, *service.EvaluationService) {
	httpClient := provider.NewRateLimitedHTTPClient(provider.HTTPClientConfig{
		Timeout:                cfg.ProviderTimeout(),
		MaxRetries:             cfg.Provider.MaxRetries,
		RetryWaitMin:           100 * time.Millisecond,
		RetryWaitMax:           10 * time.Second,
		RateLimit:              cfg.Provider.RateLimit,
		CircuitBreakerMax:      cfg.Provider.CircuitBreakerMax,
		CircuitBreakerCooldown: cfg.CircuitBreakerCooldown(),
	})
	respCache := provider.NewResponseCache(time.Duration(cfg.Provider.CacheTTLSeconds) * time.Second)
	client := provider.NewSportsDataClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, httpClient, respCache, log)

	sc := scorer.NewScorer(
		scorer.Weights{
			Recent7:  cfg.Scoring.Weight7,
			Recent14: cfg.Scoring.Weight14,
			Recent30: cfg.Scoring.Weight30,
			Season:   cfg.Scoring.WeightSeason,
		},
		cfg.Scoring.Variance,
		scorer.NewTanhNormalModel(),
		cfg.Scoring.ModelVersion,
	)

	scanSvc := service.NewScanService(client, client, repos.Snapshot, repos.Prediction, sc, cfg.Scoring.Season, cfg.Scan.Workers, log)
	reconcileSvc := service.NewReconcileService(client, repos.Prediction, log)
	evalSvc := service.NewEvaluationService(repos.Prediction, repos.Metric, cfg.Evaluation.ValueBetThreshold, log)

	return scanSvc, reconcileSvc, evalSvc
}

func runDaemon() error {
	defer db.Close()

	log.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"build_date":  BuildDate,
		"environment": cfg.App.Environment,
	}).Info("Starting prop-scout engine")

	scanSvc, reconcileSvc, evalSvc := buildServices()

	sched := scheduler.NewScheduler(scanSvc, reconcileSvc, evalSvc, log)
	if err := sched.ScheduleScan(cfg.Scan.Schedule); err != nil {
		return err
	}
	if err := sched.ScheduleReconcile(cfg.ReconcileInterval()); err != nil {
		return err
	}
	if err := sched.ScheduleEvaluate(cfg.Scan.EvaluateSchedule, cfg.Scoring.ModelVersion, cfg.Evaluation.LookbackDays); err != nil {
		return err
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      log,
		DB:          db,
	})
	go func() {
		if err := healthServer.Start(); err != nil {
			log.WithError(err).Error("Health server stopped")
		}
	}()

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)
	log.Infof("Scheduler running; next job at %s", sched.GetNextRun().Format(time.RFC3339))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infof("Received signal %s, shutting down", sig)

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		log.WithError(err).Error("Failed to stop scheduler cleanly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down health server cleanly")
	}

	return nil
}
