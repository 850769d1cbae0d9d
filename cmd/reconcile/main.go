// Package main provides the one-shot reconcile CLI: settle pending
// predictions against final box scores.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/prop-scout/internal/config"
	"github.com/yourusername/prop-scout/internal/database"
	"github.com/yourusername/prop-scout/internal/logger"
	"github.com/yourusername/prop-scout/internal/provider"
	"github.com/yourusername/prop-scout/internal/repository"
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
	gameID     string
	log        *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&gameID, "game", "", "Reconcile a single game instead of all pending games")
}

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Settle pending predictions against final game stats",
	Long:  `Finds predictions whose games have finished, fetches final box scores from the provider, and records each prediction's actual outcome.`,
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
		return runReconcile()
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

func runReconcile() error {
	defer db.Close()

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

	reconcileSvc := service.NewReconcileService(client, repos.Prediction, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	log.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
	}).Info("Starting reconcile cycle")

	start := time.Now()

	var updated int
	var err error
	if gameID != "" {
		updated, err = reconcileSvc.ReconcileGame(ctx, gameID)
	} else {
		updated, err = reconcileSvc.ReconcilePending(ctx)
	}
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	fmt.Println("\n=== Reconcile Report ===")
	if gameID != "" {
		fmt.Printf("Game: %s\n", gameID)
	}
	fmt.Printf("Predictions Settled: %d\n", updated)
	fmt.Printf("Duration: %v\n", time.Since(start).Round(time.Millisecond))

	if gameID != "" {
		return printGamePredictions(ctx)
	}
	return nil
}

func printGamePredictions(ctx context.Context) error {
	queries := service.NewQueryService(repos.Prediction, repos.Metric)
	predictions, err := queries.GetPredictionsForGame(ctx, gameID, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to query game predictions: %w", err)
	}

	fmt.Printf("\nPredictions for %s:\n", gameID)
	for _, p := range predictions {
		result := "pending"
		if p.ActualResult != nil {
			result = string(*p.ActualResult)
		}
		fmt.Printf("  %s %s %.1f -> %s\n", p.PlayerID, p.PropType, p.Line, result)
	}
	return nil
}
