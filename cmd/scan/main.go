// Package main provides the one-shot scan CLI: fetch the day's prop quotes,
// score every (player, prop) pair, and print the value bets found.
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
	scanDate   string
	topN       int
	log        *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&scanDate, "date", "", "Date to scan in YYYY-MM-DD (default: today, UTC)")
	rootCmd.Flags().IntVar(&topN, "top", 10, "Number of value bets to print after the scan")
}

var rootCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single prediction scan cycle",
	Long:  `Fetches the day's player prop quotes, rebuilds rolling stats for every quoted player, scores each prop, and persists the predictions.`,
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
		return runScan()
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

func runScan() error {
	defer db.Close()

	date := time.Now().UTC()
	if scanDate != "" {
		parsed, err := time.Parse("2006-01-02", scanDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", scanDate, err)
		}
		date = parsed
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	log.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
		"date":    date.Format("2006-01-02"),
	}).Info("Starting scan cycle")

	scanMetrics, err := scanSvc.Run(ctx, date)
	if err != nil {
		return fmt.Errorf("scan cycle failed: %w", err)
	}

	players, predictions, insufficient, failures := scanMetrics.Snapshot()
	fmt.Println("\n=== Scan Report ===")
	fmt.Printf("Date: %s\n", date.Format("2006-01-02"))
	fmt.Printf("Players Scanned: %d\n", players)
	fmt.Printf("Predictions Stored: %d\n", predictions)
	fmt.Printf("Insufficient Data Skips: %d\n", insufficient)
	fmt.Printf("Errors: %d\n", failures)

	return printValueBets(ctx, date)
}

func printValueBets(ctx context.Context, date time.Time) error {
	queries := service.NewQueryService(repos.Prediction, repos.Metric)
	bets, err := queries.GetValueBets(ctx, date, cfg.Evaluation.ValueBetThreshold, 0.0, topN)
	if err != nil {
		return fmt.Errorf("failed to query value bets: %w", err)
	}

	if len(bets) == 0 {
		fmt.Println("\nNo value bets above threshold today.")
		return nil
	}

	fmt.Printf("\nTop Value Bets (edge >= %.2f):\n", cfg.Evaluation.ValueBetThreshold)
	for i, p := range bets {
		side, edge, ok := p.ValueSide()
		if !ok {
			continue
		}
		fmt.Printf("  %d. %s %s %s %.1f %s (Edge: %+.3f, Confidence: %.2f, P(over): %.3f)\n",
			i+1, p.GameID, p.PlayerID, p.PropType, p.Line, side, edge, p.Confidence, p.PredictedProbOver)
	}
	return nil
}
