// Package main provides the one-shot evaluate CLI: compute and store model
// performance metrics over a lookback window.
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
	"github.com/yourusername/prop-scout/internal/models"
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
	configFile   string
	modelVersion string
	propFlag     string
	lookbackDays int
	showHistory  bool
	log          *logrus.Logger
	cfg          *config.Config
	db           *database.DB
	repos        *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&modelVersion, "model-version", "", "Model version to evaluate (default: configured version)")
	rootCmd.Flags().StringVar(&propFlag, "prop", "", "Evaluate a single prop type instead of all")
	rootCmd.Flags().IntVar(&lookbackDays, "days", 0, "Lookback window in days (default: configured lookback)")
	rootCmd.Flags().BoolVar(&showHistory, "history", false, "Also print previously stored metric periods")
}

var rootCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compute model performance metrics",
	Long:  `Aggregates reconciled predictions over a lookback window into per-prop performance metrics: accuracy, calibration, and flat-stake value-bet ROI.`,
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
		return runEvaluate()
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

func runEvaluate() error {
	defer db.Close()

	version := modelVersion
	if version == "" {
		version = cfg.Scoring.ModelVersion
	}
	days := lookbackDays
	if days <= 0 {
		days = cfg.Evaluation.LookbackDays
	}

	props := models.AllPropTypes()
	if propFlag != "" {
		prop := models.PropType(propFlag)
		if !prop.IsValid() {
			return fmt.Errorf("unknown prop type %q", propFlag)
		}
		props = []models.PropType{prop}
	}

	periodEnd := time.Now().UTC().Truncate(24 * time.Hour)
	periodStart := periodEnd.AddDate(0, 0, -days)

	evalSvc := service.NewEvaluationService(repos.Prediction, repos.Metric, cfg.Evaluation.ValueBetThreshold, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.WithFields(logrus.Fields{
		"version":       Version,
		"commit":        GitCommit,
		"model_version": version,
		"period_start":  periodStart.Format("2006-01-02"),
		"period_end":    periodEnd.Format("2006-01-02"),
	}).Info("Starting evaluation")

	fmt.Println("\n=== Model Performance Report ===")
	fmt.Printf("Model Version: %s\n", version)
	fmt.Printf("Period: %s to %s\n", periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"))

	for _, prop := range props {
		metric, err := evalSvc.Evaluate(ctx, version, prop, periodStart, periodEnd)
		if err != nil {
			return fmt.Errorf("evaluation failed for %s: %w", prop, err)
		}
		printMetric(metric)
	}

	if showHistory {
		return printHistory(ctx, version)
	}
	return nil
}

func printMetric(m *models.ModelPerformanceMetric) {
	fmt.Printf("\n%s:\n", m.PropType)
	fmt.Printf("  Predictions: %d total, %d resolved, %d pushes\n", m.TotalPredictions, m.ResolvedPredictions, m.Pushes)
	if m.Accuracy != nil {
		fmt.Printf("  Accuracy: %.3f (%d/%d)\n", *m.Accuracy, m.CorrectPredictions, m.ResolvedPredictions-m.Pushes)
	} else {
		fmt.Printf("  Accuracy: n/a\n")
	}
	if gap, ok := m.CalibrationGap(); ok {
		fmt.Printf("  Calibration: predicted %.3f vs actual %.3f (gap %+.3f)\n", *m.AvgPredictedProbOver, *m.ActualOverRate, gap)
	}
	fmt.Printf("  Value Bets: %d", m.ValueBets)
	if m.ValueBetAccuracy != nil {
		fmt.Printf(" (accuracy %.3f)", *m.ValueBetAccuracy)
	}
	fmt.Println()
	if roi, ok := m.ROI(); ok {
		fmt.Printf("  ROI: %s (wagered %s, returned %s)\n", roi.StringFixed(4), m.UnitsWagered.StringFixed(2), m.UnitsReturned.StringFixed(2))
	}
}

func printHistory(ctx context.Context, version string) error {
	queries := service.NewQueryService(repos.Prediction, repos.Metric)
	metrics, err := queries.GetMetrics(ctx, version, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to query stored metrics: %w", err)
	}

	fmt.Printf("\nStored Periods for %s:\n", version)
	for _, m := range metrics {
		acc := "n/a"
		if m.Accuracy != nil {
			acc = fmt.Sprintf("%.3f", *m.Accuracy)
		}
		fmt.Printf("  %s  %s to %s  resolved=%d accuracy=%s\n",
			m.PropType, m.PeriodStart.Format("2006-01-02"), m.PeriodEnd.Format("2006-01-02"), m.ResolvedPredictions, acc)
	}
	return nil
}
