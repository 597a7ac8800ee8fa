// Package main provides the entry point for the prop-edge valuation
// engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/engine"
	"github.com/yourusername/prop-edge/internal/health"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/models"
	"github.com/yourusername/prop-edge/internal/notifier"
	"github.com/yourusername/prop-edge/internal/repository"
	"github.com/yourusername/prop-edge/internal/scheduler"
	"github.com/yourusername/prop-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	inputFile  string
	outputFile string

	cfg    *config.Config
	appLog *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "prop-edge",
	Short: "Probabilistic valuation and risk tiering for candidate wagers",
	Long: `Evaluates batches of candidate wagers through a nine-stage
statistical pipeline producing calibrated probabilities, expected
value, bounded confidence scores and S/A/B/C/D risk tiers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithSecrets(cmd.Context(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one candidate batch from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluate(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation stream server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate the configuration file and exit",
	Run: func(cmd *cobra.Command, args []string) {
		// PersistentPreRunE already loaded and validated.
		appLog.WithField("config", configFile).Info("Configuration is valid")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("prop-edge %s (%s)\n", Version, GitCommit)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	evaluateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to candidate batch JSON (defaults to stdin)")
	evaluateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Path to write the result JSON (defaults to stdout)")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// runEvaluate reads a batch, evaluates it once, and writes the result.
func runEvaluate(ctx context.Context) error {
	batch, err := readBatch()
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(cfg.Engine, appLog)
	if err != nil {
		return err
	}
	svc := service.NewEvaluationService(eng, cfg.Cache, appLog, nil, nil)

	result, err := svc.Evaluate(ctx, batch)
	if err != nil {
		return err
	}
	return writeResult(result)
}

func readBatch() ([]models.CandidateInput, error) {
	var data []byte
	var err error
	if inputFile == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(inputFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate batch: %w", err)
	}

	var batch []models.CandidateInput
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse candidate batch: %w", err)
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("candidate batch is empty")
	}
	return batch, nil
}

func writeResult(result *engine.BatchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	data = append(data, '\n')

	if outputFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// runServe wires the full service: engine, optional store and notifier,
// the stream server, health probes, metrics and the scheduler.
func runServe(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Prop Edge engine starting")

	eng, err := engine.NewEngine(cfg.Engine, appLog)
	if err != nil {
		return err
	}

	healthServer := health.NewServer(cfg.App.Name, Version, ":8080", appLog)

	var repo repository.RecommendationRepository
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			return err
		}
		repo = repository.NewPostgresRecommendationRepository(db)
		healthServer.RegisterDatabase(db)
		appLog.Info("Decision-record store connected")
	}

	webhookNotifier := notifier.NewWebhookNotifier(cfg.Notifier, appLog)
	if webhookNotifier != nil {
		appLog.WithField("min_tier", cfg.Notifier.MinTier).Info("Webhook notifier enabled")
	}

	svc := service.NewEvaluationService(eng, cfg.Cache, appLog, repo, webhookNotifier)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			appLog.WithField("address", addr).Info("Metrics server listening")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	sched := scheduler.NewScheduler(cfg.Scheduler, svc, appLog)
	if sched != nil {
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	healthServer.Start(ctx)
	healthServer.SetReady(true)

	streamServer := service.NewStreamServer(cfg.Server, svc, appLog)
	go func() {
		<-ctx.Done()
		appLog.Info("Shutdown signal received")
		healthServer.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := streamServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Stream server shutdown failed")
		}
	}()

	if err := streamServer.Start(); err != nil {
		return err
	}
	appLog.Info("Prop Edge engine shut down")
	return nil
}
