// Package scheduler runs periodic re-evaluation and cache maintenance
// jobs.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
	"github.com/yourusername/prop-edge/internal/service"
)

// Scheduler periodically re-evaluates a watched candidate file and
// purges the memoization cache. Lines move and samples accrue between
// runs, so a standing batch is re-run on a schedule rather than once.
type Scheduler struct {
	cfg     config.SchedulerConfig
	service *service.EvaluationService
	cron    *cron.Cron
	logger  *logrus.Logger
}

// NewScheduler creates the scheduler. Returns nil when scheduling is
// disabled.
func NewScheduler(cfg config.SchedulerConfig, svc *service.EvaluationService, log *logrus.Logger) *Scheduler {
	if !cfg.Enabled {
		return nil
	}
	return &Scheduler{
		cfg:     cfg,
		service: svc,
		cron:    cron.New(),
		logger:  log,
	}
}

// Start registers the configured jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.ReevaluateSchedule != "" {
		if s.cfg.WatchFile == "" || s.cfg.OutputFile == "" {
			return fmt.Errorf("%w: reevaluate schedule requires watch_file and output_file", models.ErrConfiguration)
		}
		if _, err := s.cron.AddFunc(s.cfg.ReevaluateSchedule, func() {
			if err := s.reevaluate(ctx); err != nil {
				s.logger.WithError(err).Error("Scheduled re-evaluation failed")
			}
		}); err != nil {
			return fmt.Errorf("%w: invalid reevaluate schedule %q: %v", models.ErrConfiguration, s.cfg.ReevaluateSchedule, err)
		}
		s.logger.WithFields(logrus.Fields{
			"schedule":   s.cfg.ReevaluateSchedule,
			"watch_file": s.cfg.WatchFile,
		}).Info("Re-evaluation job scheduled")
	}

	if s.cfg.CachePurgeSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.CachePurgeSchedule, func() {
			s.service.PurgeCache()
		}); err != nil {
			return fmt.Errorf("%w: invalid cache purge schedule %q: %v", models.ErrConfiguration, s.cfg.CachePurgeSchedule, err)
		}
		s.logger.WithField("schedule", s.cfg.CachePurgeSchedule).Info("Cache purge job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}

// reevaluate reads the watched candidate file, evaluates the batch, and
// writes the full result to the output file.
func (s *Scheduler) reevaluate(ctx context.Context) error {
	data, err := os.ReadFile(s.cfg.WatchFile)
	if err != nil {
		return fmt.Errorf("failed to read watch file: %w", err)
	}

	var batch []models.CandidateInput
	if err := json.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("failed to parse watch file: %w", err)
	}
	if len(batch) == 0 {
		s.logger.Debug("Watch file empty, nothing to re-evaluate")
		return nil
	}

	result, err := s.service.Evaluate(ctx, batch)
	if err != nil {
		return fmt.Errorf("re-evaluation failed: %w", err)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(s.cfg.OutputFile, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"batch_id":   result.BatchID,
		"candidates": len(batch),
		"emitted":    len(result.Recommendations),
		"output":     s.cfg.OutputFile,
	}).Info("Scheduled re-evaluation completed")
	return nil
}
