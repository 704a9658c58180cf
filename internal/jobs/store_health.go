// File: internal/jobs/store_health.go
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"servicehub_backend/internal/config"
	platformmongo "servicehub_backend/internal/platform/mongo"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StoreHealthJob periodically pings the document store so connectivity
// problems show up in the logs before a request trips over them. The latest
// probe outcome is kept for the health endpoint.
type StoreHealthJob struct {
	provider      *platformmongo.Provider
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron

	mu        sync.RWMutex
	lastCheck time.Time
	lastErr   error
}

// HealthSnapshot is the most recent probe result.
type HealthSnapshot struct {
	CheckedAt time.Time
	Err       error
}

// NewStoreHealthJob creates a new StoreHealthJob.
func NewStoreHealthJob(
	provider *platformmongo.Provider,
	logger *zap.Logger,
	cfg *config.Config,
) *StoreHealthJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &StoreHealthJob{
		provider:      provider,
		logger:        logger.Named("StoreHealthJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *StoreHealthJob) SetupAndStart() error {
	jobSpec := j.cfg.StoreHealthJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Store health job schedule not defined (STORE_HEALTH_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule store health job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Store health job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *StoreHealthJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := j.provider.Ping(ctx)

	j.mu.Lock()
	j.lastCheck = time.Now().UTC()
	j.lastErr = err
	j.mu.Unlock()

	if err != nil {
		j.logger.Error("Document store health probe failed", zap.Error(err))
	} else {
		j.logger.Debug("Document store health probe succeeded")
	}
}

// Snapshot returns the outcome of the most recent probe. A zero CheckedAt
// means no probe has run yet.
func (j *StoreHealthJob) Snapshot() HealthSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return HealthSnapshot{CheckedAt: j.lastCheck, Err: j.lastErr}
}

// Stop gracefully stops the cron scheduler.
func (j *StoreHealthJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping store health job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Store health job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Store health job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
