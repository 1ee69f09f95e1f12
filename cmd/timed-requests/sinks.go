package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glizzus/timed-requests/internal/config"
	"github.com/glizzus/timed-requests/internal/datalayer"
	"github.com/glizzus/timed-requests/internal/notify"
	"github.com/glizzus/timed-requests/internal/report"
	"github.com/glizzus/timed-requests/internal/repository"
	"github.com/glizzus/timed-requests/internal/worker"
)

// sinkConnectTimeout bounds each sink's connect and readiness check.
var sinkConnectTimeout = 5 * time.Second

// sinks fans a finished run out to every configured destination.
type sinks struct {
	logger    *slog.Logger
	records   []worker.RecordHandler
	persister repository.RunPersister
	storage   datalayer.BlobStorage
	notifier  notify.Notifier
	closers   []func()
}

// openSinks connects every sink whose environment is set. A sink that is
// configured but unreachable is skipped with a warning; only malformed
// configuration is an error.
func openSinks(ctx context.Context, logger *slog.Logger) (*sinks, error) {
	s := &sinks{
		logger:  logger,
		records: []worker.RecordHandler{&worker.PrintingRecordHandler{Logger: logger}},
	}

	redisConfig, err := config.NewRedisConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load redis config: %w", err)
	}
	postgresConfig, err := config.NewPostgresConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load postgres config: %w", err)
	}
	minioConfig, err := config.NewMinioConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load minio config: %w", err)
	}
	discordConfig, err := config.NewDiscordConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load discord config: %w", err)
	}

	if redisConfig.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:                  redisConfig.Addr,
			Password:              redisConfig.Password,
			DB:                    redisConfig.DB,
			DialTimeout:           sinkConnectTimeout,
			ContextTimeoutEnabled: true,
		})
		pingCtx, cancel := context.WithTimeout(ctx, sinkConnectTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.WarnContext(ctx, "Redis unreachable, not publishing fire records", "error", err)
			_ = rdb.Close()
		} else {
			s.records = append(s.records, worker.NewRedisRecordHandler(rdb, redisConfig.Stream))
			s.closers = append(s.closers, func() { _ = rdb.Close() })
		}
	}

	if postgresConfig.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, sinkConnectTimeout)
		pool, err := datalayer.NewPostgresPool(ctx, postgresConfig)
		if err == nil {
			err = pool.Ping(connectCtx)
			if err == nil {
				err = datalayer.MigratePostgres(pool)
			}
			if err != nil {
				pool.Close()
			}
		}
		cancel()
		if err != nil {
			logger.WarnContext(ctx, "Postgres unavailable, not recording run", "error", err)
		} else {
			s.persister = repository.NewPostgresRunRepository(pool)
			s.closers = append(s.closers, pool.Close)
		}
	}

	if minioConfig.Enabled() {
		storage, err := datalayer.NewMinioStorage(minioConfig)
		if err == nil {
			bucketCtx, cancel := context.WithTimeout(ctx, sinkConnectTimeout)
			err = storage.EnsureBucket(bucketCtx)
			cancel()
		}
		if err != nil {
			logger.WarnContext(ctx, "MinIO unavailable, not uploading report", "error", err)
		} else {
			s.storage = storage
		}
	}

	if discordConfig.Enabled() {
		session, err := notify.NewDiscordSession(discordConfig.Token)
		if err != nil {
			logger.WarnContext(ctx, "Failed to create discord session", "error", err)
		} else {
			s.notifier = notify.NewDiscordNotifier(session, discordConfig.ChannelID, logger)
		}
	}

	return s, nil
}

// publish hands run to every sink. Failures are logged and never change the
// outcome of the run.
func (s *sinks) publish(ctx context.Context, run report.Run) {
	for _, h := range s.records {
		if err := h.HandleRecords(ctx, run.ID, run.Fires...); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish fire records", "error", err)
		}
	}
	if s.persister != nil {
		if err := s.persister.Save(ctx, run); err != nil {
			s.logger.ErrorContext(ctx, "failed to record run", "runID", run.ID, "error", err)
		}
	}
	if s.storage != nil {
		if err := datalayer.PutReport(ctx, s.storage, run); err != nil {
			s.logger.ErrorContext(ctx, "failed to upload report", "runID", run.ID, "error", err)
		} else {
			s.logger.InfoContext(ctx, "Uploaded report", "key", datalayer.ReportKey(run.ID))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, run); err != nil {
			s.logger.ErrorContext(ctx, "failed to notify", "runID", run.ID, "error", err)
		}
	}
}

func (s *sinks) close() {
	for _, c := range s.closers {
		c()
	}
}
