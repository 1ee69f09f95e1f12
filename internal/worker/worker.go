package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glizzus/timed-requests/internal/report"
)

const DefaultStream = "timed_request_fires"

// RecordHandler receives the fire records of a finished run.
type RecordHandler interface {
	HandleRecords(ctx context.Context, runID string, fires ...report.Fire) error
}

// PrintingRecordHandler logs one line per fire.
type PrintingRecordHandler struct {
	Logger *slog.Logger
}

func (h *PrintingRecordHandler) HandleRecords(ctx context.Context, runID string, fires ...report.Fire) error {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, fire := range fires {
		attrs := []any{
			slog.String("runID", runID),
			slog.Int("index", fire.Index),
			slog.String("target", fire.Target.String()),
		}
		if !fire.OK() {
			logger.InfoContext(ctx, "Fire record", append(attrs, slog.String("error", fire.Error))...)
			continue
		}
		logger.InfoContext(ctx, "Fire record", append(attrs,
			slog.String("sent", fire.Sent.String()),
			slog.Int("status", fire.StatusCode),
			slog.Int64("driftMicros", fire.Drift.Microseconds()),
		)...)
	}
	return nil
}

// RedisRecordHandler appends each fire to a Redis stream.
type RedisRecordHandler struct {
	client *redis.Client
	stream string
}

func NewRedisRecordHandler(client *redis.Client, stream string) *RedisRecordHandler {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisRecordHandler{client: client, stream: stream}
}

func FireToStreamValues(runID string, fire report.Fire) map[string]any {
	values := map[string]any{
		"runID":  runID,
		"index":  strconv.Itoa(fire.Index),
		"target": fire.Target.String(),
	}
	if fire.OK() {
		values["sent"] = fire.Sent.String()
		values["sentAt"] = fire.SentAt.Format(time.RFC3339Nano)
		values["status"] = strconv.Itoa(fire.StatusCode)
		values["driftMicros"] = strconv.FormatInt(fire.Drift.Microseconds(), 10)
	} else {
		values["error"] = fire.Error
	}
	return values
}

func (h *RedisRecordHandler) HandleRecords(ctx context.Context, runID string, fires ...report.Fire) error {
	_, err := h.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, fire := range fires {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: h.stream,
				Values: FireToStreamValues(runID, fire),
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %d fire records to %s: %w", len(fires), h.stream, err)
	}
	return nil
}

var (
	_ RecordHandler = (*PrintingRecordHandler)(nil)
	_ RecordHandler = (*RedisRecordHandler)(nil)
)
