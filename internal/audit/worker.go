package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/huertohogar/huertohogar/internal/jobs"
)

// Worker wraps the Asynq server that drains the audit queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Writer    *Writer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) *Worker {
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeRecord, recordHandler(cfg.Writer, cfg.Logger, cfg.Metrics))
	return &Worker{server: srv, mux: mux, logger: cfg.Logger}
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("audit: worker not configured")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func recordHandler(writer *Writer, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		track := metrics.Track(TaskTypeRecord)
		var event Event
		if err := json.Unmarshal(t.Payload(), &event); err != nil {
			_ = track.End(err)
			return asynq.SkipRetry
		}
		if err := writer.Insert(ctx, event); err != nil {
			if logger != nil {
				logger.Error("persist audit event", slog.String("action", event.Action), slog.Any("error", err))
			}
			return track.End(err)
		}
		return track.End(nil)
	}
}
