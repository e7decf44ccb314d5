package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Recorder enqueues audit events for the background worker. Enqueue failures
// are logged and swallowed: the audit trail must never fail the request that
// produced it. A nil Recorder drops events silently.
type Recorder struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(client *asynq.Client, logger *slog.Logger) *Recorder {
	return &Recorder{client: client, logger: logger}
}

// Record enqueues one event, stamping At when unset.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil || r.client == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	task, err := NewRecordTask(event)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("marshal audit event", slog.Any("error", err))
		}
		return
	}
	if _, err := r.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		if r.logger != nil {
			r.logger.Warn("enqueue audit event", slog.String("action", event.Action), slog.Any("error", err))
		}
	}
}
