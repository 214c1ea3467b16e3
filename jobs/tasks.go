package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/thelab/backoffice/internal/activity"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskActivityRecord appends a mutation to the dashboard feed.
	TaskActivityRecord = "backoffice:activity"
)

// Outcomes reported to an Observer.
const (
	OutcomeEnqueued = "enqueued"
	OutcomeFailed   = "failed"
	OutcomeStored   = "stored"
)

// Observer counts activity outcomes, typically the metrics collector.
type Observer interface {
	ObserveActivity(outcome string)
}

// NewActivityTask constructs an Asynq task carrying ev.
func NewActivityTask(ev activity.Event) (*asynq.Task, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivityRecord, data, asynq.MaxRetry(3)), nil
}

// ActivityJob stores queued events in the feed.
type ActivityJob struct {
	feed     *activity.Feed
	observer Observer
	logger   *slog.Logger
}

// NewActivityJob constructs the handler for TaskActivityRecord.
func NewActivityJob(feed *activity.Feed, observer Observer, logger *slog.Logger) *ActivityJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityJob{feed: feed, observer: observer, logger: logger}
}

// Handle processes TaskActivityRecord tasks. Malformed payloads are not retried.
func (j *ActivityJob) Handle(ctx context.Context, t *asynq.Task) error {
	var ev activity.Event
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		return fmt.Errorf("decode activity payload: %v: %w", err, asynq.SkipRetry)
	}
	if ev.Resource == "" || ev.Action == "" {
		return fmt.Errorf("activity event without resource or action: %w", asynq.SkipRetry)
	}
	if err := j.feed.Append(ctx, ev); err != nil {
		return err
	}
	if j.observer != nil {
		j.observer.ObserveActivity(OutcomeStored)
	}
	j.logger.Debug("activity stored", slog.String("resource", ev.Resource), slog.String("action", string(ev.Action)), slog.String("key", ev.Key))
	return nil
}
