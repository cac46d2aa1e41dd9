package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/logger"
	"github.com/asmaalachhab/Gestion-v-nementielle/internal/pkg/metrics"
)

// ViewRecorder persists one view into the daily statistics.
type ViewRecorder interface {
	RecordView(ctx context.Context, eventID string) error
}

// StatsRecorder drains view telemetry from a bounded queue so HTTP
// handlers never block on statistics writes. When the queue is full
// the view is dropped and counted, not waited on.
type StatsRecorder struct {
	recorder      ViewRecorder
	jobs          chan string
	recordTimeout time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// NewStatsRecorder creates a recorder with the given queue size.
func NewStatsRecorder(recorder ViewRecorder, queueSize int, recordTimeout time.Duration) *StatsRecorder {
	return &StatsRecorder{
		recorder:      recorder,
		jobs:          make(chan string, queueSize),
		recordTimeout: recordTimeout,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Enqueue queues a view for recording. Never blocks.
func (r *StatsRecorder) Enqueue(eventID string) {
	select {
	case r.jobs <- eventID:
	default:
		if m := metrics.Get(); m != nil {
			m.StatsQueueDropped.Inc()
		}
		logger.Warn("view statistics queue full, dropping view",
			zap.String("event_id", eventID),
		)
	}
}

// Start drains the queue until the context is cancelled or Stop is
// called. Queued jobs present at shutdown are flushed first.
func (r *StatsRecorder) Start(ctx context.Context) {
	logger.Info("statistics recorder started",
		zap.Int("queue_size", cap(r.jobs)),
		zap.Duration("record_timeout", r.recordTimeout),
	)

	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("statistics recorder stopped (context cancelled)")
			return
		case <-r.stopCh:
			r.flush()
			logger.Info("statistics recorder stopped")
			return
		case eventID := <-r.jobs:
			r.record(eventID)
		}
	}
}

// Stop shuts the recorder down and waits for the queue to drain.
func (r *StatsRecorder) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *StatsRecorder) flush() {
	for {
		select {
		case eventID := <-r.jobs:
			r.record(eventID)
		default:
			return
		}
	}
}

func (r *StatsRecorder) record(eventID string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.recordTimeout)
	defer cancel()

	if err := r.recorder.RecordView(ctx, eventID); err != nil {
		if m := metrics.Get(); m != nil {
			m.StatsRecordFailures.Inc()
		}
		logger.Error("recording view statistics failed",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}
}
