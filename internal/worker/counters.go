package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	kafkax "github.com/lodgelogic/lodgelogic-insights/internal/kafka"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
	"github.com/lodgelogic/lodgelogic-insights/internal/service/counters"
)

type MessageSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type EventHandler interface {
	Apply(ctx context.Context, e domain.BookingEvent) error
}

const (
	handleTimeout  = 10 * time.Second
	dlqCallTimeout = 5 * time.Second
	commitTimeout  = 5 * time.Second
	maxDLQBackoff  = 5 * time.Second
)

// CounterWorker consumes booking events and keeps hotel counters current.
// Offsets are committed in fetch order per partition, so a message that
// could not be handled or dead-lettered holds back every later commit on
// its partition and is redelivered after a restart.
type CounterWorker struct {
	log        *zap.Logger
	service    EventHandler
	c          MessageSource
	dlq        Publisher
	maxWorkers int
	dlqBackoff time.Duration

	mu      sync.Mutex
	offsets *offsetTracker
}

func NewCounterWorker(log *zap.Logger, service EventHandler, c MessageSource, dlq Publisher, maxWorkers int) *CounterWorker {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &CounterWorker{
		log:        log,
		service:    service,
		c:          c,
		dlq:        dlq,
		maxWorkers: maxWorkers,
		dlqBackoff: 100 * time.Millisecond,
		offsets:    newOffsetTracker(),
	}
}

// Run fetches until ctx is cancelled, then waits for in-flight messages.
func (w *CounterWorker) Run(ctx context.Context) error {
	sem := make(chan struct{}, w.maxWorkers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		m, err := w.c.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error("failed to read message", zap.Error(err))
			continue
		}

		w.mu.Lock()
		tm := w.offsets.track(m)
		w.mu.Unlock()

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			w.process(ctx, tm)
		}()
	}
}

// process handles one message. Messages already fetched are finished even
// after ctx is cancelled; only DLQ retries stop with ctx.
func (w *CounterWorker) process(ctx context.Context, tm *trackedMessage) {
	m := tm.msg
	work := context.WithoutCancel(ctx)

	outcome := "applied"
	err := w.handleMessage(work, m)
	switch {
	case err == nil:
	case errors.Is(err, counters.ErrUnknownHotel):
		outcome = "unknown_hotel"
		w.log.Warn("booking event for unknown hotel", zap.Error(err), zap.Int64("offset", m.Offset))
	default:
		outcome = "dlq"
		w.log.Error("failed to handle message", zap.Error(err), zap.Int64("offset", m.Offset))
		// Send to DLQ for manual inspection
		if err := w.publishDLQ(ctx, m); err != nil {
			metrics.BookingEventsTotal.WithLabelValues("dlq_failed").Inc()
			w.log.Error("giving up on dlq; partition commits held until restart",
				zap.Error(err), zap.Int("partition", m.Partition), zap.Int64("offset", m.Offset))
			return
		}
	}
	metrics.BookingEventsTotal.WithLabelValues(outcome).Inc()
	w.complete(work, tm)
}

// publishDLQ retries with exponential backoff until the publish succeeds
// or ctx is cancelled.
func (w *CounterWorker) publishDLQ(ctx context.Context, m kafka.Message) error {
	backoff := w.dlqBackoff
	for {
		attempt, cancel := context.WithTimeout(context.WithoutCancel(ctx), dlqCallTimeout)
		err := w.dlq.Publish(attempt, m.Key, m.Value)
		cancel()
		if err == nil {
			return nil
		}
		w.log.Warn("dlq publish failed; retrying", zap.Error(err), zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxDLQBackoff)
	}
}

// complete commits the newest contiguous finished offset of the message's
// partition. Commits are serialized so offsets never move backwards.
func (w *CounterWorker) complete(ctx context.Context, tm *trackedMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.offsets.finish(tm)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commitTimeout)
	defer cancel()
	if err := w.c.Commit(ctx, m); err != nil {
		w.log.Error("failed to commit message", zap.Error(err), zap.Int64("offset", m.Offset))
	}
}

func (w *CounterWorker) handleMessage(ctx context.Context, m kafka.Message) error {
	e, err := kafkax.ParseBookingEvent(m.Value)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()
	return w.service.Apply(ctx, e)
}
