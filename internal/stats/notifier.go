package stats

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tatianab/rigged-rps/internal/models"
)

const DefaultTimeout = 5 * time.Second

// Notifier issues counter increments to a Store without ever blocking the
// caller. Failures are logged and dropped; nothing is retried.
type Notifier struct {
	store   Store
	key     string
	timeout time.Duration
	log     zerolog.Logger

	visited atomic.Bool
	wg      sync.WaitGroup
}

type Option func(*Notifier)

func WithLogger(l zerolog.Logger) Option {
	return func(n *Notifier) { n.log = l.With().Str("component", "stats").Logger() }
}

func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

func NewNotifier(store Store, key string, opts ...Option) *Notifier {
	n := &Notifier{
		store:   store,
		key:     key,
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// RecordGameOutcome counts a finished round, and a CPU win when the player
// lost.
func (n *Notifier) RecordGameOutcome(outcome models.Outcome) {
	RoundsTotal.WithLabelValues(string(outcome)).Inc()
	fields := []string{FieldTotalGames}
	if outcome == models.Lose {
		fields = append(fields, FieldCPUWins)
	}
	n.fire("record_outcome", fields...)
}

// RecordVisit counts this process once, however many times it is called.
func (n *Notifier) RecordVisit() {
	if !n.visited.CompareAndSwap(false, true) {
		return
	}
	VisitsTotal.Inc()
	n.fire("record_visit", FieldVisitorCount)
}

func (n *Notifier) fire(op string, fields ...string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		for _, f := range fields {
			if err := n.store.Increment(ctx, n.key, f); err != nil {
				StoreErrors.WithLabelValues(op).Inc()
				n.log.Warn().Err(err).Str("op", op).Str("field", f).Msg("stats increment failed")
			}
		}
	}()
}

// Watch mirrors the remote counters into fn, which may be called from any
// goroutine. A missing record reads as zero and is created once.
func (n *Notifier) Watch(ctx context.Context, fn func(models.GlobalStats)) (func(), error) {
	var initOnce sync.Once
	onUpdate := func(doc Document) {
		if doc == nil {
			initOnce.Do(n.initialize)
			fn(models.GlobalStats{})
			return
		}
		fn(doc.ToGlobalStats())
	}
	onError := func(err error) {
		StoreErrors.WithLabelValues("subscribe").Inc()
		n.log.Warn().Err(err).Msg("stats subscription failed")
	}
	return n.store.Subscribe(ctx, n.key, onUpdate, onError)
}

func (n *Notifier) initialize() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.store.Set(ctx, n.key, zeroDocument()); err != nil {
			StoreErrors.WithLabelValues("initialize").Inc()
			n.log.Warn().Err(err).Msg("stats record initialisation failed")
		}
	}()
}

// Wait blocks until every in-flight store call has returned.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
