// Package typing keeps a "still working" indicator alive in a channel while
// a completion call is in flight.
package typing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the cadence at which the indicator is refreshed.
const DefaultInterval = 5 * time.Second

// SignalFunc emits one typing signal to a channel.
type SignalFunc func(channelID string) error

// Notifier runs one cancellable background loop per in-flight request. It
// never stops on its own; the caller holds the stop func and must invoke it
// on both success and error exits.
type Notifier struct {
	logger   *slog.Logger
	signal   SignalFunc
	interval time.Duration
}

// NewNotifier builds a notifier. An interval of 0 means DefaultInterval.
func NewNotifier(log *slog.Logger, signal SignalFunc, interval time.Duration) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Notifier{
		logger:   log.With(slog.String("component", "typing")),
		signal:   signal,
		interval: interval,
	}
}

// Start launches the signal loop for channelID and returns its stop func.
// The loop emits immediately and then once per interval; stopping is
// idempotent and takes effect within one interval.
func (n *Notifier) Start(channelID string) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go n.run(ctx, channelID, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func (n *Notifier) run(ctx context.Context, channelID string, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		if err := n.signal(channelID); err != nil {
			n.logger.Debug("typing signal failed",
				slog.String("channel_id", channelID),
				slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
