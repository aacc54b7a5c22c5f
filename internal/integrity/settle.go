package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// Settler blocks until the event log at path is considered fully drained.
// expected is the line count the pipeline is supposed to reach.
type Settler interface {
	Settle(ctx context.Context, path string, expected int) error
}

// FixedSettle waits a constant period.
type FixedSettle struct {
	Period time.Duration
}

func (f FixedSettle) Settle(ctx context.Context, _ string, _ int) error {
	t := time.NewTimer(f.Period)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var errNotSettled = errors.New("event log still changing")

// StableSettle polls the event log with exponential backoff and returns once
// its line count is the same on two successive polls.
type StableSettle struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	maxWait         time.Duration
	log             *zap.SugaredLogger
}

func NewStableSettle(initialInterval, maxInterval, maxWait time.Duration, logger *zap.Logger) *StableSettle {
	return &StableSettle{
		initialInterval: initialInterval,
		maxInterval:     maxInterval,
		maxWait:         maxWait,
		log:             logger.Named("settle").Sugar(),
	}
}

// Settle returns a SettleTimeoutError when the log keeps changing, or never
// appears, for longer than the maximum wait. An empty log only counts as
// settled when nothing is expected.
func (s *StableSettle) Settle(ctx context.Context, path string, expected int) error {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     s.initialInterval,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         s.maxInterval,
	}
	b.Reset()

	start := time.Now()
	last := -1
	op := func() (int, error) {
		n, err := CountLines(path)
		if err != nil {
			return 0, err
		}
		if n == last && (n > 0 || expected == 0) {
			return n, nil
		}
		last = n
		return n, fmt.Errorf("%w: %d lines", errNotSettled, n)
	}

	n, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(s.maxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.log.Debugw("event log not settled", "path", path, "reason", err, "next_poll", next)
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return srvErrors.NewSettleTimeoutError(time.Since(start).Round(time.Millisecond), max(last, 0), err)
	}

	s.log.Infow("event log settled", "path", path, "lines", n, "waited", time.Since(start))
	return nil
}
