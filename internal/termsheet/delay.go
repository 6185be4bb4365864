package termsheet

import (
	"context"
	"time"
)

// DefaultAnalysisDelay is the simulated inference latency of a validation run.
const DefaultAnalysisDelay = 2 * time.Second

// Delay stands in for remote processing latency.
type Delay interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits for its duration or until ctx is done.
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noDelay struct{}

func (noDelay) Wait(context.Context) error { return nil }

// NoDelay returns immediately; tests use it.
var NoDelay Delay = noDelay{}
