package warm

import (
	"context"
	"time"
)

// Refresher is a single scheduled cache-warming job
type Refresher interface {
	// Name returns the human-readable name of the refresher
	Name() string

	// Interval returns the interval at which the refresher should run
	Interval() time.Duration

	// Refresh recomputes and re-caches the refresher's payload
	Refresh(ctx context.Context) error
}
