package warm

import (
	"context"
	"time"

	"github.com/rs/xid"
)

// scheduledRefresh is a single scheduled Refresher job
type scheduledRefresh struct {
	at          time.Time
	refresher   Refresher
	refresherID xid.ID
}

// Less is utilized to sort scheduled refreshes by their due-time (latest == first)
func (a scheduledRefresh) Less(b scheduledRefresh) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the refresher routine
type workerInfo struct {
	refresher   Refresher
	resCh       chan<- *workerResponse
	refresherID xid.ID
}

// workerResponse is the refresher routine response
type workerResponse struct {
	error       error  // encountered error, if any
	refresherID xid.ID // the refresher ID
}

// handleJob runs the refresher
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	err := info.refresher.Refresh(ctx)

	response := &workerResponse{
		error:       err,
		refresherID: info.refresherID,
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
