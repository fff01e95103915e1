package warm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
)

var (
	errInvalidRefresher = errors.New("invalid refresher")
	errInvalidInterval  = errors.New("invalid interval")
)

// Orchestrator is the main job scheduler for registered refreshers
type Orchestrator struct {
	logger *slog.Logger

	registeredRefreshers sync.Map

	q             iq.Queue[scheduledRefresh]
	queryInterval time.Duration
	retryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		q:             iq.NewQueue[scheduledRefresh](),
		queryInterval: time.Second,      // every second
		retryInterval: time.Second * 10, // retry failed refreshes soon
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new refresher with the orchestrator.
// The refresher is immediately queued up for execution
func (o *Orchestrator) Register(r Refresher) error {
	if r == nil || r.Name() == "" {
		return errInvalidRefresher
	}

	if r.Interval() <= 0 {
		return errInvalidInterval
	}

	// Register the refresher
	id := xid.New()
	o.registeredRefreshers.Store(id, r)

	o.logger.Info(
		"registered new refresher",
		"name", r.Name(),
	)

	// Schedule the job
	o.scheduleRefresh(
		time.Now().UTC(),
		id,
		r,
	)

	return nil
}

// Start starts the refresher orchestration service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleRefresh initializes all jobs that are executable (due)
	handleRefresh := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				nextSR := o.nextRefresh()
				if nextSR == nil {
					return // nothing to schedule anymore
				}

				o.logger.Info(
					"scheduling refresh",
					"name", nextSR.refresher.Name(),
				)

				// Spawn worker
				info := &workerInfo{
					refresher:   nextSR.refresher,
					refresherID: nextSR.refresherID,
					resCh:       collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Initialize the first set of due jobs (on boot)
	handleRefresh()

	for {
		select {
		case <-ctx.Done():
			// The channel is left open: an in-flight worker may still be
			// selecting on its send, and sending on a closed channel panics
			o.logger.Info("warm orchestrator shut down")

			return nil
		case <-ticker.C:
			handleRefresh()
		case response := <-collectorCh:
			now := time.Now().UTC()

			rrRaw, ok := o.registeredRefreshers.Load(response.refresherID)

			if !ok {
				o.logger.Error(
					"unable to load registered refresher",
					"id", response.refresherID.String(),
				)

				continue
			}

			rr, _ := rrRaw.(Refresher)

			if response.error != nil {
				o.logger.Error(
					"error encountered during refresh",
					"name", rr.Name(),
					"err", response.error.Error(),
				)

				// Retry the refresh soon
				o.scheduleRefresh(
					now.Add(o.retryInterval),
					response.refresherID,
					rr,
				)

				continue
			}

			o.logger.Info(
				"refresh complete",
				"name", rr.Name(),
			)

			// Schedule a new refresh for this refresher
			o.scheduleRefresh(
				now.Add(rr.Interval()),
				response.refresherID,
				rr,
			)
		}
	}
}

// scheduleRefresh schedules a new refresher run
func (o *Orchestrator) scheduleRefresh(
	at time.Time,
	refresherID xid.ID,
	refresher Refresher,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	futureSR := scheduledRefresh{
		at:          at,
		refresherID: refresherID,
		refresher:   refresher,
	}

	o.q.Push(futureSR)
}

// nextRefresh fetches the next due refresh job, as of the moment of calling
func (o *Orchestrator) nextRefresh() *scheduledRefresh {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be scheduled
	if o.q.Len() == 0 {
		return nil // nothing to schedule, all jobs are running
	}

	// Check if the top element is due
	if o.q.Index(0).at.After(now) {
		return nil // nothing to schedule, latest job is in the future
	}

	// Grab the next job
	nextSR := o.q.PopFront()

	return nextSR
}
