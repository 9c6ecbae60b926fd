package reference

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cloudsteer/console-core/pkg/observability"
)

// Refresher forces a full catalog reload on a cron schedule, keeping
// reference labels fresh for long-lived sessions that never re-grant.
type Refresher struct {
	cron    *cron.Cron
	catalog *Catalog
	timeout time.Duration
	logger  *observability.Logger
}

// NewRefresher schedules forced reloads using a standard cron spec
func NewRefresher(catalog *Catalog, schedule string, timeout time.Duration, logger *observability.Logger) (*Refresher, error) {
	r := &Refresher{
		cron:    cron.New(),
		catalog: catalog,
		timeout: timeout,
		logger:  logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	started := time.Now()
	r.catalog.LoadAll(ctx, Options{Force: true})
	r.logger.WithField("duration", time.Since(started).String()).Debug("Scheduled reference refresh finished")
}

// Start begins the schedule
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
