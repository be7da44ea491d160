package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/2beens/fitnesstracking/internal/telemetry/metrics"
)

const refreshTimeout = 30 * time.Second

type counter interface {
	Count(ctx context.Context) (int, error)
}

// StoreGauges keeps the total users and workouts gauges in sync with the db.
type StoreGauges struct {
	users          counter
	workouts       counter
	metricsManager *metrics.Manager
}

func NewStoreGauges(users, workouts counter, metricsManager *metrics.Manager) *StoreGauges {
	return &StoreGauges{
		users:          users,
		workouts:       workouts,
		metricsManager: metricsManager,
	}
}

func (g *StoreGauges) Refresh(ctx context.Context) error {
	var errs error

	usersCount, err := g.users.Count(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count users: %w", err))
	} else {
		g.metricsManager.GaugeUsersTotal.Set(float64(usersCount))
	}

	workoutsCount, err := g.workouts.Count(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count workouts: %w", err))
	} else {
		g.metricsManager.GaugeWorkoutsTotal.Set(float64(workoutsCount))
	}

	return errs
}

// Schedule refreshes the gauges once right away and then on the given cron spec.
// The returned cron is started, the caller stops it on shutdown.
func (g *StoreGauges) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		g.refreshWithTimeout(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule store gauges [%s]: %w", spec, err)
	}

	g.refreshWithTimeout(ctx)
	c.Start()
	log.Debugf("store gauges scheduled: %s", spec)
	return c, nil
}

func (g *StoreGauges) refreshWithTimeout(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	if err := g.Refresh(ctx); err != nil {
		log.Errorf("refresh store gauges: %s", err)
	}
}
