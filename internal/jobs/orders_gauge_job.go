package jobs

import (
	"context"
	"database/sql"
	"log/slog"

	"deliveryorders/internal/core/application/usecases/queries"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"
	"deliveryorders/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultOrdersGaugeSchedule runs the refresh every fifteen seconds.
const DefaultOrdersGaugeSchedule = "*/15 * * * * *"

type orderCounter interface {
	Handle(ctx context.Context, query queries.CountOrdersQuery) (int, error)
}

// OrdersGaugeJob keeps the orders-by-status gauge and the database pool
// gauges up to date.
type OrdersGaugeJob struct {
	counter   orderCounter
	poolStats func() sql.DBStats
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOrdersGaugeJob creates the job. poolStats may be nil.
func NewOrdersGaugeJob(
	counter orderCounter,
	poolStats func() sql.DBStats,
	schedule string,
	logger *slog.Logger,
) *OrdersGaugeJob {
	if schedule == "" {
		schedule = DefaultOrdersGaugeSchedule
	}
	return &OrdersGaugeJob{
		counter:   counter,
		poolStats: poolStats,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "orders_gauge_job"),
	}
}

// Start registers the refresh and starts the scheduler.
func (j *OrdersGaugeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Orders gauge job started", "schedule", j.schedule)
	return nil
}

// Run performs one refresh. A status that cannot be counted keeps its
// previous gauge value.
func (j *OrdersGaugeJob) Run(ctx context.Context) {
	for _, status := range order.Statuses() {
		query, err := queries.NewCountOrdersQuery(ports.OrderCriteria{Status: status})
		if err != nil {
			j.logger.ErrorContext(ctx, "Orders gauge job failed", "status", status.String(), "error", err)
			continue
		}

		count, err := j.counter.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Orders gauge job failed", "status", status.String(), "error", err)
			continue
		}
		metrics.SetOrdersByStatus(status.String(), count)
	}

	if j.poolStats != nil {
		metrics.UpdateDBPoolMetrics(j.poolStats())
	}
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (j *OrdersGaugeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Orders gauge job stopped")
}
