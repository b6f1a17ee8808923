// Package jobs provides scheduled background tasks for the delivery orders
// service.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field and log through
// slog with a "component" attribute.
//
// # Available Jobs
//
// OrdersGaugeJob counts stored orders per status through the count use case
// and publishes the numbers as Prometheus gauges, together with database
// pool statistics.
//
// # Usage
//
//	manager := jobs.NewJobManager(logger)
//	manager.Register("orders gauge", jobs.NewOrdersGaugeJob(countHandler, sqlDB.Stats, "", logger))
//
//	if err := manager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer manager.StopAll()
package jobs
