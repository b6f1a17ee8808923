package cmd

import (
	"fmt"
	"log/slog"

	httpadapter "deliveryorders/internal/adapters/in/http"
	"deliveryorders/internal/adapters/out/postgres"
	"deliveryorders/internal/adapters/out/postgres/orderrepo"
	"deliveryorders/internal/core/application/usecases/commands"
	"deliveryorders/internal/core/application/usecases/queries"
	"deliveryorders/internal/core/domain/services"
	"deliveryorders/internal/core/ports"
	"deliveryorders/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	calculator *services.DeliveryPriceCalculator
	publisher  ports.OrderEventPublisher
	logger     *slog.Logger
}

// NewCompositionRoot wires the application. publisher may be nil, in which
// case order events are not published.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) (CompositionRoot, error) {
	origin, err := cfg.Pricing.Origin()
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("pricing origin: %w", err)
	}
	tiers, err := cfg.Pricing.PricingTiers()
	if err != nil {
		return CompositionRoot{}, err
	}
	calculator, err := services.NewDeliveryPriceCalculator(origin, tiers)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("delivery price calculator: %w", err)
	}

	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		calculator: calculator,
		publisher:  publisher,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderReader() ports.OrderReader {
	return orderrepo.NewGormOrderRepository(c.gormDB, nil)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.calculator, c.publisher, c.logger)
	return &h
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() *commands.ChangeOrderStatusCommandHandler {
	h := commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.publisher, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateGetOrdersPageQueryHandler() queries.GetOrdersPageQueryHandler {
	return queries.NewGetOrdersPageQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateCountOrdersQueryHandler() queries.CountOrdersQueryHandler {
	return queries.NewCountOrdersQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateGetDeliveryPriceQueryHandler() queries.GetDeliveryPriceQueryHandler {
	return queries.NewGetDeliveryPriceQueryHandler(c.calculator)
}

// CreateRouter builds the HTTP router. limiter may be nil to disable rate
// limiting.
func (c *CompositionRoot) CreateRouter(limiter middleware.RateLimiterStore) (*echo.Echo, error) {
	server := httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOrdersPageQueryHandler(),
		c.CreateGetDeliveryPriceQueryHandler(),
		c.logger,
	)
	return httpadapter.NewRouter(server, httpadapter.RouterConfig{
		Logger:      c.logger,
		RateLimiter: limiter,
	})
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	manager := jobs.NewJobManager(c.logger)
	manager.Register("orders gauge", jobs.NewOrdersGaugeJob(
		c.CreateCountOrdersQueryHandler(),
		sqlDB.Stats,
		c.cfg.Jobs.OrdersGaugeSchedule,
		c.logger,
	))
	return manager, nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
