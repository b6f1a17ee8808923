package queries_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	postgres_adapter "deliveryorders/internal/adapters/out/postgres"
	"deliveryorders/internal/adapters/out/postgres/orderrepo"
	"deliveryorders/internal/core/application/usecases/commands"
	"deliveryorders/internal/core/application/usecases/queries"
	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/domain/services"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type uowFactoryFunc func() commands.OrderUoW

func (f uowFactoryFunc) Create() commands.OrderUoW {
	return f()
}

// OrderQueriesIntegrationTestSuite runs create and read use cases against
// a real PostgreSQL database.
type OrderQueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	create    commands.CreateOrderCommandHandler
	deliver   commands.ChangeOrderStatusCommandHandler
	getOrder  queries.GetOrderQueryHandler
	getPage   queries.GetOrdersPageQueryHandler
}

func (suite *OrderQueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)
	suite.Require().NoError(postgres_adapter.Migrate(dsn))

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	calculator, err := services.NewDeliveryPriceCalculator(
		kernel.MustParseGeoPoint("55.77868792", "37.58800507"),
		services.DefaultPricingTiers(),
	)
	suite.Require().NoError(err)

	factory := postgres_adapter.NewGormUnitOfWorkFactory(db)
	uows := uowFactoryFunc(func() commands.OrderUoW { return factory.Create() })
	reader := orderrepo.NewGormOrderRepository(db, nil)

	suite.create = commands.NewCreateOrderCommandHandler(uows, calculator, nil, nil)
	suite.deliver = commands.NewChangeOrderStatusCommandHandler(uows, nil, nil)
	suite.getOrder = queries.NewGetOrderQueryHandler(reader)
	suite.getPage = queries.NewGetOrdersPageQueryHandler(reader)
}

func (suite *OrderQueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders RESTART IDENTITY").Error)
}

func (suite *OrderQueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderQueriesIntegrationTestSuite) TestCreateThenGet_ReturnsAlwaysIncludedFields() {
	ctx := context.Background()
	cmd, err := commands.NewCreateOrderCommand("pizza", validAddress, nil, "55.928350", "37.713401")
	suite.Require().NoError(err)

	created, err := suite.create.Handle(ctx, cmd)
	suite.Require().NoError(err)

	id, _ := created.Get(order.FieldID)
	query, err := queries.NewGetOrderQuery(id.(int64), "")
	suite.Require().NoError(err)
	fetched, err := suite.getOrder.Handle(ctx, query)
	suite.Require().NoError(err)

	createdJSON, err := json.Marshal(created)
	suite.Require().NoError(err)
	fetchedJSON, err := json.Marshal(fetched)
	suite.Require().NoError(err)
	suite.JSONEq(string(createdJSON), string(fetchedJSON))
	suite.JSONEq(`{"id":1,"composition":"pizza","address":"`+validAddress+`","price":200,"status":"processing"}`,
		string(fetchedJSON))
}

func (suite *OrderQueriesIntegrationTestSuite) TestUndeliverableOrder_IsNotStored() {
	ctx := context.Background()
	cmd, err := commands.NewCreateOrderCommand("pizza", validAddress, nil, "-5.811153", "31.669824")
	suite.Require().NoError(err)

	_, err = suite.create.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, commands.ErrDeliveryIsNotPossible)

	query, _ := queries.NewGetOrdersPageQuery(0, 0, "", "")
	page, err := suite.getPage.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Empty(page.Orders)
	suite.False(page.Window.HasNextPage)
}

func (suite *OrderQueriesIntegrationTestSuite) TestDeliverTwice_SecondIsAlreadyApplied() {
	ctx := context.Background()
	cmd, err := commands.NewCreateOrderCommand("pizza", validAddress, nil, "55.762922", "37.739982")
	suite.Require().NoError(err)
	_, err = suite.create.Handle(ctx, cmd)
	suite.Require().NoError(err)

	deliver, err := commands.NewChangeOrderStatusCommand(1, order.Delivered)
	suite.Require().NoError(err)

	updated, err := suite.deliver.Handle(ctx, deliver)
	suite.Require().NoError(err)
	status, _ := updated.Get(order.FieldStatus)
	suite.Equal("delivered", status)

	_, err = suite.deliver.Handle(ctx, deliver)
	suite.Require().ErrorIs(err, order.ErrStatusAlreadyApplied)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetPage_SortsProjectsAndPages() {
	ctx := context.Background()
	destinations := [][2]string{
		{"55.762922", "37.739982"}, // 100
		{"55.928350", "37.713401"}, // 200
		{"55.762922", "37.739982"}, // 100
	}
	for _, d := range destinations {
		cmd, err := commands.NewCreateOrderCommand("pizza", validAddress, nil, d[0], d[1])
		suite.Require().NoError(err)
		_, err = suite.create.Handle(ctx, cmd)
		suite.Require().NoError(err)
	}

	query, err := queries.NewGetOrdersPageQuery(1, 2, "latitude", "desc_price")
	suite.Require().NoError(err)
	page, err := suite.getPage.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.True(page.Window.HasNextPage)
	suite.Require().Len(page.Orders, 2)
	first, _ := page.Orders[0].Get(order.FieldID)
	second, _ := page.Orders[1].Get(order.FieldID)
	suite.Equal(int64(2), first)
	suite.Equal(int64(1), second)
	lat, _ := page.Orders[0].Get(order.FieldLatitude)
	suite.Equal("55.92835", lat)

	query, err = queries.NewGetOrdersPageQuery(2, 2, "", "desc_price")
	suite.Require().NoError(err)
	page, err = suite.getPage.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.False(page.Window.HasNextPage)
	suite.Require().Len(page.Orders, 1)
	last, _ := page.Orders[0].Get(order.FieldID)
	suite.Equal(int64(3), last)
}

func TestOrderQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesIntegrationTestSuite))
}
