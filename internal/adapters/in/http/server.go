package http

import (
	"context"
	"log/slog"
	"net/http"

	"deliveryorders/internal/core/application/usecases/commands"
	"deliveryorders/internal/core/application/usecases/queries"
	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/domain/services"
	"deliveryorders/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// StatusDeliveryIsNotPossible answers a quote for a destination outside
// every pricing tier.
const StatusDeliveryIsNotPossible = 210

const defaultOrderBy = "desc_id"

type (
	createOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (listing.Projection, error)
	}
	changeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (listing.Projection, error)
	}
	getOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (listing.Projection, error)
	}
	getOrdersPageHandler interface {
		Handle(ctx context.Context, query queries.GetOrdersPageQuery) (queries.GetOrdersPageQueryResponse, error)
	}
	getDeliveryPriceHandler interface {
		Handle(ctx context.Context, query queries.GetDeliveryPriceQuery) (services.DeliveryQuote, error)
	}
)

// Server handles the /api routes and delegates to application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       createOrderHandler
	changeOrderStatusHandler changeOrderStatusHandler

	// Query handlers
	getOrderHandler         getOrderHandler
	getOrdersPageHandler    getOrdersPageHandler
	getDeliveryPriceHandler getDeliveryPriceHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler createOrderHandler,
	changeOrderStatusHandler changeOrderStatusHandler,
	getOrderHandler getOrderHandler,
	getOrdersPageHandler getOrdersPageHandler,
	getDeliveryPriceHandler getDeliveryPriceHandler,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		getOrdersPageHandler:     getOrdersPageHandler,
		getDeliveryPriceHandler:  getDeliveryPriceHandler,
		logger:                   logger.With("component", "http_server"),
	}
}

// GetDeliveryPrice handles GET /api/delivery_price.
func (s *Server) GetDeliveryPrice(ctx echo.Context) error {
	var latitude, longitude string
	if err := runtime.BindQueryParameter("form", true, true, "latitude", ctx.QueryParams(), &latitude); err != nil {
		return s.badRequest(ctx, err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "longitude", ctx.QueryParams(), &longitude); err != nil {
		return s.badRequest(ctx, err)
	}

	query, err := queries.NewGetDeliveryPriceQuery(latitude, longitude)
	if err != nil {
		return s.respondError(ctx, err)
	}

	quote, err := s.getDeliveryPriceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}
	metrics.ObserveQuote(quote.Deliverable)

	if !quote.Deliverable {
		return ctx.JSON(StatusDeliveryIsNotPossible, DeliveryPriceResponse{Code: StatusDeliveryIsNotPossible})
	}
	price := quote.Price
	return ctx.JSON(http.StatusOK, DeliveryPriceResponse{Code: http.StatusOK, Price: &price})
}

// CreateOrder handles POST /api/order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		body.Composition,
		body.Address,
		body.Additional,
		string(body.Latitude),
		string(body.Longitude),
	)
	if err != nil {
		return s.respondError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderResponse{Code: http.StatusOK, Order: created})
}

// GetOrder handles GET /api/order/{id}.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return s.orderNotFound(ctx)
	}

	var params GetOrderParams
	if err := runtime.BindQueryParameter("form", true, false, "fields", ctx.QueryParams(), &params.Fields); err != nil {
		return s.badRequest(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(id, valueOr(params.Fields, ""))
	if err != nil {
		return s.orderNotFound(ctx)
	}

	found, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderResponse{Code: http.StatusOK, Order: found})
}

// GetOrdersPage handles GET /api/orders.
func (s *Server) GetOrdersPage(ctx echo.Context) error {
	var params OrdersPageParams
	if err := runtime.BindQueryParameter("form", true, false, "page", ctx.QueryParams(), &params.Page); err != nil {
		return s.badRequest(ctx, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "resOnPage", ctx.QueryParams(), &params.ResOnPage); err != nil {
		return s.badRequest(ctx, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "fields", ctx.QueryParams(), &params.Fields); err != nil {
		return s.badRequest(ctx, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "orderBy", ctx.QueryParams(), &params.OrderBy); err != nil {
		return s.badRequest(ctx, err)
	}

	query, err := queries.NewGetOrdersPageQuery(
		valueOr(params.Page, 1),
		valueOr(params.ResOnPage, listing.DefaultPageSize),
		valueOr(params.Fields, ""),
		valueOr(params.OrderBy, defaultOrderBy),
	)
	if err != nil {
		return s.respondError(ctx, err)
	}

	page, err := s.getOrdersPageHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	orders := page.Orders
	if orders == nil {
		orders = []listing.Projection{}
	}
	return ctx.JSON(http.StatusOK, OrdersPageResponse{
		Code:           http.StatusOK,
		Page:           page.Window.Page,
		NextPageExists: page.Window.HasNextPage,
		Orders:         orders,
	})
}

// MarkOrderDelivered handles PATCH /api/order/{id}/delivered. An order that
// is already delivered is answered with 204 and left untouched.
func (s *Server) MarkOrderDelivered(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return s.orderNotFound(ctx)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(id, order.Delivered)
	if err != nil {
		return s.orderNotFound(ctx)
	}

	updated, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderResponse{Code: http.StatusOK, Order: updated})
}

// valueOr dereferences an optional parameter.
func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func bindOrderID(ctx echo.Context) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	return id, err
}
