// Package service provides the inventory business logic on top of the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/abgdnv/inventory/internal/inventory/store"
	"github.com/abgdnv/inventory/internal/platform/messaging"
	"github.com/abgdnv/inventory/internal/platform/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/abgdnv/inventory/internal/inventory/service"

const defaultPublishTimeout = 5 * time.Second

// Sale outcomes recorded by the inventory_product_sales_total counter.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// ProductService defines the methods for managing products.
type ProductService interface {
	// FindAll returns every product ordered by id.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create adds a new product. Stock and price are not range checked.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Sell decrements the stock of a product by one.
	// Returns ErrProductNotFound, ErrOutOfStock, or an error wrapping ErrTransactionFailed.
	Sell(ctx context.Context, id int64) (*ProductDto, error)
}

// Products implements ProductService.
type Products struct {
	store        store.ProductStore
	publisher    messaging.Publisher
	logger       *slog.Logger
	tracer       trace.Tracer
	salesCounter metric.Int64Counter

	publishTimeout time.Duration
}

// ProductOption configures Products.
type ProductOption func(*Products)

// WithPublishTimeout bounds how long a sale waits for its event to be published.
func WithPublishTimeout(d time.Duration) ProductOption {
	return func(p *Products) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

// NewProductService creates a ProductService. Instruments come from the global OpenTelemetry providers.
func NewProductService(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger, opts ...ProductOption) *Products {
	meter := otel.Meter(instrumentationName)
	salesCounter, err := meter.Int64Counter("inventory_product_sales",
		metric.WithDescription("Sale attempts by outcome"))
	if err != nil {
		panic(fmt.Sprintf("failed to create inventory_product_sales counter: %v", err))
	}
	s := &Products{
		store:          productStore,
		publisher:      publisher,
		logger:         logger.With("component", "product_service"),
		tracer:         otel.Tracer(instrumentationName),
		salesCounter:   salesCounter,
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProductDto represents a product in API responses.
type ProductDto struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Stock     int32  `json:"stock"`
	Price     int64  `json:"price"`
	CreatedAt string `json:"created_at"`
}

// ProductCreateDto represents the payload for creating a product.
// Stock and price are pointers so that a missing field fails validation while zero does not.
type ProductCreateDto struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Stock *int32 `json:"stock" validate:"required"`
	Price *int64 `json:"price" validate:"required"`
}

func (s *Products) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toProductDto(&products[i])
	}
	return dtos, nil
}

func (s *Products) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	var stock int32
	var price int64
	if product.Stock != nil {
		stock = *product.Stock
	}
	if product.Price != nil {
		price = *product.Price
	}
	created, err := s.store.Create(ctx, product.Name, stock, price)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toProductDto(created), nil
}

func (s *Products) Sell(ctx context.Context, id int64) (*ProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.Sell", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	sold, err := s.store.Sell(ctx, id)
	if err != nil {
		outcome, mapped := classifySaleError(err)
		s.salesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		span.SetAttributes(attribute.String("sale.outcome", outcome))
		if outcome == OutcomeFailed {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sale transaction failed")
		}
		return nil, mapped
	}
	s.salesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", OutcomeAccepted)))
	span.SetAttributes(attribute.String("sale.outcome", OutcomeAccepted), attribute.Int("product.stock", int(sold.Stock)))

	s.publishSold(ctx, sold)
	return toProductDto(sold), nil
}

// publishSold announces a committed sale. Failures are logged only, the sale stands.
// The publish outlives a cancelled request but not publishTimeout.
func (s *Products) publishSold(ctx context.Context, sold *store.Product) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := events.ProductSoldEvent{
		Carrier:        carrier,
		ProductID:      sold.ID,
		RemainingStock: sold.Stock,
		Price:          sold.Price,
		SoldAt:         time.Now().UTC(),
	}
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ProductSoldEvent", "product_id", sold.ID, "error", err)
	}
}

// classifySaleError keeps business rejections as they are and folds every other failure into ErrTransactionFailed.
// A rejection whose rollback also failed counts as a failure.
func classifySaleError(err error) (string, error) {
	switch {
	case errors.Is(err, inverrors.ErrTransactionRollback):
		return OutcomeFailed, fmt.Errorf("%w: %w", inverrors.ErrTransactionFailed, err)
	case errors.Is(err, inverrors.ErrProductNotFound):
		return OutcomeNotFound, err
	case errors.Is(err, inverrors.ErrOutOfStock):
		return OutcomeRejected, err
	default:
		return OutcomeFailed, fmt.Errorf("%w: %w", inverrors.ErrTransactionFailed, err)
	}
}

func toProductDto(p *store.Product) *ProductDto {
	return &ProductDto{
		ID:        p.ID,
		Name:      p.Name,
		Stock:     p.Stock,
		Price:     p.Price,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
