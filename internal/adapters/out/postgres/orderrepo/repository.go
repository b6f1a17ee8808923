package orderrepo

import (
	"context"
	"errors"

	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"
	"deliveryorders/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns maps sortable schema fields to columns. Fields missing here
// are skipped when building ORDER BY.
var sortColumns = map[string]string{
	order.FieldID:         "id",
	order.FieldPrice:      "price",
	order.FieldAddress:    "address",
	order.FieldStatus:     "status",
	order.FieldAdditional: "additional",
}

// updatableColumns are written by Update; id is never rewritten.
var updatableColumns = []string{
	"composition", "additional", "address", "price", "status", "latitude", "longitude",
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker orderTracker
}

// orderTracker collects aggregates written in the current unit of work.
type orderTracker interface {
	TrackOrder(o *order.Order)
}

type noopTracker struct{}

func (noopTracker) TrackOrder(*order.Order) {}

// NewGormOrderRepository creates a new GORM order repository. A nil tracker
// is allowed for read-only use.
func NewGormOrderRepository(db *gorm.DB, tracker orderTracker) *GormOrderRepository {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// Add inserts a new order and assigns the generated id to it.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := aggregate.AssignID(dto.ID); err != nil {
		return err
	}

	r.tracker.TrackOrder(aggregate)
	return nil
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select(updatableColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundErrorWithCause("order", dto.ID, gorm.ErrRecordNotFound)
	}

	r.tracker.TrackOrder(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	if id <= 0 {
		return nil, errs.NewObjectNotFoundError("order", id)
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Count returns the number of orders, optionally with one status.
func (r *GormOrderRepository) Count(ctx context.Context, criteria ports.OrderCriteria) (int, error) {
	query := r.db.WithContext(ctx).Model(&OrderDTO{})
	if criteria.Status != order.Unknown {
		query = query.Where("status = ?", criteria.Status.String())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

// List returns a slice of orders ordered by sort, then by id ascending when
// id is not part of sort.
func (r *GormOrderRepository) List(
	ctx context.Context,
	offset, limit int,
	sort listing.SortCriteria,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Clauses(orderBy(sort)).
		Offset(offset).
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func orderBy(sort listing.SortCriteria) clause.OrderBy {
	columns := make([]clause.OrderByColumn, 0, len(sort)+1)
	hasID := false
	for _, criterion := range sort {
		column, ok := sortColumns[criterion.Field]
		if !ok {
			continue
		}
		hasID = hasID || column == "id"
		columns = append(columns, clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   criterion.Direction == listing.Descending,
		})
	}
	if !hasID {
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	return clause.OrderBy{Columns: columns}
}
