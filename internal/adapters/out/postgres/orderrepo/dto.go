// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Coordinates are stored as numeric so the digits a client sent come back
// unchanged; status is stored by name.
type OrderDTO struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Composition string          `gorm:"type:text;not null"`
	Additional  *string         `gorm:"type:text"`
	Address     string          `gorm:"type:text;not null"`
	Price       float64         `gorm:"not null"`
	Status      string          `gorm:"type:varchar(255);not null;index"`
	Latitude    decimal.Decimal `gorm:"type:numeric(12,9);not null"`
	Longitude   decimal.Decimal `gorm:"type:numeric(12,9);not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
// An unsaved order maps to ID 0 so the database assigns one.
func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID(),
		Composition: o.Composition(),
		Additional:  o.Additional(),
		Address:     o.Address(),
		Price:       o.Price(),
		Status:      o.Status().String(),
		Latitude:    o.Location().Latitude(),
		Longitude:   o.Location().Longitude(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(dto.ID, dto.Composition, dto.Address, dto.Additional, location, dto.Price, status)
}
