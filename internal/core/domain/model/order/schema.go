package order

import (
	"deliveryorders/internal/core/domain/model/listing"
)

// Field names as they appear in responses, sort specs and storage.
const (
	FieldID          = "id"
	FieldComposition = "composition"
	FieldAddress     = "address"
	FieldAdditional  = "additional"
	FieldPrice       = "price"
	FieldStatus      = "status"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
)

var schema = listing.MustNewSchema(
	[]listing.Field[*Order]{
		{Name: FieldID, Value: func(o *Order) any { return o.ID() }},
		{Name: FieldComposition, Value: func(o *Order) any { return o.Composition() }},
		{Name: FieldAddress, Value: func(o *Order) any { return o.Address() }},
		{Name: FieldAdditional, Value: func(o *Order) any { return o.Additional() }},
		{Name: FieldPrice, Value: func(o *Order) any { return o.Price() }},
		{Name: FieldStatus, Value: func(o *Order) any { return o.Status().String() }},
		// Coordinates keep their decimal digits on the wire.
		{Name: FieldLatitude, Value: func(o *Order) any { return o.Location().Latitude().String() }},
		{Name: FieldLongitude, Value: func(o *Order) any { return o.Location().Longitude().String() }},
	},
	listing.FieldSet{
		AlwaysIncluded:  []string{FieldID, FieldComposition, FieldAddress, FieldPrice, FieldStatus},
		AllowedOptional: []string{FieldAdditional, FieldLatitude, FieldLongitude},
		Sortable:        []string{FieldID, FieldPrice, FieldAddress, FieldStatus, FieldAdditional},
	},
)

// Schema returns the projection and sort descriptor of Order.
func Schema() listing.Schema[*Order] {
	return schema
}

// DefaultSortCriteria is the listing order when no sortable field is given:
// newest first.
func DefaultSortCriteria() listing.SortCriteria {
	return listing.SortCriteria{{Field: FieldID, Direction: listing.Descending}}
}
