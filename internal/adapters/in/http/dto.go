package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"deliveryorders/internal/core/domain/model/listing"
)

// Coordinate is a degree value that clients may send either as a JSON string
// or a JSON number. The literal is kept as written so no precision is lost.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("coordinate must be a string or a number: %w", err)
	}
	*c = Coordinate(n.String())
	return nil
}

type NewOrderRequest struct {
	Composition string     `json:"composition"`
	Address     string     `json:"address"`
	Latitude    Coordinate `json:"latitude"`
	Longitude   Coordinate `json:"longitude"`
	Additional  *string    `json:"additional,omitempty"`
}

// Optional query parameters are pointers; nil means the client omitted them.
type GetOrderParams struct {
	Fields *string
}

type OrdersPageParams struct {
	Page      *int
	ResOnPage *int
	Fields    *string
	OrderBy   *string
}

type DeliveryPriceResponse struct {
	Code  int      `json:"code"`
	Price *float64 `json:"price"`
}

type OrderResponse struct {
	Code  int                `json:"code"`
	Order listing.Projection `json:"order"`
}

type OrdersPageResponse struct {
	Code           int                  `json:"code"`
	Page           int                  `json:"page"`
	NextPageExists bool                 `json:"nextPageExists"`
	Orders         []listing.Projection `json:"orders"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
