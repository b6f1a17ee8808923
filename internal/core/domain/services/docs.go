// Package services provides domain services that don't belong to a single
// aggregate.
//
// The package includes:
//   - DeliveryPriceCalculator: prices a delivery by its great-circle distance
//     from the warehouse using an ordered tier table
package services
