// Package kernel holds the value objects shared by the order domain.
//
// GeoPoint is the only one today: a validated latitude/longitude pair whose
// decimal digits survive storage and serialization unchanged, together with
// the haversine distance used to price deliveries.
package kernel
