package kernel

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"deliveryorders/internal/pkg/errs"
	"deliveryorders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371008

var (
	// MinLatitude and MaxLatitude bound a valid latitude in degrees.
	MinLatitude = decimal.NewFromInt(-90)
	MaxLatitude = decimal.NewFromInt(90)

	// MinLongitude and MaxLongitude bound a valid longitude in degrees.
	MinLongitude = decimal.NewFromInt(-180)
	MaxLongitude = decimal.NewFromInt(180)
)

// ErrGeoPointIsNotConstructed is returned when a zero GeoPoint is used.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint or ParseGeoPoint constructors")

// GeoPoint is a latitude/longitude pair in degrees.
//
// Coordinates are kept as decimals exactly as they were entered, so a point
// read back from storage or echoed in a response keeps its original digits.
// Floating point is only used inside DistanceTo.
//
// The zero value is invalid; use NewGeoPoint or ParseGeoPoint.
//
// Example:
//
//	warehouse, _ := kernel.ParseGeoPoint("55.77868792", "37.58800507")
//	target, _ := kernel.ParseGeoPoint("55.762922", "37.739982")
//	meters, _ := warehouse.DistanceTo(target) // ~9666
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  decimal.Decimal
	longitude decimal.Decimal
	guard     guard.ConstructorGuard
}

// NewGeoPoint builds a point from decimal degrees. Latitude must lie in
// [-90, 90] and longitude in [-180, 180]; both violations are reported together.
func NewGeoPoint(latitude, longitude decimal.Decimal) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// ParseGeoPoint builds a point from decimal strings such as "55.762922".
// Only digits, an optional leading minus sign and a decimal point are accepted.
func ParseGeoPoint(latitude, longitude string) (GeoPoint, error) {
	lat, latErr := parseDegrees("latitude", latitude)
	lon, lonErr := parseDegrees("longitude", longitude)
	if err := errors.Join(latErr, lonErr); err != nil {
		return GeoPoint{}, err
	}

	return NewGeoPoint(lat, lon)
}

// MustParseGeoPoint is ParseGeoPoint for trusted constants. It panics on error.
func MustParseGeoPoint(latitude, longitude string) GeoPoint {
	p, err := ParseGeoPoint(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports whether the point was built through a constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees as entered.
func (p GeoPoint) Latitude() decimal.Decimal {
	return p.latitude
}

// Longitude returns the longitude in degrees as entered.
func (p GeoPoint) Longitude() decimal.Decimal {
	return p.longitude
}

// String renders the point as "GeoPoint(lat,lon)".
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%s,%s)", p.latitude.String(), p.longitude.String())
}

// IsEqual compares two points by value; 55.70 and 55.7 are equal.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude.Equal(other.latitude) && p.longitude.Equal(other.longitude), nil
}

// DistanceTo returns the haversine great-circle distance in meters, using
// EarthRadiusMeters. The result is symmetric and zero for identical points.
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	latFrom := toRadians(p.latitude)
	lonFrom := toRadians(p.longitude)
	latTo := toRadians(other.latitude)
	lonTo := toRadians(other.longitude)

	latDelta := latTo - latFrom
	lonDelta := lonTo - lonFrom

	angle := 2 * math.Asin(math.Sqrt(
		math.Pow(math.Sin(latDelta/2), 2)+
			math.Cos(latFrom)*math.Cos(latTo)*math.Pow(math.Sin(lonDelta/2), 2),
	))

	return angle * EarthRadiusMeters, nil
}

func (p *GeoPoint) setLatitude(latitude decimal.Decimal) error {
	if latitude.LessThan(MinLatitude) || latitude.GreaterThan(MaxLatitude) {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude decimal.Decimal) error {
	if longitude.LessThan(MinLongitude) || longitude.GreaterThan(MaxLongitude) {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	p.longitude = longitude
	return nil
}

func parseDegrees(name, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, errs.NewValueIsRequiredError(name)
	}
	if !isDecimalLiteral(raw) {
		return decimal.Decimal{}, errs.NewValueIsInvalidErrorWithCause(
			name, fmt.Errorf("%q can only contain digits, a period and a minus sign", raw))
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return d, nil
}

// isDecimalLiteral accepts -?digits[.digits]; NewFromString alone would also
// take exponents.
func isDecimalLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" || !allDigits(intPart) {
		return false
	}
	if hasDot && (fracPart == "" || !allDigits(fracPart)) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func toRadians(degrees decimal.Decimal) float64 {
	f, _ := degrees.Float64()
	return f * math.Pi / 180
}
