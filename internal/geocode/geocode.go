package geocode

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("geocode not found")

// Accuracy grades, best first.
const (
	AccuracyRooftop      = "rooftop"
	AccuracyInterpolated = "range_interpolated"
	AccuracyCenter       = "geometric_center"
	AccuracyApproximate  = "approximate"
)

type Result struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
	Accuracy         string  `json:"accuracy"`
	Confidence       float64 `json:"confidence"`
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// BuildQuery assembles the lookup string from postal address parts, skipping
// blanks.
func BuildQuery(street, city, state, zip string) string {
	parts := []string{}
	for _, p := range []string{street, city, state, zip} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// HasStreetNumber reports whether the address part starts with a house
// number. Candidates that drop a requested house number are penalized
// during scoring.
func HasStreetNumber(street string) bool {
	street = strings.TrimSpace(street)
	if street == "" {
		return false
	}
	return street[0] >= '0' && street[0] <= '9'
}
