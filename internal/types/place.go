// README: Shared place value objects produced by search and consumed by scoring and the agent.
package types

// Point is a WGS84 coordinate. Lat must be in [-90,90] and Lng in [-180,180];
// callers validate once at the HTTP edge.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p is inside the WGS84 range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Kind distinguishes the two candidate families the agent can search for.
type Kind string

const (
	KindAttraction Kind = "attraction"
	KindRestaurant Kind = "restaurant"
)

// Candidate is a place returned by the search provider, before scoring.
// A zero Rating or RatingCount means the provider had no rating data.
type Candidate struct {
	PlaceID     string   `json:"placeId"`
	Name        string   `json:"name"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int      `json:"ratingCount,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Vicinity    string   `json:"vicinity,omitempty"`
	PriceLevel  *int     `json:"priceLevel,omitempty"`
	OpenNow     *bool    `json:"openNow,omitempty"`
	Location    Point    `json:"location"`
}

// Search radius bounds accepted by the place provider, in meters.
const (
	MinRadiusMeters = 100
	MaxRadiusMeters = 50000
)

// ClampRadius forces r into [MinRadiusMeters, MaxRadiusMeters].
func ClampRadius(r int) int {
	if r < MinRadiusMeters {
		return MinRadiusMeters
	}
	if r > MaxRadiusMeters {
		return MaxRadiusMeters
	}
	return r
}

// NearbyQuery asks for places of any of Tags within Radius meters of Location.
type NearbyQuery struct {
	Location Point
	Radius   int
	Tags     []string
}
