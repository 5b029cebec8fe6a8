// README: Google Places adapter producing scoring candidates (nearby and text search).
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"tripwise/internal/apperrors"
	"tripwise/internal/types"
)

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client   *maps.Client
	language string
}

// Option customises a PlacesService.
type Option func(*options)

type options struct {
	baseURL  string
	language string
}

// WithBaseURL points the client at a different Places host (used by tests).
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithLanguage sets the result language, e.g. "en" or "zh-TW".
func WithLanguage(lang string) Option {
	return func(o *options) { o.language = lang }
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string, opts ...Option) (*PlacesService, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(o.baseURL))
	}
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client, language: o.language}, nil
}

// NearbySearch returns places around q.Location matching any of q.Tags.
// Places API accepts a single type per request, so each tag is queried in turn
// and results are merged by PlaceID in first-seen order.
// Returns a NoResults error when nothing matched.
func (s *PlacesService) NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.Candidate, error) {
	tags := q.Tags
	if len(tags) == 0 {
		tags = []string{""}
	}

	seen := make(map[string]struct{})
	var out []types.Candidate

	for _, tag := range tags {
		req := &maps.NearbySearchRequest{
			Location: &maps.LatLng{Lat: q.Location.Lat, Lng: q.Location.Lng},
			Radius:   uint(types.ClampRadius(q.Radius)),
			Type:     maps.PlaceType(tag),
			Language: s.language,
		}
		resp, err := s.client.NearbySearch(ctx, req)
		if err != nil {
			return nil, apperrors.Provider("places nearby search", err)
		}

		for _, r := range resp.Results {
			if _, dup := seen[r.PlaceID]; dup {
				continue
			}
			seen[r.PlaceID] = struct{}{}
			out = append(out, toCandidate(r))
		}
	}

	if len(out) == 0 {
		return nil, apperrors.NoResults("places nearby search",
			fmt.Sprintf("no places within %dm of %.5f,%.5f", types.ClampRadius(q.Radius), q.Location.Lat, q.Location.Lng))
	}
	return out, nil
}

// TextSearch resolves a place by name and returns the top match.
func (s *PlacesService) TextSearch(ctx context.Context, name string) (types.Candidate, error) {
	if strings.TrimSpace(name) == "" {
		return types.Candidate{}, apperrors.NotFound("places text search", "empty place name")
	}
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    name,
		Language: s.language,
	})
	if err != nil {
		return types.Candidate{}, apperrors.Provider("places text search", err)
	}
	if len(resp.Results) == 0 {
		return types.Candidate{}, apperrors.NotFound("places text search", fmt.Sprintf("no place named %q", name))
	}
	return toCandidate(resp.Results[0]), nil
}

func toCandidate(r maps.PlacesSearchResult) types.Candidate {
	c := types.Candidate{
		PlaceID:     r.PlaceID,
		Name:        r.Name,
		Rating:      float64(r.Rating),
		RatingCount: r.UserRatingsTotal,
		Tags:        r.Types,
		Vicinity:    r.Vicinity,
		Location:    types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
	}
	if c.Vicinity == "" {
		c.Vicinity = r.FormattedAddress
	}
	if r.PriceLevel > 0 {
		level := r.PriceLevel
		c.PriceLevel = &level
	}
	if r.OpeningHours != nil && r.OpeningHours.OpenNow != nil {
		open := *r.OpeningHours.OpenNow
		c.OpenNow = &open
	}
	return c
}
