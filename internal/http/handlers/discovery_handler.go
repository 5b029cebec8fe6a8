// README: Discovery handlers; scored nearby search and exact-name place lookup without the model.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripwise/internal/agent"
	"tripwise/internal/apperrors"
	"tripwise/internal/logger"
	"tripwise/internal/scoring"
	"tripwise/internal/types"
)

type NearbySearcher interface {
	NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.Candidate, error)
}

type PlaceLookup interface {
	Lookup(ctx context.Context, name string) (types.Candidate, error)
}

type DiscoveryHandler struct {
	search NearbySearcher
	lookup PlaceLookup
	log    logger.Logger
}

func NewDiscoveryHandler(search NearbySearcher, lookup PlaceLookup, log logger.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{search: search, lookup: lookup, log: log}
}

type nearbyParams struct {
	Lat     *float64 `form:"lat" binding:"required"`
	Lng     *float64 `form:"lng" binding:"required"`
	Radius  int      `form:"radius"`
	Persona []string `form:"persona"`
}

// Attractions handles GET /api/discover/attractions.
func (h *DiscoveryHandler) Attractions(c *gin.Context) {
	h.nearby(c, types.KindAttraction)
}

// Restaurants handles GET /api/discover/restaurants.
func (h *DiscoveryHandler) Restaurants(c *gin.Context) {
	h.nearby(c, types.KindRestaurant)
}

func (h *DiscoveryHandler) nearby(c *gin.Context, kind types.Kind) {
	var p nearbyParams
	if err := c.ShouldBindQuery(&p); err != nil {
		writeError(c, http.StatusBadRequest, "lat and lng are required numbers")
		return
	}
	origin := types.Point{Lat: *p.Lat, Lng: *p.Lng}
	if !origin.Valid() {
		writeError(c, http.StatusBadRequest, "location is out of range")
		return
	}

	candidates, err := h.search.NearbySearch(c.Request.Context(), agent.NearbyQuery(kind, origin, p.Radius))
	if errors.Is(err, apperrors.ErrNoResults) {
		writeJSON(c, http.StatusOK, gin.H{"results": []scoring.ScoredCandidate{}})
		return
	}
	if err != nil {
		writeAgentError(c, h.log, err)
		return
	}

	var personas []scoring.Persona
	if kind == types.KindAttraction {
		personas = parsePersonas(p.Persona)
	}
	writeJSON(c, http.StatusOK, gin.H{"results": scoring.Score(kind, candidates, personas)})
}

// Lookup handles GET /api/places/lookup?name=.
func (h *DiscoveryHandler) Lookup(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		writeError(c, http.StatusBadRequest, "missing name")
		return
	}
	place, err := h.lookup.Lookup(c.Request.Context(), name)
	if err != nil {
		writeAgentError(c, h.log, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"place": place})
}
