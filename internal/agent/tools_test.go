package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/ai"
	"tripwise/internal/logger"
	"tripwise/internal/types"
)

func TestToolSpecs(t *testing.T) {
	specs := ToolSpecs()
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{ToolSearchAttractions, ToolSearchRestaurants, ToolGetPlaceDetails}, names)
}

func TestExecutor_ClampsRadiusAndLimit(t *testing.T) {
	var many []types.Candidate
	for i := 0; i < 60; i++ {
		many = append(many, types.Candidate{PlaceID: fmt.Sprint(i), Name: fmt.Sprintf("Diner %02d", i), Rating: 4, RatingCount: i + 1, Tags: []string{"restaurant"}})
	}

	tests := []struct {
		args       string
		wantRadius int
		wantCount  int
	}{
		{`{}`, 1500, 10},
		{`{"radius": 10, "limit": 0}`, 100, 1},
		{`{"radius": 999999, "limit": 80}`, 50000, 50},
		{`{"radius": 2500.7, "limit": 3}`, 2500, 3},
		{``, 1500, 10},
	}
	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			search := newStubSearch()
			search.byTag["restaurant"] = many
			exec := newExecutor(search, nil, kyoto, nil, logger.NewNoOpLogger())

			out := exec.execute(context.Background(), ai.ToolCall{ID: "c", Name: ToolSearchRestaurants, Arguments: tt.args})

			require.Len(t, search.queries, 1)
			assert.Equal(t, tt.wantRadius, search.queries[0].Radius)

			var payload struct {
				Results []toolSummary `json:"results"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &payload))
			assert.Len(t, payload.Results, tt.wantCount)
			assert.Len(t, exec.snapshot(), tt.wantCount, "only places shown to the model are recorded")
		})
	}
}

func TestExecutor_KeepsFirstScoredEntry(t *testing.T) {
	search := newStubSearch()
	exec := newExecutor(search, nil, kyoto, nil, logger.NewNoOpLogger())

	exec.execute(context.Background(), ai.ToolCall{ID: "1", Name: ToolSearchRestaurants, Arguments: `{}`})
	before := exec.snapshot()["Honke Owariya"]
	exec.execute(context.Background(), ai.ToolCall{ID: "2", Name: ToolSearchRestaurants, Arguments: `{}`})
	after := exec.snapshot()["Honke Owariya"]

	require.NotNil(t, before.score)
	assert.Same(t, before.score, after.score)
}

func TestNearbyQuery_Defaults(t *testing.T) {
	q := NearbyQuery(types.KindAttraction, kyoto, 0)
	assert.Equal(t, 2000, q.Radius)
	assert.Equal(t, []string{"tourist_attraction", "museum", "park", "art_gallery"}, q.Tags)
	assert.Equal(t, kyoto, q.Location)

	q = NearbyQuery(types.KindRestaurant, kyoto, 70000)
	assert.Equal(t, 50000, q.Radius)
	assert.Equal(t, []string{"restaurant"}, q.Tags)
}
