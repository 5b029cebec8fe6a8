package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"tripwise/internal/ai"
	"tripwise/internal/apperrors"
	"tripwise/internal/logger"
	"tripwise/internal/metrics"
	"tripwise/internal/scoring"
	"tripwise/internal/types"
)

// Registered tool names.
const (
	ToolSearchAttractions = "searchAttractions"
	ToolSearchRestaurants = "searchRestaurants"
	ToolGetPlaceDetails   = "getPlaceDetails"
)

type searchTool struct {
	kind          types.Kind
	tags          []string
	defaultRadius int
	defaultLimit  int
}

var searchTools = map[string]searchTool{
	ToolSearchAttractions: {
		kind:          types.KindAttraction,
		tags:          []string{"tourist_attraction", "museum", "park", "art_gallery"},
		defaultRadius: 2000,
		defaultLimit:  15,
	},
	ToolSearchRestaurants: {
		kind:          types.KindRestaurant,
		tags:          []string{"restaurant"},
		defaultRadius: 1500,
		defaultLimit:  10,
	},
}

const maxLimit = 50

// NearbyQuery builds the search a kind's tool would run at origin. A non-positive
// radius takes the kind's default; others are clamped.
func NearbyQuery(kind types.Kind, origin types.Point, radius int) types.NearbyQuery {
	name := ToolSearchAttractions
	if kind == types.KindRestaurant {
		name = ToolSearchRestaurants
	}
	tool := searchTools[name]
	if radius <= 0 {
		radius = tool.defaultRadius
	}
	return tool.query(origin, radius)
}

func (t searchTool) query(origin types.Point, radius int) types.NearbyQuery {
	return types.NearbyQuery{Location: origin, Radius: types.ClampRadius(radius), Tags: t.tags}
}

var searchParams = []ai.ToolParam{
	{Name: "lat", Type: ai.ParamNumber, Description: "Latitude of the search centre.", Required: true},
	{Name: "lng", Type: ai.ParamNumber, Description: "Longitude of the search centre.", Required: true},
	{Name: "radius", Type: ai.ParamNumber, Description: "Search radius in meters (100-50000)."},
	{Name: "limit", Type: ai.ParamInteger, Description: "Maximum number of results (1-50)."},
}

// ToolSpecs returns the model-facing tool registry.
func ToolSpecs() []ai.ToolSpec {
	return []ai.ToolSpec{
		{
			Name:        ToolSearchAttractions,
			Description: "Find attractions (sights, museums, parks, galleries) near the trip location, ranked by a quality score. Default radius 2000m, default limit 15.",
			Params:      searchParams,
		},
		{
			Name:        ToolSearchRestaurants,
			Description: "Find restaurants near the trip location, ranked by a quality score. Default radius 1500m, default limit 10.",
			Params:      searchParams,
		},
		{
			Name:        ToolGetPlaceDetails,
			Description: "Look up one place by its exact name to confirm it exists and read its rating and address.",
			Params: []ai.ToolParam{
				{Name: "name", Type: ai.ParamString, Description: "Exact place name.", Required: true},
			},
		},
	}
}

type searchArgs struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Radius *float64 `json:"radius"`
	Limit  *float64 `json:"limit"`
}

type detailsArgs struct {
	Name string `json:"name"`
}

// toolResult is the outcome of one call, addressed by the call's id.
type toolResult struct {
	callID  string
	content string
}

// toolSummary is the compact shape returned to the model.
type toolSummary struct {
	Name        string   `json:"name"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int      `json:"ratingCount,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Vicinity    string   `json:"vicinity,omitempty"`
	Score       *float64 `json:"score,omitempty"`
}

// executor runs tool calls for one invocation and accumulates every place it saw.
// The search origin is the caller's location: model-supplied coordinates are ignored.
type executor struct {
	search   PlaceSearcher
	details  func(ctx context.Context, name string) (types.Candidate, error)
	origin   types.Point
	personas []scoring.Persona
	log      logger.Logger

	mu   sync.Mutex
	seen map[string]seenPlace
}

func newExecutor(search PlaceSearcher, lookup PlaceLookup, origin types.Point, personas []scoring.Persona, log logger.Logger) *executor {
	details := search.TextSearch
	if lookup != nil {
		details = lookup.Lookup
	}
	return &executor{
		search:   search,
		details:  details,
		origin:   origin,
		personas: personas,
		log:      log,
		seen:     make(map[string]seenPlace),
	}
}

// runBatch executes calls with at most concurrencyLimit in flight. A failing call never
// cancels its siblings; its error is serialized into its own result. Results come back in
// call order, each carrying its call id. Only context cancellation fails the batch.
func (e *executor) runBatch(ctx context.Context, calls []ai.ToolCall) ([]toolResult, error) {
	results := make([]toolResult, len(calls))

	var g errgroup.Group
	g.SetLimit(concurrencyLimit)
	for i, call := range calls {
		i, call := i, call // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			results[i] = toolResult{callID: call.ID, content: e.execute(ctx, call)}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *executor) execute(ctx context.Context, call ai.ToolCall) string {
	var (
		content string
		err     error
	)
	if tool, ok := searchTools[call.Name]; ok {
		content, err = e.runSearch(ctx, call, tool)
	} else if call.Name == ToolGetPlaceDetails {
		content, err = e.runDetails(ctx, call)
	} else {
		err = apperrors.InvalidToolCall(call.ID, fmt.Sprintf("unknown tool %q", call.Name), nil)
	}

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNoResults), errors.Is(err, apperrors.ErrNotFound):
		outcome = "empty"
		content = encodeJSON(map[string]any{"results": []any{}, "message": err.Error()})
	default:
		outcome = "error"
		e.log.Warn("tool call failed", map[string]interface{}{
			"tool": call.Name, "call_id": call.ID, "error": err.Error(),
		})
		content = encodeJSON(map[string]string{"error": err.Error()})
	}
	metrics.ToolCalls.WithLabelValues(call.Name, outcome).Inc()
	return content
}

func (e *executor) runSearch(ctx context.Context, call ai.ToolCall, tool searchTool) (string, error) {
	var args searchArgs
	if err := decodeArgs(call.Arguments, &args); err != nil {
		return "", apperrors.InvalidToolCall(call.ID, "arguments are not valid JSON", err)
	}

	radius := tool.defaultRadius
	if args.Radius != nil {
		radius = int(*args.Radius)
	}
	limit := tool.defaultLimit
	if args.Limit != nil {
		limit = int(*args.Limit)
	}
	limit = min(max(limit, 1), maxLimit)

	candidates, err := e.search.NearbySearch(ctx, tool.query(e.origin, radius))
	if err != nil {
		return "", err
	}

	ranked := scoring.Score(tool.kind, candidates, e.personas)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	summaries := make([]toolSummary, 0, len(ranked))
	e.mu.Lock()
	for _, sc := range ranked {
		score := sc.Score
		if prev, ok := e.seen[sc.Name]; !ok || prev.score == nil {
			e.seen[sc.Name] = seenPlace{candidate: sc.Candidate, score: &score}
		}
		summaries = append(summaries, toolSummary{
			Name:        sc.Name,
			Rating:      sc.Rating,
			RatingCount: sc.RatingCount,
			Tags:        sc.Tags,
			Vicinity:    sc.Vicinity,
			Score:       &score.Total,
		})
	}
	e.mu.Unlock()

	return encodeJSON(map[string]any{"results": summaries}), nil
}

func (e *executor) runDetails(ctx context.Context, call ai.ToolCall) (string, error) {
	var args detailsArgs
	if err := decodeArgs(call.Arguments, &args); err != nil {
		return "", apperrors.InvalidToolCall(call.ID, "arguments are not valid JSON", err)
	}
	if strings.TrimSpace(args.Name) == "" {
		return "", apperrors.InvalidToolCall(call.ID, "name is required", nil)
	}

	c, err := e.details(ctx, args.Name)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	if _, ok := e.seen[c.Name]; !ok {
		e.seen[c.Name] = seenPlace{candidate: c}
	}
	e.mu.Unlock()

	return encodeJSON(toolSummary{
		Name:        c.Name,
		Rating:      c.Rating,
		RatingCount: c.RatingCount,
		Tags:        c.Tags,
		Vicinity:    c.Vicinity,
	}), nil
}

// snapshot returns a copy of every place seen so far, keyed by exact name.
func (e *executor) snapshot() map[string]seenPlace {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]seenPlace, len(e.seen))
	for k, v := range e.seen {
		out[k] = v
	}
	return out
}

func decodeArgs(raw string, v any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}
