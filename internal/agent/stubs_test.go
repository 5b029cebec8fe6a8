package agent

import (
	"context"
	"sync"
	"time"

	"tripwise/internal/ai"
	"tripwise/internal/apperrors"
	"tripwise/internal/types"
)

// ---------------------------------------------------------------------------
// Chat client stub
// ---------------------------------------------------------------------------

type stubChat struct {
	mu       sync.Mutex
	requests []ai.ChatRequest
	reply    func(call int, req ai.ChatRequest) (*ai.ChatResponse, error)
}

func (s *stubChat) Complete(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	s.mu.Lock()
	msgs := append([]ai.Message(nil), req.Messages...)
	req.Messages = msgs
	s.requests = append(s.requests, req)
	n := len(s.requests)
	s.mu.Unlock()
	return s.reply(n, req)
}

func (s *stubChat) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubChat) request(i int) ai.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

// scripted replays responses in order and repeats the last one.
func scripted(responses ...*ai.ChatResponse) func(int, ai.ChatRequest) (*ai.ChatResponse, error) {
	return func(call int, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		if call > len(responses) {
			call = len(responses)
		}
		return responses[call-1], nil
	}
}

// ---------------------------------------------------------------------------
// Search stub
// ---------------------------------------------------------------------------

type stubSearch struct {
	mu       sync.Mutex
	byTag    map[string][]types.Candidate // keyed by the first query tag
	errByTag map[string]error
	named    map[string]types.Candidate
	queries  []types.NearbyQuery
	delay    time.Duration
	inFlight int
	peak     int
}

func (s *stubSearch) NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.Candidate, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	tag := ""
	if len(q.Tags) > 0 {
		tag = q.Tags[0]
	}
	if err := s.errByTag[tag]; err != nil {
		return nil, err
	}
	if c := s.byTag[tag]; len(c) > 0 {
		return c, nil
	}
	return nil, apperrors.NoResults("stub nearby", "nothing here")
}

func (s *stubSearch) TextSearch(_ context.Context, name string) (types.Candidate, error) {
	if c, ok := s.named[name]; ok {
		return c, nil
	}
	return types.Candidate{}, apperrors.NotFound("stub text search", name)
}

func (s *stubSearch) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

// ---------------------------------------------------------------------------
// Lookup stub
// ---------------------------------------------------------------------------

type stubLookup struct {
	mu       sync.Mutex
	places   map[string]types.Candidate
	lookups  []string
	delay    time.Duration
	inFlight int
	peak     int
}

func (s *stubLookup) Lookup(_ context.Context, name string) (types.Candidate, error) {
	s.mu.Lock()
	s.lookups = append(s.lookups, name)
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	time.Sleep(s.delay)

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()

	if c, ok := s.places[name]; ok {
		return c, nil
	}
	return types.Candidate{}, apperrors.NotFound("stub lookup", name)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var kyoto = types.Point{Lat: 35.0116, Lng: 135.7681}

func attractionFixtures() []types.Candidate {
	return []types.Candidate{
		{PlaceID: "a1", Name: "Kyoto National Museum", Rating: 4.5, RatingCount: 1000, Tags: []string{"museum"}},
		{PlaceID: "a2", Name: "Maruyama Park", Rating: 4.3, RatingCount: 300, Tags: []string{"park"}},
		{PlaceID: "a3", Name: "Gion Corner", Rating: 4.0, RatingCount: 15, Tags: []string{"tourist_attraction"}},
	}
}

func restaurantFixtures() []types.Candidate {
	return []types.Candidate{
		{PlaceID: "r1", Name: "Honke Owariya", Rating: 4.4, RatingCount: 2500, Tags: []string{"restaurant"}},
		{PlaceID: "r2", Name: "Ramen Sen", Rating: 4.1, RatingCount: 60, Tags: []string{"restaurant"}},
	}
}

func newStubSearch() *stubSearch {
	return &stubSearch{
		byTag: map[string][]types.Candidate{
			"tourist_attraction": attractionFixtures(),
			"restaurant":         restaurantFixtures(),
		},
		named: map[string]types.Candidate{},
	}
}

func toolCall(id, name, args string) ai.ToolCall {
	return ai.ToolCall{ID: id, Name: name, Arguments: args}
}

func toolResponse(calls ...ai.ToolCall) *ai.ChatResponse {
	return &ai.ChatResponse{ToolCalls: calls, FinishReason: "tool_calls"}
}

func textResponse(s string) *ai.ChatResponse {
	return &ai.ChatResponse{Content: ai.Text(s), FinishReason: "stop"}
}
