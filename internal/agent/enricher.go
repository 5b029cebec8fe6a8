package agent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tripwise/internal/logger"
	"tripwise/internal/metrics"
)

// Enricher attaches verified place data to the model's suggestions.
type Enricher struct {
	lookup PlaceLookup
	log    logger.Logger
}

// NewEnricher returns an Enricher. lookup may be nil, in which case only places seen
// during the invocation resolve.
func NewEnricher(lookup PlaceLookup, log logger.Logger) *Enricher {
	return &Enricher{lookup: lookup, log: log}
}

// Enrich resolves add_* suggestions by exact, case-sensitive name: first against the
// places seen this invocation, then through the lookup. Unresolved suggestions are dropped.
// general_tip suggestions pass through. Output keeps input order. A context that ends
// during enrichment fails the call instead of silently dropping every lookup.
func (e *Enricher) Enrich(ctx context.Context, resp *AgentResponse, seen map[string]seenPlace) ([]Suggestion, error) {
	resolved := make([]*Suggestion, len(resp.Suggestions))

	var g errgroup.Group
	g.SetLimit(concurrencyLimit)
	for i, s := range resp.Suggestions {
		i, s := i, s // per-iteration copies (pre-Go 1.22 loop semantics)
		if s.Type == GeneralTip {
			resolved[i] = &s
			continue
		}
		g.Go(func() error {
			resolved[i] = e.resolve(ctx, s, seen)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(resolved))
	for _, s := range resolved {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (e *Enricher) resolve(ctx context.Context, s Suggestion, seen map[string]seenPlace) *Suggestion {
	if p, ok := seen[s.AttractionName]; ok {
		c := p.candidate
		s.Place = &c
		s.Score = p.score
		return &s
	}

	if e.lookup != nil {
		c, err := e.lookup.Lookup(ctx, s.AttractionName)
		if err == nil && c.Name == s.AttractionName {
			s.Place = &c
			s.Score = nil
			return &s
		}
		if err != nil {
			e.log.Debug("suggestion lookup failed", map[string]interface{}{
				"name": s.AttractionName, "error": err.Error(),
			})
		}
	}

	metrics.EnrichmentDropped.Inc()
	e.log.Debug("dropping unresolved suggestion", map[string]interface{}{
		"type": string(s.Type), "name": s.AttractionName,
	})
	return nil
}
