// README: Recommendation agent; drives the model/tool loop, validates and enriches the final answer.
package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"tripwise/internal/ai"
	"tripwise/internal/apperrors"
	"tripwise/internal/logger"
	"tripwise/internal/metrics"
)

// Config tunes the model requests of each invocation.
type Config struct {
	// Nil leaves the provider default; zero is sent as zero.
	Temperature *float32
	MaxTokens   int
}

// Agent turns a travel context into vetted, ranked place suggestions.
// It holds no per-invocation state and is safe for concurrent use.
type Agent struct {
	chat     ai.ChatClient
	search   PlaceSearcher
	lookup   PlaceLookup
	enricher *Enricher
	log      logger.Logger
	cfg      Config
}

// New wires an Agent. lookup is optional.
func New(chat ai.ChatClient, search PlaceSearcher, lookup PlaceLookup, log logger.Logger, cfg Config) *Agent {
	return &Agent{
		chat:     chat,
		search:   search,
		lookup:   lookup,
		enricher: NewEnricher(lookup, log),
		log:      log,
		cfg:      cfg,
	}
}

// Suggest runs one invocation. Failures are apperrors kinds: Validation for bad input,
// Provider for model transport failures, ModelResponse for unusable model output.
func (a *Agent) Suggest(ctx context.Context, in SuggestInput) (*AgentResponse, error) {
	start := time.Now()
	resp, iterations, err := a.run(ctx, in)

	metrics.AgentDuration.Observe(time.Since(start).Seconds())
	metrics.AgentToolIterations.Observe(float64(iterations))
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	metrics.AgentInvocations.WithLabelValues(outcome).Inc()

	if err != nil {
		a.log.Warn("agent invocation failed", map[string]interface{}{
			"place": in.PlaceName, "iterations": iterations, "error": err.Error(),
		})
		return nil, err
	}
	a.log.Info("agent invocation finished", map[string]interface{}{
		"place": in.PlaceName, "iterations": iterations, "suggestions": len(resp.Suggestions),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return resp, nil
}

func (a *Agent) run(ctx context.Context, in SuggestInput) (*AgentResponse, int, error) {
	if err := validateInput(in); err != nil {
		return nil, 0, err
	}

	exec := newExecutor(a.search, a.lookup, in.Location, in.Personas, a.log)
	transcript := seedTranscript(in)

	req := ai.ChatRequest{MaxTokens: a.cfg.MaxTokens, Tools: ToolSpecs()}
	if a.cfg.Temperature != nil {
		t := *a.cfg.Temperature
		req.Temperature = &t
	}

	iterations := 0
	for {
		req.Messages = transcript
		resp, err := a.chat.Complete(ctx, req)
		if err != nil {
			return nil, iterations, asProviderError(err)
		}

		if len(resp.ToolCalls) > 0 && iterations < MaxToolIterations {
			results, err := exec.runBatch(ctx, resp.ToolCalls)
			if err != nil {
				return nil, iterations, err
			}
			transcript = append(transcript, ai.Message{
				Role:      ai.RoleAssistant,
				Content:   resp.Content,
				ToolCalls: resp.ToolCalls,
			})
			for _, r := range results {
				transcript = append(transcript, ai.Message{
					Role:       ai.RoleTool,
					Content:    ai.Text(r.content),
					ToolCallID: r.callID,
				})
			}
			iterations++
			a.log.Debug("tool batch executed", map[string]interface{}{
				"iteration": iterations, "calls": len(resp.ToolCalls),
			})
			continue
		}

		if resp.Content == nil || strings.TrimSpace(*resp.Content) == "" {
			return nil, iterations, apperrors.ModelResponse("no content in final response")
		}

		out, err := ValidateResponse(*resp.Content)
		if err != nil {
			a.log.Debug("model response rejected", map[string]interface{}{
				"finish_reason": resp.FinishReason, "content": *resp.Content,
			})
			return nil, iterations, err
		}

		suggestions, err := a.enricher.Enrich(ctx, out, exec.snapshot())
		if err != nil {
			return nil, iterations, err
		}
		out.Suggestions = suggestions
		return out, iterations, nil
	}
}

func validateInput(in SuggestInput) error {
	if strings.TrimSpace(in.Message) == "" {
		return apperrors.Validation("message is required")
	}
	if !in.Location.Valid() {
		return apperrors.Validation("location is out of range")
	}
	return nil
}

// asProviderError tags untyped chat failures as provider errors; context errors and
// already-typed errors pass through.
func asProviderError(err error) error {
	if apperrors.KindOf(err) != "" || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.Provider("chat completion", err)
}
