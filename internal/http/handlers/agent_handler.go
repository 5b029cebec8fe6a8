// README: Agent handlers (quota-guarded trip suggestions).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tripwise/internal/agent"
	"tripwise/internal/http/middleware"
	"tripwise/internal/logger"
	"tripwise/internal/scoring"
	"tripwise/internal/types"
)

type Suggester interface {
	Suggest(ctx context.Context, in agent.SuggestInput) (*agent.AgentResponse, error)
}

// Quota meters agent calls per caller. A nil Quota disables metering.
type Quota interface {
	Consume(ctx context.Context, uid string) error
	Remaining(ctx context.Context, uid string) (int, error)
}

type AgentHandler struct {
	agent   Suggester
	quota   Quota
	timeout time.Duration
	log     logger.Logger
}

func NewAgentHandler(a Suggester, quota Quota, timeout time.Duration, log logger.Logger) *AgentHandler {
	return &AgentHandler{agent: a, quota: quota, timeout: timeout, log: log}
}

type suggestReq struct {
	PlaceName          string              `json:"placeName"`
	Location           *types.Point        `json:"location" binding:"required"`
	PlannedAttractions []string            `json:"plannedAttractions"`
	PlannedRestaurants []string            `json:"plannedRestaurants"`
	History            []agent.HistoryTurn `json:"history"`
	Message            string              `json:"message" binding:"required"`
	Personas           []string            `json:"personas"`
}

// Suggest handles POST /api/agent/suggestions.
func (h *AgentHandler) Suggest(c *gin.Context) {
	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: location and message are required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, "message must not be empty")
		return
	}
	if !req.Location.Valid() {
		writeError(c, http.StatusBadRequest, "location is out of range")
		return
	}

	if h.quota != nil {
		if err := h.quota.Consume(c.Request.Context(), middleware.CallerUID(c)); err != nil {
			writeAgentError(c, h.log, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp, err := h.agent.Suggest(ctx, agent.SuggestInput{
		PlaceName:          strings.TrimSpace(req.PlaceName),
		Location:           *req.Location,
		PlannedAttractions: req.PlannedAttractions,
		PlannedRestaurants: req.PlannedRestaurants,
		History:            req.History,
		Message:            req.Message,
		Personas:           parsePersonas(req.Personas),
	})
	if err != nil {
		writeAgentError(c, h.log, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}

// QuotaStatus handles GET /api/agent/quota.
func (h *AgentHandler) QuotaStatus(c *gin.Context) {
	if h.quota == nil {
		writeJSON(c, http.StatusOK, gin.H{"metered": false})
		return
	}
	left, err := h.quota.Remaining(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeAgentError(c, h.log, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"metered": true, "remaining": left})
}

// parsePersonas accepts both repeated values and comma-separated lists.
func parsePersonas(raw []string) []scoring.Persona {
	var out []scoring.Persona
	for _, r := range raw {
		for _, p := range strings.Split(r, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, scoring.ParsePersona(p))
			}
		}
	}
	return out
}
