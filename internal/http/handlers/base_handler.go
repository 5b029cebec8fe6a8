// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripwise/internal/apperrors"
	"tripwise/internal/logger"
	"tripwise/internal/modules/usage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeAgentError maps domain errors to a status and a message safe to show callers.
// Raw errors only reach the log.
func writeAgentError(c *gin.Context, log logger.Logger, err error) {
	_ = c.Error(err)

	var appErr *apperrors.Error
	switch {
	case errors.Is(err, usage.ErrQuotaExhausted):
		writeError(c, http.StatusTooManyRequests, "monthly agent quota exhausted")
		return
	case errors.As(err, &appErr) && appErr.Kind == apperrors.KindValidation:
		writeError(c, http.StatusBadRequest, appErr.Message)
		return
	case errors.As(err, &appErr) && appErr.Kind == apperrors.KindNotFound:
		writeError(c, http.StatusNotFound, appErr.Message)
		return
	case errors.Is(err, apperrors.ErrProvider):
		log.Error("upstream provider failed", map[string]interface{}{"path": c.FullPath(), "error": err.Error()})
		writeError(c, http.StatusBadGateway, "upstream service unavailable")
		return
	case errors.Is(err, apperrors.ErrModelResponse):
		log.Error("model response rejected", map[string]interface{}{"path": c.FullPath(), "error": err.Error()})
		writeError(c, http.StatusBadGateway, "the assistant returned an unusable answer, please retry")
		return
	}

	log.Error("request failed", map[string]interface{}{"path": c.FullPath(), "error": err.Error()})
	writeError(c, http.StatusInternalServerError, "internal error")
}
