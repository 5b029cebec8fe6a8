// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripwise/internal/http/handlers"
	"tripwise/internal/http/middleware"
	"tripwise/internal/infra"
	"tripwise/internal/logger"
)

type RouterDeps struct {
	Agent    handlers.Suggester
	Quota    handlers.Quota
	Search   handlers.NearbySearcher
	Lookup   handlers.PlaceLookup
	Verifier infra.TokenVerifier
	Log      logger.Logger

	AgentTimeout time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	agentHandler := handlers.NewAgentHandler(deps.Agent, deps.Quota, deps.AgentTimeout, deps.Log)
	api.POST("/agent/suggestions", agentHandler.Suggest)
	api.GET("/agent/quota", agentHandler.QuotaStatus)

	discoveryHandler := handlers.NewDiscoveryHandler(deps.Search, deps.Lookup, deps.Log)
	api.GET("/discover/attractions", discoveryHandler.Attractions)
	api.GET("/discover/restaurants", discoveryHandler.Restaurants)
	api.GET("/places/lookup", discoveryHandler.Lookup)

	return r
}
