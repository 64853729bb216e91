package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/kilianp07/powerplan/api/hub"
	"github.com/kilianp07/powerplan/api/productionplan"
	"github.com/kilianp07/powerplan/core/history"
	"github.com/kilianp07/powerplan/core/logger"
)

// NewRouter builds the gin engine serving the plan endpoints, the
// notification hub and the health check. h and store may be nil.
func NewRouter(planner productionplan.Planner, h *hub.Hub, store history.Store, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(recovery(log), accessLog(log))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	productionplan.NewHandler(planner, log).Register(r)
	if store != nil {
		productionplan.NewHistoryHandler(store).Register(r)
	}
	if h != nil {
		h.Register(r)
	}
	return r
}

// withCORS wraps handler with the CORS policy. An empty origin list allows
// every origin.
func withCORS(handler http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Plan-ID"},
	}).Handler(handler)
}
