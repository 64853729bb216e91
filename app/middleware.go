package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/powerplan/api/productionplan"
	"github.com/kilianp07/powerplan/core/logger"
	"github.com/kilianp07/powerplan/core/monitoring"
)

// accessLog logs one line per request through the component logger.
func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := map[string]any{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if id := c.Writer.Header().Get("X-Plan-ID"); id != "" {
			fields["plan_id"] = id
		}
		log.Debugw("http request", fields)
	}
}

// recovery reports handler panics to the monitor and answers 500.
func recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := fmt.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		log.Errorf("%v", err)
		monitoring.CaptureException(err, map[string]string{"component": "http", "path": c.Request.URL.Path})
		c.AbortWithStatusJSON(http.StatusInternalServerError, productionplan.ErrorBody{
			Error: productionplan.ErrorDetail{
				Code:    productionplan.CodeInternal,
				Message: "an unexpected error occurred",
			},
		})
	})
}
