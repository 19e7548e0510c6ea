package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/sitemapgen/internal/utils"
)

func requestLogger() gin.HandlerFunc {
	logger := utils.WithComponent("api")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
