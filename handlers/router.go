package handlers

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/missolin/duck-image-tool/config"
)

var exposedHeaders = []string{
	"Content-Disposition",
	"X-Duck-Bits", "X-Duck-Canvas", "X-Duck-PSNR", "X-Duck-Ext",
	"X-Duck-Media", "X-Duck-Dimensions", "X-Duck-Audio-Format",
	"X-Duck-Sample-Rate", "X-Duck-Channels", "X-Duck-Duration",
}

// NewRouter wires the API routes, CORS and request logging.
func NewRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = exposedHeaders
	router.Use(cors.New(corsConfig))

	duckHandler := NewDuckHandler(cfg)

	// API Routes
	api := router.Group("/api")
	{
		api.GET("/health", duckHandler.HealthCheck)
		api.POST("/encode", duckHandler.Encode)
		api.POST("/decode", duckHandler.Decode)
		api.POST("/inspect", duckHandler.Inspect)
	}

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int("size", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("client", c.ClientIP()).
			Msg("request")
	}
}
