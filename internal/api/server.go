package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/sitemapgen/config"
	"github.com/romangod6/sitemapgen/internal/runner"
	"github.com/romangod6/sitemapgen/internal/storage"
	"github.com/spf13/afero"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(cfg *config.Config, store storage.Store, r *runner.Runner, outFs afero.Fs) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	handler := NewHandler(cfg, store, r, outFs)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.GET("/config", handler.GetConfig)

		runs := api.Group("/runs")
		{
			runs.GET("", handler.ListRuns)
			runs.POST("", handler.StartRun)
			runs.GET("/:id", handler.GetRun)
		}
	}

	// sitemap.xml, its chunks and robots.txt live at the site root.
	router.NoRoute(handler.ServeGenerated)

	return &Server{
		router: router,
		port:   cfg.Server.Port,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
