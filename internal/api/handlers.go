package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/sitemapgen/config"
	"github.com/romangod6/sitemapgen/internal/models"
	"github.com/romangod6/sitemapgen/internal/runner"
	"github.com/romangod6/sitemapgen/internal/storage"
	"github.com/romangod6/sitemapgen/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

type Handler struct {
	cfg    *config.Config
	store  storage.Store
	runner *runner.Runner
	outFs  afero.Fs

	generated *regexp.Regexp
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int         `json:"total_count"`
}

func NewHandler(cfg *config.Config, store storage.Store, r *runner.Runner, outFs afero.Fs) *Handler {
	base := regexp.QuoteMeta(cfg.Generator.SitemapBaseFileName)
	return &Handler{
		cfg:       cfg,
		store:     store,
		runner:    r,
		outFs:     outFs,
		generated: regexp.MustCompile(`^/(` + base + `(-\d+)?\.xml|robots\.txt)$`),
	}
}

func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg.Sitemap())
}

func (h *Handler) ListRuns(c *gin.Context) {
	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	runs, err := h.store.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch runs"})
		return
	}

	total, err := h.store.CountRuns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to count runs"})
		return
	}

	if runs == nil {
		runs = []*models.GenerationRun{}
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:       runs,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid run ID"})
		return
	}

	run, err := h.store.GetRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch run"})
		return
	}

	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) StartRun(c *gin.Context) {
	if h.runner.Running() {
		c.JSON(http.StatusConflict, ErrorResponse{Error: runner.ErrRunInProgress.Error()})
		return
	}

	// The run outlives the request.
	go func() {
		logger := utils.WithComponent("api")
		run, err := h.runner.Run(context.Background())
		switch {
		case errors.Is(err, runner.ErrRunInProgress):
			logger.Warn().Msg("run skipped, another run is in progress")
		case err != nil:
			logger.Error().Err(err).Msg("triggered run failed")
		default:
			logger.Info().Str("run_id", run.ID.String()).Int("urls", run.URLCount).Msg("triggered run completed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// ServeGenerated serves the generated sitemap files and robots.txt from
// the output directory.
func (h *Handler) ServeGenerated(c *gin.Context) {
	p := c.Request.URL.Path
	if (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) || !h.generated.MatchString(p) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	data, err := afero.ReadFile(h.outFs, path.Join(h.cfg.Generator.OutDir, path.Base(p)))
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not generated yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read generated file"})
		return
	}

	contentType := "application/xml; charset=utf-8"
	if path.Ext(p) == ".txt" {
		contentType = "text/plain; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, data)
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page = cast.ToInt(c.DefaultQuery("page", "1"))
	limit = cast.ToInt(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}
