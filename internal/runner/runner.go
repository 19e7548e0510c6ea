// Package runner executes generation runs and records them in the store.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/romangod6/sitemapgen/config"
	"github.com/romangod6/sitemapgen/internal/generator"
	"github.com/romangod6/sitemapgen/internal/models"
	"github.com/romangod6/sitemapgen/internal/storage"
	"github.com/romangod6/sitemapgen/internal/utils"
	"github.com/spf13/afero"
)

// ErrRunInProgress is returned when a run is requested while another one
// has not finished.
var ErrRunInProgress = errors.New("generation run already in progress")

type Runner struct {
	cfg   *config.Config
	store storage.Store
	src   afero.Fs
	dst   generator.Destination

	mu      sync.Mutex
	running bool
}

func New(cfg *config.Config, store storage.Store, src afero.Fs, dst generator.Destination) *Runner {
	return &Runner{
		cfg:   cfg,
		store: store,
		src:   src,
		dst:   dst,
	}
}

// Running reports whether a run is currently in progress.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}

// Run performs one generation and records it. The returned run carries
// the final status; err is the generation error, if any.
func (r *Runner) Run(ctx context.Context) (*models.GenerationRun, error) {
	if !r.acquire() {
		return nil, ErrRunInProgress
	}
	defer r.release()

	logger := utils.WithComponent("runner")
	run := models.NewGenerationRun(r.cfg.SiteURL)

	if err := r.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	runLogger, err := utils.NewRunLogger(r.cfg.Log.Dir, r.cfg.SiteURL, run.ID.String())
	if err != nil {
		logger.Error().Err(err).Msg("failed to create run logger")
	} else {
		defer runLogger.Close()
		runLogger.LogInfo("Starting generation for %s (ID: %s)", r.cfg.SiteURL, run.ID)
		runLogger.LogInfo("  Source dir: %s", r.cfg.Generator.SourceDir)
		runLogger.LogInfo("  Output dir: %s", r.cfg.Generator.OutDir)
		runLogger.LogInfo("  Robots.txt: %t", r.cfg.GenerateRobotsTxt)
		runLogger.LogInfo("  Exclude: %v", r.cfg.Exclude)
	}

	result, genErr := generator.Generate(ctx, r.cfg, r.src, r.dst)
	if genErr == nil {
		run.URLCount = result.URLCount
		run.ExcludedCount = result.ExcludedCount
		run.Files = result.Files
	}
	run.Finish(genErr)

	if runLogger != nil {
		if genErr != nil {
			runLogger.LogError("Generation failed: %v", genErr)
		} else {
			runLogger.LogInfo("Generated %d URLs (%d excluded): %v", run.URLCount, run.ExcludedCount, run.Files)
		}
	}

	// The run record is updated even if ctx was cancelled mid-run.
	if err := r.store.UpdateRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Error().Err(err).Str("run_id", run.ID.String()).Msg("failed to update run status")
	}

	if genErr != nil {
		return run, fmt.Errorf("generation failed: %w", genErr)
	}
	return run, nil
}
