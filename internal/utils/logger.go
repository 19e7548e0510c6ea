package utils

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	baseMu  sync.RWMutex
	baseOut io.Writer = os.Stdout
	base              = zerolog.New(os.Stdout).With().Timestamp().Str("service", "sitemapgen").Logger()
)

// ConfigureLogging sets the global level and the writer every component
// logger is derived from. An unknown level falls back to info.
func ConfigureLogging(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if w == nil {
		w = os.Stdout
	}

	baseMu.Lock()
	baseOut = w
	base = zerolog.New(w).With().Timestamp().Str("service", "sitemapgen").Logger()
	baseMu.Unlock()
}

// WithComponent returns the base logger tagged with a component name.
func WithComponent(component string) zerolog.Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return base.With().Str("component", component).Logger()
}

// RunLogger writes the log of a single generation run to its own file
// and to the base logger output.
type RunLogger struct {
	file   *os.File
	logger zerolog.Logger
}

func NewRunLogger(logsDir, siteURL, runID string) (*RunLogger, error) {
	siteDir := sanitizeSite(siteURL)

	runDir := filepath.Join(logsDir, siteDir)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(runDir, fmt.Sprintf("run_%s_%s.log", timestamp, runID))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	baseMu.RLock()
	logger := base.Output(zerolog.MultiLevelWriter(baseOut, file)).With().
		Str("component", "run").
		Str("run_id", runID).
		Logger()
	baseMu.RUnlock()

	return &RunLogger{file: file, logger: logger}, nil
}

// Logger exposes the underlying zerolog logger for structured fields.
func (rl *RunLogger) Logger() *zerolog.Logger {
	return &rl.logger
}

func (rl *RunLogger) Path() string {
	return rl.file.Name()
}

func (rl *RunLogger) LogInfo(format string, v ...interface{}) {
	rl.logger.Info().Msgf(format, v...)
}

func (rl *RunLogger) LogError(format string, v ...interface{}) {
	rl.logger.Error().Msgf(format, v...)
}

func (rl *RunLogger) LogDebug(format string, v ...interface{}) {
	rl.logger.Debug().Msgf(format, v...)
}

func (rl *RunLogger) Close() error {
	return rl.file.Close()
}

// sanitizeSite turns a site URL into a directory name, e.g.
// https://docs.publica.com -> docs.publica.com
func sanitizeSite(siteURL string) string {
	name := siteURL
	if u, err := url.Parse(siteURL); err == nil && u.Host != "" {
		name = u.Host + u.Path
	}
	name = strings.Trim(strings.ToLower(name), "/")
	name = strings.NewReplacer("/", "_", ":", "_", " ", "_").Replace(name)
	if name == "" {
		return "default"
	}
	return name
}
