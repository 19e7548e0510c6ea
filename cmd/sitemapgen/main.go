package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/sitemapgen/config"
	"github.com/romangod6/sitemapgen/internal/api"
	"github.com/romangod6/sitemapgen/internal/generator"
	"github.com/romangod6/sitemapgen/internal/runner"
	"github.com/romangod6/sitemapgen/internal/storage"
	"github.com/romangod6/sitemapgen/internal/utils"
	"github.com/romangod6/sitemapgen/internal/verify"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

const usageText = `Usage: sitemapgen [flags] [command]

Commands:
  generate   write sitemap.xml and robots.txt (default)
  serve      run the HTTP API and serve the generated files
  verify     check the live site's robots.txt and sitemap
  config     print the resolved configuration

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("sitemapgen", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SetInterspersed(false)
	configPath := flags.StringP("config", "c", "", "path to sitemap.config.{yaml,json,toml}")
	logLevel := flags.String("log-level", "", "log level, overrides log.level")
	flags.Usage = func() {
		fmt.Fprint(stderr, usageText)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	command := "generate"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(stderr, "sitemapgen: invalid configuration, aborting: %v\n", cfgErr)
		} else {
			fmt.Fprintf(stderr, "sitemapgen: failed to load config: %v\n", err)
		}
		return 1
	}

	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	utils.ConfigureLogging(level, stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cmdArgs []string
	if flags.NArg() > 1 {
		cmdArgs = flags.Args()[1:]
	}

	switch command {
	case "generate":
		return runGenerate(ctx, cfg, stdout, stderr)
	case "serve":
		return runServe(ctx, cfg, stderr)
	case "verify":
		return runVerify(ctx, cfg, cmdArgs, stdout, stderr)
	case "config":
		return printConfig(cfg, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "sitemapgen: unknown command %q\n", command)
		flags.Usage()
		return 2
	}
}

func openRunner(cfg *config.Config) (*runner.Runner, storage.Store, error) {
	store, err := storage.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := store.Initialize(); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	r := runner.New(cfg, store, afero.NewOsFs(), generator.AtomicDir{Path: cfg.Generator.OutDir})
	return r, store, nil
}

func runGenerate(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	r, store, err := openRunner(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "sitemapgen: %v\n", err)
		return 1
	}
	defer store.Close()

	genRun, err := r.Run(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "sitemapgen: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Generated %d URLs for %s (%d excluded)\n", genRun.URLCount, cfg.SiteURL, genRun.ExcludedCount)
	for _, f := range genRun.Files {
		fmt.Fprintf(stdout, "  %s/%s\n", cfg.Generator.OutDir, f)
	}
	return 0
}

func runServe(ctx context.Context, cfg *config.Config, stderr io.Writer) int {
	logger := utils.WithComponent("main")

	r, store, err := openRunner(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "sitemapgen: %v\n", err)
		return 1
	}
	defer store.Close()

	server := api.NewServer(cfg, store, r, afero.NewOsFs())

	// Setup periodic regeneration
	if interval := cfg.GetRegenerateInterval(); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		go func() {
			for {
				select {
				case <-ticker.C:
					logger.Info().Msg("Starting periodic generation...")
					if _, err := r.Run(ctx); err != nil {
						logger.Error().Err(err).Msg("periodic generation failed")
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting API server")
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		logger.Error().Err(err).Msg("API server stopped")
		return 1
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error shutting down server")
		return 1
	}
	logger.Info().Msg("Server shut down gracefully")
	return 0
}

func runVerify(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	parallelism := flags.Int("parallelism", 4, "concurrent requests")
	timeout := flags.Duration("timeout", 15*time.Second, "per-request timeout")
	userAgent := flags.String("user-agent", "sitemapgen-verify/1.0", "user agent for requests and robots.txt rules")
	asJSON := flags.Bool("json", false, "print the report as JSON")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	report, err := verify.New(verify.Options{
		SiteURL:     cfg.SiteURL,
		UserAgent:   *userAgent,
		Parallelism: *parallelism,
		Timeout:     *timeout,
	}).Verify(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "sitemapgen: verify failed: %v\n", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "sitemapgen: %v\n", err)
			return 1
		}
	} else {
		fmt.Fprintf(stdout, "Checked %d URLs from %d sitemaps\n", report.Checked, len(report.Sitemaps))
		for _, w := range report.Warnings {
			fmt.Fprintf(stdout, "warning: %s\n", w)
		}
		for _, d := range report.Disallowed {
			fmt.Fprintf(stdout, "disallowed by robots.txt: %s\n", d)
		}
		for _, b := range report.Broken {
			fmt.Fprintf(stdout, "broken: %s (%d) %s\n", b.URL, b.StatusCode, b.Error)
		}
	}

	if !report.OK() {
		return 1
	}
	return 0
}

func printConfig(cfg *config.Config, stdout, stderr io.Writer) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		fmt.Fprintf(stderr, "sitemapgen: %v\n", err)
		return 1
	}
	return 0
}
