package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/decathlon/internal/adapters/http/api"
	"github.com/okian/decathlon/internal/adapters/repository"
	"github.com/okian/decathlon/internal/adapters/sink"
	"github.com/okian/decathlon/internal/adapters/source"
	app "github.com/okian/decathlon/internal/app"
	"github.com/okian/decathlon/internal/config"
	"github.com/okian/decathlon/pkg/logger"
	"github.com/okian/decathlon/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()

	if err != nil {
		os.Stderr.WriteString("decathlon: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// flagValues holds command-line overrides; only flags the user set are applied.
type flagValues struct {
	input     string
	output    string
	format    string
	delimiter string
	serve     bool
	addr      string
}

func parseFlags(args []string, stderr io.Writer) (*flag.FlagSet, *flagValues, error) {
	fs := flag.NewFlagSet("decathlon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: decathlon [options] [input]\n\nScores and ranks decathlon results.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	v := &flagValues{}
	fs.StringVar(&v.input, "input", "", "Input file (overrides input_path)")
	fs.StringVar(&v.output, "output", "", "Output file, \"-\" for stdout (overrides output_path)")
	fs.StringVar(&v.format, "format", "", "Output format: json, jsonl, yaml, cbor, csv (overrides output_format)")
	fs.StringVar(&v.delimiter, "delimiter", "", "Input field separator (overrides delimiter)")
	fs.BoolVar(&v.serve, "serve", false, "Serve the ranking over HTTP after the run (overrides serve)")
	fs.StringVar(&v.addr, "addr", "", "HTTP listen address (overrides addr)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 1 {
		return nil, nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		if v.input != "" {
			return nil, nil, fmt.Errorf("input given both as -input %q and as argument %q", v.input, fs.Arg(0))
		}
		v.input = fs.Arg(0)
	}
	return fs, v, nil
}

// applyFlags overrides loaded configuration with explicitly set flags.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, v *flagValues) error {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			cfg.OutputPath = v.output
		case "format":
			cfg.OutputFormat = v.format
		case "delimiter":
			cfg.Delimiter = v.delimiter
		case "serve":
			cfg.Serve = v.serve
		case "addr":
			cfg.Addr = v.addr
		}
	})
	if v.input != "" {
		cfg.InputPath = v.input
	}
	return cfg.Validate()
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs, flags, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// Load configuration (defaults -> .env -> optional file -> env -> flags)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cfg, fs, flags); err != nil {
		return err
	}

	// Logs go to stderr so stdout can carry results.
	if err := logger.Init(logger.WithOutput(stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log.Named("pipeline")),
		app.WithStore(repository.NewSnapshotStore()),
	)

	if err := runBatch(ctx, cfg, svc, log); err != nil {
		return err
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
		log.Debug(ctx, "metrics written", logger.String("path", cfg.MetricsTextfile))
	}

	if !cfg.Serve {
		return nil
	}
	return serve(ctx, cfg, svc, log)
}

// runBatch reads, scores and ranks the input and writes the result set.
func runBatch(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	src, in, err := source.Open(cfg.InputPath, source.WithDelimiter(cfg.DelimiterRune()))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	report, err := svc.Process(ctx, src)
	if err != nil {
		return err
	}

	out, closer, err := sink.Create(cfg.OutputPath, cfg.Format())
	if err != nil {
		return err
	}
	if err := out.Write(ctx, report.Entries); err != nil {
		_ = closer.Close()
		return err
	}
	if err := closer.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.OutputPath, err)
	}

	log.Info(ctx, "results written",
		logger.String("run_id", report.RunID),
		logger.String("output", cfg.OutputPath),
		logger.String("format", string(cfg.Format())),
		logger.Int("entries", len(report.Entries)),
	)
	return nil
}

// serve exposes the published ranking until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	mux := http.NewServeMux()

	apiServer := api.NewServer(svc, svc, api.WithMaxLimit(cfg.MaxResultsLimit))
	apiServer.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}
