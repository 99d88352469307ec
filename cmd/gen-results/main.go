package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/okian/decathlon/internal/sample"
	"github.com/okian/decathlon/pkg/logger"
)

// Default configuration constants.
const (
	defaultRows     = 1000
	outputFilePerms = 0o644
)

func main() {
	var (
		rows      = flag.Int("rows", defaultRows, "Number of competitor rows to generate")
		output    = flag.String("output", "-", "Output file (\"-\" for stdout)")
		delimiter = flag.String("delimiter", ";", "Field separator")
		malformed = flag.Float64("malformed", 0, "Probability that a row contains an unparseable field")
		short     = flag.Float64("short", 0, "Probability that a row is truncated")
		seed      = flag.Uint64("seed", 0, "Seed for reproducible output (0 picks a random seed)")
	)
	flag.Parse()

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("gen-results")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if utf8.RuneCountInString(*delimiter) != 1 {
		log.Fatal(ctx, "delimiter must be a single character", logger.String("delimiter", *delimiter))
	}
	delim, _ := utf8.DecodeRuneInString(*delimiter)

	opts := []sample.Option{
		sample.WithRows(*rows),
		sample.WithDelimiter(delim),
		sample.WithMalformedRate(*malformed),
		sample.WithShortRate(*short),
	}
	if *seed != 0 {
		opts = append(opts, sample.WithSeed(*seed))
	}

	out := os.Stdout
	if *output != "-" {
		f, err := os.OpenFile(*output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePerms)
		if err != nil {
			log.Fatal(ctx, "failed to create output file", logger.String("path", *output), logger.Error(err))
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	n, err := sample.New(opts...).Write(ctx, out)
	if err != nil {
		log.Error(ctx, "failed to generate rows", logger.Int("written", n), logger.Error(err))
		stop()
		os.Exit(1) //nolint:gocritic // deferred close is best effort
	}
	log.Info(ctx, "generated rows", logger.Int("rows", n), logger.String("output", *output))
}
