package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/arena/internal/seed"
	"github.com/okian/arena/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 5 * time.Minute
	defaultFillPercent = 1.0
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		fill    = flag.Float64("fill", defaultFillPercent, "Fraction of slots to fill (0..1)")
		seedVal = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Generator seed")
		verify  = flag.Bool("verify", false, "Recompute scores with the stock calculator")
		output  = flag.String("output", "", "Output file for generated drafts")
		verbose = flag.Bool("verbose", false, "Log every saved slot")
		format  = flag.String("log-format", logger.FormatText, "Log format (text or json)")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:    *baseURL,
		Workers:    *workers,
		Timeout:    *timeout,
		Fill:       *fill,
		Seed:       *seedVal,
		Verify:     *verify,
		OutputFile: *output,
		Verbose:    *verbose,
	}

	if _, err := seed.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seed failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
