package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run seeds the board at cfg.BaseURL and verifies the ranking it serves.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("seed")

	log.Info(ctx, "starting arena seed",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Float64("fill", cfg.Fill),
		logger.Any("seed", cfg.Seed),
		logger.Bool("verify", cfg.Verify))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, err
	}

	var board types.BoardView
	if err := client.GetJSON(ctx, "/board", &board); err != nil {
		return stats, fmt.Errorf("board retrieval failed: %w", err)
	}
	for _, g := range board.Groups {
		stats.Slots += len(g.Slots)
	}
	if stats.Slots == 0 {
		return stats, ErrEmpty
	}

	jobs := Generate(board, cfg)
	stats.Generated = len(jobs)

	saved, err := submit(ctx, client, cfg, jobs, stats)
	if err != nil {
		return stats, fmt.Errorf("slot submission failed: %w", err)
	}

	var ranks []types.RankView
	if err := client.GetJSON(ctx, "/ranks", &ranks); err != nil {
		return stats, fmt.Errorf("ranking retrieval failed: %w", err)
	}
	stats.Ranked = len(ranks)
	if len(ranks) > 0 {
		stats.TopScore = ranks[0].Score
	}

	if err := VerifyRanks(ranks, saved); err != nil {
		return stats, err
	}
	if cfg.Verify {
		if err := VerifyScores(jobs, saved); err != nil {
			return stats, err
		}
	}

	if cfg.OutputFile != "" {
		if err := saveJobs(cfg.OutputFile, jobs); err != nil {
			log.Warn(ctx, "failed to save drafts to file", logger.Error(err))
		} else {
			log.Info(ctx, "drafts saved to file", logger.String("filename", cfg.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, log, stats)
	return stats, nil
}

// submit saves every job with at most cfg.Workers requests in flight and
// returns the score the service reported per slot. A failed save is counted
// and skipped; only cancellation aborts the run.
func submit(ctx context.Context, client *Client, cfg *Config, jobs []Job, stats *Stats) (map[model.SlotKey]int, error) {
	var (
		mu    sync.Mutex
		saved = make(map[model.SlotKey]int, len(jobs))
		log   = logger.Named("seed")
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for _, job := range jobs {
		g.Go(func() error {
			var view types.SlotView
			err := client.PutSlot(gctx, job, &view)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				stats.Failed++
				log.Warn(gctx, "slot save failed", logger.String("slot", job.Key().String()), logger.Error(err))
				return nil
			}
			stats.Saved++
			saved[job.Key()] = view.Score
			if cfg.Verbose {
				log.Info(gctx, "slot saved",
					logger.String("slot", job.Key().String()),
					logger.Int("score", view.Score),
					logger.String("rank", view.RankLabel))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return saved, err
	}
	return saved, nil
}

func saveJobs(filename string, jobs []Job) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal drafts: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func logStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Saved) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("slots", stats.Slots),
		logger.Int("generated", stats.Generated),
		logger.Int("saved", stats.Saved),
		logger.Int("failed", stats.Failed),
		logger.Int("ranked", stats.Ranked),
		logger.Int("topScore", stats.TopScore),
		logger.Duration("duration", stats.Duration),
		logger.Float64("savesPerSecond", perSecond))
}
