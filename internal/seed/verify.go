package seed

import (
	"fmt"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
	"github.com/okian/arena/internal/domain/types"
)

// VerifyRanks checks that ranks is a competition ranking sorted by score
// and that every saved slot appears in it with the score the save reported.
// Rows for slots filled before the run are allowed.
func VerifyRanks(ranks []types.RankView, saved map[model.SlotKey]int) error {
	seen := make(map[model.SlotKey]int, len(ranks))
	for i, r := range ranks {
		if i == 0 {
			if r.Rank != 1 {
				return fmt.Errorf("%w: first rank is %d", ErrVerify, r.Rank)
			}
		} else {
			prev := ranks[i-1]
			switch {
			case r.Score > prev.Score:
				return fmt.Errorf("%w: score %d at position %d exceeds %d above it", ErrVerify, r.Score, i+1, prev.Score)
			case r.Score == prev.Score && r.Rank != prev.Rank:
				return fmt.Errorf("%w: tied score %d ranked %d and %d", ErrVerify, r.Score, prev.Rank, r.Rank)
			case r.Score < prev.Score && r.Rank != i+1:
				return fmt.Errorf("%w: position %d ranked %d", ErrVerify, i+1, r.Rank)
			}
		}
		seen[model.SlotKey{Group: r.Group, Index: r.Index}] = r.Score
	}

	for key, score := range saved {
		got, ok := seen[key]
		if !ok {
			return fmt.Errorf("%w: slot %s missing from ranking", ErrVerify, key)
		}
		if got != score {
			return fmt.Errorf("%w: slot %s ranked with %d, saved with %d", ErrVerify, key, got, score)
		}
	}
	return nil
}

// VerifyScores recomputes each saved job with the stock calculator. It only
// holds for a service running the default weights and tables.
func VerifyScores(jobs []Job, saved map[model.SlotKey]int) error {
	calc := scoring.NewCalculator()
	for _, job := range jobs {
		got, ok := saved[job.Key()]
		if !ok {
			continue
		}
		if want := calc.Score(model.Normalize(job.Draft)); got != want {
			return fmt.Errorf("%w: slot %s scored %d, expected %d", ErrVerify, job.Key(), got, want)
		}
	}
	return nil
}
