package seed

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
)

// Ranges for generated values.
const (
	wisdomMin      = 300.0
	wisdomRange    = 1500.0
	maxUniqueLevel = 6
	maxGoldSkills  = 8
	maxWhiteSkills = 12
	maxInherit     = 4
	aceChance      = 0.1
	startDashRate  = 0.3
	highRarityRate = 0.6
)

var styles = []model.Style{model.StyleEscape, model.StyleLeading, model.StyleBetween, model.StyleChasing}

// Generate picks cfg.Fill of the slots in board and builds one draft for
// each, in layout order.
func Generate(board types.BoardView, cfg *Config) []Job {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	var jobs []Job
	for _, g := range board.Groups {
		for _, s := range g.Slots {
			if rng.Float64() >= cfg.Fill {
				continue
			}
			jobs = append(jobs, Job{
				Group: g.Group,
				Index: s.Index,
				Draft: model.DraftOf(generateRecord(rng)),
			})
		}
	}
	return jobs
}

func generateRecord(rng *rand.Rand) model.SlotRecord {
	rarity := model.RarityLow
	if rng.Float64() < highRarityRate {
		rarity = model.RarityHigh
	}
	return model.SlotRecord{
		Name:             "runner-" + uuid.NewString()[:8],
		Style:            styles[rng.IntN(len(styles))],
		Wisdom:           float64(int(wisdomMin + rng.Float64()*wisdomRange)),
		IsAce:            rng.Float64() < aceChance,
		StartDash:        rng.Float64() < startDashRate,
		UniqueRarity:     rarity,
		UniqueLevel:      1 + rng.IntN(maxUniqueLevel),
		UniqueActivation: float64(rng.IntN(101)) / 100,
		GoldSkill:        rng.IntN(maxGoldSkills + 1),
		WhiteSkill:       rng.IntN(maxWhiteSkills + 1),
		InheritSkill:     rng.IntN(maxInherit + 1),
	}
}
