// Package scoring computes slot scores from member attributes.
package scoring

import (
	"math"

	"github.com/okian/arena/internal/domain/model"
)

// Activation rate constants.
const (
	wisdomSoftCap     = 1200.0
	wisdomCapSlope    = 0.5
	activationDivisor = 9000.0
)

// Default scoring weights.
const (
	defaultGoldWeight     = 1200
	defaultWhiteWeight    = 500
	defaultInheritWeight  = defaultWhiteWeight * 2
	defaultStartDashBonus = 1000
	defaultAceMultiplier  = 1.1
)

// Table maps a unique-skill level to its base value.
type Table map[int]float64

// HighRarityTable holds base values for high-rarity unique skills.
var HighRarityTable = Table{1: 2000, 2: 2200, 3: 2300, 4: 2400, 5: 2500, 6: 2600}

// LowRarityTable holds base values for low-rarity unique skills.
var LowRarityTable = Table{1: 1500, 2: 1700, 3: 1800, 4: 1900, 5: 2000}

// ActivationRate maps wisdom to a skill activation probability. Wisdom above
// the soft cap counts at half value. Small positive wisdom yields a negative rate.
func ActivationRate(wisdom float64) float64 {
	if wisdom <= 0 {
		return 0
	}
	effective := wisdom
	if wisdom > wisdomSoftCap {
		effective = wisdomSoftCap + (wisdom-wisdomSoftCap)*wisdomCapSlope
	}
	return (100 - activationDivisor/effective) / 100
}

// Weights holds the per-unit values of the additive score terms.
type Weights struct {
	Gold           float64
	White          float64
	Inherit        float64
	StartDashBonus float64
	AceMultiplier  float64
}

// DefaultWeights returns the stock weights.
func DefaultWeights() Weights {
	return Weights{
		Gold:           defaultGoldWeight,
		White:          defaultWhiteWeight,
		Inherit:        defaultInheritWeight,
		StartDashBonus: defaultStartDashBonus,
		AceMultiplier:  defaultAceMultiplier,
	}
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithUniqueTables replaces the unique-skill tables. Nil tables keep the defaults.
func WithUniqueTables(high, low Table) Option {
	return func(c *Calculator) {
		if high != nil {
			c.high = copyTable(high)
		}
		if low != nil {
			c.low = copyTable(low)
		}
	}
}

// WithWeights replaces the additive weights. Non-positive values keep the defaults.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		if w.Gold > 0 {
			c.weights.Gold = w.Gold
		}
		if w.White > 0 {
			c.weights.White = w.White
		}
		if w.Inherit > 0 {
			c.weights.Inherit = w.Inherit
		}
		if w.StartDashBonus > 0 {
			c.weights.StartDashBonus = w.StartDashBonus
		}
		if w.AceMultiplier > 0 {
			c.weights.AceMultiplier = w.AceMultiplier
		}
	}
}

// Calculator computes scores. It holds no mutable state once built.
type Calculator struct {
	high    Table
	low     Table
	weights Weights
}

// NewCalculator creates a calculator with the stock tables and weights.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		high:    copyTable(HighRarityTable),
		low:     copyTable(LowRarityTable),
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UniqueBase returns the base value for a rarity and level, 0 when unknown.
func (c *Calculator) UniqueBase(rarity model.Rarity, level int) float64 {
	table := c.low
	if rarity == model.RarityHigh {
		table = c.high
	}
	return table[level]
}

// Score computes the floored score of r. The stored r.Score is ignored.
func (c *Calculator) Score(r model.SlotRecord) int {
	var total float64

	if r.UniqueActivation > 0 {
		total += c.UniqueBase(r.UniqueRarity, r.UniqueLevel) * r.UniqueActivation
	}

	rate := ActivationRate(r.Wisdom)
	total += rate * c.weights.Gold * float64(r.GoldSkill)
	total += rate * c.weights.White * float64(r.WhiteSkill)
	total += rate * c.weights.Inherit * float64(r.InheritSkill)

	if r.StartDash {
		total += c.weights.StartDashBonus
	}
	if r.IsAce {
		total *= c.weights.AceMultiplier
	}
	return int(math.Floor(total))
}

// Apply returns r with its Score recomputed.
func (c *Calculator) Apply(r model.SlotRecord) model.SlotRecord {
	r.Score = c.Score(r)
	return r
}

func copyTable(t Table) Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
