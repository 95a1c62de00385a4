package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	scoring "github.com/okian/arena/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestActivationRate(t *testing.T) {
	Convey("Given the activation rate model", t, func() {
		Convey("When wisdom is zero or negative", func() {
			So(scoring.ActivationRate(0), ShouldEqual, 0.0)
			So(scoring.ActivationRate(-100), ShouldEqual, 0.0)
		})

		Convey("When wisdom sits on the soft cap", func() {
			So(scoring.ActivationRate(1200), ShouldAlmostEqual, (100-9000.0/1200)/100, 1e-12)
		})

		Convey("When wisdom is small but positive", func() {
			// 9000/50 = 180, so the rate is negative and passed through as-is.
			So(scoring.ActivationRate(50), ShouldAlmostEqual, -0.8, 1e-12)
		})

		Convey("When wisdom crosses the soft cap", func() {
			below := scoring.ActivationRate(1199.999)
			at := scoring.ActivationRate(1200)
			above := scoring.ActivationRate(1200.001)

			Convey("Then the function is continuous at the boundary", func() {
				So(math.Abs(at-below), ShouldBeLessThan, 1e-6)
				So(math.Abs(above-at), ShouldBeLessThan, 1e-6)
			})

			Convey("Then it keeps increasing above the cap", func() {
				So(scoring.ActivationRate(1600), ShouldBeGreaterThan, scoring.ActivationRate(1400))
				So(scoring.ActivationRate(1400), ShouldBeGreaterThan, at)
			})

			Convey("Then wisdom above the cap counts at half value", func() {
				So(scoring.ActivationRate(1600), ShouldAlmostEqual, (100-9000.0/1400)/100, 1e-12)
				So(scoring.ActivationRate(1800), ShouldAlmostEqual, (100-9000.0/1500)/100, 1e-12)
			})
		})
	})
}

func TestCalculator_Score(t *testing.T) {
	Convey("Given a calculator with stock tables", t, func() {
		calc := scoring.NewCalculator()
		base := model.Defaults

		Convey("When only gold skills count at the soft cap", func() {
			rec := base
			rec.Wisdom = 1200
			rec.GoldSkill = 10

			So(calc.Score(rec), ShouldEqual, 11100)

			Convey("And the record is the ace", func() {
				rec.IsAce = true
				So(calc.Score(rec), ShouldEqual, 12210)
			})
		})

		Convey("When a unique skill activated", func() {
			rec := base
			rec.UniqueActivation = 2
			rec.UniqueLevel = 3

			So(calc.Score(rec), ShouldEqual, 4600)

			Convey("And the rarity is low", func() {
				rec.UniqueRarity = model.RarityLow
				So(calc.Score(rec), ShouldEqual, 3600)
			})

			Convey("And the level is missing from the table", func() {
				rec.UniqueRarity = model.RarityLow
				rec.UniqueLevel = 6
				So(calc.Score(rec), ShouldEqual, 0)
			})
		})

		Convey("When the unique skill never activated", func() {
			rec := base
			rec.UniqueLevel = 6
			So(calc.Score(rec), ShouldEqual, 0)
		})

		Convey("When white and inherit skills are present", func() {
			rec := base
			rec.Wisdom = 360 // rate 0.75
			rec.WhiteSkill = 2
			rec.InheritSkill = 1

			So(calc.Score(rec), ShouldEqual, 750+750)
		})

		Convey("When start dash is set", func() {
			rec := base
			rec.StartDash = true
			So(calc.Score(rec), ShouldEqual, 1000)

			rec.IsAce = true
			So(calc.Score(rec), ShouldEqual, 1100)
		})

		Convey("When wisdom is tiny the skill terms go negative", func() {
			rec := base
			rec.Wisdom = 72 // rate -0.25
			rec.GoldSkill = 1
			So(calc.Score(rec), ShouldEqual, -300)
		})

		Convey("When a stored score is present", func() {
			rec := base
			rec.Score = 999999
			So(calc.Score(rec), ShouldEqual, 0)
			So(calc.Apply(rec).Score, ShouldEqual, 0)
		})

		Convey("When scoring the same record twice", func() {
			rec := base
			rec.Wisdom = 1333
			rec.GoldSkill = 4
			rec.WhiteSkill = 7
			rec.UniqueActivation = 1
			So(calc.Score(rec), ShouldEqual, calc.Score(rec))
		})
	})
}

func TestCalculator_Monotonic(t *testing.T) {
	Convey("Given a record with a non-negative activation rate", t, func() {
		calc := scoring.NewCalculator()
		rec := model.Defaults
		rec.Wisdom = 1000

		Convey("Then raising any count never lowers the score", func() {
			for i := 0; i < 10; i++ {
				next := rec
				next.GoldSkill++
				So(calc.Score(next), ShouldBeGreaterThanOrEqualTo, calc.Score(rec))

				next = rec
				next.WhiteSkill++
				So(calc.Score(next), ShouldBeGreaterThanOrEqualTo, calc.Score(rec))

				next = rec
				next.InheritSkill++
				So(calc.Score(next), ShouldBeGreaterThanOrEqualTo, calc.Score(rec))

				next = rec
				next.UniqueActivation++
				So(calc.Score(next), ShouldBeGreaterThanOrEqualTo, calc.Score(rec))

				rec.GoldSkill++
				rec.WhiteSkill++
			}
		})
	})
}

func TestCalculator_Options(t *testing.T) {
	Convey("Given a calculator with custom tables and weights", t, func() {
		calc := scoring.NewCalculator(
			scoring.WithUniqueTables(scoring.Table{1: 100}, nil),
			scoring.WithWeights(scoring.Weights{StartDashBonus: 50}),
		)

		Convey("Then the overrides apply and the rest keep defaults", func() {
			So(calc.UniqueBase(model.RarityHigh, 1), ShouldEqual, 100.0)
			So(calc.UniqueBase(model.RarityHigh, 4), ShouldEqual, 0.0)
			So(calc.UniqueBase(model.RarityLow, 5), ShouldEqual, 2000.0)

			rec := model.Defaults
			rec.StartDash = true
			rec.IsAce = true
			So(calc.Score(rec), ShouldEqual, 55)
		})

		Convey("Then changing the source table afterwards has no effect", func() {
			src := scoring.Table{2: 10}
			c := scoring.NewCalculator(scoring.WithUniqueTables(src, nil))
			src[2] = 99
			So(c.UniqueBase(model.RarityHigh, 2), ShouldEqual, 10.0)
		})
	})
}
