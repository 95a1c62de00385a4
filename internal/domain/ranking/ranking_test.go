package ranking_test

import (
	"testing"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func key(group string, index int) model.SlotKey {
	return model.SlotKey{Group: group, Index: index}
}

func ranksOf(entries []ranking.RankedEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}

func TestComputeRanks(t *testing.T) {
	Convey("Given scored slots", t, func() {
		Convey("When two share the top score", func() {
			entries := ranking.ComputeRanks([]ranking.Scored{
				{Key: key("a", 0), Score: 300},
				{Key: key("a", 1), Score: 500},
				{Key: key("b", 0), Score: 500},
			})

			Convey("Then the next distinct score takes its own position", func() {
				So(ranksOf(entries), ShouldResemble, []int{1, 1, 3})
				So(entries[0].Key, ShouldResemble, key("a", 1))
				So(entries[1].Key, ShouldResemble, key("b", 0))
				So(entries[2].Key, ShouldResemble, key("a", 0))
			})
		})

		Convey("When every score is equal", func() {
			entries := ranking.ComputeRanks([]ranking.Scored{
				{Key: key("a", 0), Score: 42},
				{Key: key("a", 1), Score: 42},
				{Key: key("a", 2), Score: 42},
				{Key: key("b", 0), Score: 42},
			})

			Convey("Then every entry ranks first", func() {
				So(ranksOf(entries), ShouldResemble, []int{1, 1, 1, 1})
			})
		})

		Convey("When ties sit in the middle", func() {
			entries := ranking.ComputeRanks([]ranking.Scored{
				{Key: key("a", 0), Score: 900},
				{Key: key("a", 1), Score: 700},
				{Key: key("a", 2), Score: 700},
				{Key: key("a", 3), Score: 700},
				{Key: key("a", 4), Score: 100},
			})
			So(ranksOf(entries), ShouldResemble, []int{1, 2, 2, 2, 5})
		})

		Convey("When scores are negative", func() {
			entries := ranking.ComputeRanks([]ranking.Scored{
				{Key: key("a", 0), Score: -5},
				{Key: key("a", 1), Score: 0},
			})
			So(entries[0].Score, ShouldEqual, 0)
			So(ranksOf(entries), ShouldResemble, []int{1, 2})
		})

		Convey("When there are no slots", func() {
			So(ranking.ComputeRanks(nil), ShouldBeEmpty)
		})

		Convey("Then no input entry is dropped", func() {
			in := make([]ranking.Scored, 0, 20)
			for i := 0; i < 20; i++ {
				in = append(in, ranking.Scored{Key: key("g", i), Score: i % 4})
			}
			So(len(ranking.ComputeRanks(in)), ShouldEqual, 20)
		})
	})

	Convey("Given a rank", t, func() {
		So(ranking.RankLabel(3), ShouldEqual, "全体 3位")
	})
}

func TestReorderGroup(t *testing.T) {
	Convey("Given a group with mixed slots", t, func() {
		chasing := &model.SlotRecord{Name: "c", Style: model.StyleChasing}
		aceEscape := &model.SlotRecord{Name: "ae", Style: model.StyleEscape, IsAce: true}
		escape := &model.SlotRecord{Name: "e", Style: model.StyleEscape}

		positions := []ranking.Position{
			{Index: 0, Record: chasing},
			{Index: 1, Record: aceEscape},
			{Index: 2, Record: escape},
			{Index: 3},
		}

		Convey("When reordering", func() {
			out := ranking.ReorderGroup(positions)

			Convey("Then the ace leads, styles follow precedence and empties trail", func() {
				So(out[0].Record, ShouldEqual, aceEscape)
				So(out[1].Record, ShouldEqual, escape)
				So(out[2].Record, ShouldEqual, chasing)
				So(out[3].Record, ShouldBeNil)
				So(out[3].Index, ShouldEqual, 3)
			})

			Convey("Then the input is left untouched", func() {
				So(positions[0].Record, ShouldEqual, chasing)
			})
		})
	})

	Convey("Given empty slots interleaved with filled ones", t, func() {
		leading := &model.SlotRecord{Style: model.StyleLeading}
		between := &model.SlotRecord{Style: model.StyleBetween}
		out := ranking.ReorderGroup([]ranking.Position{
			{Index: 0},
			{Index: 1, Record: between},
			{Index: 2},
			{Index: 3, Record: leading},
			{Index: 4},
		})

		Convey("Then empties keep their relative order at the end", func() {
			So(out[0].Index, ShouldEqual, 3)
			So(out[1].Index, ShouldEqual, 1)
			So(out[2].Index, ShouldEqual, 0)
			So(out[3].Index, ShouldEqual, 2)
			So(out[4].Index, ShouldEqual, 4)
		})
	})

	Convey("Given two records with the same ace status and style", t, func() {
		out := ranking.ReorderGroup([]ranking.Position{
			{Index: 4, Record: &model.SlotRecord{Style: model.StyleBetween}},
			{Index: 1, Record: &model.SlotRecord{Style: model.StyleBetween}},
		})

		Convey("Then registration order decides", func() {
			So(out[0].Index, ShouldEqual, 1)
			So(out[1].Index, ShouldEqual, 4)
		})
	})
}

func TestOrderGroups(t *testing.T) {
	Convey("Given a layout and a partial order", t, func() {
		layout := map[string]int{"b": 1, "a": 1, "z": 2}

		Convey("Then listed groups lead once and the rest follow alphabetically", func() {
			So(ranking.OrderGroups(layout, []string{"z", "ghost", "z"}), ShouldResemble, []string{"z", "a", "b"})
		})

		Convey("Then an empty order sorts everything", func() {
			So(ranking.OrderGroups(layout, nil), ShouldResemble, []string{"a", "b", "z"})
		})
	})
}
