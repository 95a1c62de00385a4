package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	types "github.com/okian/arena/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSlotView(t *testing.T) {
	Convey("Given an empty slot view", t, func() {
		v := types.SlotView{Group: "mile", Index: 2}

		Convey("When encoding it", func() {
			b, err := json.Marshal(v)
			So(err, ShouldBeNil)

			Convey("Then only identity and the filled flag are emitted", func() {
				So(string(b), ShouldEqual, `{"group":"mile","index":2,"filled":false}`)
			})
		})
	})

	Convey("Given a filled slot view", t, func() {
		rec := model.Defaults
		v := types.SlotView{Group: "mile", Index: 0, Filled: true, Record: &rec, Score: 12210, DisplayScore: "12,210 pt", Rank: 1, RankLabel: "全体 1位", Ace: true}

		Convey("When encoding it", func() {
			b, err := json.Marshal(v)
			So(err, ShouldBeNil)

			Convey("Then the rendering fields are present", func() {
				So(string(b), ShouldContainSubstring, `"rank_label":"全体 1位"`)
				So(string(b), ShouldContainSubstring, `"display_score":"12,210 pt"`)
				So(string(b), ShouldContainSubstring, `"ace":true`)
			})
		})
	})
}
