package repository_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		key := model.SlotKey{Group: "mile", Index: 1}

		Convey("When reading a missing slot", func() {
			_, err := store.Get(ctx, key)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a record is put", func() {
			rec := model.Defaults
			rec.Name = "Teio"
			So(store.Put(ctx, key, rec), ShouldBeNil)

			Convey("Then it can be read back", func() {
				got, err := store.Get(ctx, key)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Teio")
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then a second put replaces it wholesale", func() {
				other := model.Defaults
				other.Style = model.StyleChasing
				So(store.Put(ctx, key, other), ShouldBeNil)

				got, _ := store.Get(ctx, key)
				So(got.Name, ShouldEqual, model.UnnamedPlaceholder)
				So(got.Style, ShouldEqual, model.StyleChasing)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then deleting it empties the slot", func() {
				ok, err := store.Delete(ctx, key)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)

				ok, _ = store.Delete(ctx, key)
				So(ok, ShouldBeFalse)
			})

			Convey("Then All returns a detached copy", func() {
				all := store.All(ctx)
				delete(all, key)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then Group reports fixed positions", func() {
				positions := store.Group(ctx, "mile", 3)
				So(len(positions), ShouldEqual, 3)
				So(positions[0].Record, ShouldBeNil)
				So(positions[1].Record, ShouldNotBeNil)
				So(positions[1].Record.Name, ShouldEqual, "Teio")
				So(positions[2].Index, ShouldEqual, 2)
			})
		})

		Convey("When replacing the whole set", func() {
			So(store.Put(ctx, key, model.Defaults), ShouldBeNil)
			store.Replace(ctx, map[model.SlotKey]model.SlotRecord{
				{Group: "dirt", Index: 0}: model.Defaults,
				{Group: "dirt", Index: 1}: model.Defaults,
			})

			Convey("Then only the new records remain", func() {
				So(store.Count(ctx), ShouldEqual, 2)
				_, err := store.Get(ctx, key)
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a seeded store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(
			repository.WithShardLabel("seeded"),
			repository.WithRecords(map[model.SlotKey]model.SlotRecord{
				{Group: "mile", Index: 0}: model.Defaults,
			}),
		)
		So(store.Count(ctx), ShouldEqual, 1)
	})
}
