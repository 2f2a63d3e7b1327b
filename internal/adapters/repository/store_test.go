package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cuatro-costuras/public-baseball/internal/adapters/repository"
	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
	"github.com/cuatro-costuras/public-baseball/internal/domain/rank"
	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func seasonEvents() []model.PitchEvent {
	ev := func(pitcher, pitchType string) model.PitchEvent {
		return model.PitchEvent{PitcherID: pitcher, PitchType: pitchType, HorizontalBreak: 1, VerticalBreak: 1}
	}
	return []model.PitchEvent{
		ev("cole", "FF"), ev("cole", "FF"), ev("cole", "FF"),
		ev("cole", "SL"),
		ev("wheeler", "FF"), ev("wheeler", "FF"),
	}
}

func seasonDists() map[string]*rank.Distribution {
	return map[string]*rank.Distribution{
		"FF": rank.NewDistribution("FF", []scoring.Result{
			{PitcherID: "cole", PitchType: "FF", Score: -0.2},
			{PitcherID: "wheeler", PitchType: "FF", Score: -0.4},
		}),
		"SL": rank.NewDistribution("SL", nil),
	}
}

func TestSeasonStore(t *testing.T) {
	Convey("Given an empty season store", t, func() {
		ctx := context.Background()
		store := repository.NewSeasonStore()

		Convey("Then queries fail with ErrNotLoaded", func() {
			So(store.Ready(ctx), ShouldBeFalse)
			_, err := store.EventsFor(ctx, "cole")
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
			_, err = store.SearchPitchers(ctx, "")
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
			_, err = store.Distribution(ctx, "FF")
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
		})

		Convey("When a season is published", func() {
			store.Publish(ctx, seasonEvents(), seasonDists(), 3, 1)

			Convey("Then the store becomes ready", func() {
				So(store.Ready(ctx), ShouldBeTrue)
			})

			Convey("Then events are indexed by pitcher", func() {
				evs, err := store.EventsFor(ctx, "cole")
				So(err, ShouldBeNil)
				So(len(evs), ShouldEqual, 4)

				_, err = store.EventsFor(ctx, "nobody")
				So(errors.Is(err, repository.ErrUnknownPitcher), ShouldBeTrue)
			})

			Convey("Then the arsenal is ordered by usage", func() {
				arsenal, err := store.Arsenal(ctx, "cole")
				So(err, ShouldBeNil)
				So(len(arsenal), ShouldEqual, 2)
				So(arsenal[0].PitchType, ShouldEqual, "FF")
				So(arsenal[0].Count, ShouldEqual, 3)
				So(arsenal[1].PitchType, ShouldEqual, "SL")
				So(arsenal[0].PitchName, ShouldEqual, "Four-Seam Fastball")
			})

			Convey("Then pitcher search is case folded and sorted", func() {
				all, err := store.SearchPitchers(ctx, "")
				So(err, ShouldBeNil)
				So(all, ShouldResemble, []string{"cole", "wheeler"})

				hits, err := store.SearchPitchers(ctx, "WHEEL")
				So(err, ShouldBeNil)
				So(hits, ShouldResemble, []string{"wheeler"})

				none, err := store.SearchPitchers(ctx, "degrom")
				So(err, ShouldBeNil)
				So(len(none), ShouldEqual, 0)
			})

			Convey("Then distributions resolve by pitch type", func() {
				d, err := store.Distribution(ctx, "FF")
				So(err, ShouldBeNil)
				So(d.Size(), ShouldEqual, 2)

				_, err = store.Distribution(ctx, "KN")
				So(errors.Is(err, repository.ErrUnknownPitchType), ShouldBeTrue)
			})

			Convey("Then stats reflect the snapshot", func() {
				stats, err := store.Stats(ctx)
				So(err, ShouldBeNil)
				So(stats.Pitchers, ShouldEqual, 2)
				So(stats.Events, ShouldEqual, 6)
				So(stats.Excluded, ShouldEqual, 3)
				So(stats.Duplicates, ShouldEqual, 1)
				So(stats.PitchTypes, ShouldEqual, 2)
			})

			Convey("And a second publish replaces the snapshot wholesale", func() {
				store.Publish(ctx, seasonEvents()[:4], map[string]*rank.Distribution{}, 0, 0)

				_, err := store.EventsFor(ctx, "wheeler")
				So(errors.Is(err, repository.ErrUnknownPitcher), ShouldBeTrue)

				stats, err := store.Stats(ctx)
				So(err, ShouldBeNil)
				So(stats.Pitchers, ShouldEqual, 1)
				So(stats.Events, ShouldEqual, 4)
			})
		})
	})
}
