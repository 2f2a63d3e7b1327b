package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cuatro-costuras/public-baseball/internal/adapters/repository"
	"github.com/cuatro-costuras/public-baseball/internal/adapters/statcast"
	service "github.com/cuatro-costuras/public-baseball/internal/app"
	"github.com/cuatro-costuras/public-baseball/internal/domain/aggregate"
	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
	"github.com/cuatro-costuras/public-baseball/internal/domain/rank"
	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeLoader serves a fixed season without touching disk or network.
type fakeLoader struct {
	result *statcast.Result
	err    error
}

func (f *fakeLoader) Load(ctx context.Context) (*statcast.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func fixedSeason() *statcast.Result {
	ev := func(pitcher, pitchType string, h, v float64) model.PitchEvent {
		return model.PitchEvent{PitcherID: pitcher, PitchType: pitchType, HorizontalBreak: h, VerticalBreak: v}
	}
	return &statcast.Result{
		Events: []model.PitchEvent{
			// cole's fastball: tight cluster, sd 0.1414 per axis, score -0.2.
			ev("cole", "FF", -6.0, 15.0),
			ev("cole", "FF", -5.8, 15.2),
			ev("cole", "FF", -6.2, 14.8),
			ev("cole", "FF", -6.0, 15.0),
			ev("cole", "FF", -6.0, 15.0),
			// wheeler's fastball: loose cluster, sd 0.7071 per axis, score -1.0.
			ev("wheeler", "FF", -4.0, 14.0),
			ev("wheeler", "FF", -3.0, 15.0),
			ev("wheeler", "FF", -5.0, 13.0),
			ev("wheeler", "FF", -4.0, 14.0),
			ev("wheeler", "FF", -4.0, 14.0),
			// cole's slider: too few pitches to score.
			ev("cole", "SL", 2.0, 1.0),
			ev("cole", "SL", 2.1, 1.1),
			// wheeler's curveball: scores, but a league of one can't rank.
			ev("wheeler", "CU", 8.0, -8.0),
			ev("wheeler", "CU", 8.2, -8.2),
			ev("wheeler", "CU", 7.8, -7.8),
			ev("wheeler", "CU", 8.0, -8.0),
			ev("wheeler", "CU", 8.0, -8.0),
		},
		Excluded:   4,
		Duplicates: 2,
		FilesRead:  8,
	}
}

func startService(t *testing.T) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithLoader(&fakeLoader{result: fixedSeason()}),
		service.WithWorkerCount(2),
		service.WithMinSample(3),
		service.WithMaxLeaderboardLimit(50),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService(t *testing.T) {
	Convey("Given a started service with a fixed season", t, func() {
		ctx := context.Background()
		svc := startService(t)

		Convey("Then it is not ready before Load", func() {
			So(svc.Ready(ctx), ShouldBeFalse)
			_, err := svc.SearchPitchers(ctx, "")
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
		})

		Convey("When the season is loaded", func() {
			So(svc.Load(ctx), ShouldBeNil)
			So(svc.Ready(ctx), ShouldBeTrue)

			Convey("Then pitcher search matches substrings", func() {
				hits, err := svc.SearchPitchers(ctx, "co")
				So(err, ShouldBeNil)
				So(hits, ShouldResemble, []string{"cole"})
			})

			Convey("Then the arsenal lists pitch types by usage", func() {
				arsenal, err := svc.ListPitchTypes(ctx, "cole")
				So(err, ShouldBeNil)
				So(len(arsenal), ShouldEqual, 2)
				So(arsenal[0].PitchType, ShouldEqual, "FF")
				So(arsenal[0].Count, ShouldEqual, 5)
				So(arsenal[1].PitchType, ShouldEqual, "SL")
			})

			Convey("Then the movement summary carries stats and histograms", func() {
				sum, err := svc.MovementSummary(ctx, "cole", "FF", 0)
				So(err, ShouldBeNil)
				So(sum.Count, ShouldEqual, 5)
				So(sum.Horizontal.Mean, ShouldAlmostEqual, -6.0, 1e-9)
				So(sum.Vertical.Mean, ShouldAlmostEqual, 15.0, 1e-9)
				So(sum.Horizontal.StdDev, ShouldNotBeNil)
				So(len(sum.HorizontalHistogram), ShouldBeGreaterThan, 0)
				So(len(sum.VerticalHistogram), ShouldBeGreaterThan, 0)
				So(len(sum.VelocityHistogram), ShouldEqual, 0)
			})

			Convey("Then consistency combines score, dispersion and percentile", func() {
				out, err := svc.Consistency(ctx, "cole", "FF")
				So(err, ShouldBeNil)
				So(out.Score, ShouldAlmostEqual, -0.2, 1e-9)
				So(out.Dispersion, ShouldAlmostEqual, 0.2, 1e-9)
				So(out.LeagueSize, ShouldEqual, 2)
				So(out.Percentile, ShouldNotBeNil)
				So(*out.Percentile, ShouldAlmostEqual, 75.0, 1e-9)
			})

			Convey("Then a league of one yields a score without a percentile", func() {
				out, err := svc.Consistency(ctx, "wheeler", "CU")
				So(err, ShouldBeNil)
				So(out.LeagueSize, ShouldEqual, 1)
				So(out.Percentile, ShouldBeNil)
			})

			Convey("Then small samples refuse to score", func() {
				_, err := svc.Consistency(ctx, "cole", "SL")
				So(errors.Is(err, scoring.ErrInsufficientData), ShouldBeTrue)
			})

			Convey("Then unknown pitchers and pitch types are distinct errors", func() {
				_, err := svc.Consistency(ctx, "nobody", "FF")
				So(errors.Is(err, repository.ErrUnknownPitcher), ShouldBeTrue)

				_, err = svc.Consistency(ctx, "cole", "KN")
				So(errors.Is(err, aggregate.ErrUnknownPitchType), ShouldBeTrue)
			})

			Convey("Then the arsenal ranking keeps only qualified pitches", func() {
				rankings, err := svc.RankArsenal(ctx, "cole")
				So(err, ShouldBeNil)
				So(len(rankings), ShouldEqual, 1)
				So(rankings[0].PitchType, ShouldEqual, "FF")
				So(rankings[0].Percentile, ShouldNotBeNil)
			})

			Convey("Then the leaderboard ranks the league", func() {
				entries, err := svc.Leaderboard(ctx, "FF", 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].PitcherID, ShouldEqual, "cole")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].PitcherID, ShouldEqual, "wheeler")
			})

			Convey("Then a one-pitcher league cannot build a leaderboard", func() {
				_, err := svc.Leaderboard(ctx, "CU", 10)
				So(errors.Is(err, rank.ErrInsufficientLeagueData), ShouldBeTrue)
			})

			Convey("Then an unseen pitch type is not found", func() {
				_, err := svc.Leaderboard(ctx, "KN", 10)
				So(errors.Is(err, repository.ErrUnknownPitchType), ShouldBeTrue)
			})

			Convey("Then stats expose the load accounting", func() {
				stats := svc.GetStats(ctx)
				So(stats["events"], ShouldEqual, 17)
				So(stats["pitchers"], ShouldEqual, 2)
				So(stats["excludedRows"], ShouldEqual, 4)
				So(stats["duplicateRows"], ShouldEqual, 2)
			})
		})

		Convey("When the loader fails", func() {
			broken := service.New(
				service.WithLoader(&fakeLoader{err: statcast.ErrNoData}),
				service.WithWorkerCount(1),
			)
			So(broken.Start(ctx), ShouldBeNil)
			defer broken.Stop()

			err := broken.Load(ctx)
			So(errors.Is(err, statcast.ErrNoData), ShouldBeTrue)
			So(broken.Ready(ctx), ShouldBeFalse)
		})
	})
}
