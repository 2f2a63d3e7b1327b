package gendata_test

import (
	"context"
	"testing"

	"github.com/cuatro-costuras/public-baseball/internal/adapters/statcast"
	"github.com/cuatro-costuras/public-baseball/internal/gendata"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generated synthetic season", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		err := gendata.Generate(ctx, gendata.Config{
			OutDir:   dir,
			Season:   2024,
			Pitchers: 10,
			Seed:     42,
			Compress: true,
		})
		So(err, ShouldBeNil)

		Convey("Then the statcast loader can read it back", func() {
			loader := statcast.New(statcast.WithDataDir(dir))
			res, err := loader.Load(ctx)

			So(err, ShouldBeNil)
			So(res.FilesRead, ShouldEqual, 8)
			So(len(res.Events), ShouldBeGreaterThan, 0)

			pitchers := make(map[string]struct{})
			for _, ev := range res.Events {
				pitchers[ev.PitcherID] = struct{}{}
			}
			So(len(pitchers), ShouldEqual, 10)
		})

		Convey("Then the same seed reproduces the same season", func() {
			other := t.TempDir()
			So(gendata.Generate(ctx, gendata.Config{
				OutDir:   other,
				Season:   2024,
				Pitchers: 10,
				Seed:     42,
				Compress: true,
			}), ShouldBeNil)

			first, err := statcast.New(statcast.WithDataDir(dir)).Load(ctx)
			So(err, ShouldBeNil)
			second, err := statcast.New(statcast.WithDataDir(other)).Load(ctx)
			So(err, ShouldBeNil)
			So(len(second.Events), ShouldEqual, len(first.Events))
		})
	})
}
