package statcast_test

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cuatro-costuras/public-baseball/internal/adapters/statcast"
	. "github.com/smartystreets/goconvey/convey"
)

const header = "player_name,pitch_type,pfx_x,pfx_z,release_speed\n"

func writeGzMonth(t *testing.T, dir string, season, month int, body string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("statcast_%d_%02d.csv.gz", season, month))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(body)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

func writePlainMonth(t *testing.T, dir string, season, month int, body string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("statcast_%d_%02d.csv", season, month))
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoader(t *testing.T) {
	Convey("Given a season directory of monthly files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		writeGzMonth(t, dir, 2024, 3, header+
			"\"Cole, Gerrit\",FF,-0.5,1.2,96.4\n"+
			"\"Cole, Gerrit\",FF,-0.55,1.25,97.1\n"+
			"\"Cole, Gerrit\",XX,-0.5,1.2,90.0\n"+ // unknown pitch type
			"\"Cole, Gerrit\",SL,abc,1.2,88.0\n") // malformed movement
		writePlainMonth(t, dir, 2024, 4, header+
			"\"Cole, Gerrit\",FF,-0.5,1.2,96.4\n"+ // exact duplicate of a March row
			"\"Wheeler, Zack\",SL,0.3,0.2,\n") // missing velocity stays in

		loader := statcast.New(statcast.WithDataDir(dir))

		Convey("When loading the season", func() {
			res, err := loader.Load(ctx)

			Convey("Then it should read both months", func() {
				So(err, ShouldBeNil)
				So(res.FilesRead, ShouldEqual, 2)
			})

			Convey("Then malformed and unknown rows are excluded", func() {
				So(err, ShouldBeNil)
				So(res.Excluded, ShouldEqual, 2)
			})

			Convey("Then exact duplicates across file boundaries are suppressed", func() {
				So(err, ShouldBeNil)
				So(res.Duplicates, ShouldEqual, 1)
				So(len(res.Events), ShouldEqual, 3)
			})

			Convey("Then movement is converted from feet to inches", func() {
				So(err, ShouldBeNil)
				first := res.Events[0]
				So(first.PitcherID, ShouldEqual, "Cole, Gerrit")
				So(first.HorizontalBreak, ShouldAlmostEqual, -6.0, 1e-9)
				So(first.VerticalBreak, ShouldAlmostEqual, 14.4, 1e-9)
				So(first.Velocity, ShouldNotBeNil)
				So(*first.Velocity, ShouldAlmostEqual, 96.4, 1e-9)
			})

			Convey("Then a blank velocity stays nil without excluding the row", func() {
				So(err, ShouldBeNil)
				last := res.Events[len(res.Events)-1]
				So(last.PitcherID, ShouldEqual, "Wheeler, Zack")
				So(last.Velocity, ShouldBeNil)
			})
		})
	})

	Convey("Given a loader with no source configured", t, func() {
		loader := statcast.New()

		Convey("Then Load fails with ErrNoSource", func() {
			_, err := loader.Load(context.Background())
			So(errors.Is(err, statcast.ErrNoSource), ShouldBeTrue)
		})
	})

	Convey("Given an empty season directory", t, func() {
		loader := statcast.New(statcast.WithDataDir(t.TempDir()))

		Convey("Then Load fails with ErrNoData", func() {
			_, err := loader.Load(context.Background())
			So(errors.Is(err, statcast.ErrNoData), ShouldBeTrue)
		})
	})

	Convey("Given a file missing a required column", t, func() {
		dir := t.TempDir()
		writePlainMonth(t, dir, 2024, 3, "player_name,pitch_type,pfx_z\n\"Cole, Gerrit\",FF,1.2\n")
		loader := statcast.New(statcast.WithDataDir(dir))

		Convey("Then Load fails with ErrMissingColumn", func() {
			_, err := loader.Load(context.Background())
			So(errors.Is(err, statcast.ErrMissingColumn), ShouldBeTrue)
		})
	})
}
