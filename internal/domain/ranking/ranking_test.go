package ranking_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/resirank/internal/domain/ranking"
	"github.com/okian/resirank/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeSource is an ordered in-memory Source.
type fakeSource struct {
	names   []string
	records map[string]rating.Record
}

func (f *fakeSource) Names() []string { return f.names }

func (f *fakeSource) Get(name string) (rating.Record, error) {
	r, ok := f.records[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (f *fakeSource) add(name string, prestige, vibes, location float64) {
	f.names = append(f.names, name)
	f.records[name] = rating.Record{"prestige": prestige, "vibes": vibes, "location": location}
}

func TestNewWeights(t *testing.T) {
	Convey("Given the default dimensions", t, func() {
		dims := rating.DefaultDimensions()

		Convey("When the weights are valid", func() {
			w, err := ranking.NewWeights(dims, map[string]float64{"location": 0.3, "prestige": 0.5, "vibes": 0.2})

			Convey("Then they iterate in dimension order", func() {
				So(err, ShouldBeNil)
				So(w.Dimensions(), ShouldResemble, rating.Dimensions{"prestige", "vibes", "location"})
				So(w.String(), ShouldEqual, "prestige=0.5,vibes=0.2,location=0.3")
			})
		})

		Convey("When a key is not a recognized dimension", func() {
			_, err := ranking.NewWeights(dims, map[string]float64{"cost": 1})
			So(errors.Is(err, ranking.ErrUnknownDimension), ShouldBeTrue)
			So(errors.Is(err, rating.ErrUnknownDimension), ShouldBeTrue)
		})

		Convey("When a value is negative or not finite", func() {
			for _, v := range []float64{-0.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
				_, err := ranking.NewWeights(dims, map[string]float64{"vibes": v})
				So(errors.Is(err, ranking.ErrInvalidWeight), ShouldBeTrue)
			}
		})

		Convey("When only some dimensions are weighted", func() {
			w, err := ranking.NewWeights(dims, map[string]float64{"vibes": 1})
			So(err, ShouldBeNil)

			Convey("Then only those contribute", func() {
				s, err := ranking.OverallScore(rating.Record{"prestige": 2000, "vibes": 900, "location": 1}, w)
				So(err, ShouldBeNil)
				So(s, ShouldEqual, 900.0)
			})
		})

		Convey("When replacing one weight", func() {
			w := ranking.Equal(dims)
			next, err := w.With("vibes", 0.9)

			Convey("Then the copy changes and the original does not", func() {
				So(err, ShouldBeNil)
				v, _ := next.Get("vibes")
				So(v, ShouldEqual, 0.9)
				orig, _ := w.Get("vibes")
				So(orig, ShouldAlmostEqual, 1.0/3.0, 1e-12)
			})

			Convey("And invalid replacements are rejected", func() {
				_, err := w.With("vibes", -2)
				So(errors.Is(err, ranking.ErrInvalidWeight), ShouldBeTrue)
			})
		})
	})
}

func TestOverallScore(t *testing.T) {
	Convey("Given a record and weights", t, func() {
		dims := rating.DefaultDimensions()
		w, _ := ranking.NewWeights(dims, map[string]float64{"prestige": 0.5, "vibes": 0.2, "location": 0.3})

		Convey("When the record is complete", func() {
			s, err := ranking.OverallScore(rating.Record{"prestige": 1016, "vibes": 984, "location": 1000}, w)

			Convey("Then it is the weighted sum", func() {
				So(err, ShouldBeNil)
				So(s, ShouldAlmostEqual, 1016*0.5+984*0.2+1000*0.3, 1e-9)
			})
		})

		Convey("When a weighted dimension is missing from the record", func() {
			_, err := ranking.OverallScore(rating.Record{"prestige": 1016}, w)
			So(errors.Is(err, ranking.ErrUnknownDimension), ShouldBeTrue)
			So(errors.Is(err, rating.ErrUnknownDimension), ShouldBeTrue)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given a source with several programs", t, func() {
		dims := rating.DefaultDimensions()
		src := &fakeSource{records: map[string]rating.Record{}}
		src.add("Low", 900, 900, 900)
		src.add("TieFirst", 1000, 1000, 1000)
		src.add("High", 1100, 1050, 1000)
		src.add("TieSecond", 1000, 1000, 1000)

		Convey("When ranking with equal weights", func() {
			entries, err := ranking.Rank(src, ranking.Equal(dims))

			Convey("Then entries are sorted by score with 1-indexed ranks", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 4)
				So(entries[0].Name, ShouldEqual, "High")
				So(entries[3].Name, ShouldEqual, "Low")
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And ties keep insertion order", func() {
				So(entries[1].Name, ShouldEqual, "TieFirst")
				So(entries[2].Name, ShouldEqual, "TieSecond")
			})

			Convey("And ranking again produces identical output", func() {
				again, err := ranking.Rank(src, ranking.Equal(dims))
				So(err, ShouldBeNil)
				So(again, ShouldResemble, entries)
			})
		})

		Convey("When weights favour location only", func() {
			w, _ := ranking.NewWeights(dims, map[string]float64{"location": 1})
			src.add("Coastal", 800, 800, 1200)
			entries, err := ranking.Rank(src, w)

			Convey("Then the location leader comes first", func() {
				So(err, ShouldBeNil)
				So(entries[0].Name, ShouldEqual, "Coastal")
				So(entries[0].Score, ShouldEqual, 1200.0)
			})
		})

		Convey("When a record cannot be read", func() {
			src.names = append(src.names, "Ghost")
			_, err := ranking.Rank(src, ranking.Equal(dims))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Ghost")
		})

		Convey("When the source is empty", func() {
			entries, err := ranking.Rank(&fakeSource{records: map[string]rating.Record{}}, ranking.Equal(dims))
			So(err, ShouldBeNil)
			So(entries, ShouldBeEmpty)
		})
	})
}

func TestParseWeights(t *testing.T) {
	Convey("Given a weight flag value", t, func() {
		dims := rating.DefaultDimensions()

		Convey("When it is well formed", func() {
			w, err := ranking.ParseWeights(dims, " prestige=0.5, vibes = 0.3,location=0.2,")

			Convey("Then every pair is read", func() {
				So(err, ShouldBeNil)
				So(w.Map(), ShouldResemble, map[string]float64{"prestige": 0.5, "vibes": 0.3, "location": 0.2})
			})
		})

		Convey("When a pair has no value or a bad number", func() {
			for _, s := range []string{"prestige", "prestige=high", "vibes=-1"} {
				_, err := ranking.ParseWeights(dims, s)
				So(errors.Is(err, ranking.ErrInvalidWeight), ShouldBeTrue)
			}
		})

		Convey("When a key is unknown", func() {
			_, err := ranking.ParseWeights(dims, "cost=1")
			So(errors.Is(err, ranking.ErrUnknownDimension), ShouldBeTrue)
		})
	})
}
