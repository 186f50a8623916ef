package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/okian/resirank/internal/adapters/console"
	"github.com/okian/resirank/internal/domain/ranking"
	"github.com/okian/resirank/internal/domain/rating"
	"github.com/okian/resirank/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func newConsole(input string) (*console.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return console.New(strings.NewReader(input), &out, "done"), &out
}

func TestConsole_ConfirmMirror(t *testing.T) {
	Convey("Given the mirror question", t, func() {
		ctx := context.Background()

		Convey("When the answer is yes in any case", func() {
			for _, in := range []string{"yes\n", " YES \n", "y\n"} {
				c, _ := newConsole(in)
				ok, err := c.ConfirmMirror(ctx)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
			}
		})

		Convey("When the answer is anything else or input ends", func() {
			for _, in := range []string{"no\n", "sure\n", ""} {
				c, _ := newConsole(in)
				ok, err := c.ConfirmMirror(ctx)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestConsole_Next(t *testing.T) {
	Convey("Given the program prompt", t, func() {
		ctx := context.Background()

		Convey("When a name follows a blank line", func() {
			c, out := newConsole("\n   \n  Mass General \n")
			cmd, err := c.Next(ctx)

			Convey("Then blanks are asked again and the name is trimmed", func() {
				So(err, ShouldBeNil)
				So(cmd, ShouldResemble, console.Command{Kind: console.CommandAdd, Name: "Mass General"})
				So(strings.Count(out.String(), "Program name cannot be empty."), ShouldEqual, 2)
			})
		})

		Convey("When a name contains invalid UTF-8", func() {
			c, _ := newConsole("Prog\xff\n")
			cmd, err := c.Next(ctx)

			Convey("Then the bad bytes become the replacement character", func() {
				So(err, ShouldBeNil)
				So(cmd.Name, ShouldEqual, "Prog\uFFFD")
			})
		})

		Convey("When the sentinel is typed in another case", func() {
			c, _ := newConsole(" DONE\n")
			cmd, err := c.Next(ctx)
			So(err, ShouldBeNil)
			So(cmd.Kind, ShouldEqual, console.CommandDone)
		})

		Convey("When the weights command is typed", func() {
			c, _ := newConsole(":weights\n")
			cmd, err := c.Next(ctx)
			So(err, ShouldBeNil)
			So(cmd.Kind, ShouldEqual, console.CommandWeights)
		})

		Convey("When input ends", func() {
			c, _ := newConsole("")
			cmd, err := c.Next(ctx)
			So(err, ShouldBeNil)
			So(cmd.Kind, ShouldEqual, console.CommandDone)
		})
	})
}

func TestConsole_Judge(t *testing.T) {
	Convey("Given a comparison prompt", t, func() {
		ctx := context.Background()

		Convey("When one of the names is typed", func() {
			c, out := newConsole(" UCSF \n")
			answer, err := c.Judge(ctx, "vibes", "UCSF", "MGH")

			Convey("Then the trimmed answer is returned", func() {
				So(err, ShouldBeNil)
				So(answer, ShouldEqual, "UCSF")
				So(out.String(), ShouldContainSubstring, "Which program has better vibes? UCSF or MGH")
			})
		})

		Convey("When something else is typed", func() {
			c, out := newConsole("ucsf\n")
			answer, err := c.Judge(ctx, "vibes", "UCSF", "MGH")

			Convey("Then it is returned as typed and flagged as skipped", func() {
				So(err, ShouldBeNil)
				So(answer, ShouldEqual, "ucsf")
				So(out.String(), ShouldContainSubstring, "skipping this comparison")
			})
		})

		Convey("When input ends", func() {
			c, _ := newConsole("")
			_, err := c.Judge(ctx, "vibes", "UCSF", "MGH")
			So(errors.Is(err, io.EOF), ShouldBeTrue)
		})
	})
}

func TestConsole_AskWeights(t *testing.T) {
	Convey("Given the weight editor", t, func() {
		ctx := context.Background()
		dims := rating.DefaultDimensions()
		current, err := ranking.NewWeights(dims, map[string]float64{"prestige": 0.5, "vibes": 0.2, "location": 0.3})
		So(err, ShouldBeNil)

		Convey("When malformed values precede valid ones", func() {
			c, out := newConsole("abc\n-1\nNaN\n0.6\n\n0.1\n")
			w, err := c.AskWeights(ctx, dims, current)

			Convey("Then bad values are asked again and blanks keep the current weight", func() {
				So(err, ShouldBeNil)
				So(w.Map(), ShouldResemble, map[string]float64{"prestige": 0.6, "vibes": 0.2, "location": 0.1})
				So(strings.Count(out.String(), "is not a non-negative number"), ShouldEqual, 3)
			})

			Convey("And the current weights are unchanged", func() {
				So(current.Map()["prestige"], ShouldEqual, 0.5)
			})
		})

		Convey("When input ends midway", func() {
			c, _ := newConsole("0.9\n")
			w, err := c.AskWeights(ctx, dims, current)

			Convey("Then the current weights are returned with the error", func() {
				So(errors.Is(err, io.EOF), ShouldBeTrue)
				So(w.Map(), ShouldResemble, current.Map())
			})
		})
	})
}

func TestConsole_PrintRanking(t *testing.T) {
	Convey("Given a ranking", t, func() {
		c, out := newConsole("")
		c.PrintRanking("Current Residency Program Rankings", []types.Entry{
			{Rank: 1, Name: "A", Score: 1016},
			{Rank: 2, Name: "B", Score: 983.996},
		})

		Convey("Then it prints a 1-indexed list with two decimals", func() {
			So(out.String(), ShouldEqual, "\nCurrent Residency Program Rankings:\n1. A - 1016.00\n2. B - 984.00\n")
		})
	})
}
