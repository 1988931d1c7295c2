package profile

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTopContestsByRank(t *testing.T) {
	Convey("Given more than five contest results", t, func() {
		results := []ContestResult{
			{ContestName: "A", Rank: 300},
			{ContestName: "B", Rank: 12},
			{ContestName: "C", Rank: 45},
			{ContestName: "D", Rank: 12},
			{ContestName: "E", Rank: 7},
			{ContestName: "F", Rank: 99},
			{ContestName: "G", Rank: 1},
		}

		Convey("When sorting and capping", func() {
			top := topContestsByRank(results)

			Convey("Then at most five remain, ranks ascending", func() {
				So(len(top), ShouldEqual, 5)
				for i := 1; i < len(top); i++ {
					So(top[i].Rank, ShouldBeGreaterThanOrEqualTo, top[i-1].Rank)
				}
				So(top[0].ContestName, ShouldEqual, "G")
			})

			Convey("Then equal ranks keep their source order", func() {
				// B在来源中先于D出现，名次并列时顺序保持
				So(top[2].ContestName, ShouldEqual, "B")
				So(top[3].ContestName, ShouldEqual, "D")
			})

			Convey("Then the input slice is not mutated", func() {
				So(results[0].ContestName, ShouldEqual, "A")
			})
		})
	})

	Convey("Given fewer than five results", t, func() {
		top := topContestsByRank([]ContestResult{{ContestName: "X", Rank: 2}})
		So(len(top), ShouldEqual, 1)
	})
}

func TestParseLooseInt(t *testing.T) {
	Convey("Given numeric text with noise", t, func() {
		Convey("Digits are extracted", func() {
			So(*parseLooseInt("  1,234 "), ShouldEqual, 1234)
			So(*parseLooseInt("#56"), ShouldEqual, 56)
			So(*parseLooseInt("789"), ShouldEqual, 789)
		})

		Convey("Non-numeric text yields nil, never a panic", func() {
			So(parseLooseInt(""), ShouldBeNil)
			So(parseLooseInt("N/A"), ShouldBeNil)
			So(parseLooseInt("  --  "), ShouldBeNil)
		})
	})
}

func TestFirstNumberIn(t *testing.T) {
	Convey("Given mixed text", t, func() {
		So(*firstNumberIn("Fully Solved (123)"), ShouldEqual, 123)
		So(*firstNumberIn("Highest Rating 1914"), ShouldEqual, 1914)
		So(firstNumberIn("no digits"), ShouldBeNil)
	})
}

func TestMaxRatingOf(t *testing.T) {
	Convey("Given a rating history", t, func() {
		graph := []RatingPoint{{Rating: 1500}, {Rating: 1714}, {Rating: 1688}}
		So(*maxRatingOf(graph), ShouldEqual, 1714)
	})

	Convey("Given an empty or zero-only history", t, func() {
		Convey("Then the result is nil, not a fabricated zero", func() {
			So(maxRatingOf(nil), ShouldBeNil)
			So(maxRatingOf([]RatingPoint{{Rating: 0}}), ShouldBeNil)
		})
	})
}
