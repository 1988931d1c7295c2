package profile

import (
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunChain(t *testing.T) {
	Convey("Given an ordered strategy chain", t, func() {
		good := &Profile{Platform: PlatformLeetcode, CurrentRating: intPtr(1800)}
		empty := &Profile{Platform: PlatformLeetcode}

		Convey("When the first strategy fails and the second succeeds", func() {
			calls := []string{}
			p, err := runChain(context.Background(), PlatformLeetcode, "u", []strategy{
				{name: "one", run: func(context.Context, string) (*Profile, error) {
					calls = append(calls, "one")
					return nil, errors.New("network down")
				}},
				{name: "two", run: func(context.Context, string) (*Profile, error) {
					calls = append(calls, "two")
					return good, nil
				}},
			})

			Convey("Then the chain degrades instead of failing", func() {
				So(err, ShouldBeNil)
				So(p, ShouldEqual, good)
				So(calls, ShouldResemble, []string{"one", "two"})
			})
		})

		Convey("When a strategy succeeds technically but yields no signal", func() {
			reachedSecond := false
			p, err := runChain(context.Background(), PlatformLeetcode, "u", []strategy{
				{name: "one", run: func(context.Context, string) (*Profile, error) {
					return empty, nil
				}},
				{name: "two", run: func(context.Context, string) (*Profile, error) {
					reachedSecond = true
					return good, nil
				}},
			})

			Convey("Then the chain still proceeds to the next strategy", func() {
				So(err, ShouldBeNil)
				So(p, ShouldEqual, good)
				So(reachedSecond, ShouldBeTrue)
			})
		})

		Convey("When every strategy fails", func() {
			_, err := runChain(context.Background(), PlatformCodechef, "u", []strategy{
				{name: "one", run: func(context.Context, string) (*Profile, error) {
					return nil, ErrBlocked
				}},
			})

			Convey("Then a terminal error naming the platform is returned", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldEqual, "Failed to fetch CodeChef data")
			})
		})
	})
}

func TestHasSignal(t *testing.T) {
	Convey("Given profiles with varying content", t, func() {
		So(hasSignal(nil), ShouldBeFalse)
		So(hasSignal(&Profile{}), ShouldBeFalse)
		So(hasSignal(&Profile{CurrentRating: intPtr(1200)}), ShouldBeTrue)
		So(hasSignal(&Profile{SolvedCount: intPtr(0)}), ShouldBeTrue)
		So(hasSignal(&Profile{TopContests: []ContestResult{{Rank: 1}}}), ShouldBeTrue)
	})
}

func TestLooksBlocked(t *testing.T) {
	Convey("Given upstream responses", t, func() {
		bigPage := []byte(strings.Repeat("x", 6000))

		Convey("A normal page passes", func() {
			So(looksBlocked(200, bigPage, 5000), ShouldBeFalse)
		})

		Convey("Non-200 status is blocked", func() {
			So(looksBlocked(403, bigPage, 5000), ShouldBeTrue)
		})

		Convey("An abnormally short body is blocked", func() {
			So(looksBlocked(200, []byte("<html></html>"), 5000), ShouldBeTrue)
		})

		Convey("A challenge page marker is blocked", func() {
			page := append([]byte("Attention Required! | Cloudflare"), bigPage...)
			So(looksBlocked(200, page, 5000), ShouldBeTrue)
		})
	})
}
