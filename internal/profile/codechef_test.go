package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// ccPadding 把测试页面撑过拦截判定的最小体积
var ccPadding = "<!-- " + strings.Repeat("p", 6000) + " -->"

var ccProfilePage = `<html><body>
<div class="user-details"><h1>carol</h1></div>
<div class="rating-number">1914</div>
<div class="rating-star">4&#9733;</div>
<section class="rating-data-section">
	<div class="rating-header"><small>(Highest Rating 2013)</small></div>
	<div class="rating-ranks"><ul>
		<li><strong>5678</strong></li>
		<li><strong>123</strong></li>
	</ul></div>
</section>
<section class="problems-solved">
	<h5>Fully Solved (321)</h5>
</section>
<table class="rating-table"><tbody>
	<tr><td>Starters 100</td><td>#1,024</td><td>-</td><td>1914</td></tr>
	<tr><td>Starters 99</td><td>512</td><td>-</td><td>1890</td></tr>
	<tr><td>Old Contest</td><td>N/A</td><td>-</td><td></td></tr>
</tbody></table>
` + ccPadding + `</body></html>`

var ccBadgeOnlyPage = `<html><body>
<div class="user-details"><h1>carol</h1></div>
<div class="rating-number">1500</div>
<section class="problems-solved">
	<span class="badge">10</span>
	<span class="badge">20</span>
	<span class="badge">n/a</span>
</section>
` + ccPadding + `</body></html>`

func newCodechefTestFetcher(base, mirror string) *CodechefFetcher {
	f := NewCodechefFetcher(newTestClient())
	f.base = base
	f.mirrorBase = mirror
	return f
}

func TestCodechefScrape(t *testing.T) {
	Convey("Given a full-sized profile page", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, ccProfilePage)
		}))
		defer srv.Close()

		f := newCodechefTestFetcher(srv.URL, "http://127.0.0.1:1")
		p, err := f.FetchProfile(context.Background(), "carol")
		So(err, ShouldBeNil)

		Convey("Then scalar fields are scraped and coerced", func() {
			So(p.Username, ShouldEqual, "carol")
			So(*p.CurrentRating, ShouldEqual, 1914)
			So(*p.MaxRating, ShouldEqual, 2013)
			So(p.GlobalRank, ShouldEqual, "5678")
			So(p.CountryRank, ShouldEqual, "123")
			So(*p.SolvedCount, ShouldEqual, 321)
		})

		Convey("Then CodeChef reports no difficulty buckets", func() {
			So(p.DifficultySolved, ShouldBeNil)
		})

		Convey("Then contest rows are parsed with digit stripping", func() {
			// 无法解析名次的行被丢弃
			So(*p.ContestCount, ShouldEqual, 2)
			So(p.TopContests[0].ContestName, ShouldEqual, "Starters 99")
			So(p.TopContests[0].Rank, ShouldEqual, 512)
			So(p.TopContests[1].Rank, ShouldEqual, 1024)
			So(*p.TopContests[1].Rating, ShouldEqual, 1914)
		})
	})

	Convey("Given a page without the Fully Solved heading", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, ccBadgeOnlyPage)
		}))
		defer srv.Close()

		f := newCodechefTestFetcher(srv.URL, "http://127.0.0.1:1")
		p, err := f.FetchProfile(context.Background(), "carol")

		Convey("Then solved count falls back to summing category badges", func() {
			So(err, ShouldBeNil)
			So(*p.SolvedCount, ShouldEqual, 30)
		})
	})
}

func TestCodechefBlockedFallsThrough(t *testing.T) {
	Convey("Given a hostile scrape response and a working mirror", t, func() {
		mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"username":"carol","rating":1914,"stars":"4★","globalRank":5678,
				"problemsSolved":321,"participation":25,
				"contests":[{"name":"Starters 99","rank":512},{"name":"Starters 100","rank":1024}]}`)
		}))
		defer mirror.Close()

		check := func(blocked http.HandlerFunc) {
			srv := httptest.NewServer(blocked)
			defer srv.Close()

			f := newCodechefTestFetcher(srv.URL, mirror.URL)
			p, err := f.FetchProfile(context.Background(), "carol")

			So(err, ShouldBeNil)
			So(*p.CurrentRating, ShouldEqual, 1914)
			So(*p.SolvedCount, ShouldEqual, 321)
			So(*p.ContestCount, ShouldEqual, 25)
			So(len(p.TopContests), ShouldEqual, 2)
			So(p.TopContests[0].Rank, ShouldEqual, 512)
		}

		Convey("An abnormally short body triggers the fallback, not garbage parsing", func() {
			check(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<html>tiny</html>")
			})
		})

		Convey("A challenge page triggers the fallback", func() {
			check(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "Attention Required! | Cloudflare"+ccPadding)
			})
		})

		Convey("A non-200 status triggers the fallback", func() {
			check(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, ccProfilePage)
			})
		})
	})
}
