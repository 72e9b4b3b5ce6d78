package imdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/John-Robertt/imdb/internal/fetch"
	"github.com/John-Robertt/imdb/internal/page"
)

const base = page.DefaultBaseURL

// stubFetcher 按 URL 返回 testdata 下的页面（或 bodies 中的内联 HTML），
// 并记录每个 URL 的抓取次数。
type stubFetcher struct {
	t      *testing.T
	pages  map[string]string
	bodies map[string]string
	final  map[string]string
	errs   map[string]error

	calls map[string]int
	order []string
	at    []time.Time
}

func newStub(t *testing.T, pages map[string]string) *stubFetcher {
	t.Helper()
	return &stubFetcher{
		t:      t,
		pages:  pages,
		bodies: map[string]string{},
		final:  map[string]string{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (*page.Document, error) {
	f.calls[url]++
	f.order = append(f.order, url)
	f.at = append(f.at, time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	finalURL := url
	if u, ok := f.final[url]; ok {
		finalURL = u
	}
	if body, ok := f.bodies[url]; ok {
		return page.ParseBytes([]byte(body), finalURL)
	}
	name, ok := f.pages[url]
	if !ok {
		return nil, &fetch.Error{URL: url, Stage: fetch.StageFetch, Err: &fetch.HTTPStatusError{URL: url, StatusCode: 404}}
	}
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		f.t.Fatalf("读取 fixture 失败：%v", err)
	}
	return page.ParseBytes(b, finalURL)
}

func (f *stubFetcher) total() int { return len(f.order) }

func newTestClient(f page.Fetcher, opts ...Option) *Client {
	return New(f, append([]Option{WithReviewDelay(0)}, opts...)...)
}

var (
	dieHardRef         = base + "/title/tt0095016/reference"
	dieHardFullCredits = base + "/title/tt0095016/fullcredits"
	dieHardApex        = base + "/title/tt0095016/"
	dieHardReviews     = base + "/title/tt0095016/reviews"
)

func dieHardPages() map[string]string {
	return map[string]string{
		dieHardRef:                              "title_reference.html",
		dieHardFullCredits:                      "title_fullcredits.html",
		dieHardApex:                             "title_apex.html",
		base + "/title/tt0095016/locations":     "title_locations.html",
		base + "/title/tt0095016/releaseinfo":   "title_releaseinfo.html",
		base + "/title/tt0095016/plotsummary":   "title_plotsummary.html",
		base + "/title/tt0095016/criticreviews": "title_criticreviews.html",
		base + "/title/tt0095016/parentalguide": "title_parentalguide.html",
	}
}
