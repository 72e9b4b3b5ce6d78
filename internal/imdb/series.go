package imdb

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

// Series 是剧集：在 Movie 之上增加季信息。
type Series struct {
	*Movie
}

// Series 构造剧集实体（零 I/O）。
func (c *Client) Series(id domain.TitleID, seedTitle ...string) *Series {
	return &Series{Movie: c.Movie(id, seedTitle...)}
}

// SeasonCount 返回季数：reference 页季链接里的最大季号；找不到时为 0。
func (s *Series) SeasonCount(ctx context.Context) (int, error) {
	d, err := s.doc(ctx, page.Reference)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range d.XPath("//section//div[contains(text(), 'Season')]//a[contains(@href, 'episodes?season')]") {
		if v, err := strconv.Atoi(clean(page.Text(a))); err == nil && v > n {
			n = v
		}
	}
	return n, nil
}

// Seasons 返回第 1..N 季（只构造，不抓取季页面）。
func (s *Series) Seasons(ctx context.Context) ([]*Season, error) {
	n, err := s.SeasonCount(ctx)
	if err != nil {
		return []*Season{}, err
	}
	out := make([]*Season, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, s.c.Season(s.id, i))
	}
	return out, nil
}

// Season 返回第 n 季；n 超出 1..SeasonCount 时 ok=false。
func (s *Series) Season(ctx context.Context, n int) (*Season, bool, error) {
	count, err := s.SeasonCount(ctx)
	if err != nil || n < 1 || n > count {
		return nil, false, err
	}
	return s.c.Season(s.id, n), true, nil
}

// Creators 返回主创（Creator）。
func (s *Series) Creators(ctx context.Context) ([]string, error) {
	return s.list(ctx, page.Reference, func(d *page.Document) []string {
		return xpathTexts(d, "//div[contains(text(), 'Creator')]//a")
	})
}

// Season 是剧集的一季；它自己的页面（episodes?season=N）单独抓取、单独缓存。
type Season struct {
	c        *Client
	seriesID domain.TitleID
	number   int
	docs     *page.Cache

	episodes []*Episode
	loaded   bool
}

// Season 构造季实体（零 I/O）。URL 由剧集 id 与季号确定。
func (c *Client) Season(seriesID domain.TitleID, number int) *Season {
	s := &Season{c: c, seriesID: seriesID, number: number}
	s.docs = c.newCache(func(k page.Key) string { return c.loc.Title(seriesID, k) })
	return s
}

func (s *Season) SeriesID() domain.TitleID { return s.seriesID }
func (s *Season) Number() int              { return s.number }

func (s *Season) key() page.Key {
	return page.Key{Kind: page.Episodes, Query: strconv.Itoa(s.number)}
}

func (s *Season) URL() string { return s.docs.URL(s.key()) }

// Episodes 返回本季的全部单集（文档序；同一集号只保留第一次出现）。
// 结果被缓存，重复调用不触发 I/O。
func (s *Season) Episodes(ctx context.Context) ([]*Episode, error) {
	if s.loaded {
		return s.episodes, nil
	}
	d, err := s.docs.Get(ctx, s.key())
	if err != nil {
		return []*Episode{}, err
	}

	eps := []*Episode{}
	seen := map[int]struct{}{}
	d.Find("div.eplist div[itemprop*='episode']").Each(func(_ int, item *goquery.Selection) {
		a := item.Find("a[itemprop*='name']").First()
		href, _ := a.Attr("href")
		id, ok := domain.TitleIDFromHref(href)
		if !ok {
			return
		}
		num, _ := item.Find("meta[itemprop*='episodeNumber']").First().Attr("content")
		n, err := strconv.Atoi(clean(num))
		if err != nil {
			return
		}
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		eps = append(eps, s.c.Episode(id, s.number, n, clean(a.Text())))
	})

	s.episodes, s.loaded = eps, true
	return eps, nil
}

// Episode 按集号查找。
func (s *Season) Episode(ctx context.Context, n int) (*Episode, bool, error) {
	eps, err := s.Episodes(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, e := range eps {
		if e.number == n {
			return e, true, nil
		}
	}
	return nil, false, nil
}

// Episode 是单集：一个带季号/集号的 Movie。
type Episode struct {
	*Movie
	season int
	number int
}

// Episode 构造单集实体（零 I/O）。
func (c *Client) Episode(id domain.TitleID, season, number int, title string) *Episode {
	return &Episode{Movie: c.Movie(id, title), season: season, number: number}
}

func (e *Episode) SeasonNumber() int { return e.season }
func (e *Episode) Number() int       { return e.number }

// AirDate 是单集的首播日期（即 reference 页的上映日期）。
func (e *Episode) AirDate(ctx context.Context) (string, bool, error) {
	return e.ReleaseDate(ctx)
}
