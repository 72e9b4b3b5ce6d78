package imdb

import (
	"context"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

var exactMatchRE = regexp.MustCompile(`^/title/tt([0-9]+)`)

// Top250 返回 Top 250 榜单。
func (c *Client) Top250(ctx context.Context) ([]*Movie, error) {
	return c.chart(ctx, "top")
}

// BoxOffice 返回票房榜。
func (c *Client) BoxOffice(ctx context.Context) ([]*Movie, error) {
	return c.chart(ctx, "boxoffice")
}

func (c *Client) chart(ctx context.Context, name string) ([]*Movie, error) {
	d, err := c.fetcher.Fetch(ctx, c.loc.Chart(name))
	if err != nil {
		return []*Movie{}, err
	}
	return c.titles(ParseChart(d)), nil
}

// Search 按标题搜索。搜索页直接重定向到某个作品时（唯一精确匹配），返回该作品。
func (c *Client) Search(ctx context.Context, query string) ([]*Movie, error) {
	d, err := c.fetcher.Fetch(ctx, c.loc.Search(query))
	if err != nil {
		return []*Movie{}, err
	}
	if id, ok := exactMatch(d.URL); ok {
		c.log.Sugar().Debugw("search resolved to single title", "query", query, "id", id.String())
		return []*Movie{c.Movie(id)}, nil
	}
	return c.titles(ParseSearchResults(d)), nil
}

func (c *Client) titles(ls []domain.Listing) []*Movie {
	out := make([]*Movie, 0, len(ls))
	for _, l := range ls {
		out = append(out, c.Movie(l.ID, l.Title))
	}
	return out
}

func exactMatch(finalURL string) (domain.TitleID, bool) {
	u, err := url.Parse(finalURL)
	if err != nil {
		return "", false
	}
	m := exactMatchRE.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return domain.TitleID(m[1]), true
}

// ParseChart 从榜单页提取 (id, 标题)：按 id 去重，先出现者优先，保持顺序。
func ParseChart(d *page.Document) []domain.Listing {
	var b listingBuilder
	d.Find("table.chart tr td:nth-of-type(2) a[href^='/title/tt']").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		b.add(href, a.Text())
	})
	return b.out()
}

// ParseSearchResults 从搜索结果页提取 (id, 标题)；标题为空的行被丢弃。
func ParseSearchResults(d *page.Document) []domain.Listing {
	var b listingBuilder
	d.Find("td.result_text").Each(func(_ int, cell *goquery.Selection) {
		a := cell.Find("a[href^='/title/tt']").First()
		if a.Length() == 0 {
			return
		}
		href, _ := a.Attr("href")
		b.add(href, a.Text())
	})
	return b.out()
}

type listingBuilder struct {
	items []domain.Listing
	seen  map[domain.TitleID]struct{}
}

func (b *listingBuilder) add(href, raw string) {
	id, ok := domain.TitleIDFromHref(href)
	if !ok {
		return
	}
	title := listingTitle(raw)
	if title == "" {
		return
	}
	if b.seen == nil {
		b.seen = make(map[domain.TitleID]struct{})
	}
	if _, dup := b.seen[id]; dup {
		return
	}
	b.seen[id] = struct{}{}
	b.items = append(b.items, domain.Listing{ID: id, Title: title})
}

func (b *listingBuilder) out() []domain.Listing {
	if b.items == nil {
		return []domain.Listing{}
	}
	return b.items
}
