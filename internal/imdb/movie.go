package imdb

import (
	"context"
	"strings"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

// Movie 是一个作品（电影 / 剧集 / 单集）的惰性视图。
//
// 约束：
// - id 构造后不变
// - 同一 page.Kind 在两次 InvalidateDocuments 之间最多抓取一次
// - Reset 只清字段缓存，不丢已抓取的文档
type Movie struct {
	c      *Client
	id     domain.TitleID
	url    string
	docs   *page.Cache
	fields Fields

	// RelatedPerson / RelatedRole 由 known-for 列表设置：这部作品因谁、以何种身份出现。
	RelatedPerson *Person
	RelatedRole   string
}

func (t *Movie) ID() domain.TitleID { return t.id }

// URL 返回 reference 页地址（也作为导出时的来源链接）。
func (t *Movie) URL() string { return t.url }

// SeedTitle / SeedYear / SeedPosterThumbnail 在 I/O 之前预置字段。
func (t *Movie) SeedTitle(s string) {
	if s = cleanSeedTitle(s); s != "" {
		t.fields.Set(FieldTitle, s)
	}
}

func (t *Movie) SeedYear(y int) {
	if y > 0 {
		t.fields.Set(FieldYear, y)
	}
}

func (t *Movie) SeedPosterThumbnail(u string) {
	if u != "" {
		t.fields.Set(FieldPosterThumbnail, u)
	}
}

// Reset 丢弃字段缓存（包括预置值）；文档缓存保留。
func (t *Movie) Reset() { t.fields.Clear() }

// InvalidateDocuments 丢弃指定 Kind 的文档（不传则全部），下次访问会重新抓取。
func (t *Movie) InvalidateDocuments(kinds ...page.Kind) { t.docs.Invalidate(kinds...) }

// CachedDocuments 返回当前缓存的文档数。
func (t *Movie) CachedDocuments() int { return t.docs.Len() }

func (t *Movie) doc(ctx context.Context, kind page.Kind) (*page.Document, error) {
	return t.docs.Get(ctx, page.K(kind))
}

// Title 返回标题（优先原名）；预置过则不触发 I/O。
func (t *Movie) Title(ctx context.Context) (string, bool, error) {
	return memo(&t.fields, FieldTitle, func() (string, bool, error) {
		d, err := t.doc(ctx, page.Reference)
		if err != nil {
			return "", false, err
		}
		// 原名是紧跟 h3 的第一个文本节点；为空时才退回 h3 自身文本。
		orig := clean(page.Text(d.XPathOne("//h3[@itemprop='name']/following-sibling::text()")))
		if s := strings.TrimSpace(strings.TrimSuffix(orig, "(original title)")); s != "" {
			return s, true, nil
		}
		s, ok := xpathText(d, "//h3[@itemprop='name']/text()")
		return s, ok, nil
	})
}

// RefreshTitle 忽略字段缓存重新计算标题（文档已缓存时不触发 I/O）。
func (t *Movie) RefreshTitle(ctx context.Context) (string, bool, error) {
	t.fields.Delete(FieldTitle)
	return t.Title(ctx)
}

func (t *Movie) Year(ctx context.Context) (int, bool, error) {
	return memo(&t.fields, FieldYear, func() (int, bool, error) {
		d, err := t.doc(ctx, page.Reference)
		if err != nil {
			return 0, false, err
		}
		s, ok := xpathText(d, "//h3[@itemprop='name']/span/a/text()")
		if !ok {
			return 0, false, nil
		}
		y, ok := firstInt(s)
		return y, ok && y > 0, nil
	})
}

func (t *Movie) PosterThumbnail(ctx context.Context) (string, bool, error) {
	return memo(&t.fields, FieldPosterThumbnail, func() (string, bool, error) {
		d, err := t.doc(ctx, page.Reference)
		if err != nil {
			return "", false, err
		}
		s, ok := cssAttr(d, "img[alt*='Poster']", "src")
		return s, ok, nil
	})
}

// Poster 由缩略图推导全尺寸海报 URL。
func (t *Movie) Poster(ctx context.Context) (string, bool, error) {
	thumb, ok, err := t.PosterThumbnail(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	u, ok := posterURL(thumb)
	return u, ok, nil
}

// referenceText 是"reference 页 + 单个文本"访问器的公共骨架。
func (t *Movie) referenceText(ctx context.Context, fn func(*page.Document) (string, bool)) (string, bool, error) {
	return t.text(ctx, page.Reference, fn)
}

func (t *Movie) text(ctx context.Context, kind page.Kind, fn func(*page.Document) (string, bool)) (string, bool, error) {
	d, err := t.doc(ctx, kind)
	if err != nil {
		return "", false, err
	}
	s, ok := fn(d)
	return s, ok, nil
}

func (t *Movie) list(ctx context.Context, kind page.Kind, fn func(*page.Document) []string) ([]string, error) {
	d, err := t.doc(ctx, kind)
	if err != nil {
		return []string{}, err
	}
	return fn(d), nil
}

// Plot 返回概述段落（去掉 "See full summary" 一类的链接文字）。
func (t *Movie) Plot(ctx context.Context) (string, bool, error) {
	return t.referenceText(ctx, func(d *page.Document) (string, bool) {
		s, ok := xpathText(d, `//section[contains(@class, "overview")]//hr[last()]/preceding-sibling::div[1]`)
		if !ok {
			return "", false
		}
		s = sanitizePlot(s)
		return s, s != ""
	})
}

// PlotSynopsis 返回完整剧情梗概（plotsummary 页）。
func (t *Movie) PlotSynopsis(ctx context.Context) (string, bool, error) {
	return t.text(ctx, page.PlotSummary, func(d *page.Document) (string, bool) {
		return cssText(d, "li[id*='synopsis']")
	})
}

func (t *Movie) PlotSummary(ctx context.Context) (string, bool, error) {
	return t.referenceText(ctx, func(d *page.Document) (string, bool) {
		return xpathText(d, "//tr[td[contains(@class, 'label') and text()='Plot Summary']]/td[2]/p/text()")
	})
}

func (t *Movie) Tagline(ctx context.Context) (string, bool, error) {
	return t.referenceText(ctx, func(d *page.Document) (string, bool) {
		return xpathText(d, "//tr[td[contains(@class, 'label') and text()='Taglines']]/td[2]/text()")
	})
}

func labeledLinks(label string) func(*page.Document) []string {
	return func(d *page.Document) []string {
		return xpathTexts(d, "//tr[td[contains(@class, 'label') and text()='"+label+"']]/td[2]//a")
	}
}

func (t *Movie) Genres(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Reference, labeledLinks("Genres"))
}

func (t *Movie) Languages(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Reference, labeledLinks("Language"))
}

func (t *Movie) Countries(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Reference, func(d *page.Document) []string {
		return xpathTexts(d, "//tr[contains(@class, 'item') and td[text()='Country']]/td[2]//a")
	})
}

// Runtime 返回片长（分钟）。
func (t *Movie) Runtime(ctx context.Context) (int, bool, error) {
	s, ok, err := t.referenceText(ctx, func(d *page.Document) (string, bool) {
		return xpathText(d, "//tr[td[contains(@class, 'label') and text()='Runtime']]/td[2]")
	})
	if err != nil || !ok {
		return 0, false, err
	}
	n, ok := firstInt(s)
	return n, ok && n > 0, nil
}

func (t *Movie) ProductionCompanies(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Reference, func(d *page.Document) []string {
		return xpathTexts(d, "//h4[text()='Production Companies']/following::ul[1]/li/a[contains(@href, '/company/')]")
	})
}

// Company 是第一个制片公司。
func (t *Movie) Company(ctx context.Context) (string, bool, error) {
	cs, err := t.ProductionCompanies(ctx)
	if err != nil || len(cs) == 0 {
		return "", false, err
	}
	return cs[0], true, nil
}

func (t *Movie) TrailerURL(ctx context.Context) (string, bool, error) {
	return t.referenceText(ctx, func(d *page.Document) (string, bool) {
		href, ok := cssAttr(d, "a[href^='videoplayer/']", "href")
		if !ok {
			return "", false
		}
		return resolve(d.URL, href), true
	})
}

func (t *Movie) Rating(ctx context.Context) (float64, bool, error) {
	s, ok, err := t.referenceText(ctx, func(d *page.Document) (string, bool) {
		return cssText(d, ".ipl-rating-star__rating")
	})
	if err != nil || !ok {
		return 0, false, err
	}
	f, ok := parseFloat(s)
	return f, ok, nil
}

func (t *Movie) Votes(ctx context.Context) (int, bool, error) {
	s, ok, err := t.referenceText(ctx, func(d *page.Document) (string, bool) {
		return cssText(d, ".ipl-rating-star__total-votes")
	})
	if err != nil || !ok {
		return 0, false, err
	}
	n, ok := digitsInt(s)
	return n, ok, nil
}

// MPAARating 返回分级说明全文（apex 页）。
func (t *Movie) MPAARating(ctx context.Context) (string, bool, error) {
	return t.text(ctx, page.Apex, func(d *page.Document) (string, bool) {
		return cssText(d, "span[itemprop='contentRating']")
	})
}

// MPAALetterRating 返回美国院线分级字母（G / PG / PG-13 / R / NC-17）。
func (t *Movie) MPAALetterRating(ctx context.Context) (string, bool, error) {
	return t.referenceText(ctx, func(d *page.Document) (string, bool) {
		for _, s := range cssTexts(d, "a[href*='certificates=US%3A']", false) {
			if l, ok := mpaaLetter(s); ok {
				return l, true
			}
		}
		return "", false
	})
}

func (t *Movie) ReleaseDate(ctx context.Context) (string, bool, error) {
	return t.referenceText(ctx, func(d *page.Document) (string, bool) {
		s, ok := cssText(d, "div.titlereference-header a[href*='/releaseinfo']")
		if !ok {
			return "", false
		}
		s = sanitizeReleaseDate(s)
		return s, s != ""
	})
}

func (t *Movie) FilmingLocations(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Locations, func(d *page.Document) []string {
		return cssTexts(d, "#filming_locations .soda dt a", false)
	})
}

// Metascore 来自 apex 页的 Metacritic 分数。
func (t *Movie) Metascore(ctx context.Context) (int, bool, error) {
	s, ok, err := t.text(ctx, page.Apex, func(d *page.Document) (string, bool) {
		return cssText(d, `div[class*="metacriticScore"] span`)
	})
	if err != nil || !ok {
		return 0, false, err
	}
	n, ok := firstInt(s)
	return n, ok, nil
}
