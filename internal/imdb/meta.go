package imdb

import (
	"context"

	"github.com/John-Robertt/imdb/internal/domain"
)

// Meta 汇总作品的常用字段为一个快照（导出 JSON / NFO 用）。
// 只抓取 reference 页，导演/编剧需要回退时再加 fullcredits 页；任一抓取失败即返回错误。
func (t *Movie) Meta(ctx context.Context) (domain.TitleMeta, error) {
	m := domain.TitleMeta{ID: t.id, Website: t.url}
	var err error

	str := func(fn func(context.Context) (string, bool, error)) string {
		if err != nil {
			return ""
		}
		var s string
		s, _, err = fn(ctx)
		return s
	}
	list := func(fn func(context.Context) ([]string, error)) []string {
		if err != nil {
			return []string{}
		}
		var v []string
		v, err = fn(ctx)
		return v
	}

	m.Title = str(t.Title)
	m.Plot = str(t.Plot)
	m.PlotSummary = str(t.PlotSummary)
	m.Tagline = str(t.Tagline)
	m.ReleaseDate = str(t.ReleaseDate)
	m.MPAA = str(t.MPAALetterRating)
	m.ThumbnailURL = str(t.PosterThumbnail)
	m.PosterURL = str(t.Poster)
	m.TrailerURL = str(t.TrailerURL)

	m.Genres = list(t.Genres)
	m.Languages = list(t.Languages)
	m.Countries = list(t.Countries)
	m.Companies = list(t.ProductionCompanies)
	m.Directors = list(t.Directors)
	m.Writers = list(t.Writers)
	if err != nil {
		return m, err
	}

	if m.Cast, err = t.Cast(ctx); err != nil {
		return m, err
	}
	if y, ok, e := t.Year(ctx); e != nil {
		return m, e
	} else if ok {
		m.Year = y
	}
	if n, ok, e := t.Runtime(ctx); e != nil {
		return m, e
	} else if ok {
		m.RuntimeM = n
	}
	if f, ok, e := t.Rating(ctx); e != nil {
		return m, e
	} else if ok {
		m.Rating = &f
	}
	if n, ok, e := t.Votes(ctx); e != nil {
		return m, e
	} else if ok {
		m.Votes = &n
	}
	return m, nil
}

// WithMetascore 补充 Metascore（需要额外抓取 apex 页）。
func (t *Movie) WithMetascore(ctx context.Context, m *domain.TitleMeta) error {
	n, ok, err := t.Metascore(ctx)
	if err != nil {
		return err
	}
	if ok {
		m.Metascore = &n
	}
	return nil
}
