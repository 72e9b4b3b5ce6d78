package imdb

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

// AlsoKnownAs 返回 releaseinfo 页的别名表（版本说明 + 标题）。
func (t *Movie) AlsoKnownAs(ctx context.Context) ([]domain.AlsoKnownAs, error) {
	d, err := t.doc(ctx, page.ReleaseInfo)
	if err != nil {
		return []domain.AlsoKnownAs{}, err
	}
	out := []domain.AlsoKnownAs{}
	d.Find("#akas tr").Each(func(_ int, row *goquery.Selection) {
		aka := domain.AlsoKnownAs{
			Version: clean(row.Find("td:nth-child(1)").Text()),
			Title:   clean(row.Find("td:nth-child(2)").Text()),
		}
		if aka.Version == "" && aka.Title == "" {
			return
		}
		out = append(out, aka)
	})
	return out, nil
}

// CriticReviews 返回 criticreviews 页的媒体评分。
func (t *Movie) CriticReviews(ctx context.Context) ([]domain.CriticReview, error) {
	d, err := t.doc(ctx, page.CriticReviews)
	if err != nil {
		return []domain.CriticReview{}, err
	}
	out := []domain.CriticReview{}
	d.Find("tr[itemprop=reviews]").Each(func(_ int, row *goquery.Selection) {
		r := domain.CriticReview{
			Publication: clean(row.Find("[itemprop=publisher] [itemprop=name]").First().Text()),
			Critic:      clean(row.Find("[itemprop=author] [itemprop=name]").First().Text()),
			Summary:     normSpace(row.Find("div.summary").First().Text()),
		}
		score := row.Find("td.critscore [itemprop=ratingValue]").First().Text()
		if score == "" {
			score = row.Find("td.critscore").First().Text()
		}
		if n, err := strconv.Atoi(clean(score)); err == nil {
			r.Score = &n
		}
		if r.Publication == "" {
			return
		}
		out = append(out, r)
	})
	return out, nil
}

// ParentalAdvisories 返回 parentalguide 页每个维度的严重程度。
func (t *Movie) ParentalAdvisories(ctx context.Context) ([]domain.Advisory, error) {
	d, err := t.doc(ctx, page.ParentalGuide)
	if err != nil {
		return []domain.Advisory{}, err
	}
	out := []domain.Advisory{}
	d.Find("section[id^='advisory-']").Each(func(_ int, sec *goquery.Selection) {
		a := domain.Advisory{
			Category: normSpace(sec.Find("h4").First().Text()),
			Severity: clean(sec.Find("span.ipl-status-pill").First().Text()),
		}
		if a.Category == "" || a.Severity == "" {
			return
		}
		out = append(out, a)
	})
	return out, nil
}
