package imdb

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

// Person 是一个人物页面（name/nm<id>/）的惰性视图。
type Person struct {
	c    *Client
	id   domain.PersonID
	url  string
	docs *page.Cache
}

func (p *Person) ID() domain.PersonID { return p.id }
func (p *Person) URL() string         { return p.url }

// InvalidateDocuments 丢弃已抓取的人物页。
func (p *Person) InvalidateDocuments() { p.docs.Invalidate() }

func (p *Person) main(ctx context.Context) (*page.Document, error) {
	return p.docs.Get(ctx, page.K(page.Apex))
}

func (p *Person) text(ctx context.Context, fn func(*page.Document) (string, bool)) (string, bool, error) {
	d, err := p.main(ctx)
	if err != nil {
		return "", false, err
	}
	s, ok := fn(d)
	return s, ok, nil
}

func (p *Person) Name(ctx context.Context) (string, bool, error) {
	return p.text(ctx, func(d *page.Document) (string, bool) {
		return xpathText(d, "//span[@itemprop='name']")
	})
}

// Roles 返回职业列表（Actor / Director / ...）。
func (p *Person) Roles(ctx context.Context) ([]string, error) {
	d, err := p.main(ctx)
	if err != nil {
		return []string{}, err
	}
	return xpathTexts(d, "//span[@itemprop='jobTitle']"), nil
}

func (p *Person) date(ctx context.Context, prop string) (time.Time, bool, error) {
	d, err := p.main(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	s, ok := cssAttr(d, "time[itemprop="+prop+"]", "datetime")
	if !ok {
		return time.Time{}, false, nil
	}
	t, ok := parseDate(s)
	return t, ok, nil
}

func (p *Person) BirthDate(ctx context.Context) (time.Time, bool, error) {
	return p.date(ctx, "birthDate")
}

func (p *Person) DeathDate(ctx context.Context) (time.Time, bool, error) {
	return p.date(ctx, "deathDate")
}

// Age 返回去世时（或今天）的整岁数；生日未知时 ok=false。
func (p *Person) Age(ctx context.Context) (int, bool, error) {
	birth, ok, err := p.BirthDate(ctx)
	if err != nil || !ok {
		return 0, false, err
	}
	end, dead, err := p.DeathDate(ctx)
	if err != nil {
		return 0, false, err
	}
	if !dead {
		end = p.c.now()
	}
	return age(birth, end), true, nil
}

func (p *Person) Bio(ctx context.Context) (string, bool, error) {
	return p.text(ctx, func(d *page.Document) (string, bool) {
		return xpathText(d, "//div[@itemprop='description']/text()")
	})
}

// PictureThumbnail 返回头像 URL。
func (p *Person) PictureThumbnail(ctx context.Context) (string, bool, error) {
	return p.text(ctx, func(d *page.Document) (string, bool) {
		return xpathAttr(d, "//img[@id='name-poster']", "src")
	})
}

func (p *Person) AwardHighlight(ctx context.Context) (string, bool, error) {
	return p.text(ctx, func(d *page.Document) (string, bool) {
		s, ok := xpathText(d, "//span[@itemprop='awards']/b")
		return normSpace(s), ok
	})
}

func (p *Person) Nickname(ctx context.Context) (string, bool, error) {
	return p.text(ctx, func(d *page.Document) (string, bool) {
		return xpathText(d, "//div[h4[text()='Nickname:']]/text()[2]")
	})
}

// PersonalQuote 返回名言（去掉标题与 "See more" 尾巴）。
func (p *Person) PersonalQuote(ctx context.Context) (string, bool, error) {
	return p.text(ctx, func(d *page.Document) (string, bool) {
		n := d.XPathOne("//div[h4[text()='Personal Quote:']]")
		if n == nil {
			return "", false
		}
		s := strings.NewReplacer("\r", "", "\n", "").Replace(page.Text(n))
		s = strings.TrimPrefix(strings.TrimSpace(s), "Personal Quote:")
		s = strings.TrimSpace(quoteTailRE.ReplaceAllString(s, ""))
		return s, s != ""
	})
}

func (p *Person) AlternativeNames(ctx context.Context) ([]string, error) {
	d, err := p.main(ctx)
	if err != nil {
		return []string{}, err
	}
	return xpathTexts(d, "//div[h4[text()='Alternate Names:']]/text()"), nil
}

// KnownFor 返回"代表作"列表。每个 Movie 都预置了 title，页面给出时还有 year/poster，
// 并记录 RelatedPerson（本人）与 RelatedRole。只有缺作品链接或标题的条目被跳过。
func (p *Person) KnownFor(ctx context.Context) ([]*Movie, error) {
	d, err := p.main(ctx)
	if err != nil {
		return []*Movie{}, err
	}
	out := []*Movie{}
	for _, n := range d.XPath("//div[starts-with(@id, 'knownfor')]/div[contains(@class, 'knownfor-title')]") {
		if t, ok := p.knownForTitle(n); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (p *Person) knownForTitle(n *html.Node) (*Movie, bool) {
	a := page.QueryOne(n, "./div[@class='knownfor-title-role']/a")
	id, ok := domain.TitleIDFromHref(page.Attr(a, "href"))
	if !ok {
		return nil, false
	}
	year := yearRE.FindString(page.Text(page.QueryOne(n, "./div[@class='knownfor-year']/span")))
	poster := strings.TrimSpace(page.Attr(page.QueryOne(n, ".//img"), "src"))
	role := clean(page.Text(page.QueryOne(n, "./div[@class='knownfor-title-role']/span")))
	title := clean(page.Text(a))
	if title == "" {
		return nil, false
	}

	t := p.c.Movie(id)
	t.SeedTitle(title)
	if y, ok := firstInt(year); ok {
		t.SeedYear(y)
	}
	t.SeedPosterThumbnail(poster)
	t.RelatedPerson = p
	t.RelatedRole = role
	return t, true
}
