package imdb

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

// DefaultCastSeparator 是 CastMembersCharacters 的默认连接符。
const DefaultCastSeparator = "=>"

// CastMembers 返回演员名（页面顺序）。与 CastCharacters / CastMemberIDs 按下标对应。
func (t *Movie) CastMembers(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Reference, func(d *page.Document) []string {
		return cssTexts(d, "table.cast_list td.itemprop a", true)
	})
}

// CastMemberIDs 返回演员 id（不含 "nm" 前缀）；无法识别的链接被跳过。
func (t *Movie) CastMemberIDs(ctx context.Context) ([]domain.PersonID, error) {
	d, err := t.doc(ctx, page.Reference)
	if err != nil {
		return []domain.PersonID{}, err
	}
	ids := []domain.PersonID{}
	d.Find(`table.cast_list tr td[itemprop="actor"] a`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if id, ok := domain.PersonIDFromHref(href); ok {
			ids = append(ids, id)
		}
	})
	return ids, nil
}

// CastCharacters 返回角色名：去掉括号说明与 "/" 之后的别名。
func (t *Movie) CastCharacters(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Reference, func(d *page.Document) []string {
		out := []string{}
		d.Find("table.cast_list td.character").Each(func(_ int, s *goquery.Selection) {
			out = append(out, sanitizeCharacter(s.Text()))
		})
		return out
	})
}

// CastMembersCharacters 把演员与角色配成 "演员 sep 角色"；sep 为空时用 DefaultCastSeparator。
// 角色比演员少时，缺的角色按空串处理。
func (t *Movie) CastMembersCharacters(ctx context.Context, sep string) ([]string, error) {
	if sep == "" {
		sep = DefaultCastSeparator
	}
	members, err := t.CastMembers(ctx)
	if err != nil {
		return []string{}, err
	}
	chars, err := t.CastCharacters(ctx)
	if err != nil {
		return []string{}, err
	}
	out := make([]string, 0, len(members))
	for i, m := range members {
		var c string
		if i < len(chars) {
			c = chars[i]
		}
		out = append(out, m+" "+sep+" "+c)
	}
	return out, nil
}

// Cast 把演员名 / id / 角色合成结构化列表。
func (t *Movie) Cast(ctx context.Context) ([]domain.CastMember, error) {
	d, err := t.doc(ctx, page.Reference)
	if err != nil {
		return []domain.CastMember{}, err
	}
	out := []domain.CastMember{}
	d.Find("table.cast_list tr").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("td.itemprop a").First()
		if a.Length() == 0 {
			return
		}
		m := domain.CastMember{
			Name:      clean(a.Text()),
			Character: sanitizeCharacter(row.Find("td.character").First().Text()),
		}
		href, _ := a.Attr("href")
		if id, ok := domain.PersonIDFromHref(href); ok {
			m.ID = id
		}
		if m.Name != "" {
			out = append(out, m)
		}
	})
	return out, nil
}

// StarringActors 返回 apex 页上的主演。
func (t *Movie) StarringActors(ctx context.Context) ([]string, error) {
	return t.list(ctx, page.Apex, func(d *page.Document) []string {
		return cssTexts(d, "span[itemprop=actors] span[itemprop=name]", false)
	})
}

// creditSource 是一种提取职员名单的方式。
type creditSource struct {
	kind    page.Kind
	extract func(*page.Document) []string
}

// insufficient 判断一次提取的结果是否需要换下一种方式：
// 结果为空，或者最后一项是被截断的 "See more" 链接。
func insufficient(names []string) bool {
	return len(names) == 0 || strings.HasPrefix(names[len(names)-1], "See more")
}

// credits 依次尝试 sources，返回第一个"足够"的结果；最后一种方式的结果无条件返回。
func (t *Movie) credits(ctx context.Context, sources ...creditSource) ([]string, error) {
	names := []string{}
	for i, src := range sources {
		d, err := t.doc(ctx, src.kind)
		if err != nil {
			return []string{}, err
		}
		names = src.extract(d)
		if !insufficient(names) {
			break
		}
		if i < len(sources)-1 {
			t.c.log.Sugar().Debugw("credits summary insufficient, falling back",
				"title", t.id.String(), "next", sources[i+1].kind.String())
		}
	}
	return names, nil
}

func summaryCredits(label string) creditSource {
	return creditSource{
		kind: page.Reference,
		extract: func(d *page.Document) []string {
			return xpathTexts(d, "//div[contains(text(), '"+label+"')]//a")
		},
	}
}

func fullCredits(heading string) creditSource {
	return creditSource{
		kind: page.FullCredits,
		extract: func(d *page.Document) []string {
			return dedup(cssTexts(d, `h4:contains("`+heading+`") + table tbody tr td.name`, false))
		},
	}
}

// Directors 先读 reference 页的摘要，不完整时读 fullcredits 页（去重保序）。
func (t *Movie) Directors(ctx context.Context) ([]string, error) {
	return t.credits(ctx, summaryCredits("Director"), fullCredits("Directed by"))
}

// Writers 与 Directors 同一套策略。
func (t *Movie) Writers(ctx context.Context) ([]string, error) {
	return t.credits(ctx, summaryCredits("Writer"), fullCredits("Writing Credits"))
}
