package nfo

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/John-Robertt/imdb/internal/domain"
)

// RatingSource 是 <ratings> 与 <uniqueid> 中使用的来源名。
const RatingSource = "imdb"

type movie struct {
	XMLName xml.Name `xml:"movie"`

	Title         string `xml:"title"`
	OriginalTitle string `xml:"originaltitle,omitempty"`
	Year          int    `xml:"year,omitempty"`

	Ratings   *ratings   `xml:"ratings,omitempty"`
	UniqueIDs []uniqueID `xml:"uniqueid"`

	Outline string `xml:"outline,omitempty"`
	Plot    string `xml:"plot,omitempty"`
	Tagline string `xml:"tagline,omitempty"`

	Runtime   int    `xml:"runtime,omitempty"`
	MPAA      string `xml:"mpaa,omitempty"`
	Premiered string `xml:"premiered,omitempty"`

	Thumbs []thumb `xml:"thumb,omitempty"`

	Genres    []string `xml:"genre,omitempty"`
	Countries []string `xml:"country,omitempty"`
	Studios   []string `xml:"studio,omitempty"`
	Credits   []string `xml:"credits,omitempty"`
	Directors []string `xml:"director,omitempty"`
	Actors    []actor  `xml:"actor,omitempty"`

	Trailer string `xml:"trailer,omitempty"`
	Website string `xml:"website,omitempty"`
}

type ratings struct {
	Rating []rating `xml:"rating"`
}

type rating struct {
	Name    string `xml:"name,attr"`
	Max     int    `xml:"max,attr"`
	Default bool   `xml:"default,attr"`
	Value   string `xml:"value"`
	Votes   int    `xml:"votes,omitempty"`
}

type uniqueID struct {
	Type    string `xml:"type,attr"`
	Default bool   `xml:"default,attr"`
	Value   string `xml:",chardata"`
}

type thumb struct {
	Aspect string `xml:"aspect,attr"`
	Value  string `xml:",chardata"`
}

type actor struct {
	Name  string `xml:"name"`
	Role  string `xml:"role,omitempty"`
	Order int    `xml:"order"`
}

// Encode 把 TitleMeta 转成 Kodi/Jellyfin/Emby 可读取的 NFO（XML）。
//
// 规则：
// - 字段缺失允许为空；列表去空白、去重、保持页面顺序
// - title 为空时回退到 tt id（避免生成空 title）
// - 评分只在页面上存在时输出 <ratings>；Metascore 作为非默认评分追加
func Encode(meta domain.TitleMeta) ([]byte, error) {
	id := ""
	if strings.TrimSpace(string(meta.ID)) != "" {
		id = meta.ID.String()
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = id
	}

	m := movie{
		Title: title,
		Year:  meta.Year,

		Outline: strings.TrimSpace(meta.Plot),
		Plot:    firstNonEmpty(meta.PlotSummary, meta.Plot),
		Tagline: strings.TrimSpace(meta.Tagline),

		Runtime:   meta.RuntimeM,
		MPAA:      strings.TrimSpace(meta.MPAA),
		Premiered: strings.TrimSpace(meta.ReleaseDate),

		Genres:    normList(meta.Genres),
		Countries: normList(meta.Countries),
		Studios:   normList(meta.Companies),
		Credits:   normList(meta.Writers),
		Directors: normList(meta.Directors),

		Trailer: strings.TrimSpace(meta.TrailerURL),
		Website: strings.TrimSpace(meta.Website),
	}
	if id != "" {
		m.UniqueIDs = []uniqueID{{Type: RatingSource, Default: true, Value: id}}
	}

	if meta.Rating != nil {
		r := rating{Name: RatingSource, Max: 10, Default: true, Value: strconv.FormatFloat(*meta.Rating, 'f', 1, 64)}
		if meta.Votes != nil {
			r.Votes = *meta.Votes
		}
		m.Ratings = &ratings{Rating: []rating{r}}
	}
	if meta.Metascore != nil {
		if m.Ratings == nil {
			m.Ratings = &ratings{}
		}
		m.Ratings.Rating = append(m.Ratings.Rating, rating{Name: "metacritic", Max: 100, Value: strconv.Itoa(*meta.Metascore)})
	}

	if u := strings.TrimSpace(meta.PosterURL); u != "" {
		m.Thumbs = append(m.Thumbs, thumb{Aspect: "poster", Value: u})
	}

	seen := make(map[string]struct{}, len(meta.Cast))
	for _, c := range meta.Cast {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		m.Actors = append(m.Actors, actor{Name: name, Role: strings.TrimSpace(c.Character), Order: len(m.Actors)})
	}

	b, err := xml.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	// 约定：输出带 standalone="yes" 的 XML 头，便于与常见刮削器产物兼容。
	const header = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>` + "\n"
	return append([]byte(header), b...), nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func normList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := m[s]; ok {
			continue
		}
		m[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
