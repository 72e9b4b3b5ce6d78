package nfo

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/imdb/internal/domain"
)

type movieOut struct {
	Title     string `xml:"title"`
	Year      int    `xml:"year"`
	Outline   string `xml:"outline"`
	Plot      string `xml:"plot"`
	Tagline   string `xml:"tagline"`
	Runtime   int    `xml:"runtime"`
	MPAA      string `xml:"mpaa"`
	Premiered string `xml:"premiered"`
	Ratings   []struct {
		Name    string `xml:"name,attr"`
		Max     int    `xml:"max,attr"`
		Default bool   `xml:"default,attr"`
		Value   string `xml:"value"`
		Votes   int    `xml:"votes"`
	} `xml:"ratings>rating"`
	UniqueID []struct {
		Type  string `xml:"type,attr"`
		Value string `xml:",chardata"`
	} `xml:"uniqueid"`
	Thumbs []struct {
		Aspect string `xml:"aspect,attr"`
		Value  string `xml:",chardata"`
	} `xml:"thumb"`
	Genres    []string `xml:"genre"`
	Countries []string `xml:"country"`
	Studios   []string `xml:"studio"`
	Credits   []string `xml:"credits"`
	Directors []string `xml:"director"`
	Actors    []struct {
		Name  string `xml:"name"`
		Role  string `xml:"role"`
		Order int    `xml:"order"`
	} `xml:"actor"`
	Trailer string `xml:"trailer"`
	Website string `xml:"website"`
}

func decode(t *testing.T, b []byte) movieOut {
	t.Helper()
	var out movieOut
	if err := xml.Unmarshal(b, &out); err != nil {
		t.Fatalf("xml.Unmarshal 失败：%v", err)
	}
	return out
}

func TestEncode_FullMeta(t *testing.T) {
	rating := 8.2
	votes := 785204
	metascore := 72
	meta := domain.TitleMeta{
		ID:          "0095016",
		Title:       "Die Hard",
		Year:        1988,
		Plot:        "An NYPD officer tries to save his wife.",
		PlotSummary: "John McClane arrives in Los Angeles.",
		Tagline:     "Twelve terrorists. One cop.",
		Genres:      []string{"Action", "Thriller", "Action", " "},
		Countries:   []string{"USA"},
		Companies:   []string{"Twentieth Century Fox", "Gordon Company"},
		RuntimeM:    132,
		ReleaseDate: "20 July 1988 (USA)",
		MPAA:        "R",
		Directors:   []string{"John McTiernan"},
		Writers:     []string{"Jeb Stuart", "Steven E. de Souza"},
		Cast: []domain.CastMember{
			{ID: "0000246", Name: "Bruce Willis", Character: "John McClane"},
			{ID: "0000614", Name: "Alan Rickman", Character: "Hans Gruber"},
			{Name: "Bruce Willis", Character: "dup"},
			{Name: "  "},
		},
		Rating:     &rating,
		Votes:      &votes,
		Metascore:  &metascore,
		PosterURL:  "https://m.media-amazon.com/images/M/MV5BZjRlNDUxZjAt@@.jpg",
		TrailerURL: "https://www.imdb.com/video/imdb/vi3895704344",
		Website:    "https://www.imdb.com/title/tt0095016/reference",
	}

	b, err := Encode(meta)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !strings.HasPrefix(string(b), `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>`) {
		t.Fatalf("缺少 XML 头：%q", string(b[:40]))
	}
	out := decode(t, b)

	if out.Title != "Die Hard" || out.Year != 1988 || out.Runtime != 132 || out.MPAA != "R" {
		t.Fatalf("基础字段不一致：%+v", out)
	}
	if out.Outline != meta.Plot || out.Plot != meta.PlotSummary {
		t.Fatalf("outline/plot 不一致：%q %q", out.Outline, out.Plot)
	}
	if len(out.UniqueID) != 1 || out.UniqueID[0].Type != "imdb" || out.UniqueID[0].Value != "tt0095016" {
		t.Fatalf("uniqueid 不一致：%+v", out.UniqueID)
	}
	if len(out.Ratings) != 2 {
		t.Fatalf("期望 2 个评分，实际=%+v", out.Ratings)
	}
	if r := out.Ratings[0]; r.Name != "imdb" || r.Max != 10 || !r.Default || r.Value != "8.2" || r.Votes != 785204 {
		t.Fatalf("imdb 评分不一致：%+v", r)
	}
	if r := out.Ratings[1]; r.Name != "metacritic" || r.Max != 100 || r.Default || r.Value != "72" {
		t.Fatalf("metacritic 评分不一致：%+v", r)
	}
	if len(out.Thumbs) != 1 || out.Thumbs[0].Aspect != "poster" || out.Thumbs[0].Value != meta.PosterURL {
		t.Fatalf("thumb 不一致：%+v", out.Thumbs)
	}
	if diff := cmp.Diff([]string{"Action", "Thriller"}, out.Genres); diff != "" {
		t.Fatalf("genre 未去重（-want +got）：\n%s", diff)
	}
	if diff := cmp.Diff(meta.Writers, out.Credits); diff != "" {
		t.Fatalf("credits 不一致（-want +got）：\n%s", diff)
	}
	if len(out.Actors) != 2 || out.Actors[0].Name != "Bruce Willis" || out.Actors[0].Role != "John McClane" || out.Actors[1].Order != 1 {
		t.Fatalf("actor 未按顺序去重：%+v", out.Actors)
	}
	if out.Website != meta.Website || out.Trailer != meta.TrailerURL {
		t.Fatalf("website/trailer 不一致：%q %q", out.Website, out.Trailer)
	}
}

func TestEncode_TitleFallbackToID(t *testing.T) {
	b, err := Encode(domain.TitleMeta{ID: "0095016"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	out := decode(t, b)
	if out.Title != "tt0095016" {
		t.Fatalf("期望 title 回退到 id，实际=%q", out.Title)
	}
	if len(out.Ratings) != 0 {
		t.Fatalf("没有评分时不应输出 ratings：%+v", out.Ratings)
	}
	if out.Plot != "" || out.Outline != "" {
		t.Fatalf("plot 应为空：%q %q", out.Plot, out.Outline)
	}
}

func TestEncode_PlotFallsBackToShortPlot(t *testing.T) {
	b, err := Encode(domain.TitleMeta{ID: "0095016", Title: "Die Hard", Plot: "Short."})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if out := decode(t, b); out.Plot != "Short." {
		t.Fatalf("期望 plot 回退到短简介，实际=%q", out.Plot)
	}
}
