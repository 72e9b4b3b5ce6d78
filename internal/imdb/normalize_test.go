package imdb

import (
	"testing"
)

func TestListingTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: `"Dark Water" aka "Honogurai mizu no soko kara"`, want: "Dark Water"},
		{in: "  The Godfather  ", want: "The Godfather"},
		{in: "<b>Tom &amp; Jerry</b>", want: "Tom & Jerry"},
		{in: "Kakashi", want: "Kakashi"},
		{in: `"Star Trek"`, want: "Star Trek"},
	}
	for _, tc := range cases {
		if got := listingTitle(tc.in); got != tc.want {
			t.Fatalf("listingTitle(%q) 期望 %q，实际 %q", tc.in, tc.want, got)
		}
	}
}

func TestPosterURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{
			in:   "https://m.media-amazon.com/images/M/MV5BMTk@@._V1_UX182_CR0,0,182,268_AL_.jpg",
			want: "https://m.media-amazon.com/images/M/MV5BMTk@@.jpg",
			ok:   true,
		},
		{
			in:   "https://ia.media-imdb.com/images/M/MV5BMTk._V1._SX100_SY140_.png",
			want: "https://ia.media-imdb.com/images/M/MV5BMTk.jpg",
			ok:   true,
		},
		{in: "not-a-url", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := posterURL(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("posterURL(%q) 期望 (%q,%v)，实际 (%q,%v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestSanitizers(t *testing.T) {
	if got := sanitizePlot("A cop fights terrorists.  See full summary »"); got != "A cop fights terrorists." {
		t.Fatalf("sanitizePlot 实际=%q", got)
	}
	if got := sanitizePlot("Moreover, a seesaw | Add synopsis"); got != "Moreover, a seesaw" {
		t.Fatalf("sanitizePlot 不应吞掉单词内部的 more/see，实际=%q", got)
	}
	if got := sanitizeReleaseDate("20 May 1988 (USA) See more »"); got != "20 May 1988 (USA)" {
		t.Fatalf("sanitizeReleaseDate 实际=%q", got)
	}
	if got := sanitizeCharacter("Hans Gruber (as Alan Rickman)"); got != "Hans Gruber" {
		t.Fatalf("sanitizeCharacter 实际=%q", got)
	}
	if got := sanitizeCharacter("Holly / Holly Gennaro"); got != "Holly" {
		t.Fatalf("sanitizeCharacter 实际=%q", got)
	}
}

func TestMPAALetter(t *testing.T) {
	cases := map[string]string{
		"United States:R":     "R",
		"United States:PG-13": "PG-13",
		"United States:NC-17": "NC-17",
	}
	for in, want := range cases {
		got, ok := mpaaLetter(in)
		if !ok || got != want {
			t.Fatalf("mpaaLetter(%q) 期望 %q，实际 %q", in, want, got)
		}
	}
	for _, in := range []string{"United States:TV-14", "United States:TV-PG", "United States:Approved"} {
		if got, ok := mpaaLetter(in); ok {
			t.Fatalf("mpaaLetter(%q) 不应命中，实际 %q", in, got)
		}
	}
}

func TestNumberParsing(t *testing.T) {
	if n, ok := digitsInt("(785,204)"); !ok || n != 785204 {
		t.Fatalf("digitsInt 实际=(%d,%v)", n, ok)
	}
	if _, ok := digitsInt("n/a"); ok {
		t.Fatalf("digitsInt 不应解析无数字文本")
	}
	if n, ok := firstInt("132 min"); !ok || n != 132 {
		t.Fatalf("firstInt 实际=(%d,%v)", n, ok)
	}
	if _, ok := parseFloat("8,2"); ok {
		t.Fatalf("parseFloat 不应接受逗号小数")
	}
}
