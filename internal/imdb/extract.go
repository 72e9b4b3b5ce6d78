package imdb

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/John-Robertt/imdb/internal/page"
)

// 选择器辅助：所有文本都 trim 过；"空文本"按缺失处理。

func firstText(nodes []*html.Node) (string, bool) {
	for _, n := range nodes {
		if s := clean(page.Text(n)); s != "" {
			return s, true
		}
	}
	return "", false
}

func xpathText(d *page.Document, expr string) (string, bool) {
	return firstText(d.XPath(expr))
}

// xpathTexts 返回全部非空文本（文档序）。
func xpathTexts(d *page.Document, expr string) []string {
	out := []string{}
	for _, n := range d.XPath(expr) {
		if s := clean(page.Text(n)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func xpathAttr(d *page.Document, expr, attr string) (string, bool) {
	s := strings.TrimSpace(page.Attr(d.XPathOne(expr), attr))
	return s, s != ""
}

func cssText(d *page.Document, sel string) (string, bool) {
	s := clean(d.Find(sel).First().Text())
	return s, s != ""
}

// cssTexts 返回全部匹配的文本；keepEmpty=false 时丢弃空文本。
func cssTexts(d *page.Document, sel string, keepEmpty bool) []string {
	out := []string{}
	d.Find(sel).Each(func(_ int, s *goquery.Selection) {
		t := clean(s.Text())
		if t == "" && !keepEmpty {
			return
		}
		out = append(out, t)
	})
	return out
}

func cssAttr(d *page.Document, sel, attr string) (string, bool) {
	v, ok := d.Find(sel).First().Attr(attr)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
