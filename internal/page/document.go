package page

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Document 是一次抓取得到的已解析页面。
//
// 同一棵 *html.Node 树同时提供 CSS（goquery）与 XPath（htmlquery）两种查询方式，
// 只解析一次。Document 创建后只读。
type Document struct {
	// URL 是最终 URL（跟随重定向之后），搜索的精确匹配依赖它。
	URL string

	root *html.Node
	dom  *goquery.Document
}

// Parse 把 HTML 解析为 Document。
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		URL:  strings.TrimSpace(pageURL),
		root: root,
		dom:  goquery.NewDocumentFromNode(root),
	}, nil
}

// ParseBytes 是 Parse 的 []byte 版本。
func ParseBytes(b []byte, pageURL string) (*Document, error) {
	return Parse(bytes.NewReader(b), pageURL)
}

// Find 执行 CSS 选择器。没有匹配时返回空 Selection（不是错误）。
func (d *Document) Find(selector string) *goquery.Selection {
	return d.dom.Find(selector)
}

// XPath 执行 XPath 查询，返回文档序的全部节点。
// 表达式本身非法属于编程错误，直接 panic（选择器都是常量）。
func (d *Document) XPath(expr string) []*html.Node {
	return htmlquery.Find(d.root, expr)
}

// XPathOne 返回第一个匹配节点；没有匹配时返回 nil。
func (d *Document) XPathOne(expr string) *html.Node {
	return htmlquery.FindOne(d.root, expr)
}

// Root 返回底层节点树（只读使用）。
func (d *Document) Root() *html.Node { return d.root }

// Text 返回节点的全部文本（含后代）。
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.InnerText(n)
}

// Attr 返回节点属性；不存在时返回空串。
func Attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	return htmlquery.SelectAttr(n, name)
}

// Query 在节点 n 的子树上执行 XPath（相对表达式以 "." 开头）。
func Query(n *html.Node, expr string) []*html.Node {
	if n == nil {
		return nil
	}
	return htmlquery.Find(n, expr)
}

// QueryOne 是 Query 的单节点版本。
func QueryOne(n *html.Node, expr string) *html.Node {
	if n == nil {
		return nil
	}
	return htmlquery.FindOne(n, expr)
}
