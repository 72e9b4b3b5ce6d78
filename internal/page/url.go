package page

import (
	"net/url"
	"strings"

	"github.com/John-Robertt/imdb/internal/domain"
)

// DefaultBaseURL 是 IMDb 的站点根地址。
const DefaultBaseURL = "https://www.imdb.com"

// Locator 由 id + Key 确定性地拼出页面 URL（不做任何 I/O）。
type Locator struct {
	// BaseURL 为空时使用 DefaultBaseURL；测试里指向 httptest server。
	BaseURL string
}

func (l Locator) base() string {
	u := strings.TrimSpace(l.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

// Title 返回 <base>/title/tt<id>/<path>。
func (l Locator) Title(id domain.TitleID, k Key) string {
	return l.base() + "/title/tt" + string(id) + "/" + k.Path()
}

// Person 返回 <base>/name/nm<id>/<path>。
func (l Locator) Person(id domain.PersonID, k Key) string {
	return l.base() + "/name/nm" + string(id) + "/" + k.Path()
}

// Chart 返回榜单页，例如 Chart("top")。
func (l Locator) Chart(name string) string {
	return l.base() + "/chart/" + strings.Trim(name, "/")
}

// Search 返回按标题搜索的结果页。
func (l Locator) Search(query string) string {
	return l.base() + "/find?q=" + url.QueryEscape(query) + "&s=tt"
}

// Resolve 把页面中的相对链接解析为绝对 URL。
func (l Locator) Resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	bu, err := url.Parse(l.base() + "/")
	if err != nil {
		return href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ru).String()
}
