package imdb

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var (
	tagRE       = regexp.MustCompile(`</?[^>]*>`)
	akaRE       = regexp.MustCompile(`\saka\s`)
	firstIntRE  = regexp.MustCompile(`[0-9]+`)
	yearRE      = regexp.MustCompile(`[0-9]{4}`)
	nonDigitRE  = regexp.MustCompile(`[^0-9]`)
	characterRE = regexp.MustCompile(`[(/].*`)

	plotNoiseRE = regexp.MustCompile(`(?i)\b(?:see\s+)?(?:add|full)\s+(?:summary|synopsis)\b|\bsee\s+(?:more|all)\b|»|\|`)
	seeMoreRE   = regexp.MustCompile(`(?i)see\s+more|»`)
	quoteTailRE = regexp.MustCompile(`\s\s+See more.*`)

	// 海报：@@ 之后是尺寸/裁剪后缀；否则截掉最后一段的第一个扩展名。
	posterCropRE = regexp.MustCompile(`^(https?:.+@@)`)
	posterExtRE  = regexp.MustCompile(`^(https?:.+?)\.[^/]+$`)

	mpaaLetterRE = regexp.MustCompile(`\b(PG-13|NC-17|PG|G|R)\b`)
)

// normSpace 把任意空白（含 NBSP）压成单个空格并去掉首尾空白。
func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// clean 只把 NBSP 换成空格并去掉首尾空白，保留内部换行结构。
func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

func stripTags(s string) string { return tagRE.ReplaceAllString(s, "") }

// unescape 解码 HTML 实体（&amp; &#39; 等）。
func unescape(s string) string { return html.UnescapeString(s) }

// cleanSeedTitle 是预置标题的规范化：去掉双引号并 trim。
func cleanSeedTitle(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// listingTitle 规范化榜单/搜索结果里的标题文本：
// 去标签、解实体、截断到第一个 " aka " 之前、去双引号。
func listingTitle(s string) string {
	s = unescape(stripTags(s))
	if loc := akaRE.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return cleanSeedTitle(normSpace(s))
}

// firstInt 返回 s 中第一段连续数字；没有时 ok=false。
func firstInt(s string) (int, bool) {
	m := firstIntRE.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// digitsInt 丢弃所有非数字字符后解析（"1,234,567" -> 1234567）。
func digitsInt(s string) (int, bool) {
	d := nonDigitRE.ReplaceAllString(s, "")
	if d == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func sanitizePlot(s string) string {
	return normSpace(plotNoiseRE.ReplaceAllString(normSpace(s), " "))
}

func sanitizeReleaseDate(s string) string {
	return normSpace(seeMoreRE.ReplaceAllString(normSpace(s), " "))
}

func sanitizeCharacter(s string) string {
	return strings.TrimSpace(characterRE.ReplaceAllString(normSpace(s), ""))
}

// posterURL 由缩略图 URL 推导全尺寸海报 URL。
func posterURL(thumb string) (string, bool) {
	thumb = strings.TrimSpace(thumb)
	if m := posterCropRE.FindStringSubmatch(thumb); m != nil {
		return m[1] + ".jpg", true
	}
	if m := posterExtRE.FindStringSubmatch(thumb); m != nil {
		return m[1] + ".jpg", true
	}
	return "", false
}

// mpaaLetter 从一条认证文本中提取美国院线分级字母；电视分级（TV-*）不算。
func mpaaLetter(s string) (string, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "United States:"))
	if strings.HasPrefix(s, "TV-") {
		return "", false
	}
	m := mpaaLetterRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// age 计算 birth 到 end 的整岁数：end 当年生日未到则减一。
func age(birth, end time.Time) int {
	years := end.Year() - birth.Year()
	if end.Month() < birth.Month() || (end.Month() == birth.Month() && end.Day() < birth.Day()) {
		years--
	}
	return years
}

var dateLayouts = []string{"2006-01-02", "2006-1-2"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolve 把 href 相对 base（通常是 Document.URL）解析为绝对 URL。
func resolve(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ru).String()
}

// dedup 保序去重。
func dedup(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
