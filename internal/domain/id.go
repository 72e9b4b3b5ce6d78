package domain

import (
	"regexp"
	"strings"
)

// TitleID 是 IMDb 作品的数字 id（不含 "tt" 前缀），例如 "0095016"。
//
// 约束：
// - 只保存数字部分；"tt" 前缀只在拼 URL 时加上
// - 一经构造不可变（实体生命周期内 id 不变）
type TitleID string

// PersonID 是 IMDb 人物的数字 id（不含 "nm" 前缀），例如 "0000019"。
type PersonID string

var (
	titleIDRE  = regexp.MustCompile(`^(?:tt)?([0-9]{7,9})$`)
	personIDRE = regexp.MustCompile(`^(?:nm)?([0-9]{7,9})$`)

	titleHrefRE  = regexp.MustCompile(`/title/tt([0-9]+)`)
	personHrefRE = regexp.MustCompile(`/name/nm([0-9]+)`)
)

// ParseTitleID 接受 "0095016" 或 "tt0095016"，返回去掉前缀的 TitleID。
func ParseTitleID(s string) (TitleID, bool) {
	m := titleIDRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return TitleID(m[1]), true
}

// ParsePersonID 接受 "0000019" 或 "nm0000019"。
func ParsePersonID(s string) (PersonID, bool) {
	m := personIDRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return PersonID(m[1]), true
}

// TitleIDFromHref 从链接（相对或绝对）中提取 /title/tt<id>。
func TitleIDFromHref(href string) (TitleID, bool) {
	m := titleHrefRE.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	return TitleID(m[1]), true
}

// PersonIDFromHref 从链接中提取 /name/nm<id>。
func PersonIDFromHref(href string) (PersonID, bool) {
	m := personHrefRE.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	return PersonID(m[1]), true
}

func (id TitleID) String() string  { return "tt" + string(id) }
func (id PersonID) String() string { return "nm" + string(id) }
