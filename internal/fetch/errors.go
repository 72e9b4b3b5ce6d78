package fetch

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StageFetch = "fetch"
	StageParse = "parse"
)

// Error 是抓取阶段的可追溯错误。
// 上层可以据此把失败归类为 fetch_failed / parse_failed。
//
// 注意："选择器没匹配到"不是错误，不会产生 Error。
type Error struct {
	URL   string
	Stage string // "fetch" 或 "parse"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage=%s url=%s: %v", e.Stage, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

// IsFetchFailure 判断 err 是否为传输失败（网络错误 / 非 2xx / fixture 缺失）。
func IsFetchFailure(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Stage == StageFetch
}

// IsParseFailure 判断 err 是否为 HTML 解析失败。
func IsParseFailure(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Stage == StageParse
}

// StatusCode 提取 HTTP 状态码；不是状态码错误时返回 0。
func StatusCode(err error) int {
	var e *HTTPStatusError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
