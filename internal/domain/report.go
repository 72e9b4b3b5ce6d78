package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

const (
	ErrCodeInvalidID   = "invalid_id"
	ErrCodeFetchFailed = "fetch_failed"
	ErrCodeParseFailed = "parse_failed"
	ErrCodeIOFailed    = "io_failed"
	ErrCodeCanceled    = "canceled"
)

// RunReport 是导出的对外稳定输出（report.json / stdout JSON）。
type RunReport struct {
	OutDir  string `json:"out_dir"`
	WithNFO bool   `json:"with_nfo"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

type ReportSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

type ItemResult struct {
	// ID 是用户输入规范化后的 "tt" id；输入无法解析时保留原文。
	ID     string `json:"id"`
	Status string `json:"status"`

	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`

	Meta       *TitleMeta `json:"meta,omitempty"`
	NFOPath    string     `json:"nfo_path,omitempty"`
	PosterPath string     `json:"poster_path,omitempty"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按 id 字典序；id=="" 的条目排在最后
// 3) summary 由 items 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a := r.Items[i].ID
		b := r.Items[j].ID
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusProcessed:
			s.Processed++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 保证 items 永远输出为数组（而不是 null）。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	a := Alias(r)
	if a.Items == nil {
		a.Items = []ItemResult{}
	}
	return json.Marshal(a)
}
