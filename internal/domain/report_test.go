package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestRunReport_Finalize_SortAndSummaryAndUTC(t *testing.T) {
	r := RunReport{
		OutDir:     "/abs/out",
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Items: []ItemResult{
			{ID: "tt0111161", Status: StatusFailed, ErrorCode: ErrCodeFetchFailed},
			{ID: "", Status: StatusFailed, ErrorCode: ErrCodeInvalidID},
			{ID: "tt0095016", Status: StatusProcessed},
		},
	}

	r.Finalize()

	if r.Items[0].ID != "tt0095016" || r.Items[1].ID != "tt0111161" || r.Items[2].ID != "" {
		t.Fatalf("items 排序不符合契约：%v", []string{r.Items[0].ID, r.Items[1].ID, r.Items[2].ID})
	}
	if r.Summary.Processed != 1 || r.Summary.Failed != 2 {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
}

func TestRunReport_EmptyItemsIsArray(t *testing.T) {
	b, err := json.Marshal(RunReport{})
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte(`"items":[]`)) {
		t.Fatalf("items 应输出为空数组：%s", string(b))
	}
}
