package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/imdb/internal/domain"
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/title/tt0095016/reference":   "title_reference.html",
		"/title/tt0095016/fullcredits": "title_fullcredits.html",
		"/chart/top":                   "chart_top.html",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		b, err := os.ReadFile(filepath.Join("..", "..", "internal", "imdb", "testdata", name))
		if err != nil {
			t.Errorf("读取 fixture 失败：%v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(b)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLI_Version(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "imdb ")
}

func TestCLI_TitleJSON(t *testing.T) {
	srv := newSite(t)

	code, out, errOut := runCLI(t, "--base-url", srv.URL, "-o", "json", "title", "tt0095016")
	require.Equal(t, 0, code, errOut)

	var v domain.TitleMeta
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, domain.TitleID("0095016"), v.ID)
	assert.Equal(t, "Die Hard", v.Title)
	assert.Equal(t, srv.URL+"/title/tt0095016/reference", v.Website)
}

func TestCLI_TopTable(t *testing.T) {
	srv := newSite(t)

	code, out, errOut := runCLI(t, "--base-url", srv.URL, "top")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "The Shawshank Redemption")
	assert.Contains(t, out, "tt0111161")
}

func TestCLI_ExportWritesReportAndNFO(t *testing.T) {
	srv := newSite(t)
	out := t.TempDir()

	code, stdout, stderr := runCLI(t, "--base-url", srv.URL, "--out", out, "-o", "json", "export", "--nfo", "tt0095016", "tt0111161")
	// 有失败条目时退出码为 1，但 stdout 仍然是完整的 RunReport。
	require.Equal(t, 1, code, stderr)

	var rr domain.RunReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &rr))
	assert.Equal(t, domain.ReportSummary{Processed: 1, Failed: 1}, rr.Summary)
	assert.Contains(t, stderr, "完成：processed=1 failed=1")

	assert.FileExists(t, filepath.Join(out, "report.json"))
	assert.FileExists(t, filepath.Join(out, "tt0095016", "movie.nfo"))
}

func TestCLI_ExportFromFile(t *testing.T) {
	srv := newSite(t)
	dir := t.TempDir()
	list := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(list, []byte("# watchlist\ntt0095016\n\n"), 0o644))

	code, stdout, stderr := runCLI(t, "--base-url", srv.URL, "--out", dir, "export", "--from", list, "--no-report")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Die Hard")
	assert.NoFileExists(t, filepath.Join(dir, "report.json"))
}

func TestCLI_MetricsOnStderr(t *testing.T) {
	srv := newSite(t)

	code, stdout, stderr := runCLI(t, "--base-url", srv.URL, "--metrics", "-o", "json", "title", "tt0095016")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "imdb_fetch_requests_total")
	assert.Contains(t, stderr, "imdb_document_cache_lookups_total")
	assert.NotContains(t, stdout, "imdb_fetch_requests_total")
}

func TestCLI_Errors(t *testing.T) {
	code, _, stderr := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "title", "tt0095016")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "config_not_found")

	code, _, stderr = runCLI(t, "-o", "xml", "title", "tt0095016")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--output")

	code, _, stderr = runCLI(t, "title", "not-an-id")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not-an-id")
}
