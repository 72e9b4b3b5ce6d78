// Package export 批量抓取作品快照，并可选写出 <out>/tt<id>/movie.nfo 与 poster.jpg。
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/John-Robertt/imdb/internal/config"
	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/fetch"
	"github.com/John-Robertt/imdb/internal/imdb"
	"github.com/John-Robertt/imdb/internal/infra/fsx"
	"github.com/John-Robertt/imdb/internal/infra/imgx"
	"github.com/John-Robertt/imdb/internal/nfo"
)

// 每个作品目录下的产物文件名。
const (
	NFOName    = "movie.nfo"
	PosterName = "poster.jpg"
)

// Downloader 下载任意 URL 的原始字节（*fetch.Client 满足该接口）。
type Downloader interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

type settings struct {
	nfo       bool
	metascore bool
	overwrite bool
	posters   Downloader
	now       func() time.Time
}

type Option func(*settings)

// WithNFO 为每个成功的作品写出 <out>/tt<id>/movie.nfo。
func WithNFO() Option { return func(s *settings) { s.nfo = true } }

// WithMetascore 额外抓取 apex 页补充 Metascore。
func WithMetascore() Option { return func(s *settings) { s.metascore = true } }

// WithPosters 下载全尺寸海报到 <out>/tt<id>/poster.jpg（页面上没有海报时跳过）。
func WithPosters(d Downloader) Option { return func(s *settings) { s.posters = d } }

// WithOverwrite 允许覆盖已存在的 movie.nfo / poster.jpg（默认不覆盖，记为 io_failed）。
func WithOverwrite() Option { return func(s *settings) { s.overwrite = true } }

// WithClock 替换报告时间来源（测试用）。
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// Execute 并发导出 ids，返回对外稳定的 RunReport。
//
// 约束：
// - 单条失败只影响该条（记为 failed + error_code），不影响其他条目
// - 每个作品实体只由一个 worker 持有，实体内部缓存无需加锁
// - worker 数量取 eff.Concurrency（已被配置层规范化到 [1,32]）
func Execute(ctx context.Context, eff config.Effective, c *imdb.Client, ids []string, obs Observer, opts ...Option) domain.RunReport {
	st := settings{now: time.Now}
	for _, o := range opts {
		o(&st)
	}

	rr := domain.RunReport{
		OutDir:    eff.OutDir,
		WithNFO:   st.nfo,
		StartedAt: st.now(),
		Items:     make([]domain.ItemResult, 0, len(ids)),
	}
	if obs != nil {
		obs.OnStart(len(ids), eff)
	}

	workers := eff.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	type execResult struct {
		res domain.ItemResult
		dur time.Duration
	}

	jobs := make(chan string)
	results := make(chan execResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				oneStarted := time.Now()
				r := execOne(ctx, eff, c, raw, st)
				results <- execResult{res: r, dur: time.Since(oneStarted)}
			}
		}()
	}

	go func() {
		for _, id := range ids {
			jobs <- id
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	done := 0
	for it := range results {
		done++
		rr.Items = append(rr.Items, it.res)
		if obs != nil {
			obs.OnItemDone(done, len(ids), it.res, it.dur)
		}
	}

	rr.FinishedAt = st.now()
	rr.Finalize()
	return rr
}

func execOne(ctx context.Context, eff config.Effective, c *imdb.Client, raw string, st settings) domain.ItemResult {
	id, ok := domain.ParseTitleID(raw)
	if !ok {
		return domain.ItemResult{
			ID:        raw,
			Status:    domain.StatusFailed,
			ErrorCode: domain.ErrCodeInvalidID,
			ErrorMsg:  fmt.Sprintf("无法识别的作品 id：%q（期望 tt0095016 或 0095016）", raw),
		}
	}
	item := domain.ItemResult{ID: id.String()}

	if err := ctx.Err(); err != nil {
		fillError(&item, err)
		return item
	}

	m := c.Movie(id)
	meta, err := m.Meta(ctx)
	if err == nil && st.metascore {
		err = m.WithMetascore(ctx, &meta)
	}
	if err != nil {
		fillError(&item, err)
		return item
	}
	item.Meta = &meta

	if st.nfo {
		p, err := writeNFO(eff.OutDir, meta, st.overwrite)
		if err != nil {
			item.Status = domain.StatusFailed
			item.ErrorCode = domain.ErrCodeIOFailed
			item.ErrorMsg = humanizeIOError(p, err)
			return item
		}
		item.NFOPath = p
	}

	if st.posters != nil && meta.PosterURL != "" {
		b, _, err := st.posters.Get(ctx, meta.PosterURL)
		if err != nil {
			fillError(&item, err)
			return item
		}
		jpg, err := imgx.PosterJPEG(b)
		if err != nil {
			item.Status = domain.StatusFailed
			item.ErrorCode = domain.ErrCodeParseFailed
			item.ErrorMsg = fmt.Sprintf("海报不是可解码的图片（%s）：%v", meta.PosterURL, err)
			return item
		}
		p, err := writePoster(eff.OutDir, meta.ID, jpg, st.overwrite)
		if err != nil {
			item.Status = domain.StatusFailed
			item.ErrorCode = domain.ErrCodeIOFailed
			item.ErrorMsg = humanizeIOError(p, err)
			return item
		}
		item.PosterPath = p
	}

	item.Status = domain.StatusProcessed
	return item
}

func writeNFO(outDir string, meta domain.TitleMeta, overwrite bool) (string, error) {
	dir := filepath.Join(outDir, meta.ID.String())
	p := filepath.Join(dir, NFOName)
	b, err := nfo.Encode(meta)
	if err != nil {
		return p, err
	}
	if overwrite {
		return p, fsx.WriteFileAtomicReplace(dir, NFOName, b)
	}
	return p, fsx.WriteFileAtomicNoOverwrite(dir, NFOName, b)
}

func writePoster(outDir string, id domain.TitleID, b []byte, overwrite bool) (string, error) {
	dir := filepath.Join(outDir, id.String())
	p := filepath.Join(dir, PosterName)
	if overwrite {
		return p, fsx.WriteFileAtomicReplace(dir, PosterName, b)
	}
	return p, fsx.WriteFileAtomicNoOverwrite(dir, PosterName, b)
}

func fillError(item *domain.ItemResult, err error) {
	item.Status = domain.StatusFailed

	switch {
	case errors.Is(err, context.Canceled):
		item.ErrorCode = domain.ErrCodeCanceled
		item.ErrorMsg = "已取消"
	case fetch.IsParseFailure(err):
		item.ErrorCode = domain.ErrCodeParseFailed
		item.ErrorMsg = fmt.Sprintf("页面解析失败（可能返回了非预期页面）：%v", err)
	default:
		item.ErrorCode = domain.ErrCodeFetchFailed
		item.ErrorMsg = humanizeFetchError(err)
	}
}

// humanizeFetchError 尽量给出可操作提示（限流/不存在/超时是最常见问题）。
func humanizeFetchError(err error) string {
	switch code := fetch.StatusCode(err); {
	case code == 404:
		return "IMDb 返回 HTTP 404（该作品不存在或 id 有误）。"
	case code == 403 || code == 429 || code == 503:
		return fmt.Sprintf("IMDb 返回 HTTP %d（可能触发限流）。建议降低 concurrency 或配置 proxy.url。", code)
	case code != 0:
		return fmt.Sprintf("IMDb 返回 HTTP %d。", code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "抓取超时。建议检查网络/代理后重试。"
	}
	if fetch.IsMiss(err) {
		return fmt.Sprintf("fixture 中没有该页面（replay 模式）：%v", err)
	}
	return fmt.Sprintf("抓取失败：%v", err)
}

func humanizeIOError(path string, err error) string {
	if errors.Is(err, os.ErrExist) {
		return fmt.Sprintf("目标已存在，未覆盖：%s（使用 --overwrite 覆盖）", path)
	}
	if fsx.IsPathTypeConflict(err) {
		return err.Error()
	}
	return fmt.Sprintf("写入 %s 失败：%v", path, err)
}
