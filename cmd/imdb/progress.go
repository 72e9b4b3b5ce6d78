package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/imdb/internal/app/export"
	"github.com/John-Robertt/imdb/internal/config"
	"github.com/John-Robertt/imdb/internal/domain"
)

var _ export.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的导出进度输出。
//
// 约束：
// - 所有过程信息写到 stderr，不污染 stdout 的 JSON 输出
// - 长时间没有条目完成时，定期输出一行 keepalive
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time

	workers int
	total   int
	done    int
	ok      int
	fail    int

	keepaliveThreshold time.Duration
	tickerInterval     time.Duration

	stopCh        chan struct{}
	tickerStarted bool
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{
		w:                  w,
		keepaliveThreshold: 6 * time.Second,
		tickerInterval:     2 * time.Second,
	}
}

func (p *progressUI) OnStart(total int, eff config.Effective) {
	now := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.startedAt = now
	p.total = total
	p.workers = eff.Concurrency

	fmt.Fprintf(p.w, "[%s] imdb export\n", now.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	if eff.ConfigFile != "" {
		fmt.Fprintf(p.w, "  config: %s\n", eff.ConfigFile)
	}
	fmt.Fprintf(p.w, "  base_url: %s\n", eff.BaseURL)
	fmt.Fprintf(p.w, "  concurrency: %d\n", eff.Concurrency)
	fmt.Fprintf(p.w, "  proxy: %s\n", formatProxy(eff.ProxyURL))
	fmt.Fprintf(p.w, "  fixtures: %s\n", formatFixtures(eff))
	fmt.Fprintf(p.w, "  out: %s\n", eff.OutDir)
	fmt.Fprintf(p.w, "执行: workers=%d total_items=%d\n\n", min(p.workers, total), total)

	p.lastPrinted = time.Now()
	if total > 0 && !p.tickerStarted {
		p.startTickerLocked()
	}
}

func (p *progressUI) OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = idx
	p.total = total

	switch res.Status {
	case domain.StatusProcessed:
		p.ok++
		title := ""
		if res.Meta != nil {
			title = " " + truncate(res.Meta.Title, 60)
		}
		fmt.Fprintf(p.w, "[%d/%d] %s OK%s (%s)\n", idx, total, res.ID, title, formatShortDuration(dur))
	default:
		p.fail++
		fmt.Fprintf(p.w, "[%d/%d] %s FAIL %s: %s (%s)\n",
			idx, total, res.ID, res.ErrorCode, truncate(res.ErrorMsg, 160), formatShortDuration(dur),
		)
	}

	p.lastPrinted = time.Now()

	// 最后一条完成：停止 ticker，避免在结束打印后又冒出 keepalive。
	if p.tickerStarted && p.done >= p.total {
		close(p.stopCh)
		p.tickerStarted = false
	}
}

func (p *progressUI) startTickerLocked() {
	p.stopCh = make(chan struct{})
	p.tickerStarted = true
	stop := p.stopCh

	interval := p.tickerInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	threshold := p.keepaliveThreshold
	if threshold <= 0 {
		threshold = 6 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.mu.Lock()
				if p.total > 0 && p.done >= p.total {
					p.mu.Unlock()
					return
				}
				if time.Since(p.lastPrinted) > threshold {
					active := min(p.workers, p.total-p.done)
					fmt.Fprintf(p.w, "进度: done=%d/%d ok=%d fail=%d active=%d elapsed=%s\n",
						p.done, p.total, p.ok, p.fail, active, formatElapsed(time.Since(p.startedAt)),
					)
					p.lastPrinted = time.Now()
				}
				p.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

func formatProxy(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "off"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "on (" + truncate(raw, 120) + ")"
	}
	auth := "off"
	if u.User != nil {
		auth = "on"
	}
	return fmt.Sprintf("on (%s://%s, auth=%s)", u.Scheme, u.Host, auth)
}

func formatFixtures(eff config.Effective) string {
	if eff.FixturesDir == "" {
		return string(eff.FixturesMode)
	}
	return fmt.Sprintf("%s (%s)", eff.FixturesMode, eff.FixturesDir)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}
