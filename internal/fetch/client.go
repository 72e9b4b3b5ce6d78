package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/John-Robertt/imdb/internal/infra/fixture"
	"github.com/John-Robertt/imdb/internal/infra/httpx"
	"github.com/John-Robertt/imdb/internal/page"
)

const (
	// DefaultLanguage 关闭站点的本地化：否则同一部片在不同地区会拿到不同的标题。
	DefaultLanguage = "en-US;en"
	DefaultTimeout  = 20 * time.Second
)

// Mode 决定 fixture store 的使用方式。
type Mode string

const (
	ModeLive   Mode = "live"
	ModeRecord Mode = "record"
	ModeReplay Mode = "replay"
)

// ParseMode 把配置字符串转为 Mode；空串视为 live。
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeLive:
		return ModeLive, nil
	case ModeRecord, ModeReplay:
		return m, nil
	default:
		return "", fmt.Errorf("未知 fixtures mode：%q（可选 live|record|replay）", s)
	}
}

// Options 描述 New 的输入；零值可用。
type Options struct {
	Language string
	ProxyURL string
	Timeout  time.Duration
	RetryMax int

	// Fixtures 非空且 Mode 为 record/replay 时生效。
	Fixtures *fixture.Store
	Mode     Mode

	Logger  *zap.Logger
	Metrics *Metrics
}

// Client 是文档抓取器：GET + 解析，自身不缓存（缓存在实体的 page.Cache）。
//
// 约束：
// - 非 2xx 一律视为抓取失败（*HTTPStatusError）
// - 重试/UA/代理由 httpx.Transport 统一处理
// - 并发安全（resty.Client 与 Transport 都是并发安全的）
type Client struct {
	http    *resty.Client
	store   *fixture.Store
	mode    Mode
	log     *zap.Logger
	metrics *Metrics
}

var _ page.Fetcher = (*Client)(nil)

func New(opts Options) (*Client, error) {
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = DefaultLanguage
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeLive
	}
	if mode != ModeLive && opts.Fixtures == nil {
		return nil, fmt.Errorf("fixtures mode=%s 需要 fixtures 目录", mode)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tr, err := httpx.NewTransport(httpx.Options{
		ProxyURL: opts.ProxyURL,
		Header:   http.Header{"Accept-Language": {lang}},
		RetryMax: opts.RetryMax,
	})
	if err != nil {
		return nil, fmt.Errorf("proxy.url 无效：%w", err)
	}

	rc := resty.New()
	rc.SetTransport(tr)
	rc.SetTimeout(timeout)
	rc.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	rc.SetLogger(restyLogger{log.Sugar()})

	return &Client{
		http:    rc,
		store:   opts.Fixtures,
		mode:    mode,
		log:     log,
		metrics: opts.Metrics,
	}, nil
}

var parseDocument = page.ParseBytes

// Fetch 抓取并解析 url 对应的页面。
// requests_total 只按传输结果计数（由 Get 记录）；解析失败另计 parse_failures_total。
func (c *Client) Fetch(ctx context.Context, url string) (*page.Document, error) {
	started := time.Now()

	body, finalURL, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(body, finalURL)
	if err != nil {
		c.metrics.parseFailure()
		return nil, &Error{URL: url, Stage: StageParse, Err: err}
	}

	dur := time.Since(started)
	if c.metrics != nil {
		c.metrics.Duration.Observe(dur.Seconds())
	}
	c.log.Debug("page fetched",
		zap.String("url", url),
		zap.String("final_url", finalURL),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", dur),
	)
	return doc, nil
}

// Get 返回原始响应体与最终 URL（跟随重定向之后）。
// 也用于下载海报等非 HTML 资源。
func (c *Client) Get(ctx context.Context, url string) ([]byte, string, error) {
	if c.mode == ModeReplay {
		b, finalURL, ok, err := c.store.Read(url)
		if err != nil {
			c.metrics.request(OutcomeReplay)
			return nil, "", &Error{URL: url, Stage: StageFetch, Err: err}
		}
		if !ok {
			c.metrics.request(OutcomeReplay)
			return nil, "", &Error{URL: url, Stage: StageFetch, Err: fixture.ErrMiss}
		}
		c.metrics.request(OutcomeReplay)
		return b, finalURL, nil
	}

	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		c.metrics.request(OutcomeNetwork)
		c.log.Debug("page fetch failed", zap.String("url", url), zap.Error(err))
		return nil, "", &Error{URL: url, Stage: StageFetch, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		c.metrics.request(OutcomeStatus)
		c.log.Debug("page fetch non-2xx", zap.String("url", url), zap.Int("status", res.StatusCode()))
		return nil, "", &Error{URL: url, Stage: StageFetch, Err: &HTTPStatusError{
			URL:        url,
			StatusCode: res.StatusCode(),
			Location:   res.Header().Get("Location"),
		}}
	}

	body := res.Body()
	finalURL := url
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}
	c.metrics.request(OutcomeOK)

	if c.mode == ModeRecord {
		if err := c.store.Write(url, finalURL, body); err != nil {
			// 录制失败不影响本次抓取结果。
			c.log.Warn("fixture write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return body, finalURL, nil
}

// restyLogger 把 resty 的内部日志接到 zap（默认 Nop 时完全静默）。
type restyLogger struct{ s *zap.SugaredLogger }

func (l restyLogger) Errorf(format string, v ...interface{}) { l.s.Errorf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.s.Warnf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.s.Debugf(format, v...) }

// IsMiss 判断 err 是否为 replay 模式下的 fixture 缺失。
func IsMiss(err error) bool { return errors.Is(err, fixture.ErrMiss) }
