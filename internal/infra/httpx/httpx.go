package httpx

import (
	"errors"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Transport 把"UA 池 + 固定请求头 + 代理 + keep-alive 策略 + 有界重试"固化为统一策略。
//
// 设计目标：fetch 只负责"拿到页面 + 解析 HTML"，不关心网络策略细节。
type Transport struct {
	Base *http.Transport

	ua *uaPool

	// Header 会被注入到每个请求（已存在的同名请求头不覆盖）。
	// 典型用法：固定 Accept-Language，避免站点按地区返回本地化标题。
	Header http.Header

	// RetryMax 表示最大重试次数（不含首次尝试）。默认 0：传输失败直接交给调用方。
	RetryMax int

	// DisableKeepAlives 决定是否对 Request 设置 Close=true（额外保险）。
	// 真正禁用 keep-alive 依赖 Base.DisableKeepAlives。
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// 只对"可重放"的请求做重试：GET/HEAD 且无 body。
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && (req.Body == nil || req.Body == http.NoBody)
	max := t.RetryMax
	if max < 0 {
		max = 0
	}
	if !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		r := req.Clone(req.Context())
		for k, vs := range t.Header {
			if r.Header.Get(k) != "" {
				continue
			}
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		if r.Header.Get("User-Agent") == "" || isDefaultUA(r.Header.Get("User-Agent")) {
			r.Header.Set("User-Agent", t.ua.random())
		}
		if t.DisableKeepAlives {
			r.Close = true
		}

		resp, err := t.Base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			// ctx 已取消：不再重试。
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// resty 会带上自己的默认 UA；这类 UA 很容易被站点拦截，统一替换为浏览器 UA。
func isDefaultUA(ua string) bool {
	return strings.HasPrefix(ua, "go-resty/") || strings.HasPrefix(ua, "Go-http-client/")
}

// Options 描述 NewTransport 的输入。
type Options struct {
	ProxyURL string
	Header   http.Header
	RetryMax int
}

// NewTransport 构造页面抓取用的 RoundTripper。
//
// 规则：
// - ProxyURL 非空：必须走代理，且禁用 keep-alive（每请求新连接）
// - 内置 UA 池：每个请求随机 UA
// - Header 固定注入
func NewTransport(opts Options) (*Transport, error) {
	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}

	disableKeepAlives := false
	proxyURL := strings.TrimSpace(opts.ProxyURL)
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		// proxy 模式强制每请求新连接（代理池轮换依赖该行为）。
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}

	return &Transport{
		Base:              base,
		ua:                globalUA,
		Header:            opts.Header.Clone(),
		RetryMax:          opts.RetryMax,
		DisableKeepAlives: disableKeepAlives,
	}, nil
}

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var globalUA = newUAPool()

func newUAPool() *uaPool {
	uas := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: uas,
	}
}
