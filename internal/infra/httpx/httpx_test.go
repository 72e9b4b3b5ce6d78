package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewTransport_ProxyDisablesKeepAlive(t *testing.T) {
	tr, err := NewTransport(Options{ProxyURL: "http://127.0.0.1:8080"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if tr.Base.Proxy == nil {
		t.Fatalf("期望启用代理，但 Proxy=nil")
	}
	if !tr.Base.DisableKeepAlives {
		t.Fatalf("期望禁用 keep-alive，但 Base.DisableKeepAlives=false")
	}
	if !tr.DisableKeepAlives {
		t.Fatalf("期望设置 Request.Close=true 的额外保险，但 DisableKeepAlives=false")
	}
}

func TestNewTransport_NoProxyKeepsDefault(t *testing.T) {
	tr, err := NewTransport(Options{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if tr.Base.Proxy != nil {
		t.Fatalf("不期望启用代理，但 Proxy!=nil")
	}
	if tr.Base.DisableKeepAlives {
		t.Fatalf("不期望禁用 keep-alive，但 Base.DisableKeepAlives=true")
	}
	if tr.RetryMax != 0 {
		t.Fatalf("期望默认不重试，实际 RetryMax=%d", tr.RetryMax)
	}
}

func TestNewTransport_InvalidProxyURL(t *testing.T) {
	_, err := NewTransport(Options{ProxyURL: "http://[::1"})
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}

func TestTransport_InjectsFixedHeaderAndBrowserUA(t *testing.T) {
	var gotLang, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.Header.Get("Accept-Language")
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	tr, err := NewTransport(Options{Header: http.Header{"Accept-Language": {"en-US;en"}}})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "go-resty/2.13.1 (https://github.com/go-resty/resty)")
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp.Body.Close()

	if gotLang != "en-US;en" {
		t.Fatalf("期望 Accept-Language=en-US;en，实际=%q", gotLang)
	}
	if gotUA == "" || isDefaultUA(gotUA) {
		t.Fatalf("期望浏览器 UA，实际=%q", gotUA)
	}
	if req.Header.Get("Accept-Language") != "" {
		t.Fatalf("不应修改调用方的 request")
	}
}

type failingRT struct{ calls int }

func (f *failingRT) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, errors.New("dial failed")
}

func TestTransport_BoundedRetry(t *testing.T) {
	tr, _ := NewTransport(Options{RetryMax: 2})
	// 用不可达地址验证有界重试：总尝试次数 = RetryMax+1。
	tr.Base = &http.Transport{}
	ft := &failingRT{}
	tr.Base.RegisterProtocol("fail", ft)

	req, _ := http.NewRequest(http.MethodGet, "fail://x/y", nil)
	if _, err := tr.RoundTrip(req); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if ft.calls != 3 {
		t.Fatalf("期望尝试 3 次，实际 %d", ft.calls)
	}
}
