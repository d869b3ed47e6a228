package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNewClient_ProxyConfigured(t *testing.T) {
	c, err := NewClient(Options{ProxyURL: "http://127.0.0.1:8080"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("期望 *Transport，实际 %T", c.Transport)
	}
	if tr.Base.Proxy == nil {
		t.Fatalf("期望启用代理，但 Proxy=nil")
	}
}

func TestNewClient_DefaultsNoProxyNoTimeout(t *testing.T) {
	c, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr := c.Transport.(*Transport)
	if tr.Base.Proxy != nil {
		t.Fatalf("不期望启用代理，但 Proxy!=nil")
	}
	if c.Timeout != 0 {
		t.Fatalf("默认不应设置总超时，实际 %s", c.Timeout)
	}

	c2, err := NewClient(Options{Timeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if c2.Timeout != 3*time.Second {
		t.Fatalf("期望 Timeout=3s，实际 %s", c2.Timeout)
	}
}

func TestNewClient_InvalidProxyURL(t *testing.T) {
	if _, err := NewClient(Options{ProxyURL: "http://[::1"}); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if _, err := NewClient(Options{ProxyURL: "127.0.0.1:8080"}); err == nil {
		t.Fatalf("缺少 scheme 时期望错误，但得到 nil")
	}
}

func TestTransport_SetsUserAgent(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("User-Agent"))
		mu.Unlock()
	}))
	defer srv.Close()

	fixed, err := NewClient(Options{UserAgent: "plfetch-test/1.0"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	pooled, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	for _, c := range []*http.Client{fixed, pooled} {
		resp, err := c.Get(srv.URL)
		if err != nil {
			t.Fatalf("请求失败：%v", err)
		}
		resp.Body.Close()
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("期望 2 次请求，实际 %d", len(got))
	}
	if got[0] != "plfetch-test/1.0" {
		t.Fatalf("期望固定 UA，实际 %q", got[0])
	}
	if got[1] == "" {
		t.Fatalf("UA 池模式下 User-Agent 不应为空")
	}
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &HTTPStatusError{URL: "https://x.test/a", StatusCode: 404})
	if StatusCode(err) != 404 {
		t.Fatalf("期望 404，实际 %d", StatusCode(err))
	}
	if StatusCode(errors.New("dial tcp: refused")) != 0 {
		t.Fatalf("传输层错误应返回 0")
	}
}
