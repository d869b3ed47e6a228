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

// Transport 在请求发出前补齐 User-Agent；其余行为完全交给 Base。
//
// 只尝试一次：失败由上层记录后跳过，不在这里重试。
type Transport struct {
	Base *http.Transport

	ua *uaPool

	// UserAgent 非空时固定使用该 UA；否则每个请求从内置 UA 池随机选择。
	// 调用方在 request 上显式设置的 User-Agent 优先级最高。
	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	if req.Header.Get("User-Agent") == "" {
		// RoundTripper 不能修改传入的 request。
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent())
	}
	return t.Base.RoundTrip(req)
}

func (t *Transport) userAgent() string {
	if ua := strings.TrimSpace(t.UserAgent); ua != "" {
		return ua
	}
	if t.ua == nil {
		return globalUA.random()
	}
	return t.ua.random()
}

// Options 描述一个 client 的网络策略。零值即直连、随机 UA、无总超时。
type Options struct {
	ProxyURL  string
	UserAgent string
	// Timeout 为整个请求（含读 body）的总超时；0 表示不设置，沿用 net/http 默认行为。
	Timeout time.Duration
}

// NewClient 按 Options 构造 HTTP client。
//
// 规则：
// - ProxyURL 非空：走代理（必须是合法 URL）
// - 每个请求都带 User-Agent（部分站点会拒绝无 UA 的请求）
// - 不做重试：失败由上层记录后跳过
func NewClient(opts Options) (*http.Client, error) {
	base := &http.Transport{
		Proxy:               nil,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if proxyURL := strings.TrimSpace(opts.ProxyURL); proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, errors.New("proxy url 缺少 scheme 或 host")
		}
		base.Proxy = http.ProxyURL(u)
	}

	tr := &Transport{
		Base:      base,
		ua:        globalUA,
		UserAgent: strings.TrimSpace(opts.UserAgent),
	}
	return &http.Client{
		Transport: tr,
		Timeout:   opts.Timeout,
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
