// Package marketvalue 抓取 transfermarkt 英超首页的俱乐部身价表，并按赛季写出 CSV。
package marketvalue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"

	"github.com/John-Robertt/plfetch/internal/domain"
	"github.com/John-Robertt/plfetch/internal/infra/fsx"
	"github.com/John-Robertt/plfetch/internal/infra/httpx"
)

// Scraper 按赛季顺序抓取、解析、打印并写出身价表。
//
// 约束：
// - 顺序执行；每个赛季一次 GET，不重试
// - 请求之间由 Limiter 控速（nil 表示不限速）
// - 单个赛季失败只记录并跳过，不留下该赛季的文件
type Scraper struct {
	Client *http.Client
	Logger zerolog.Logger

	// BaseURL 形如 ".../saison_id/"，末尾拼接赛季起始年份。
	BaseURL   string
	UserAgent string
	OutDir    string

	Limiter ratelimit.Limiter
	// Stdout 非 nil 时输出每个赛季的表格。
	Stdout io.Writer
}

// NewLimiter 返回每秒最多 perSecond 次请求的限速器；perSecond<=0 表示不限速。
func NewLimiter(perSecond int) ratelimit.Limiter {
	if perSecond <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(perSecond)
}

// URL 返回 season（起始年份）对应的页面地址。
func (s *Scraper) URL(season int) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + strconv.Itoa(season)
}

// FileName 返回 season 对应的 CSV 文件名。
func FileName(season int) string {
	return fmt.Sprintf("premier_league_market_values_%d.csv", season)
}

// Fetch 抓取一个赛季的页面 HTML。非 2xx 返回 *httpx.HTTPStatusError。
func (s *Scraper) Fetch(ctx context.Context, season int) ([]byte, string, error) {
	if s.Client == nil {
		return nil, "", errors.New("http client 不能为空")
	}
	pageURL := s.URL(season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, pageURL, err
	}
	if ua := strings.TrimSpace(s.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	if s.Limiter != nil {
		s.Limiter.Take()
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, pageURL, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pageURL, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pageURL, &httpx.HTTPStatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}
	return b, pageURL, nil
}

// Run 依次处理 [from, to] 区间内的每个赛季。
//
// 输出目录在循环开始前创建一次；创建失败或区间非法属于致命错误。
func (s *Scraper) Run(ctx context.Context, from, to int) (domain.RunReport, error) {
	rr := domain.NewRunReport("market-values", s.OutDir)
	if from > to {
		return rr, fmt.Errorf("from 不能大于 to：from=%d to=%d", from, to)
	}
	if err := fsx.EnsureDir(s.OutDir); err != nil {
		return rr, fmt.Errorf("创建输出目录失败：%w", err)
	}

	for season := from; season <= to; season++ {
		rr.Items = append(rr.Items, s.runOne(ctx, season))
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, nil
}

func (s *Scraper) runOne(ctx context.Context, season int) domain.ItemResult {
	item := domain.ItemResult{
		Season: strconv.Itoa(season),
		URL:    s.URL(season),
	}
	fail := func(code string, err error) domain.ItemResult {
		item.Status = domain.StatusFailed
		item.ErrorCode = code
		item.ErrorMsg = err.Error()
		item.HTTPStatus = httpx.StatusCode(err)
		ev := s.Logger.Warn().Int("season", season).Str("url", item.URL)
		if item.HTTPStatus != 0 {
			ev = ev.Int("status", item.HTTPStatus)
		}
		ev.Str("error_code", code).Err(err).Msg("抓取失败")
		return item
	}

	html, _, err := s.Fetch(ctx, season)
	if err != nil {
		if httpx.StatusCode(err) != 0 {
			return fail(domain.ErrCodeHTTPStatus, err)
		}
		return fail(domain.ErrCodeFetchFailed, err)
	}

	rows, err := Parse(html)
	if err != nil {
		return fail(domain.ErrCodeParseFailed, err)
	}
	if len(rows) == 0 {
		// 不算失败：照常写出只有表头的 CSV，但提示可能是页面结构变化。
		s.Logger.Warn().Int("season", season).Str("url", item.URL).Msg("未解析到任何俱乐部（页面结构可能已变化）")
	}

	if s.Stdout != nil {
		RenderTable(s.Stdout, season, rows)
	}

	b, err := EncodeCSV(rows)
	if err != nil {
		return fail(domain.ErrCodeIOFailed, err)
	}
	name := FileName(season)
	if err := fsx.WriteFileAtomicReplace(s.OutDir, name, b); err != nil {
		return fail(domain.ErrCodeIOFailed, err)
	}

	item.Status = domain.StatusDownloaded
	item.Path = filepath.Join(s.OutDir, name)
	item.Rows = len(rows)
	item.Bytes = int64(len(b))
	s.Logger.Info().Int("season", season).Int("rows", len(rows)).Str("path", item.Path).Msg("已保存")
	return item
}
