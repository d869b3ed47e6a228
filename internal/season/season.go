// Package season 实现赛季结果 CSV 的下载：拼 URL → 单次 GET → 原样落盘。
package season

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/John-Robertt/plfetch/internal/domain"
	"github.com/John-Robertt/plfetch/internal/infra/fsx"
	"github.com/John-Robertt/plfetch/internal/infra/httpx"
)

const codePlaceholder = "{code}"

// Fetcher 下载单个赛季的数据文件。
//
// 约束：
// - 每个 SeasonSpec 只发一次 GET；不重试、不缓存、不并发
// - 只有 HTTP 200 才落盘，body 原样写入（不解析、不转换）
// - 失败只记录并返回，不向调用方抛出
type Fetcher struct {
	Client *http.Client
	Logger zerolog.Logger

	// URLTemplate 中的 {code} 会被替换为 SeasonSpec.Code。
	URLTemplate string
	OutDir      string
	FilePrefix  string
}

// URL 返回 spec 对应的远端地址（确定性：相同 code => 相同 URL）。
func (f *Fetcher) URL(spec domain.SeasonSpec) string {
	return strings.ReplaceAll(f.URLTemplate, codePlaceholder, url.PathEscape(spec.Code))
}

// FilePath 返回 spec 对应的本地文件路径：<OutDir>/<FilePrefix>_<Label>.csv
func (f *Fetcher) FilePath(spec domain.SeasonSpec) string {
	return filepath.Join(f.OutDir, f.fileName(spec))
}

func (f *Fetcher) fileName(spec domain.SeasonSpec) string {
	return f.FilePrefix + "_" + spec.Label + ".csv"
}

// Fetch 下载一个赛季。无论成败都会输出一行日志。
//
// 调用方需保证 OutDir 已存在（Run 会先 EnsureDir）。
func (f *Fetcher) Fetch(ctx context.Context, spec domain.SeasonSpec) domain.DownloadResult {
	res := domain.DownloadResult{Spec: spec}

	if err := spec.Validate(); err != nil {
		res.Err = err
		f.logFailure(res)
		return res
	}
	res.URL = f.URL(spec)

	body, err := f.get(ctx, res.URL)
	if err != nil {
		res.StatusCode = httpx.StatusCode(err)
		res.Err = err
		f.logFailure(res)
		return res
	}

	if err := fsx.WriteFileAtomicReplace(f.OutDir, f.fileName(spec), body); err != nil {
		res.StatusCode = http.StatusOK
		res.Err = &WriteError{Path: f.FilePath(spec), Err: err}
		f.logFailure(res)
		return res
	}

	res.Path = f.FilePath(spec)
	res.Bytes = int64(len(body))
	res.StatusCode = http.StatusOK
	f.Logger.Info().
		Str("season", spec.Label).
		Str("path", res.Path).
		Int64("bytes", res.Bytes).
		Msg("已下载")
	return res
}

// Run 按顺序下载 specs，并汇总为 RunReport。
//
// 输出目录在循环开始前创建一次（幂等）；创建失败属于致命错误，直接返回。
// 单个赛季失败不影响其它赛季。
func (f *Fetcher) Run(ctx context.Context, specs []domain.SeasonSpec) (domain.RunReport, error) {
	rr := domain.NewRunReport("seasons", f.OutDir)

	if err := fsx.EnsureDir(f.OutDir); err != nil {
		return rr, fmt.Errorf("创建输出目录失败：%w", err)
	}

	for _, spec := range specs {
		res := f.Fetch(ctx, spec)
		rr.Items = append(rr.Items, itemFromResult(res))
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, nil
}

// WriteError 表示下载成功但写文件失败。
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("写入 %q 失败：%v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (f *Fetcher) get(ctx context.Context, u string) ([]byte, error) {
	if f.Client == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 读掉少量 body，方便连接复用；内容本身不关心。
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &httpx.HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func (f *Fetcher) logFailure(res domain.DownloadResult) {
	ev := f.Logger.Warn().
		Str("season", res.Spec.Label).
		Str("url", res.URL)
	if res.StatusCode != 0 {
		ev = ev.Int("status", res.StatusCode)
	}
	ev.Err(res.Err).Msg("下载失败")
}

func itemFromResult(res domain.DownloadResult) domain.ItemResult {
	it := domain.ItemResult{
		Season:     res.Spec.String(),
		URL:        res.URL,
		HTTPStatus: res.StatusCode,
	}
	if res.OK() {
		it.Status = domain.StatusDownloaded
		it.Path = res.Path
		it.Bytes = res.Bytes
		return it
	}

	it.Status = domain.StatusFailed
	it.ErrorMsg = res.Err.Error()

	var we *WriteError
	switch {
	case res.URL == "":
		it.ErrorCode = domain.ErrCodeInvalidSpec
	case errors.As(res.Err, &we):
		it.ErrorCode = domain.ErrCodeIOFailed
	case httpx.StatusCode(res.Err) != 0:
		it.ErrorCode = domain.ErrCodeHTTPStatus
	default:
		it.ErrorCode = domain.ErrCodeFetchFailed
	}
	return it
}
