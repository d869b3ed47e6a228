package domain

// DownloadResult 是一次赛季下载的瞬时结果，只用于日志与 report，不持久化。
//
// 成功（Err==nil）：Path + Bytes 有意义。
// 失败（Err!=nil）：StatusCode（传输层失败时为 0）+ URL 有意义，Path 为空。
type DownloadResult struct {
	Spec SeasonSpec
	URL  string

	Path  string
	Bytes int64

	StatusCode int
	Err        error
}

func (r DownloadResult) OK() bool { return r.Err == nil }
