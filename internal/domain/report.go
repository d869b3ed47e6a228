package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDownloaded = "downloaded"
	StatusFailed     = "failed"
)

const (
	ErrCodeInvalidSpec = "invalid_spec"
	ErrCodeHTTPStatus  = "http_status"
	ErrCodeFetchFailed = "fetch_failed"
	ErrCodeParseFailed = "parse_failed"
	ErrCodeIOFailed    = "io_failed"
)

// RunReport 是一次运行的汇总（--report 落盘 / 日志摘要）。
type RunReport struct {
	RunID   string `json:"run_id"`
	Command string `json:"command"`
	OutDir  string `json:"out_dir"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

type ReportSummary struct {
	Total      int `json:"total"`
	Downloaded int `json:"downloaded"`
	Failed     int `json:"failed"`
}

// ItemResult 对应一个赛季（seasons 为 SeasonSpec，market-values 为 season id）。
type ItemResult struct {
	Season string `json:"season"`
	URL    string `json:"url"`

	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
	Rows   int    `json:"rows,omitempty"`

	HTTPStatus int    `json:"http_status,omitempty"`
	ErrorCode  string `json:"error_code,omitempty"`
	ErrorMsg   string `json:"error_msg,omitempty"`
}

// NewRunReport 生成带唯一 run_id 的空 report。
func NewRunReport(command, outDir string) RunReport {
	return RunReport{
		RunID:     uuid.NewString(),
		Command:   command,
		OutDir:    outDir,
		StartedAt: time.Now().UTC(),
		Items:     make([]ItemResult, 0, 32),
	}
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) summary 由 items 计算得出
//
// items 保持输入顺序（与处理顺序一致），不排序。
func (r *RunReport) Finalize() {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	s := ReportSummary{Total: len(r.Items)}
	for _, it := range r.Items {
		switch it.Status {
		case StatusDownloaded:
			s.Downloaded++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}
