package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/John-Robertt/plfetch/internal/domain"
	"github.com/John-Robertt/plfetch/internal/infra/fsx"
)

// newLogger 构造写往 w 的 zerolog logger。
// format=auto 时：w 是终端则用 ConsoleWriter，否则输出 JSON 行（方便被其它工具消费）。
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("--log-level 只能是 debug|info|warn|error，实际是 %q", level)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto":
		if f, ok := w.(*os.File); ok && isTTY(f) {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		}
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("--log-format 只能是 auto|console|json，实际是 %q", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// logEffective 在运行开始时打印生效配置（debug 级别之外只给出关键项）。
func logEffective(l zerolog.Logger, command, outDir, proxyURL string, timeout time.Duration) {
	l.Info().
		Str("command", command).
		Str("out", outDir).
		Str("proxy", formatProxy(proxyURL)).
		Str("timeout", formatTimeout(timeout)).
		Msg("开始")
}

// emitSummary 输出完成摘要；失败的条目逐条列出（URL + 原因），便于直接复制排查。
func emitSummary(l zerolog.Logger, rr domain.RunReport) {
	for _, it := range rr.Items {
		if it.Status != domain.StatusFailed {
			continue
		}
		l.Debug().Str("season", it.Season).Str("url", it.URL).Str("error_code", it.ErrorCode).Msg(it.ErrorMsg)
	}
	l.Info().
		Str("run_id", rr.RunID).
		Int("total", rr.Summary.Total).
		Int("downloaded", rr.Summary.Downloaded).
		Int("failed", rr.Summary.Failed).
		Str("elapsed", formatShortDuration(rr.FinishedAt.Sub(rr.StartedAt))).
		Msg("完成")
}

// writeReportFile 把 RunReport 以缩进 JSON 原子写入 path（覆盖）。
func writeReportFile(path string, rr domain.RunReport) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(filepath.Dir(path), filepath.Base(path), b)
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
	// 不输出凭据，只标记是否带 auth。
	auth := "off"
	if u.User != nil {
		auth = "on"
	}
	return fmt.Sprintf("on (%s://%s, auth=%s)", u.Scheme, u.Host, auth)
}

func formatTimeout(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
