package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/plfetch/internal/config"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

// app 持有一次 CLI 调用的环境（便于测试替换 cwd/stdout/stderr）。
type app struct {
	cwd    string
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	logger zerolog.Logger
}

// exitError 把错误映射为进程退出码。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(err error) error { return &exitError{code: exitUsage, err: err} }
func fatalErr(err error) error { return &exitError{code: exitFatal, err: err} }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "plfetch",
		Short:         "plfetch 下载英超赛季结果 CSV，并抓取各赛季俱乐部身价表。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(a.stderr, a.logLevel, a.logFormat)
			if err != nil {
				return usageErr(err)
			}
			a.logger = l
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", fmt.Sprintf("配置文件路径（默认读取当前目录下的 %s，不存在则忽略）", config.DefaultFileName))
	pf.StringVar(&a.logLevel, "log-level", "info", "日志级别：debug|info|warn|error")
	pf.StringVar(&a.logFormat, "log-format", "auto", "日志格式：auto|console|json（auto：stderr 为终端时用 console）")

	root.AddCommand(newSeasonsCmd(a), newMarketValuesCmd(a))
	return root
}

// execute 运行 CLI 并返回退出码：
// 0 正常完成（即使部分赛季失败）；1 致命错误；2 参数/配置错误。
func execute(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(a.stderr, "错误：%v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// cobra 自身的参数解析错误（未知 flag 等）。
	return exitUsage
}
