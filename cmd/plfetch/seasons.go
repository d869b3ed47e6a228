package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/plfetch/internal/config"
	"github.com/John-Robertt/plfetch/internal/domain"
	"github.com/John-Robertt/plfetch/internal/infra/httpx"
	"github.com/John-Robertt/plfetch/internal/season"
)

func newSeasonsCmd(a *app) *cobra.Command {
	var (
		outDir      string
		prefix      string
		urlTemplate string
		reportPath  string
	)

	cmd := &cobra.Command{
		Use:   "seasons [code=label ...]",
		Short: "下载各赛季的比赛结果 CSV（默认 2007-2008 至 2024-2025）",
		Long: `按固定列表依次下载赛季结果 CSV，写入 <out>/<prefix>_<label>.csv。

不带参数时使用内置（或配置文件中的）赛季列表；也可以用 code=label 指定，例如：
  plfetch seasons 2425=2024-2025 2324=2023-2024

单个赛季下载失败只记录日志并跳过，不影响退出码。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := make([]domain.SeasonSpec, 0, len(args))
			for _, s := range args {
				spec, err := domain.ParseSeasonSpec(s)
				if err != nil {
					return usageErr(err)
				}
				specs = append(specs, spec)
			}

			flags := cmd.Flags()
			eff, err := config.LoadEffective(a.cwd, config.CLIArgs{
				ConfigPath:     a.configPath,
				OutDir:         outDir,
				OutDirSet:      flags.Changed("out"),
				FilePrefix:     prefix,
				FilePrefixSet:  flags.Changed("prefix"),
				URLTemplate:    urlTemplate,
				URLTemplateSet: flags.Changed("url-template"),
				Seasons:        specs,
			})
			if err != nil {
				return usageErr(err)
			}

			client, err := httpx.NewClient(httpx.Options{
				ProxyURL:  eff.ProxyURL,
				UserAgent: eff.UserAgent,
				Timeout:   eff.Timeout,
			})
			if err != nil {
				return usageErr(fmt.Errorf("初始化 http client 失败：%w", err))
			}

			logEffective(a.logger, "seasons", eff.OutDir, eff.ProxyURL, eff.Timeout)

			f := &season.Fetcher{
				Client:      client,
				Logger:      a.logger,
				URLTemplate: eff.URLTemplate,
				OutDir:      eff.OutDir,
				FilePrefix:  eff.FilePrefix,
			}
			rr, err := f.Run(cmd.Context(), eff.Seasons)
			if err != nil {
				return fatalErr(err)
			}

			if reportPath != "" {
				p := reportPath
				if !filepath.IsAbs(p) {
					p = filepath.Join(a.cwd, p)
				}
				if err := writeReportFile(p, rr); err != nil {
					return fatalErr(fmt.Errorf("写入 report 失败：%w", err))
				}
			}
			emitSummary(a.logger, rr)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&outDir, "out", config.DefaultOutDir, "输出目录（不存在则创建）")
	fl.StringVar(&prefix, "prefix", config.DefaultFilePrefix, "输出文件名前缀")
	fl.StringVar(&urlTemplate, "url-template", config.DefaultSeasonURL, "下载地址模板，{code} 会被替换为赛季代码")
	fl.StringVar(&reportPath, "report", "", "把运行结果写为 JSON 报告（可选）")
	return cmd
}
