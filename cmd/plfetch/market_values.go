package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/plfetch/internal/config"
	"github.com/John-Robertt/plfetch/internal/infra/httpx"
	"github.com/John-Robertt/plfetch/internal/marketvalue"
)

func newMarketValuesCmd(a *app) *cobra.Command {
	var (
		from       int
		to         int
		outDir     string
		reportPath string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "market-values",
		Short: "抓取各赛季英超俱乐部总身价表并写出 CSV",
		Long: `依次抓取 [from, to] 区间内每个赛季（起始年份）的俱乐部身价表，
打印到 stdout，并写入 <out>/premier_league_market_values_<season>.csv。

页面结构变化时会得到空表（只有表头的 CSV），并输出一条警告。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			eff, err := config.LoadEffective(a.cwd, config.CLIArgs{
				ConfigPath:      a.configPath,
				MarketOutDir:    outDir,
				MarketOutDirSet: flags.Changed("out"),
				From:            from,
				FromSet:         flags.Changed("from"),
				To:              to,
				ToSet:           flags.Changed("to"),
			})
			if err != nil {
				return usageErr(err)
			}

			client, err := httpx.NewClient(httpx.Options{
				ProxyURL:  eff.ProxyURL,
				UserAgent: eff.MarketUserAgent,
				Timeout:   eff.Timeout,
			})
			if err != nil {
				return usageErr(fmt.Errorf("初始化 http client 失败：%w", err))
			}

			logEffective(a.logger, "market-values", eff.MarketOutDir, eff.ProxyURL, eff.Timeout)

			s := &marketvalue.Scraper{
				Client:    client,
				Logger:    a.logger,
				BaseURL:   eff.MarketBaseURL,
				UserAgent: eff.MarketUserAgent,
				OutDir:    eff.MarketOutDir,
				Limiter:   marketvalue.NewLimiter(eff.MarketRatePerSecond),
			}
			if !quiet {
				s.Stdout = a.stdout
			}

			rr, err := s.Run(cmd.Context(), eff.MarketFrom, eff.MarketTo)
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
	fl.IntVar(&from, "from", config.DefaultMarketFrom, "起始赛季（起始年份，含）")
	fl.IntVar(&to, "to", config.DefaultMarketTo, "结束赛季（起始年份，含）")
	fl.StringVar(&outDir, "out", config.DefaultMarketOutDir, "输出目录（不存在则创建）")
	fl.StringVar(&reportPath, "report", "", "把运行结果写为 JSON 报告（可选）")
	fl.BoolVarP(&quiet, "quiet", "q", false, "不在 stdout 打印表格")
	return cmd
}
