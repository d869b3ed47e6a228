package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"github.com/John-Robertt/plfetch/internal/domain"
)

const (
	// ErrCodeNotFound 表示显式指定的 --config 文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultFileName 是 cwd 下自动发现的配置文件名（可选）。
	DefaultFileName = "plfetch.json"

	DefaultOutDir          = "Data"
	DefaultFilePrefix      = "Premier_League"
	DefaultSeasonURL       = "https://www.football-data.co.uk/mmz4281/{code}/E0.csv"
	DefaultMarketBaseURL   = "https://www.transfermarkt.com/premier-league/startseite/wettbewerb/GB1/saison_id/"
	DefaultMarketOutDir    = "."
	DefaultMarketFrom      = 2004
	DefaultMarketTo        = 2024
	DefaultMarketRate      = 1
	DefaultMarketUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// CodePlaceholder 是 season_url_template 中被替换为 season code 的占位符。
	CodePlaceholder = "{code}"
)

// CLIArgs 是 CLI 暴露的覆盖项，*Set 记录是否显式指定（对应 cobra 的 Flags().Changed）。
// 只有显式给出的值才覆盖配置文件。
type CLIArgs struct {
	ConfigPath string

	OutDir    string
	OutDirSet bool

	FilePrefix    string
	FilePrefixSet bool

	URLTemplate    string
	URLTemplateSet bool

	// Seasons 非空时替换配置文件/内置的赛季列表。
	Seasons []domain.SeasonSpec

	MarketOutDir    string
	MarketOutDirSet bool

	From    int
	FromSet bool

	To    int
	ToSet bool
}

// FileConfig 对应 plfetch.json（JSON5：允许注释与尾逗号）的解析结构。
type FileConfig struct {
	OutDir      string        `json:"out_dir"`
	FilePrefix  string        `json:"file_prefix"`
	URLTemplate string        `json:"season_url_template"`
	Seasons     []SeasonEntry `json:"seasons"`

	UserAgent string       `json:"user_agent"`
	Proxy     *ProxyConfig `json:"proxy"`
	Timeout   string       `json:"timeout"` // time.ParseDuration 格式，例如 "30s"；空表示不设置

	Market MarketConfig `json:"market_values"`
}

type SeasonEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

type MarketConfig struct {
	BaseURL   string `json:"base_url"`
	OutDir    string `json:"out_dir"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	UserAgent string `json:"user_agent"`
	// RatePerSecond：0 使用默认值；负数表示不限速。
	RatePerSecond int `json:"rate_per_second"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	OutDir      string
	FilePrefix  string
	URLTemplate string
	Seasons     []domain.SeasonSpec

	UserAgent string
	ProxyURL  string
	Timeout   time.Duration

	MarketBaseURL   string
	MarketOutDir    string
	MarketFrom      int
	MarketTo        int
	MarketUserAgent string
	// MarketRatePerSecond 为 0 表示不限速。
	MarketRatePerSecond int
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Defaults 返回内置默认配置（等价于一个“写满默认值”的 plfetch.json）。
func Defaults() FileConfig {
	seasons := domain.DefaultSeasons()
	entries := make([]SeasonEntry, 0, len(seasons))
	for _, s := range seasons {
		entries = append(entries, SeasonEntry{Code: s.Code, Label: s.Label})
	}
	return FileConfig{
		OutDir:      DefaultOutDir,
		FilePrefix:  DefaultFilePrefix,
		URLTemplate: DefaultSeasonURL,
		Seasons:     entries,
		Market: MarketConfig{
			BaseURL:       DefaultMarketBaseURL,
			OutDir:        DefaultMarketOutDir,
			From:          DefaultMarketFrom,
			To:            DefaultMarketTo,
			UserAgent:     DefaultMarketUserAgent,
			RatePerSecond: DefaultMarketRate,
		},
	}
}

// LoadEffective 发现并读取配置文件，然后与内置默认值、CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 --config：必须存在
// 2) 未提供：尝试读取 <cwd>/plfetch.json（可选）
//
// 覆盖优先级（固定）：CLI > 配置文件 > 内置默认。
// 相对路径（out_dir 等）以 cwd 为基准解析为绝对路径。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, DefaultFileName)
	required := false
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		required = true
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if required && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}

	// 配置文件未给出的字段用内置默认补齐（mergo 只填充零值字段）。
	if err := mergo.Merge(&fc, Defaults()); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return merge(cwdAbs, cli, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	invalid := func(format string, args ...any) error {
		return &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf(format, args...)}
	}

	outDir := fc.OutDir
	if cli.OutDirSet {
		outDir = cli.OutDir
	}
	if strings.TrimSpace(outDir) == "" {
		return EffectiveConfig{}, invalid("out_dir 不能为空")
	}

	prefix := fc.FilePrefix
	if cli.FilePrefixSet {
		prefix = cli.FilePrefix
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.ContainsAny(prefix, `/\`) || strings.Contains(prefix, "..") {
		return EffectiveConfig{}, invalid("file_prefix 非法：%q", prefix)
	}

	tmpl := fc.URLTemplate
	if cli.URLTemplateSet {
		tmpl = cli.URLTemplate
	}
	tmpl = strings.TrimSpace(tmpl)
	if err := validateURLTemplate(tmpl); err != nil {
		return EffectiveConfig{}, invalid("season_url_template 无效：%v", err)
	}

	var seasons []domain.SeasonSpec
	if len(cli.Seasons) > 0 {
		seasons = append(seasons, cli.Seasons...)
	} else {
		for i, e := range fc.Seasons {
			s := domain.SeasonSpec{Code: strings.TrimSpace(e.Code), Label: strings.TrimSpace(e.Label)}
			if _, err := domain.ParseSeasonSpec(s.String()); err != nil {
				return EffectiveConfig{}, invalid("seasons[%d] 无效：%v", i, err)
			}
			seasons = append(seasons, s)
		}
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return EffectiveConfig{}, invalid("proxy.url 无效：%q", proxyURL)
		}
	}

	var timeout time.Duration
	if s := strings.TrimSpace(fc.Timeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			return EffectiveConfig{}, invalid("timeout 无效：%q", s)
		}
		timeout = d
	}

	marketBase := strings.TrimSpace(fc.Market.BaseURL)
	if err := validateHTTPURL(marketBase); err != nil {
		return EffectiveConfig{}, invalid("market_values.base_url 无效：%v", err)
	}

	marketOut := fc.Market.OutDir
	if cli.MarketOutDirSet {
		marketOut = cli.MarketOutDir
	}
	if strings.TrimSpace(marketOut) == "" {
		return EffectiveConfig{}, invalid("market_values.out_dir 不能为空")
	}

	from, to := fc.Market.From, fc.Market.To
	if cli.FromSet {
		from = cli.From
	}
	if cli.ToSet {
		to = cli.To
	}
	if from <= 0 || to <= 0 {
		return EffectiveConfig{}, invalid("赛季年份必须为正数：from=%d to=%d", from, to)
	}
	if from > to {
		return EffectiveConfig{}, invalid("from 不能大于 to：from=%d to=%d", from, to)
	}

	rate := fc.Market.RatePerSecond
	if rate < 0 {
		rate = 0
	}

	return EffectiveConfig{
		OutDir:      absCleanFrom(cwdAbs, outDir),
		FilePrefix:  prefix,
		URLTemplate: tmpl,
		Seasons:     seasons,

		UserAgent: strings.TrimSpace(fc.UserAgent),
		ProxyURL:  proxyURL,
		Timeout:   timeout,

		MarketBaseURL:       marketBase,
		MarketOutDir:        absCleanFrom(cwdAbs, marketOut),
		MarketFrom:          from,
		MarketTo:            to,
		MarketUserAgent:     strings.TrimSpace(fc.Market.UserAgent),
		MarketRatePerSecond: rate,
	}, nil
}

func validateURLTemplate(tmpl string) error {
	if !strings.Contains(tmpl, CodePlaceholder) {
		return fmt.Errorf("必须包含占位符 %s：%q", CodePlaceholder, tmpl)
	}
	return validateHTTPURL(strings.ReplaceAll(tmpl, CodePlaceholder, "0000"))
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("必须是 http/https：%q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("缺少 host：%q", raw)
	}
	return nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON5 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json5.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
