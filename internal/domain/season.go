package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// SeasonSpec 描述一个赛季的下载目标：Code 用于拼远端 URL，Label 用于拼本地文件名。
//
// 约束：构造后不再修改；Code 必须非空，其余不做校验（不存在的 Code 只会得到非 200 响应）。
type SeasonSpec struct {
	Code  string
	Label string
}

func (s SeasonSpec) String() string { return s.Code + "=" + s.Label }

// Validate 只校验 Code 非空。
func (s SeasonSpec) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return errors.New("season code 不能为空")
	}
	return nil
}

// DefaultSeasons 返回固定的赛季列表（新赛季在前），每次调用返回新切片。
func DefaultSeasons() []SeasonSpec {
	return []SeasonSpec{
		{Code: "2425", Label: "2024-2025"},
		{Code: "2324", Label: "2023-2024"},
		{Code: "2223", Label: "2022-2023"},
		{Code: "2122", Label: "2021-2022"},
		{Code: "2021", Label: "2020-2021"},
		{Code: "1920", Label: "2019-2020"},
		{Code: "1819", Label: "2018-2019"},
		{Code: "1718", Label: "2017-2018"},
		{Code: "1617", Label: "2016-2017"},
		{Code: "1516", Label: "2015-2016"},
		{Code: "1415", Label: "2014-2015"},
		{Code: "1314", Label: "2013-2014"},
		{Code: "1213", Label: "2012-2013"},
		{Code: "1112", Label: "2011-2012"},
		{Code: "1011", Label: "2010-2011"},
		{Code: "0910", Label: "2009-2010"},
		{Code: "0809", Label: "2008-2009"},
		{Code: "0708", Label: "2007-2008"},
	}
}

// label 会直接进入文件名：禁止路径分隔符与 ".."。
var labelRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ParseSeasonSpec 解析 CLI 形态的 "code=label"（例如 "2425=2024-2025"）。
func ParseSeasonSpec(s string) (SeasonSpec, error) {
	code, label, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return SeasonSpec{}, fmt.Errorf("赛季参数必须形如 code=label，实际是 %q", s)
	}
	spec := SeasonSpec{Code: strings.TrimSpace(code), Label: strings.TrimSpace(label)}
	if err := spec.Validate(); err != nil {
		return SeasonSpec{}, err
	}
	if !labelRE.MatchString(spec.Label) || strings.Contains(spec.Label, "..") {
		return SeasonSpec{}, fmt.Errorf("非法 season label：%q", spec.Label)
	}
	return spec, nil
}
