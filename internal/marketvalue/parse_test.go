package marketvalue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/John-Robertt/plfetch/internal/domain"
)

func TestParse_Fixture(t *testing.T) {
	html, err := os.ReadFile(filepath.Join("testdata", "gb1_2024.html"))
	if err != nil {
		t.Fatalf("读取 fixture 失败：%v", err)
	}

	got, err := Parse(html)
	if err != nil {
		t.Fatalf("Parse 失败：%v", err)
	}

	// 每行取第一个 td.rechts（与站点列顺序一致）；缺少俱乐部链接的行被跳过。
	want := []domain.ClubValue{
		{Club: "Manchester City", TotalMarketValue: "€46.56m"},
		{Club: "Arsenal FC", TotalMarketValue: "€46.79m"},
		{Club: "Brighton & Hove Albion", TotalMarketValue: "€16.53m"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("解析结果不符合预期 (-want +got):\n%s", diff)
	}
}

func TestParse_LayoutChangedYieldsEmpty(t *testing.T) {
	html := []byte(`<html><body><table class="renamed"><tbody><tr><td class="hauptlink"><a>X</a></td><td class="rechts">€1m</td></tr></tbody></table></body></html>`)

	got, err := Parse(html)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("期望空结果，实际 %+v", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}
