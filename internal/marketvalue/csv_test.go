package marketvalue

import (
	"bytes"
	"strings"
	"testing"

	"github.com/John-Robertt/plfetch/internal/domain"
)

func TestEncodeCSV(t *testing.T) {
	b, err := EncodeCSV([]domain.ClubValue{
		{Club: "Arsenal FC", TotalMarketValue: "€1.12bn"},
		{Club: "Brighton, Hove", TotalMarketValue: "€545.35m"},
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	want := "Club,Total Market Value\nArsenal FC,€1.12bn\n\"Brighton, Hove\",€545.35m\n"
	if string(b) != want {
		t.Fatalf("CSV 不符合预期：\n%q\n%q", string(b), want)
	}
}

func TestEncodeCSV_EmptyHasHeader(t *testing.T) {
	b, err := EncodeCSV(nil)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if string(b) != "Club,Total Market Value\n" {
		t.Fatalf("空表应只有表头，实际 %q", string(b))
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, 2024, []domain.ClubValue{{Club: "Arsenal FC", TotalMarketValue: "€1.12bn"}})

	out := buf.String()
	for _, s := range []string{"2024", "Arsenal FC", "€1.12bn"} {
		if !strings.Contains(out, s) {
			t.Fatalf("输出缺少 %q：\n%s", s, out)
		}
	}
}
