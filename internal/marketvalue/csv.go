package marketvalue

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/John-Robertt/plfetch/internal/domain"
)

var csvHeader = []string{"Club", "Total Market Value"}

// EncodeCSV 把一个赛季的表格编码为 CSV（带表头、无行号列）。
func EncodeCSV(rows []domain.ClubValue) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Club, r.TotalMarketValue}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTable 把一个赛季的表格以人类可读的形式输出到 w（通常是 stdout）。
func RenderTable(w io.Writer, season int, rows []domain.ClubValue) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Season %d", season))
	t.AppendHeader(table.Row{"#", csvHeader[0], csvHeader[1]})
	for i, r := range rows {
		t.AppendRow(table.Row{i, r.Club, r.TotalMarketValue})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
