package marketvalue

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/plfetch/internal/domain"
)

const (
	rowSelector   = "table.items > tbody > tr"
	clubSelector  = "td.hauptlink a"
	valueSelector = "td.rechts"
)

// Parse 从联赛首页 HTML 中提取“俱乐部 + 总身价”表格。
//
// 约束：
// - 纯函数：相同输入 => 相同输出
// - 缺少俱乐部名或身价单元格的行直接跳过（表头/分隔行/广告行）
// - 站点结构变化时返回空切片而不是错误：无法区分“没有数据”与“选择器失效”
func Parse(html []byte) ([]domain.ClubValue, error) {
	if len(html) == 0 {
		return nil, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	out := make([]domain.ClubValue, 0, 20)
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		club := row.Find(clubSelector).First()
		value := row.Find(valueSelector).First()
		if club.Length() == 0 || value.Length() == 0 {
			return
		}
		out = append(out, domain.ClubValue{
			Club:             strings.TrimSpace(club.Text()),
			TotalMarketValue: strings.TrimSpace(value.Text()),
		})
	})
	return out, nil
}
