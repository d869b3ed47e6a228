package domain

// ClubValue 是市场身价表中的一行：俱乐部名 + 总身价（保留站点原始文本，例如 "€1.27bn"）。
type ClubValue struct {
	Club             string
	TotalMarketValue string
}
