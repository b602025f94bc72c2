package domain

// AssetDetail is the rich per-instrument view behind the detail page. The
// embedded Asset carries the catalog fields; the rest is only populated
// where the instrument kind has it (supply figures for crypto, valuation
// ratios for equities).
type AssetDetail struct {
	Asset
	Description       string   `json:"description,omitempty"`
	Change7dPercent   float64  `json:"change7dPercent,omitempty"`
	Change30dPercent  float64  `json:"change30dPercent,omitempty"`
	AllTimeHigh       float64  `json:"allTimeHigh,omitempty"`
	AllTimeLow        float64  `json:"allTimeLow,omitempty"`
	CirculatingSupply float64  `json:"circulatingSupply,omitempty"`
	TotalSupply       float64  `json:"totalSupply,omitempty"`
	MaxSupply         float64  `json:"maxSupply,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	PERatio           float64  `json:"peRatio,omitempty"`
	DividendYield     float64  `json:"dividendYield,omitempty"`
	FiftyTwoWeekHigh  float64  `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow   float64  `json:"fiftyTwoWeekLow,omitempty"`
}
