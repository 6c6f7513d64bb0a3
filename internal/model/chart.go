package model

const (
	ChartValue    = "value"
	ChartGrowth   = "growth"
	ChartDividend = "dividend"
)

var ChartTypes = []string{ChartValue, ChartGrowth, ChartDividend}

type ChartData struct {
	ID     FlexString   `json:"id"`
	Title  string       `json:"title"`
	Labels []string     `json:"labels"`
	Values []FlexString `json:"values"`
}

func IsChartType(t string) bool {
	for _, ct := range ChartTypes {
		if ct == t {
			return true
		}
	}
	return false
}
