package dashboardService

import (
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalcPortfolioStats sums the draft rows. Decimal sums make the result
// independent of row order.
func CalcPortfolioStats(rows []model.PortfolioStock) model.PortfolioStats {
	ret := decimal.Zero
	risk := decimal.Zero
	total := decimal.Zero

	for _, row := range rows {
		ret = ret.Add(decimal.NewFromFloat(row.WeightedExpectedReturn.Float64()))
		risk = risk.Add(decimal.NewFromFloat(row.ExpectedAnnualRisk.Float64()).Mul(decimal.NewFromFloat(row.Weight.Float64())))
		total = total.Add(decimal.NewFromFloat(row.InvestedAmount.Float64()))
	}

	return model.PortfolioStats{
		Return:     ret.Mul(hundred),
		Risk:       risk.Mul(hundred),
		TotalValue: total,
	}
}
