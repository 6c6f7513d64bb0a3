package model

import "github.com/shopspring/decimal"

type PortfolioStock struct {
	Ticker                 string     `json:"Ticker"`
	Company                string     `json:"Company,omitempty"`
	Sector                 string     `json:"Sector,omitempty"`
	Index                  string     `json:"Index,omitempty"`
	Price                  FlexFloat  `json:"price"`
	Weight                 FlexFloat  `json:"weight"`
	InvestedAmount         FlexFloat  `json:"invested_amount"`
	TotalShares            FlexFloat  `json:"total_shares"`
	WeightedExpectedReturn FlexFloat  `json:"weighted_expected_return"`
	ExpectedAnnualReturn   FlexFloat  `json:"expected_annual_return"`
	ExpectedAnnualRisk     FlexFloat  `json:"expected_annual_risk"`
	Strength               FlexFloat  `json:"strength"`
	PortfolioID            FlexString `json:"portfolio_id,omitempty"`
	CreatedAt              string     `json:"created_at,omitempty"`
	PortfolioCount         int        `json:"portfolio_count,omitempty"`
}

type SavedPortfolio struct {
	Stocks      []PortfolioStock `json:"data"`
	PortfolioID FlexString       `json:"portfolio_id"`
	CreatedAt   string           `json:"created_at"`
	Count       int              `json:"count"`
}

// CreatedLabel is the first row's creation time, as the list view shows it.
func (p SavedPortfolio) CreatedLabel() string {
	if p.CreatedAt != "" {
		return p.CreatedAt
	}
	if len(p.Stocks) > 0 && p.Stocks[0].CreatedAt != "" {
		return p.Stocks[0].CreatedAt
	}
	return "Unknown date"
}

// PortfolioStats are display aggregates, in percent for Return and Risk.
type PortfolioStats struct {
	Return     decimal.Decimal
	Risk       decimal.Decimal
	TotalValue decimal.Decimal
}

type TopStockForm struct {
	Sector          string
	Index           string
	StockType       string
	InvestingAmount string
	MaxStockPrice   string
	RiskTolerance   string
}

func DefaultTopStockForm() TopStockForm {
	return TopStockForm{
		Sector:          "Any",
		Index:           "S&P 500",
		StockType:       "Value",
		InvestingAmount: "10000",
		MaxStockPrice:   "100",
		RiskTolerance:   "Medium",
	}
}

type CustomPortfolioForm struct {
	StockType           string
	ExpectedReturnValue string
	InvestingAmount     string
	RiskTolerance       string
	SelectedStocks      []string
}

func DefaultCustomPortfolioForm() CustomPortfolioForm {
	return CustomPortfolioForm{
		StockType:           "Value",
		ExpectedReturnValue: "10",
		InvestingAmount:     "10000",
		RiskTolerance:       "Medium",
	}
}

// PortfolioReport is one saved portfolio with its aggregates, ready for export.
type PortfolioReport struct {
	Portfolio SavedPortfolio
	Stats     PortfolioStats
}

const ExportFilePrefix = "stocknity-export-"

type ExportFile struct {
	FileName string
	Data     []byte
}
