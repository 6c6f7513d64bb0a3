package model

// StockRecord is one screener row. Fundamentals keep the backend's textual
// form and are only formatted for display.
type StockRecord struct {
	Ticker               string     `json:"Ticker"`
	Company              string     `json:"Company,omitempty"`
	Sector               string     `json:"Sector"`
	Index                string     `json:"Index"`
	Price                FlexString `json:"price"`
	Change               FlexString `json:"Change"`
	Volume               FlexString `json:"Volume"`
	MarketCap            FlexString `json:"Market Cap"`
	PE                   FlexString `json:"pe"`
	ForwardPE            FlexString `json:"fpe"`
	PEG                  FlexString `json:"peg"`
	DebtEq               FlexString `json:"Debt/Eq"`
	ROIC                 FlexString `json:"ROIC"`
	ROE                  FlexString `json:"roe"`
	High52W              FlexString `json:"52W High"`
	Low52W               FlexString `json:"52W Low"`
	ATR                  FlexString `json:"ATR"`
	AvgVolume            FlexString `json:"Avg Volume"`
	ChangeFromOpen       FlexString `json:"Change from Open"`
	CurrentRatio         FlexString `json:"Curr R"`
	EPSNext5Y            FlexString `json:"EPS Next 5Y"`
	EPSNextY             FlexString `json:"EPS Next Y"`
	EPSPast5Y            FlexString `json:"EPS Past 5Y"`
	EPSThisY             FlexString `json:"EPS This Y"`
	Earnings             FlexString `json:"Earnings"`
	Float                FlexString `json:"Float"`
	Gap                  FlexString `json:"Gap"`
	GrossMargin          FlexString `json:"Gross M"`
	InsiderTrans         FlexString `json:"Insider Trans"`
	InstOwn              FlexString `json:"Inst Own"`
	InstTrans            FlexString `json:"Inst Trans"`
	LTDebtEq             FlexString `json:"LTDebt/Eq"`
	OperMargin           FlexString `json:"Oper M"`
	Outstanding          FlexString `json:"Outstanding"`
	PFCF                 FlexString `json:"P/FCF"`
	PS                   FlexString `json:"P/S"`
	ProfitMargin         FlexString `json:"Profit M"`
	QuickRatio           FlexString `json:"Quick R"`
	ROA                  FlexString `json:"ROA"`
	RSI                  FlexString `json:"RSI"`
	SMA20                FlexString `json:"SMA20"`
	SMA50                FlexString `json:"SMA50"`
	SMA200               FlexString `json:"SMA200"`
	SalesPast5Y          FlexString `json:"Sales Past 5Y"`
	ShortFloat           FlexString `json:"Short Float"`
	ShortRatio           FlexString `json:"Short Ratio"`
	Beta                 FlexString `json:"beta"`
	Dividend             FlexString `json:"dividend"`
	ExpectedAnnualReturn FlexString `json:"expected_annual_return"`
	ExpectedAnnualRisk   FlexString `json:"expected_annual_risk"`
	InsiderOwn           FlexString `json:"insider_own"`
	PB                   FlexString `json:"pb"`
	PC                   FlexString `json:"pc"`
	ReturnRiskRatio      FlexString `json:"return_risk_ratio"`
	Strength             FlexString `json:"strength,omitempty"`
}

var (
	Sectors = []string{
		"Any", "Technology", "Healthcare", "Financial", "Consumer Cyclical", "Industrials",
		"Consumer Defensive", "Energy", "Basic Materials", "Real Estate", "Communication Services", "Utilities",
	}
	Indices        = []string{"S&P 500", "DJIA"}
	StockTypes     = []string{"Value", "Growth"}
	RiskTolerances = []string{"Low", "Medium", "High"}
)

type ScreenerFilter struct {
	Sector string
	Index  string
}

func DefaultScreenerFilter() ScreenerFilter {
	return ScreenerFilter{Sector: "Any", Index: "S&P 500"}
}
