package model

type OptimizationMethod struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Advantages    []string `json:"advantages"`
	Disadvantages []string `json:"disadvantages"`
}

type OptimizationMetrics struct {
	Method         string   `json:"method"`
	ExpectedReturn *float64 `json:"expected_return"`
	Volatility     *float64 `json:"volatility"`
	SharpeRatio    *float64 `json:"sharpe_ratio"`
}

type Holding struct {
	Ticker string  `json:"ticker"`
	Weight float64 `json:"weight"`
}

type ComparisonResult struct {
	Method         string    `json:"method"`
	ExpectedReturn *float64  `json:"expected_return"`
	Volatility     *float64  `json:"volatility"`
	SharpeRatio    *float64  `json:"sharpe_ratio"`
	TopHoldings    []Holding `json:"top_holdings"`
}

type BacktestResult struct {
	TotalReturn      *float64 `json:"total_return"`
	AnnualizedReturn *float64 `json:"annualized_return"`
	Volatility       *float64 `json:"volatility"`
	SharpeRatio      *float64 `json:"sharpe_ratio"`
	MaxDrawdown      *float64 `json:"max_drawdown"`
	VaR95            *float64 `json:"var_95"`
	CVaR95           *float64 `json:"cvar_95"`
	CalmarRatio      *float64 `json:"calmar_ratio"`
	InformationRatio *float64 `json:"information_ratio"`
}

// AdvancedPortfolioForm is posted as JSON to the advanced, compare and
// backtest endpoints. Method is ignored by compare and backtest.
type AdvancedPortfolioForm struct {
	Method          string  `json:"method,omitempty"`
	InvestingAmount float64 `json:"investing_amount"`
	MaxStockPrice   float64 `json:"max_stock_price"`
	RiskTolerance   string  `json:"risk_tolerance"`
	Sector          string  `json:"sector"`
	Index           string  `json:"index"`
	StockType       string  `json:"stock_type"`
}

func DefaultAdvancedPortfolioForm() AdvancedPortfolioForm {
	return AdvancedPortfolioForm{
		Method:          "markowitz",
		InvestingAmount: 10000,
		MaxStockPrice:   100,
		RiskTolerance:   "Medium",
		Sector:          "Any",
		Index:           "S&P 500",
		StockType:       "Value",
	}
}

type AdvancedPortfolio struct {
	Stocks  []PortfolioStock
	Metrics *OptimizationMetrics
}

type Backtest struct {
	Results map[string]BacktestResult
	Report  string
}
