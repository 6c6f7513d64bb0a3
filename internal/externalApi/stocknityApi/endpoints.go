package stocknityApi

import "net/url"

const (
	// auth
	EndpointLogin     = "/login"
	EndpointSignup    = "/signup"
	EndpointLogout    = "/logout"
	EndpointProfile   = "/profile"
	EndpointSubscribe = "/subscribe"

	// screener
	EndpointScreenerData = "/screener/data"
	EndpointScreener     = "/screener"

	// portfolio
	EndpointPortfolioData       = "/portfolio/data"
	EndpointPortfolio           = "/portfolio"
	EndpointMyPortfolioData     = "/my-portfolio/data"
	EndpointClearBuiltPortfolio = "/clear-built-portfolio"
	EndpointAdvancedPortfolio   = "/portfolio/advanced"
	EndpointCompareMethods      = "/portfolio/compare-methods"
	EndpointBacktest            = "/portfolio/backtest"
	EndpointOptimizationMethods = "/portfolio/optimization-methods"

	// ai
	EndpointRecommendations = "/ai/recommendations"
	EndpointPerformance     = "/ai/performance"

	// cache
	EndpointCacheStatus              = "/cache/status"
	EndpointCacheRefresh             = "/cache/refresh"
	EndpointCachePreWarm             = "/cache/pre-warm"
	EndpointAnnualReturnsCacheStatus = "/cache/annual-returns/status"
)

func EndpointDeletePortfolio(id string) string {
	return "/delete-portfolio/" + url.PathEscape(id)
}

func EndpointChart(chartType string) string {
	return "/chart/" + url.PathEscape(chartType)
}

func EndpointSentiment(ticker string) string {
	return "/ai/sentiment/" + url.PathEscape(ticker)
}
