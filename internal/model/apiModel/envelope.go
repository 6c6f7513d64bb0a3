package apiModel

import "github.com/KotFed0t/stocknity/internal/model"

// Base is the part of every backend envelope that reports the outcome.
type Base struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type Envelope[T any] struct {
	Base
	Data T `json:"data"`
}

type AuthResponse struct {
	Base
	User *model.User `json:"user"`
}

type ProfileResponse struct {
	Base
	User *model.User `json:"user"`
	Data *model.User `json:"data"`
}

type CacheStatusResponse struct {
	Base
	CacheStatus    *model.CacheStatus `json:"cache_status"`
	IsFresh        bool               `json:"is_fresh"`
	Recommendation string             `json:"recommendation"`
}

type OptimizationMethodsResponse struct {
	Base
	Methods []model.OptimizationMethod `json:"methods"`
}

type AdvancedPortfolioResponse struct {
	Base
	Data    []model.PortfolioStock     `json:"data"`
	Metrics *model.OptimizationMetrics `json:"metrics"`
}

type CompareMethodsResponse struct {
	Base
	Results map[string]model.ComparisonResult `json:"results"`
}

type BacktestResponse struct {
	Base
	BacktestResults map[string]model.BacktestResult `json:"backtest_results"`
	Report          string                          `json:"report"`
}

type RecommendationsResponse struct {
	Base
	Recommendations []model.StockRecommendation `json:"recommendations"`
}

// SentimentResponse and PerformanceResponse are bare records; Base only
// picks up an error the backend may attach.
type SentimentResponse struct {
	Base
	model.SentimentData
}

type PerformanceResponse struct {
	Base
	model.ModelPerformanceData
}

type ChartResponse struct {
	Base
	Data []model.ChartData `json:"data"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

func (b Base) Result() Base {
	return b
}
