package model

type SourceSentiment struct {
	Sentiment  float64 `json:"sentiment"`
	Volume     int     `json:"volume"`
	Confidence float64 `json:"confidence"`
}

type SentimentData struct {
	Ticker           string                     `json:"ticker"`
	OverallSentiment float64                    `json:"overall_sentiment"`
	Confidence       float64                    `json:"confidence"`
	Volume           int                        `json:"volume"`
	PositiveCount    int                        `json:"positive_count"`
	NegativeCount    int                        `json:"negative_count"`
	NeutralCount     int                        `json:"neutral_count"`
	TopKeywords      []string                   `json:"top_keywords"`
	Sources          map[string]SourceSentiment `json:"sources"`
}

type StockRecommendation struct {
	Ticker          string   `json:"ticker"`
	Score           float64  `json:"score"`
	Confidence      float64  `json:"confidence"`
	RiskScore       float64  `json:"risk_score"`
	PredictedReturn float64  `json:"predicted_return"`
	Reasoning       string   `json:"reasoning"`
	DataSources     []string `json:"data_sources"`
}

type SentimentModelStats struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
}

type PricePredictionStats struct {
	MAE     float64 `json:"mae"`
	RMSE    float64 `json:"rmse"`
	R2Score float64 `json:"r2_score"`
}

type RecommendationModelStats struct {
	WinRate     float64 `json:"win_rate"`
	AvgReturn   float64 `json:"avg_return"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

type ModelPerformanceData struct {
	Models struct {
		Sentiment       SentimentModelStats      `json:"sentiment"`
		PricePrediction PricePredictionStats     `json:"price_prediction"`
		Recommendation  RecommendationModelStats `json:"recommendation"`
	} `json:"models"`
	OverallPerformance struct {
		TotalRecommendations      int    `json:"total_recommendations"`
		ProfitableRecommendations int    `json:"profitable_recommendations"`
		AvgHoldingPeriod          string `json:"avg_holding_period"`
	} `json:"overall_performance"`
}

type RecommendationsQuery struct {
	TimeHorizon   string
	RiskTolerance string
	Limit         int
}

const DefaultRecommendationsLimit = 10

var (
	TimeHorizons       = []string{"short", "medium", "long"}
	AIRiskTolerances   = []string{"low", "medium", "high"}
	DefaultAITicker    = "AAPL"
	DefaultTimeHorizon = "medium"
	DefaultAIRisk      = "medium"
)

// AIOverview is the AI page: three independent sections, each with its own error.
type AIOverview struct {
	Ticker             string
	Query              RecommendationsQuery
	Sentiment          *SentimentData
	SentimentErr       error
	Recommendations    []StockRecommendation
	RecommendationsErr error
	Performance        *ModelPerformanceData
	PerformanceErr     error
}
