package dashboardService

import (
	"context"
	"slices"
	"strings"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"golang.org/x/sync/errgroup"
)

func (s *DashboardService) Sentiment(ctx context.Context, key, ticker string) (model.SentimentData, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return model.SentimentData{}, service.NewValidationError("Please enter a stock ticker")
	}

	return fetch(ctx, s, key, "DashboardService.Sentiment", func(cookies model.BackendCookies) (model.SentimentData, error) {
		return s.api.GetSentiment(ctx, cookies, ticker)
	})
}

// NormalizeQuery fills defaults and replaces unknown values.
func NormalizeQuery(q model.RecommendationsQuery) model.RecommendationsQuery {
	q.TimeHorizon = strings.ToLower(strings.TrimSpace(q.TimeHorizon))
	if !slices.Contains(model.TimeHorizons, q.TimeHorizon) {
		q.TimeHorizon = model.DefaultTimeHorizon
	}
	q.RiskTolerance = strings.ToLower(strings.TrimSpace(q.RiskTolerance))
	if !slices.Contains(model.AIRiskTolerances, q.RiskTolerance) {
		q.RiskTolerance = model.DefaultAIRisk
	}
	if q.Limit <= 0 {
		q.Limit = model.DefaultRecommendationsLimit
	}
	return q
}

func (s *DashboardService) Recommendations(ctx context.Context, key string, query model.RecommendationsQuery) ([]model.StockRecommendation, error) {
	query = NormalizeQuery(query)

	return fetch(ctx, s, key, "DashboardService.Recommendations", func(cookies model.BackendCookies) ([]model.StockRecommendation, error) {
		return s.api.GetRecommendations(ctx, cookies, query)
	})
}

func (s *DashboardService) ModelPerformance(ctx context.Context, key string) (model.ModelPerformanceData, error) {
	return fetch(ctx, s, key, "DashboardService.ModelPerformance", func(cookies model.BackendCookies) (model.ModelPerformanceData, error) {
		return s.api.GetModelPerformance(ctx, cookies)
	})
}

// AIOverview loads sentiment, recommendations and model performance in
// parallel. Each section keeps its own error.
func (s *DashboardService) AIOverview(ctx context.Context, key, ticker string, query model.RecommendationsQuery) model.AIOverview {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		ticker = model.DefaultAITicker
	}
	res := model.AIOverview{Ticker: ticker, Query: NormalizeQuery(query)}

	var g errgroup.Group
	g.Go(func() error {
		data, err := s.Sentiment(ctx, key, ticker)
		if err != nil {
			res.SentimentErr = err
			return nil
		}
		res.Sentiment = &data
		return nil
	})
	g.Go(func() error {
		res.Recommendations, res.RecommendationsErr = s.Recommendations(ctx, key, res.Query)
		return nil
	})
	g.Go(func() error {
		data, err := s.ModelPerformance(ctx, key)
		if err != nil {
			res.PerformanceErr = err
			return nil
		}
		res.Performance = &data
		return nil
	})
	_ = g.Wait()

	return res
}
