package stocknityApi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
)

func (a *StocknityApi) GetSentiment(ctx context.Context, cookies model.BackendCookies, ticker string) (model.SentimentData, error) {
	resp := apiModel.SentimentResponse{}
	err := a.get(ctx, "StocknityApi.GetSentiment", cookies, EndpointSentiment(ticker), &resp, bareRecord)
	if err != nil {
		return model.SentimentData{}, err
	}
	return resp.SentimentData, nil
}

func (a *StocknityApi) GetRecommendations(ctx context.Context, cookies model.BackendCookies, query model.RecommendationsQuery) ([]model.StockRecommendation, error) {
	resp := apiModel.RecommendationsResponse{}
	req := a.newRequest(ctx, cookies).SetQueryParams(map[string]string{
		"time_horizon":   query.TimeHorizon,
		"risk_tolerance": query.RiskTolerance,
		"limit":          strconv.Itoa(query.Limit),
	})
	err := a.do(ctx, "StocknityApi.GetRecommendations", cookies, req, http.MethodGet, EndpointRecommendations, &resp, bareRecord)
	if err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

func (a *StocknityApi) GetModelPerformance(ctx context.Context, cookies model.BackendCookies) (model.ModelPerformanceData, error) {
	resp := apiModel.PerformanceResponse{}
	err := a.get(ctx, "StocknityApi.GetModelPerformance", cookies, EndpointPerformance, &resp, bareRecord)
	if err != nil {
		return model.ModelPerformanceData{}, err
	}
	return resp.ModelPerformanceData, nil
}
