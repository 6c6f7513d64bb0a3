package stocknityApi

import (
	"context"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
)

func (a *StocknityApi) GetOptimizationMethods(ctx context.Context, cookies model.BackendCookies) ([]model.OptimizationMethod, error) {
	resp := apiModel.OptimizationMethodsResponse{}
	err := a.get(ctx, "StocknityApi.GetOptimizationMethods", cookies, EndpointOptimizationMethods, &resp, requireSuccess)
	if err != nil {
		return nil, err
	}
	return resp.Methods, nil
}

func (a *StocknityApi) AdvancedOptimize(ctx context.Context, cookies model.BackendCookies, form model.AdvancedPortfolioForm) (model.AdvancedPortfolio, error) {
	resp := apiModel.AdvancedPortfolioResponse{}
	err := a.postJSON(ctx, "StocknityApi.AdvancedOptimize", cookies, EndpointAdvancedPortfolio, form, &resp)
	if err != nil {
		return model.AdvancedPortfolio{}, err
	}
	return model.AdvancedPortfolio{Stocks: resp.Data, Metrics: resp.Metrics}, nil
}

func (a *StocknityApi) CompareMethods(ctx context.Context, cookies model.BackendCookies, form model.AdvancedPortfolioForm) (map[string]model.ComparisonResult, error) {
	form.Method = ""
	resp := apiModel.CompareMethodsResponse{}
	err := a.postJSON(ctx, "StocknityApi.CompareMethods", cookies, EndpointCompareMethods, form, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (a *StocknityApi) Backtest(ctx context.Context, cookies model.BackendCookies, form model.AdvancedPortfolioForm) (model.Backtest, error) {
	form.Method = ""
	resp := apiModel.BacktestResponse{}
	err := a.postJSON(ctx, "StocknityApi.Backtest", cookies, EndpointBacktest, form, &resp)
	if err != nil {
		return model.Backtest{}, err
	}
	return model.Backtest{Results: resp.BacktestResults, Report: resp.Report}, nil
}
