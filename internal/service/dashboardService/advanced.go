package dashboardService

import (
	"context"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
)

func validateAdvancedForm(form model.AdvancedPortfolioForm) error {
	if form.InvestingAmount <= 0 {
		return service.NewValidationError("Investing amount must be greater than zero")
	}
	if form.MaxStockPrice <= 0 {
		return service.NewValidationError("Max stock price must be greater than zero")
	}
	return nil
}

func (s *DashboardService) OptimizationMethods(ctx context.Context, key string) ([]model.OptimizationMethod, error) {
	return fetch(ctx, s, key, "DashboardService.OptimizationMethods", func(cookies model.BackendCookies) ([]model.OptimizationMethod, error) {
		return s.api.GetOptimizationMethods(ctx, cookies)
	})
}

func (s *DashboardService) AdvancedOptimize(ctx context.Context, key string, form model.AdvancedPortfolioForm) (model.AdvancedPortfolio, error) {
	if err := validateAdvancedForm(form); err != nil {
		return model.AdvancedPortfolio{}, err
	}
	if form.Method == "" {
		form.Method = model.DefaultAdvancedPortfolioForm().Method
	}

	return fetch(ctx, s, key, "DashboardService.AdvancedOptimize", func(cookies model.BackendCookies) (model.AdvancedPortfolio, error) {
		return s.api.AdvancedOptimize(ctx, cookies, form)
	})
}

func (s *DashboardService) CompareMethods(ctx context.Context, key string, form model.AdvancedPortfolioForm) (map[string]model.ComparisonResult, error) {
	if err := validateAdvancedForm(form); err != nil {
		return nil, err
	}

	return fetch(ctx, s, key, "DashboardService.CompareMethods", func(cookies model.BackendCookies) (map[string]model.ComparisonResult, error) {
		return s.api.CompareMethods(ctx, cookies, form)
	})
}

func (s *DashboardService) Backtest(ctx context.Context, key string, form model.AdvancedPortfolioForm) (model.Backtest, error) {
	if err := validateAdvancedForm(form); err != nil {
		return model.Backtest{}, err
	}

	return fetch(ctx, s, key, "DashboardService.Backtest", func(cookies model.BackendCookies) (model.Backtest, error) {
		return s.api.Backtest(ctx, cookies, form)
	})
}
