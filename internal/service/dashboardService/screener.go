package dashboardService

import (
	"context"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
)

func (s *DashboardService) Stocks(ctx context.Context, key string) ([]model.StockRecord, error) {
	return fetch(ctx, s, key, "DashboardService.Stocks", func(cookies model.BackendCookies) ([]model.StockRecord, error) {
		return s.api.GetScreenerData(ctx, cookies)
	})
}

// Search stores the filter on the backend and returns the filtered rows.
func (s *DashboardService) Search(ctx context.Context, key string, filter model.ScreenerFilter) ([]model.StockRecord, error) {
	if filter.Sector == "" || filter.Index == "" {
		return nil, service.NewValidationError("Please choose a sector and an index")
	}

	return fetch(ctx, s, key, "DashboardService.Search", func(cookies model.BackendCookies) ([]model.StockRecord, error) {
		if err := s.api.ApplyScreenerFilter(ctx, cookies, filter); err != nil {
			return nil, err
		}
		return s.api.GetScreenerData(ctx, cookies)
	})
}

func (s *DashboardService) Chart(ctx context.Context, key, chartType string) ([]model.ChartData, error) {
	if !model.IsChartType(chartType) {
		return nil, service.NewValidationError("Unknown chart type: " + chartType)
	}

	return fetch(ctx, s, key, "DashboardService.Chart", func(cookies model.BackendCookies) ([]model.ChartData, error) {
		return s.api.GetChart(ctx, cookies, chartType)
	})
}
