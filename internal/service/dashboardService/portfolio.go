package dashboardService

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"github.com/KotFed0t/stocknity/utils"
)

const msgEmptyDraft = "No portfolio to save. Please build or optimize a portfolio first."

func (s *DashboardService) Draft(ctx context.Context, key string) ([]model.PortfolioStock, error) {
	return fetch(ctx, s, key, "DashboardService.Draft", func(cookies model.BackendCookies) ([]model.PortfolioStock, error) {
		return s.api.GetDraftPortfolio(ctx, cookies)
	})
}

func (s *DashboardService) SavedPortfolios(ctx context.Context, key string) ([]model.SavedPortfolio, error) {
	return fetch(ctx, s, key, "DashboardService.SavedPortfolios", func(cookies model.BackendCookies) ([]model.SavedPortfolio, error) {
		return s.api.GetSavedPortfolios(ctx, cookies)
	})
}

func (s *DashboardService) BuildTopStocks(ctx context.Context, key string, form model.TopStockForm) ([]model.PortfolioStock, error) {
	return fetch(ctx, s, key, "DashboardService.BuildTopStocks", func(cookies model.BackendCookies) ([]model.PortfolioStock, error) {
		return s.api.BuildTopStockPortfolio(ctx, cookies, form)
	})
}

func (s *DashboardService) OptimizeCustom(ctx context.Context, key string, form model.CustomPortfolioForm) ([]model.PortfolioStock, error) {
	form.SelectedStocks = NormalizeTickers(form.SelectedStocks)
	if len(form.SelectedStocks) == 0 {
		return nil, service.NewValidationError("Please enter at least one stock ticker")
	}

	return fetch(ctx, s, key, "DashboardService.OptimizeCustom", func(cookies model.BackendCookies) ([]model.PortfolioStock, error) {
		return s.api.OptimizeCustomPortfolio(ctx, cookies, form)
	})
}

// SaveDraft saves the current draft, clears it and returns the refreshed
// saved list. An empty draft is rejected without calling save. A failed clear
// does not fail the save.
func (s *DashboardService) SaveDraft(ctx context.Context, key string) ([]model.SavedPortfolio, error) {
	return fetch(ctx, s, key, "DashboardService.SaveDraft", func(cookies model.BackendCookies) ([]model.SavedPortfolio, error) {
		draft, err := s.api.GetDraftPortfolio(ctx, cookies)
		if err != nil {
			return nil, err
		}
		if len(draft) == 0 {
			return nil, service.NewValidationError(msgEmptyDraft)
		}
		if err = s.api.SaveDraftPortfolio(ctx, cookies); err != nil {
			return nil, err
		}
		if err = s.api.ClearDraftPortfolio(ctx, cookies); err != nil {
			slog.Warn("can't clear saved draft", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		}
		return s.api.GetSavedPortfolios(ctx, cookies)
	})
}

// DeletePortfolio removes one saved portfolio and returns the refreshed list.
func (s *DashboardService) DeletePortfolio(ctx context.Context, key, portfolioID string) ([]model.SavedPortfolio, error) {
	portfolioID = strings.TrimSpace(portfolioID)
	if portfolioID == "" {
		return nil, service.NewValidationError("Portfolio id is required")
	}

	return fetch(ctx, s, key, "DashboardService.DeletePortfolio", func(cookies model.BackendCookies) ([]model.SavedPortfolio, error) {
		if err := s.api.DeletePortfolio(ctx, cookies, portfolioID); err != nil {
			return nil, err
		}
		return s.api.GetSavedPortfolios(ctx, cookies)
	})
}

func (s *DashboardService) ClearDraft(ctx context.Context, key string) error {
	return s.withBackend(ctx, key, "DashboardService.ClearDraft", func(cookies model.BackendCookies) error {
		return s.api.ClearDraftPortfolio(ctx, cookies)
	})
}

// NormalizeTickers upper-cases, trims and dedupes tickers, keeping order.
// Items may themselves hold comma or space separated lists.
func NormalizeTickers(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	res := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, t := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r' }) {
			t = strings.ToUpper(t)
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			res = append(res, t)
		}
	}
	return res
}
