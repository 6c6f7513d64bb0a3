package dashboardService

import (
	"context"
	"strings"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service/authService"
)

func (s *DashboardService) CacheStatus(ctx context.Context, key string) (model.CacheStatus, error) {
	return fetch(ctx, s, key, "DashboardService.CacheStatus", func(cookies model.BackendCookies) (model.CacheStatus, error) {
		return s.api.GetCacheStatus(ctx, cookies)
	})
}

func (s *DashboardService) AnnualReturnsCacheStatus(ctx context.Context, key string) (model.AnnualReturnsCacheStatus, error) {
	return fetch(ctx, s, key, "DashboardService.AnnualReturnsCacheStatus", func(cookies model.BackendCookies) (model.AnnualReturnsCacheStatus, error) {
		return s.api.GetAnnualReturnsCacheStatus(ctx, cookies)
	})
}

// RefreshCache asks the backend to rebuild the stocks cache and returns the
// status right after.
func (s *DashboardService) RefreshCache(ctx context.Context, key string) (model.CacheStatus, error) {
	return fetch(ctx, s, key, "DashboardService.RefreshCache", func(cookies model.BackendCookies) (model.CacheStatus, error) {
		if err := s.api.RefreshCache(ctx, cookies); err != nil {
			return model.CacheStatus{}, err
		}
		return s.api.GetCacheStatus(ctx, cookies)
	})
}

// PreWarmCache starts the annual-returns warm-up and returns the status right after.
func (s *DashboardService) PreWarmCache(ctx context.Context, key string) (model.AnnualReturnsCacheStatus, error) {
	return fetch(ctx, s, key, "DashboardService.PreWarmCache", func(cookies model.BackendCookies) (model.AnnualReturnsCacheStatus, error) {
		if err := s.api.PreWarmCache(ctx, cookies); err != nil {
			return model.AnnualReturnsCacheStatus{}, err
		}
		return s.api.GetAnnualReturnsCacheStatus(ctx, cookies)
	})
}

func (s *DashboardService) Subscribe(ctx context.Context, key, email string) error {
	if err := authService.ValidateEmail(email); err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	return s.withBackend(ctx, key, "DashboardService.Subscribe", func(cookies model.BackendCookies) error {
		return s.api.Subscribe(ctx, cookies, email)
	})
}
