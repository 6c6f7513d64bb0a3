package dashboardService

import (
	"context"
	"errors"
	"log/slog"
	"maps"

	"github.com/KotFed0t/stocknity/data/session"
	"github.com/KotFed0t/stocknity/internal/externalApi"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/utils"
)

type Api interface {
	GetScreenerData(ctx context.Context, cookies model.BackendCookies) ([]model.StockRecord, error)
	ApplyScreenerFilter(ctx context.Context, cookies model.BackendCookies, filter model.ScreenerFilter) error

	GetDraftPortfolio(ctx context.Context, cookies model.BackendCookies) ([]model.PortfolioStock, error)
	GetSavedPortfolios(ctx context.Context, cookies model.BackendCookies) ([]model.SavedPortfolio, error)
	BuildTopStockPortfolio(ctx context.Context, cookies model.BackendCookies, form model.TopStockForm) ([]model.PortfolioStock, error)
	OptimizeCustomPortfolio(ctx context.Context, cookies model.BackendCookies, form model.CustomPortfolioForm) ([]model.PortfolioStock, error)
	SaveDraftPortfolio(ctx context.Context, cookies model.BackendCookies) error
	DeletePortfolio(ctx context.Context, cookies model.BackendCookies, portfolioID string) error
	ClearDraftPortfolio(ctx context.Context, cookies model.BackendCookies) error

	GetOptimizationMethods(ctx context.Context, cookies model.BackendCookies) ([]model.OptimizationMethod, error)
	AdvancedOptimize(ctx context.Context, cookies model.BackendCookies, form model.AdvancedPortfolioForm) (model.AdvancedPortfolio, error)
	CompareMethods(ctx context.Context, cookies model.BackendCookies, form model.AdvancedPortfolioForm) (map[string]model.ComparisonResult, error)
	Backtest(ctx context.Context, cookies model.BackendCookies, form model.AdvancedPortfolioForm) (model.Backtest, error)

	GetChart(ctx context.Context, cookies model.BackendCookies, chartType string) ([]model.ChartData, error)

	GetSentiment(ctx context.Context, cookies model.BackendCookies, ticker string) (model.SentimentData, error)
	GetRecommendations(ctx context.Context, cookies model.BackendCookies, query model.RecommendationsQuery) ([]model.StockRecommendation, error)
	GetModelPerformance(ctx context.Context, cookies model.BackendCookies) (model.ModelPerformanceData, error)

	GetCacheStatus(ctx context.Context, cookies model.BackendCookies) (model.CacheStatus, error)
	GetAnnualReturnsCacheStatus(ctx context.Context, cookies model.BackendCookies) (model.AnnualReturnsCacheStatus, error)
	RefreshCache(ctx context.Context, cookies model.BackendCookies) error
	PreWarmCache(ctx context.Context, cookies model.BackendCookies) error

	Subscribe(ctx context.Context, cookies model.BackendCookies, email string) error
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, sess model.Session) error
}

type Auth interface {
	ClearAuthenticated(ctx context.Context, key string) error
}

type DashboardService struct {
	api     Api
	session Session
	auth    Auth
}

func New(api Api, session Session, auth Auth) *DashboardService {
	return &DashboardService{
		api:     api,
		session: session,
		auth:    auth,
	}
}

func (s *DashboardService) loadCookies(ctx context.Context, key string) (model.BackendCookies, error) {
	sess, err := s.session.GetSession(ctx, key)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return nil, err
	}
	if sess.BackendCookies == nil {
		return model.BackendCookies{}, nil
	}
	return sess.BackendCookies, nil
}

// storeCookies writes only the cookie part so auth fields stay untouched.
func (s *DashboardService) storeCookies(ctx context.Context, key string, cookies model.BackendCookies) error {
	sess, err := s.session.GetSession(ctx, key)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}
	sess.BackendCookies = cookies
	return s.session.SetSession(ctx, key, sess)
}

// withBackend runs fn with the visitor's backend cookies, persists the ones
// the backend set and drops the auth flag when the backend answers 401.
func (s *DashboardService) withBackend(ctx context.Context, key, op string, fn func(cookies model.BackendCookies) error) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug(op+" finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	cookies, err := s.loadCookies(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	before := maps.Clone(cookies)
	err = fn(cookies)

	if !maps.Equal(before, cookies) {
		if storeErr := s.storeCookies(ctx, key, cookies); storeErr != nil {
			slog.Error("can't store backend cookies", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", storeErr.Error()))
		}
	}

	if err != nil {
		if errors.Is(err, externalApi.ErrUnauthorized) {
			if clearErr := s.auth.ClearAuthenticated(ctx, key); clearErr != nil {
				slog.Error("can't clear auth state", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", clearErr.Error()))
			}
		}
		slog.Error("got error from stocknity api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func fetch[T any](ctx context.Context, s *DashboardService, key, op string, fn func(cookies model.BackendCookies) (T, error)) (T, error) {
	var res T
	err := s.withBackend(ctx, key, op, func(cookies model.BackendCookies) error {
		var err error
		res, err = fn(cookies)
		return err
	})
	return res, err
}
