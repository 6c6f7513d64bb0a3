package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/transport/web/middleware"
	"github.com/go-chi/chi/v5"
)

type AuthService interface {
	State(ctx context.Context, key string) (model.AuthState, error)
	CheckAuth(ctx context.Context, key string) (model.AuthState, error)
	Login(ctx context.Context, key string, form model.LoginForm) (model.AuthState, error)
	Signup(ctx context.Context, key string, form model.SignupForm) error
	Logout(ctx context.Context, key string) error
}

type DashboardService interface {
	Stocks(ctx context.Context, key string) ([]model.StockRecord, error)
	Search(ctx context.Context, key string, filter model.ScreenerFilter) ([]model.StockRecord, error)
	Chart(ctx context.Context, key, chartType string) ([]model.ChartData, error)

	Draft(ctx context.Context, key string) ([]model.PortfolioStock, error)
	SavedPortfolios(ctx context.Context, key string) ([]model.SavedPortfolio, error)
	BuildTopStocks(ctx context.Context, key string, form model.TopStockForm) ([]model.PortfolioStock, error)
	OptimizeCustom(ctx context.Context, key string, form model.CustomPortfolioForm) ([]model.PortfolioStock, error)
	SaveDraft(ctx context.Context, key string) ([]model.SavedPortfolio, error)
	DeletePortfolio(ctx context.Context, key, portfolioID string) ([]model.SavedPortfolio, error)
	ClearDraft(ctx context.Context, key string) error

	OptimizationMethods(ctx context.Context, key string) ([]model.OptimizationMethod, error)
	AdvancedOptimize(ctx context.Context, key string, form model.AdvancedPortfolioForm) (model.AdvancedPortfolio, error)
	CompareMethods(ctx context.Context, key string, form model.AdvancedPortfolioForm) (map[string]model.ComparisonResult, error)
	Backtest(ctx context.Context, key string, form model.AdvancedPortfolioForm) (model.Backtest, error)

	AIOverview(ctx context.Context, key, ticker string, query model.RecommendationsQuery) model.AIOverview

	CacheStatus(ctx context.Context, key string) (model.CacheStatus, error)
	AnnualReturnsCacheStatus(ctx context.Context, key string) (model.AnnualReturnsCacheStatus, error)
	RefreshCache(ctx context.Context, key string) (model.CacheStatus, error)
	PreWarmCache(ctx context.Context, key string) (model.AnnualReturnsCacheStatus, error)

	Subscribe(ctx context.Context, key, email string) error
}

type CacheMonitor interface {
	Stocks() model.CacheSnapshot
	AnnualReturns() model.CacheSnapshot
	SetStocks(status model.CacheStatus)
	SetAnnualReturns(status model.AnnualReturnsCacheStatus)
}

type ReportService interface {
	ExportPortfolios(ctx context.Context, key string, withScreener bool) (model.ExportFile, error)
}

type Server struct {
	cfg       *config.Config
	auth      AuthService
	dashboard DashboardService
	monitor   CacheMonitor
	report    ReportService
	views     *views
	srv       *http.Server
}

func NewServer(cfg *config.Config, auth AuthService, dashboard DashboardService, monitor CacheMonitor, report ReportService) (*Server, error) {
	v, err := newViews()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		auth:      auth,
		dashboard: dashboard,
		monitor:   monitor,
		report:    report,
		views:     v,
	}
	s.srv = &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger())
	r.Use(middleware.Recover())

	r.Get("/healthz", s.healthz)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.cfg.HTTP.RateLimitRPS, s.cfg.HTTP.RateLimitBurst))
		r.Use(middleware.Session(s.cfg))
		r.Use(middleware.LoadAuth(s.auth))

		r.Get("/", s.home)
		r.Post("/subscribe", s.subscribe)

		r.Get("/login", s.loginForm)
		r.Post("/login", s.login)
		r.Get("/signup", s.signupForm)
		r.Post("/signup", s.signup)
		r.Post("/logout", s.logout)

		r.Get("/screener", s.screener)
		r.Post("/screener", s.screenerSearch)
		r.Get("/chart", s.chart)
		r.Get("/ai-analysis", s.aiAnalysis)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/profile", s.profile)

			r.Get("/portfolio", s.portfolio)
			r.Post("/portfolio/build", s.portfolioBuild)
			r.Post("/portfolio/optimize", s.portfolioOptimize)
			r.Post("/portfolio/save", s.portfolioSave)
			r.Post("/portfolio/clear", s.portfolioClear)
			r.Post("/portfolio/delete/{portfolioID}", s.portfolioDelete)
			r.Get("/portfolio/export.xlsx", s.portfolioExport)

			r.Get("/advanced-portfolio", s.advanced)
			r.Post("/advanced-portfolio", s.advancedRun)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)

			r.Get("/cache-status", s.cacheStatus)
			r.Post("/cache-status/refresh", s.cacheRefresh)
			r.Post("/cache-status/pre-warm", s.cachePreWarm)
		})
	})

	return r
}

func (s *Server) Start() {
	go func() {
		slog.Info("http server started", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.String("err", err.Error()))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	slog.Info("start stopping http server")
	err := s.srv.Shutdown(ctx)
	slog.Info("http server stopped")
	return err
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
