package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/internal/externalApi"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
)

type fakeAuth struct {
	state    model.AuthState
	loginErr error
}

func (f *fakeAuth) State(context.Context, string) (model.AuthState, error) { return f.state, nil }

func (f *fakeAuth) CheckAuth(context.Context, string) (model.AuthState, error) { return f.state, nil }

func (f *fakeAuth) Login(_ context.Context, _ string, form model.LoginForm) (model.AuthState, error) {
	if f.loginErr != nil {
		return model.AuthState{}, f.loginErr
	}
	f.state = model.AuthState{Authenticated: true, User: model.User{Email: form.Email}}
	return f.state, nil
}

func (f *fakeAuth) Signup(context.Context, string, model.SignupForm) error { return nil }

func (f *fakeAuth) Logout(context.Context, string) error {
	f.state = model.AuthState{}
	return nil
}

type fakeDashboard struct {
	stocks    []model.StockRecord
	stocksErr error

	compared   model.AdvancedPortfolioForm
	comparison map[string]model.ComparisonResult

	refreshed model.CacheStatus

	liveStocks    model.CacheStatus
	liveAnnual    model.AnnualReturnsCacheStatus
	liveErr       error
	liveStatusKey string
}

func (f *fakeDashboard) Stocks(context.Context, string) ([]model.StockRecord, error) {
	return f.stocks, f.stocksErr
}

func (f *fakeDashboard) Search(context.Context, string, model.ScreenerFilter) ([]model.StockRecord, error) {
	return f.stocks, f.stocksErr
}

func (f *fakeDashboard) Chart(context.Context, string, string) ([]model.ChartData, error) {
	return []model.ChartData{{Title: "Technology", Labels: []string{"AAPL"}, Values: []model.FlexString{"3.5"}}}, nil
}

func (f *fakeDashboard) Draft(context.Context, string) ([]model.PortfolioStock, error) {
	return nil, nil
}

func (f *fakeDashboard) SavedPortfolios(context.Context, string) ([]model.SavedPortfolio, error) {
	return nil, nil
}

func (f *fakeDashboard) BuildTopStocks(context.Context, string, model.TopStockForm) ([]model.PortfolioStock, error) {
	return nil, nil
}

func (f *fakeDashboard) OptimizeCustom(context.Context, string, model.CustomPortfolioForm) ([]model.PortfolioStock, error) {
	return nil, nil
}

func (f *fakeDashboard) SaveDraft(context.Context, string) ([]model.SavedPortfolio, error) {
	return nil, nil
}

func (f *fakeDashboard) DeletePortfolio(context.Context, string, string) ([]model.SavedPortfolio, error) {
	return nil, nil
}

func (f *fakeDashboard) ClearDraft(context.Context, string) error { return nil }

func (f *fakeDashboard) OptimizationMethods(context.Context, string) ([]model.OptimizationMethod, error) {
	return []model.OptimizationMethod{{ID: "markowitz", Name: "Markowitz"}}, nil
}

func (f *fakeDashboard) AdvancedOptimize(context.Context, string, model.AdvancedPortfolioForm) (model.AdvancedPortfolio, error) {
	return model.AdvancedPortfolio{}, nil
}

func (f *fakeDashboard) CompareMethods(_ context.Context, _ string, form model.AdvancedPortfolioForm) (map[string]model.ComparisonResult, error) {
	f.compared = form
	return f.comparison, nil
}

func (f *fakeDashboard) Backtest(context.Context, string, model.AdvancedPortfolioForm) (model.Backtest, error) {
	return model.Backtest{}, nil
}

func (f *fakeDashboard) AIOverview(_ context.Context, _ string, ticker string, query model.RecommendationsQuery) model.AIOverview {
	return model.AIOverview{
		Ticker:             ticker,
		Query:              query,
		Sentiment:          &model.SentimentData{Ticker: ticker, OverallSentiment: 0.4},
		RecommendationsErr: externalApi.NewAPIError(http.StatusInternalServerError, "", "model offline", ""),
	}
}

func (f *fakeDashboard) CacheStatus(_ context.Context, key string) (model.CacheStatus, error) {
	f.liveStatusKey = key
	return f.liveStocks, f.liveErr
}

func (f *fakeDashboard) AnnualReturnsCacheStatus(context.Context, string) (model.AnnualReturnsCacheStatus, error) {
	return f.liveAnnual, f.liveErr
}

func (f *fakeDashboard) RefreshCache(context.Context, string) (model.CacheStatus, error) {
	return f.refreshed, nil
}

func (f *fakeDashboard) PreWarmCache(context.Context, string) (model.AnnualReturnsCacheStatus, error) {
	return model.AnnualReturnsCacheStatus{}, nil
}

func (f *fakeDashboard) Subscribe(context.Context, string, string) error { return nil }

type fakeMonitor struct {
	stocks model.CacheSnapshot
	annual model.CacheSnapshot
}

func (f *fakeMonitor) Stocks() model.CacheSnapshot        { return f.stocks }
func (f *fakeMonitor) AnnualReturns() model.CacheSnapshot { return f.annual }

func (f *fakeMonitor) SetStocks(status model.CacheStatus) {
	f.stocks = model.CacheSnapshot{Status: &status}
}

func (f *fakeMonitor) SetAnnualReturns(status model.AnnualReturnsCacheStatus) {
	f.annual = model.CacheSnapshot{Status: &status.CacheStatus, IsFresh: status.IsFresh}
}

type fakeReport struct{}

func (fakeReport) ExportPortfolios(context.Context, string, bool) (model.ExportFile, error) {
	return model.ExportFile{FileName: "stocknity-export-1.xlsx", Data: []byte("xlsx")}, nil
}

type testEnv struct {
	auth      *fakeAuth
	dashboard *fakeDashboard
	monitor   *fakeMonitor
	handler   http.Handler
}

func newTestEnv(t *testing.T, state model.AuthState) *testEnv {
	t.Helper()

	cfg := &config.Config{
		HTTP:    config.HTTP{RateLimitRPS: 1000, RateLimitBurst: 1000},
		Session: config.Session{CookieName: "sid", Expiration: time.Hour},
	}
	env := &testEnv{
		auth:      &fakeAuth{state: state},
		dashboard: &fakeDashboard{},
		monitor:   &fakeMonitor{},
	}

	s, err := NewServer(cfg, env.auth, env.dashboard, env.monitor, fakeReport{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	env.handler = s.Router()
	return env
}

func (e *testEnv) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

var admin = model.AuthState{Authenticated: true, IsAdmin: true, User: model.User{Email: "admin@stocknity.com"}}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, model.AuthState{})

	rec := env.do(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
}

func TestAllPagesRender(t *testing.T) {
	env := newTestEnv(t, admin)

	for _, path := range []string{"/", "/login?next=/portfolio", "/signup", "/profile", "/screener", "/chart", "/ai-analysis", "/portfolio", "/advanced-portfolio", "/cache-status"} {
		t.Run(path, func(t *testing.T) {
			rec := env.do(http.MethodGet, path, nil)
			if path == "/login?next=/portfolio" {
				// authenticated visitors skip the login form
				if rec.Code != http.StatusSeeOther {
					t.Fatalf("expected redirect, got %d", rec.Code)
				}
				return
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), "Cache Status") {
				t.Error("expected admin navigation")
			}
		})
	}
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, model.AuthState{})

	rec := env.do(http.MethodGet, "/portfolio", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fportfolio" {
		t.Errorf("unexpected location %q", loc)
	}
}

func TestRequireAdmin_RedirectsHome(t *testing.T) {
	env := newTestEnv(t, model.AuthState{Authenticated: true})

	rec := env.do(http.MethodGet, "/cache-status", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		loginErr error
		next     string
		wantCode int
		wantLoc  string
		wantBody string
	}{
		{name: "success", wantCode: http.StatusSeeOther, wantLoc: "/profile"},
		{name: "success with next", next: "/portfolio", wantCode: http.StatusSeeOther, wantLoc: "/portfolio"},
		{name: "foreign next ignored", next: "//evil.example", wantCode: http.StatusSeeOther, wantLoc: "/profile"},
		{
			name:     "backend rejects",
			loginErr: externalApi.NewAPIError(http.StatusUnauthorized, "", "Invalid credentials", ""),
			wantCode: http.StatusUnauthorized,
			wantBody: msgLoginFailed,
		},
		{
			name:     "validation",
			loginErr: service.NewValidationError("Please enter both email and password"),
			wantCode: http.StatusUnauthorized,
			wantBody: "Please enter both email and password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, model.AuthState{})
			env.auth.loginErr = tt.loginErr

			rec := env.do(http.MethodPost, "/login", url.Values{"email": {"a@b.c"}, "password": {"x"}, "next": {tt.next}})
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantLoc != "" && rec.Header().Get("Location") != tt.wantLoc {
				t.Errorf("unexpected location %q", rec.Header().Get("Location"))
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected %q in body", tt.wantBody)
			}
		})
	}
}

func TestScreener(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		env := newTestEnv(t, model.AuthState{})
		env.dashboard.stocks = []model.StockRecord{{Ticker: "AAPL", Price: "189.5", MarketCap: "2.9e12"}}

		rec := env.do(http.MethodGet, "/screener", nil)
		body := rec.Body.String()
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		for _, want := range []string{"AAPL", "$189.50", "$2.90T"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected %q in body", want)
			}
		}
		if strings.Contains(body, "Cache Status") {
			t.Error("anonymous visitor must not see admin navigation")
		}
	})

	t.Run("backend error", func(t *testing.T) {
		env := newTestEnv(t, model.AuthState{})
		env.dashboard.stocksErr = externalApi.NewAPIError(http.StatusInternalServerError, "", "Screener is down", "")

		rec := env.do(http.MethodGet, "/screener", nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Screener is down") {
			t.Error("expected backend message in body")
		}
	})
}

func TestAIAnalysis_SectionErrorsStayLocal(t *testing.T) {
	env := newTestEnv(t, model.AuthState{})

	rec := env.do(http.MethodGet, "/ai-analysis?ticker=MSFT", nil)
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(body, "model offline") {
		t.Error("expected recommendations error")
	}
	if !strings.Contains(body, "Positive") {
		t.Error("expected sentiment section to render")
	}
}

func TestAdvanced_Compare(t *testing.T) {
	env := newTestEnv(t, model.AuthState{Authenticated: true})
	ret := 0.12
	env.dashboard.comparison = map[string]model.ComparisonResult{
		"hrp": {Method: "HRP", ExpectedReturn: &ret, TopHoldings: []model.Holding{{Ticker: "MSFT", Weight: 0.3}}},
	}

	rec := env.do(http.MethodPost, "/advanced-portfolio", url.Values{
		"action":           {"compare"},
		"investing_amount": {"5000"},
		"sector":           {"Technology"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.dashboard.compared.InvestingAmount != 5000 || env.dashboard.compared.Sector != "Technology" || env.dashboard.compared.MaxStockPrice != 100 {
		t.Errorf("unexpected form %+v", env.dashboard.compared)
	}
	body := rec.Body.String()
	for _, want := range []string{"HRP", "12.00%", "MSFT (30.00%)"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
}

func TestAdvanced_UnknownAction(t *testing.T) {
	env := newTestEnv(t, model.AuthState{Authenticated: true})

	rec := env.do(http.MethodPost, "/advanced-portfolio", url.Values{"action": {"launch"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCacheRefresh_UpdatesMonitor(t *testing.T) {
	env := newTestEnv(t, admin)
	env.dashboard.refreshed = model.CacheStatus{Status: model.CacheStatusCached, Count: 500}

	rec := env.do(http.MethodPost, "/cache-status/refresh", url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/cache-status?flash=refreshed" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if env.monitor.stocks.Status == nil || env.monitor.stocks.Status.Count != 500 {
		t.Errorf("monitor not updated: %+v", env.monitor.stocks)
	}
}

func TestCacheStatus_ReadsLiveWithVisitorSession(t *testing.T) {
	env := newTestEnv(t, admin)
	env.dashboard.liveStocks = model.CacheStatus{Status: model.CacheStatusCached, Count: 503, TTLSeconds: 43200}
	env.dashboard.liveAnnual = model.AnnualReturnsCacheStatus{CacheStatus: model.CacheStatus{Status: model.CacheStatusCached, Count: 480}, IsFresh: true}

	rec := env.do(http.MethodGet, "/cache-status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(env.dashboard.liveStatusKey, "web:") {
		t.Errorf("expected the visitor session key, got %q", env.dashboard.liveStatusKey)
	}
	if env.monitor.stocks.Status == nil || env.monitor.stocks.Status.Count != 503 {
		t.Errorf("stocks snapshot not updated: %+v", env.monitor.stocks)
	}
	if env.monitor.annual.Status == nil || env.monitor.annual.Status.Count != 480 || !env.monitor.annual.IsFresh {
		t.Errorf("annual snapshot not updated: %+v", env.monitor.annual)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Records Cached:</strong> 503") || !strings.Contains(body, "Stocks Cached:</strong> 480") {
		t.Error("expected live counts on the page")
	}
}

func TestCacheStatus_KeepsPolledSnapshotOnFailure(t *testing.T) {
	env := newTestEnv(t, admin)
	env.dashboard.liveErr = errors.New("backend down")
	polled := model.CacheStatus{Status: model.CacheStatusCached, Count: 77}
	env.monitor.stocks = model.CacheSnapshot{Status: &polled}

	rec := env.do(http.MethodGet, "/cache-status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.monitor.stocks.Status != &polled {
		t.Errorf("polled snapshot replaced: %+v", env.monitor.stocks)
	}
	if !strings.Contains(rec.Body.String(), "Records Cached:</strong> 77") {
		t.Error("expected polled count on the page")
	}
}

func TestPortfolioExport(t *testing.T) {
	env := newTestEnv(t, model.AuthState{Authenticated: true})

	rec := env.do(http.MethodGet, "/portfolio/export.xlsx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "stocknity-export-1.xlsx") {
		t.Errorf("unexpected disposition %q", cd)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		"/portfolio":           "/portfolio",
		"//evil.example":       "",
		"/\\evil.example":      "",
		"https://evil.example": "",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUserMessageAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantStatus int
	}{
		{name: "validation", err: service.NewValidationError("bad input"), wantMsg: "bad input", wantStatus: http.StatusUnprocessableEntity},
		{name: "unauthorized", err: externalApi.NewAPIError(http.StatusUnauthorized, "", "Authentication required", ""), wantMsg: "Authentication required", wantStatus: http.StatusUnauthorized},
		{name: "not found", err: externalApi.NewAPIError(http.StatusNotFound, "", "", ""), wantMsg: "An error occurred", wantStatus: http.StatusNotFound},
		{name: "bad response", err: externalApi.ErrBadResponse, wantMsg: "fallback: unexpected response from server", wantStatus: http.StatusBadGateway},
		{name: "transport", err: errors.New("dial tcp: refused"), wantMsg: "fallback", wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err, "fallback"); got != tt.wantMsg {
				t.Errorf("userMessage = %q, want %q", got, tt.wantMsg)
			}
			if got := statusOf(tt.err); got != tt.wantStatus {
				t.Errorf("statusOf = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}
