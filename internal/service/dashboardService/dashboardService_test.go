package dashboardService

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/data/session"
	"github.com/KotFed0t/stocknity/internal/externalApi"
	"github.com/KotFed0t/stocknity/internal/externalApi/stocknityApi"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"github.com/shopspring/decimal"
)

type memSession struct {
	mu    sync.Mutex
	items map[string]model.Session
}

func (m *memSession) GetSession(_ context.Context, key string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.items[key]
	if !ok {
		return model.Session{BackendCookies: model.BackendCookies{}}, session.ErrNotFound
	}
	cookies := model.BackendCookies{}
	for k, v := range sess.BackendCookies {
		cookies[k] = v
	}
	sess.BackendCookies = cookies
	return sess, nil
}

func (m *memSession) SetSession(_ context.Context, key string, sess model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = sess
	return nil
}

type fakeAuth struct {
	mu      sync.Mutex
	cleared []string
}

func (f *fakeAuth) ClearAuthenticated(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, key)
	return nil
}

// stubBackend keeps per-test state the way the real backend keeps it per session.
type stubBackend struct {
	mu         sync.Mutex
	filter     model.ScreenerFilter
	stocks     []map[string]any
	draft      []map[string]any
	saved      map[string][]map[string]any
	saveCalls  int
	clearCalls int
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *stubBackend) handler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == stocknityApi.EndpointScreener && r.Method == http.MethodPost:
		_ = r.ParseForm()
		b.filter = model.ScreenerFilter{Sector: r.PostForm.Get("sector"), Index: r.PostForm.Get("index")}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "with-filter"})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case r.URL.Path == stocknityApi.EndpointScreenerData:
		rows := make([]map[string]any, 0)
		for _, s := range b.stocks {
			if (b.filter.Sector == "" || b.filter.Sector == "Any" || s["Sector"] == b.filter.Sector) &&
				(b.filter.Index == "" || s["Index"] == b.filter.Index) {
				rows = append(rows, s)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": rows})
	case r.URL.Path == stocknityApi.EndpointPortfolioData:
		writeJSON(w, http.StatusOK, map[string]any{"data": b.draft})
	case r.URL.Path == stocknityApi.EndpointPortfolio && r.Method == http.MethodPost:
		_ = r.ParseForm()
		if r.PostForm.Get("btn") == "Save Portfolio" {
			b.saveCalls++
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": b.draft})
	case r.URL.Path == stocknityApi.EndpointClearBuiltPortfolio:
		b.clearCalls++
		b.draft = nil
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case r.URL.Path == stocknityApi.EndpointMyPortfolioData:
		list := make([]map[string]any, 0, len(b.saved))
		for id, rows := range b.saved {
			list = append(list, map[string]any{"portfolio_id": id, "data": rows})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": list})
	case strings.HasPrefix(r.URL.Path, "/delete-portfolio/"):
		delete(b.saved, strings.TrimPrefix(r.URL.Path, "/delete-portfolio/"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case r.URL.Path == stocknityApi.EndpointRecommendations:
		writeJSON(w, http.StatusOK, map[string]any{"recommendations": []map[string]any{{"ticker": "MSFT", "score": 0.8}}})
	case strings.HasPrefix(r.URL.Path, "/ai/sentiment/"):
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Sentiment service down"})
	case r.URL.Path == stocknityApi.EndpointPerformance:
		writeJSON(w, http.StatusOK, map[string]any{"overall_performance": map[string]any{"total_recommendations": 42}})
	case r.URL.Path == stocknityApi.EndpointCacheStatus:
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Authentication required"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
	}
}

func newTestService(t *testing.T, backend *stubBackend) (*DashboardService, *memSession, *fakeAuth) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(backend.handler))
	t.Cleanup(srv.Close)

	cfg := &config.Config{API: config.API{BaseURL: srv.URL, Timeout: 5 * time.Second}}
	store := &memSession{items: map[string]model.Session{}}
	auth := &fakeAuth{}
	return New(stocknityApi.New(cfg), store, auth), store, auth
}

func TestSearch_FilterRoundTrip(t *testing.T) {
	backend := &stubBackend{stocks: []map[string]any{
		{"Ticker": "AAPL", "Sector": "Technology", "Index": "S&P 500"},
		{"Ticker": "JPM", "Sector": "Financial", "Index": "S&P 500"},
		{"Ticker": "SAP", "Sector": "Technology", "Index": "DAX"},
	}}
	svc, store, _ := newTestService(t, backend)
	ctx := context.Background()

	rows, err := svc.Search(ctx, "web:1", model.ScreenerFilter{Sector: "Technology", Index: "S&P 500"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Ticker != "AAPL" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	for _, row := range rows {
		if row.Sector != "Technology" || row.Index != "S&P 500" {
			t.Errorf("row outside filter: %+v", row)
		}
	}
	if store.items["web:1"].BackendCookies["session"] != "with-filter" {
		t.Errorf("backend cookie not stored: %+v", store.items["web:1"])
	}

	_, err = svc.Search(ctx, "web:1", model.ScreenerFilter{})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDeletePortfolio_RemovesExactlyOne(t *testing.T) {
	backend := &stubBackend{saved: map[string][]map[string]any{
		"p1": {{"Ticker": "AAPL"}},
		"p2": {{"Ticker": "MSFT"}},
		"p3": {{"Ticker": "NVDA"}},
	}}
	svc, _, _ := newTestService(t, backend)

	list, err := svc.DeletePortfolio(context.Background(), "web:1", "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 portfolios, got %d", len(list))
	}
	for _, p := range list {
		if p.PortfolioID == "p2" {
			t.Errorf("deleted portfolio still listed")
		}
	}
}

func TestSaveDraft_RejectsEmptyDraft(t *testing.T) {
	backend := &stubBackend{}
	svc, _, _ := newTestService(t, backend)

	_, err := svc.SaveDraft(context.Background(), "web:1")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != msgEmptyDraft {
		t.Errorf("unexpected message %q", err.Error())
	}
	if backend.saveCalls != 0 {
		t.Errorf("save must not be called, got %d", backend.saveCalls)
	}
}

func TestSaveDraft_RefetchesList(t *testing.T) {
	backend := &stubBackend{
		draft: []map[string]any{{"Ticker": "AAPL", "weight": 1}},
		saved: map[string][]map[string]any{"p1": {{"Ticker": "AAPL"}}},
	}
	svc, _, _ := newTestService(t, backend)

	list, err := svc.SaveDraft(context.Background(), "web:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend.saveCalls != 1 || len(list) != 1 {
		t.Errorf("unexpected result: calls=%d list=%+v", backend.saveCalls, list)
	}
	if backend.clearCalls != 1 {
		t.Errorf("expected the draft to be cleared once, got %d", backend.clearCalls)
	}

	draft, err := svc.Draft(context.Background(), "web:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft) != 0 {
		t.Errorf("expected empty draft after save, got %+v", draft)
	}
}

func TestUnauthorized_ClearsAuthFlag(t *testing.T) {
	svc, _, auth := newTestService(t, &stubBackend{})

	_, err := svc.CacheStatus(context.Background(), "web:1")
	if !errors.Is(err, externalApi.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(auth.cleared) != 1 || auth.cleared[0] != "web:1" {
		t.Errorf("expected auth to be cleared once, got %v", auth.cleared)
	}
}

func TestAIOverview_SectionsAreIndependent(t *testing.T) {
	svc, _, _ := newTestService(t, &stubBackend{})

	res := svc.AIOverview(context.Background(), "web:1", " aapl ", model.RecommendationsQuery{})
	if res.Ticker != "AAPL" {
		t.Errorf("expected upper-cased ticker, got %q", res.Ticker)
	}
	if res.SentimentErr == nil || res.Sentiment != nil {
		t.Errorf("expected sentiment failure, got %+v / %v", res.Sentiment, res.SentimentErr)
	}
	if res.RecommendationsErr != nil || len(res.Recommendations) != 1 {
		t.Errorf("recommendations must survive, got %+v / %v", res.Recommendations, res.RecommendationsErr)
	}
	if res.PerformanceErr != nil || res.Performance == nil || res.Performance.OverallPerformance.TotalRecommendations != 42 {
		t.Errorf("performance must survive, got %+v / %v", res.Performance, res.PerformanceErr)
	}
	if res.Query.TimeHorizon != "medium" || res.Query.RiskTolerance != "medium" || res.Query.Limit != 10 {
		t.Errorf("unexpected defaults %+v", res.Query)
	}
}

func TestSentiment_RejectsBlankTicker(t *testing.T) {
	svc, _, _ := newTestService(t, &stubBackend{})

	_, err := svc.Sentiment(context.Background(), "web:1", "   ")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChart_RejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t, &stubBackend{})

	_, err := svc.Chart(context.Background(), "web:1", "momentum")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeTickers(t *testing.T) {
	got := NormalizeTickers([]string{"aapl, msft", " nvda ", "AAPL", ""})
	want := []string{"AAPL", "MSFT", "NVDA"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCalcPortfolioStats(t *testing.T) {
	rows := []model.PortfolioStock{
		{WeightedExpectedReturn: 0.05, ExpectedAnnualRisk: 0.2, Weight: 0.5, InvestedAmount: 5000},
		{WeightedExpectedReturn: 0.03, ExpectedAnnualRisk: 0.1, Weight: 0.3, InvestedAmount: 3000},
		{WeightedExpectedReturn: 0.01, ExpectedAnnualRisk: 0.3, Weight: 0.2, InvestedAmount: 2000.5},
	}

	got := CalcPortfolioStats(rows)
	if !got.Return.Equal(decimal.RequireFromString("9")) {
		t.Errorf("unexpected return %s", got.Return)
	}
	if !got.Risk.Equal(decimal.RequireFromString("19")) {
		t.Errorf("unexpected risk %s", got.Risk)
	}
	if !got.TotalValue.Equal(decimal.RequireFromString("10000.5")) {
		t.Errorf("unexpected total %s", got.TotalValue)
	}

	empty := CalcPortfolioStats(nil)
	if !empty.Return.IsZero() || !empty.Risk.IsZero() || !empty.TotalValue.IsZero() {
		t.Errorf("expected zeros, got %+v", empty)
	}
}

func TestCalcPortfolioStats_OrderIndependent(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	rows := make([]model.PortfolioStock, 25)
	for i := range rows {
		rows[i] = model.PortfolioStock{
			WeightedExpectedReturn: model.FlexFloat(rnd.Float64() / 10),
			ExpectedAnnualRisk:     model.FlexFloat(rnd.Float64()),
			Weight:                 model.FlexFloat(rnd.Float64()),
			InvestedAmount:         model.FlexFloat(rnd.Float64() * 10000),
		}
	}
	want := CalcPortfolioStats(rows)

	for i := 0; i < 20; i++ {
		rnd.Shuffle(len(rows), func(a, b int) { rows[a], rows[b] = rows[b], rows[a] })
		got := CalcPortfolioStats(rows)
		if !got.Return.Equal(want.Return) || !got.Risk.Equal(want.Risk) || !got.TotalValue.Equal(want.TotalValue) {
			t.Fatalf("permutation %d changed stats: %+v vs %+v", i, got, want)
		}
	}
}
