package web

import (
	"math"
	"net/http"
	"strconv"

	"github.com/KotFed0t/stocknity/internal/format"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/transport/web/middleware"
)

const (
	msgStocksFailed = "Failed to fetch stock data"
	msgSearchFailed = "Failed to search stocks"
	msgChartFailed  = "Failed to load chart data"
)

type screenerData struct {
	Filter  model.ScreenerFilter
	Sectors []string
	Indices []string
	Stocks  []model.StockRecord
}

type chartPageData struct {
	Type     string
	Types    []string
	Sections []chartSection
}

type chartSection struct {
	Title string
	Rows  []chartRow
}

type chartRow struct {
	Rank   int
	Ticker string
	Value  float64
	// Width is the bar length in percent.
	Width float64
}

// chartSections pairs labels with values. Labels without a value are dropped.
func chartSections(charts []model.ChartData) []chartSection {
	res := make([]chartSection, 0, len(charts))
	for _, c := range charts {
		sec := chartSection{Title: c.Title}
		for i, ticker := range c.Labels {
			if i >= len(c.Values) {
				break
			}
			v, _ := format.ParseLenient(c.Values[i].String())
			sec.Rows = append(sec.Rows, chartRow{
				Rank:   i + 1,
				Ticker: ticker,
				Value:  v,
				Width:  math.Min(100, math.Abs(v)*10),
			})
		}
		res = append(res, sec)
	}
	return res
}

type aiPageData struct {
	model.AIOverview
	TimeHorizons   []string
	RiskTolerances []string
}

func newScreenerData(filter model.ScreenerFilter) screenerData {
	return screenerData{Filter: filter, Sectors: model.Sectors, Indices: model.Indices}
}

func (s *Server) screener(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Stock Screener", "screener")
	data := newScreenerData(model.DefaultScreenerFilter())

	stocks, err := s.dashboard.Stocks(ctx, middleware.SessionKey(ctx))
	if err != nil {
		p = withError(p, err, msgStocksFailed)
	}
	data.Stocks = stocks
	p.Data = data

	s.views.render(w, r, statusOf(err), "screener", p)
}

func (s *Server) screenerSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Stock Screener", "screener")

	if err := r.ParseForm(); err != nil {
		p.Error = msgBadForm
		p.Data = newScreenerData(model.DefaultScreenerFilter())
		s.views.render(w, r, http.StatusBadRequest, "screener", p)
		return
	}

	filter := model.ScreenerFilter{Sector: r.PostForm.Get("sector"), Index: r.PostForm.Get("index")}
	data := newScreenerData(filter)

	stocks, err := s.dashboard.Search(ctx, middleware.SessionKey(ctx), filter)
	if err != nil {
		p = withError(p, err, msgSearchFailed)
	}
	data.Stocks = stocks
	p.Data = data

	s.views.render(w, r, statusOf(err), "screener", p)
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Charts", "chart")

	chartType := r.URL.Query().Get("type")
	if chartType == "" {
		chartType = model.ChartValue
	}
	data := chartPageData{Type: chartType, Types: model.ChartTypes}

	charts, err := s.dashboard.Chart(ctx, middleware.SessionKey(ctx), chartType)
	if err != nil {
		p = withError(p, err, msgChartFailed)
	}
	data.Sections = chartSections(charts)
	p.Data = data

	s.views.render(w, r, statusOf(err), "chart", p)
}

// aiAnalysis renders the three AI sections. A failing section shows its own
// alert; the page itself is always 200.
func (s *Server) aiAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	p := s.page(r, "AI Analysis", "ai")

	limit, _ := strconv.Atoi(q.Get("limit"))
	overview := s.dashboard.AIOverview(ctx, middleware.SessionKey(ctx), q.Get("ticker"), model.RecommendationsQuery{
		TimeHorizon:   q.Get("time_horizon"),
		RiskTolerance: q.Get("risk_tolerance"),
		Limit:         limit,
	})

	p.Data = aiPageData{
		AIOverview:     overview,
		TimeHorizons:   model.TimeHorizons,
		RiskTolerances: model.AIRiskTolerances,
	}
	s.views.render(w, r, http.StatusOK, "ai", p)
}
