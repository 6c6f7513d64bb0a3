package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/transport/web/middleware"
)

const (
	msgMethodsFailed  = "Failed to load optimization methods"
	msgAdvancedFailed = "Failed to build portfolio"
	msgCompareFailed  = "Failed to compare methods"
	msgBacktestFailed = "Failed to run backtest"
)

const (
	advancedOptimize = "optimize"
	advancedCompare  = "compare"
	advancedBacktest = "backtest"
)

type advancedData struct {
	Form           model.AdvancedPortfolioForm
	Methods        []model.OptimizationMethod
	Result         *model.AdvancedPortfolio
	Comparison     map[string]model.ComparisonResult
	Backtest       *model.Backtest
	Sectors        []string
	Indices        []string
	StockTypes     []string
	RiskTolerances []string
}

func newAdvancedData(form model.AdvancedPortfolioForm) advancedData {
	return advancedData{
		Form:           form,
		Sectors:        model.Sectors,
		Indices:        model.Indices,
		StockTypes:     model.StockTypes,
		RiskTolerances: model.RiskTolerances,
	}
}

// parseAdvancedForm keeps defaults for absent fields. Unparsable amounts
// become zero and are rejected by the service.
func parseAdvancedForm(r *http.Request) model.AdvancedPortfolioForm {
	form := model.DefaultAdvancedPortfolioForm()
	setIfPresent(&form.Method, r.PostForm.Get("method"))
	setIfPresent(&form.RiskTolerance, r.PostForm.Get("risk_tolerance"))
	setIfPresent(&form.Sector, r.PostForm.Get("sector"))
	setIfPresent(&form.Index, r.PostForm.Get("index"))
	setIfPresent(&form.StockType, r.PostForm.Get("stock_type"))
	setFloatIfPresent(&form.InvestingAmount, r.PostForm.Get("investing_amount"))
	setFloatIfPresent(&form.MaxStockPrice, r.PostForm.Get("max_stock_price"))
	return form
}

func setFloatIfPresent(dst *float64, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f = 0
	}
	*dst = f
}

func (s *Server) loadMethods(r *http.Request, p Page, data *advancedData) Page {
	ctx := r.Context()
	methods, err := s.dashboard.OptimizationMethods(ctx, middleware.SessionKey(ctx))
	if err != nil {
		if p.Error == "" {
			p = withError(p, err, msgMethodsFailed)
		}
		return p
	}
	data.Methods = methods
	return p
}

func (s *Server) advanced(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "Advanced Portfolio", "advanced")
	data := newAdvancedData(model.DefaultAdvancedPortfolioForm())

	p = s.loadMethods(r, p, &data)
	p.Data = data

	s.views.render(w, r, http.StatusOK, "advanced", p)
}

// advancedRun runs one of the three actions named by the "action" field.
// The result panels of other actions stay empty.
func (s *Server) advancedRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := middleware.SessionKey(ctx)
	p := s.page(r, "Advanced Portfolio", "advanced")

	if err := r.ParseForm(); err != nil {
		p.Error = msgBadForm
		data := newAdvancedData(model.DefaultAdvancedPortfolioForm())
		p = s.loadMethods(r, p, &data)
		p.Data = data
		s.views.render(w, r, http.StatusBadRequest, "advanced", p)
		return
	}

	data := newAdvancedData(parseAdvancedForm(r))

	var err error
	switch r.PostForm.Get("action") {
	case advancedCompare:
		var comparison map[string]model.ComparisonResult
		comparison, err = s.dashboard.CompareMethods(ctx, key, data.Form)
		if err != nil {
			p = withError(p, err, msgCompareFailed)
		} else {
			data.Comparison = comparison
		}
	case advancedBacktest:
		var backtest model.Backtest
		backtest, err = s.dashboard.Backtest(ctx, key, data.Form)
		if err != nil {
			p = withError(p, err, msgBacktestFailed)
		} else {
			data.Backtest = &backtest
		}
	case advancedOptimize, "":
		var result model.AdvancedPortfolio
		result, err = s.dashboard.AdvancedOptimize(ctx, key, data.Form)
		if err != nil {
			p = withError(p, err, msgAdvancedFailed)
		} else {
			data.Result = &result
		}
	default:
		err = errBadForm
		p.Error = msgBadForm
	}

	p = s.loadMethods(r, p, &data)
	p.Data = data

	s.views.render(w, r, statusOf(err), "advanced", p)
}
