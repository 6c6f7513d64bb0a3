package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"github.com/KotFed0t/stocknity/internal/service/dashboardService"
	"github.com/KotFed0t/stocknity/internal/transport/web/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	msgDraftFailed    = "Failed to load portfolio"
	msgSavedFailed    = "Failed to load saved portfolios"
	msgBuildFailed    = "Failed to build portfolio"
	msgOptimizeFailed = "Failed to optimize portfolio"
	msgSaveFailed     = "Failed to save portfolio"
	msgDeleteFailed   = "Failed to delete portfolio"
	msgClearFailed    = "Failed to clear portfolio"
	msgExportFailed   = "Failed to export portfolios"
	msgSaved          = "Portfolio saved successfully!"
	msgDeleted        = "Portfolio deleted successfully!"
	msgCleared        = "Portfolio cleared."
)

type portfolioData struct {
	TopForm        model.TopStockForm
	CustomForm     model.CustomPortfolioForm
	Draft          []model.PortfolioStock
	Stats          model.PortfolioStats
	Saved          []model.PortfolioReport
	SavedErr       string
	Sectors        []string
	Indices        []string
	StockTypes     []string
	RiskTolerances []string
}

func newPortfolioData() portfolioData {
	return portfolioData{
		TopForm:        model.DefaultTopStockForm(),
		CustomForm:     model.DefaultCustomPortfolioForm(),
		Sectors:        model.Sectors,
		Indices:        model.Indices,
		StockTypes:     model.StockTypes,
		RiskTolerances: model.RiskTolerances,
	}
}

func (d *portfolioData) setDraft(draft []model.PortfolioStock) {
	d.Draft = draft
	d.Stats = dashboardService.CalcPortfolioStats(draft)
}

func (d *portfolioData) setSaved(saved []model.SavedPortfolio) {
	d.Saved = make([]model.PortfolioReport, 0, len(saved))
	for _, p := range saved {
		d.Saved = append(d.Saved, model.PortfolioReport{Portfolio: p, Stats: dashboardService.CalcPortfolioStats(p.Stocks)})
	}
}

// loadSaved fills the saved list. Its failure is shown inside the saved
// panel and does not fail the page.
func (s *Server) loadSaved(ctx context.Context, data *portfolioData) {
	saved, err := s.dashboard.SavedPortfolios(ctx, middleware.SessionKey(ctx))
	if err != nil {
		data.SavedErr = userMessage(err, msgSavedFailed)
		return
	}
	data.setSaved(saved)
}

func (s *Server) renderPortfolio(w http.ResponseWriter, r *http.Request, p Page, data portfolioData, err error) {
	p.Data = data
	s.views.render(w, r, statusOf(err), "portfolio", p)
}

func (s *Server) portfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Portfolio", "portfolio")
	data := newPortfolioData()

	switch r.URL.Query().Get("flash") {
	case "saved":
		p.Success = msgSaved
	case "deleted":
		p.Success = msgDeleted
	case "cleared":
		p.Success = msgCleared
	}

	draft, err := s.dashboard.Draft(ctx, middleware.SessionKey(ctx))
	if err != nil {
		p = withError(p, err, msgDraftFailed)
	} else {
		data.setDraft(draft)
	}
	s.loadSaved(ctx, &data)

	s.renderPortfolio(w, r, p, data, err)
}

func parseTopStockForm(r *http.Request) model.TopStockForm {
	form := model.DefaultTopStockForm()
	setIfPresent(&form.Sector, r.PostForm.Get("sector"))
	setIfPresent(&form.Index, r.PostForm.Get("index"))
	setIfPresent(&form.StockType, r.PostForm.Get("stock_type"))
	setIfPresent(&form.InvestingAmount, r.PostForm.Get("investing_amount"))
	setIfPresent(&form.MaxStockPrice, r.PostForm.Get("max_stock_price"))
	setIfPresent(&form.RiskTolerance, r.PostForm.Get("risk_tolerance"))
	return form
}

func parseCustomForm(r *http.Request) model.CustomPortfolioForm {
	form := model.DefaultCustomPortfolioForm()
	setIfPresent(&form.StockType, r.PostForm.Get("stock_type"))
	setIfPresent(&form.ExpectedReturnValue, r.PostForm.Get("expected_return_value"))
	setIfPresent(&form.InvestingAmount, r.PostForm.Get("investing_amount"))
	setIfPresent(&form.RiskTolerance, r.PostForm.Get("risk_tolerance"))
	form.SelectedStocks = append(r.PostForm["stock[]"], r.PostForm.Get("stocks"))
	return form
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func (s *Server) portfolioBuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Portfolio", "portfolio")
	data := newPortfolioData()

	if err := r.ParseForm(); err != nil {
		p.Error = msgBadForm
		s.renderPortfolio(w, r, p, data, errBadForm)
		return
	}

	data.TopForm = parseTopStockForm(r)
	draft, err := s.dashboard.BuildTopStocks(ctx, middleware.SessionKey(ctx), data.TopForm)
	if err != nil {
		p = withError(p, err, msgBuildFailed)
	} else {
		data.setDraft(draft)
	}
	s.loadSaved(ctx, &data)

	s.renderPortfolio(w, r, p, data, err)
}

func (s *Server) portfolioOptimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Portfolio", "portfolio")
	data := newPortfolioData()

	if err := r.ParseForm(); err != nil {
		p.Error = msgBadForm
		s.renderPortfolio(w, r, p, data, errBadForm)
		return
	}

	data.CustomForm = parseCustomForm(r)
	draft, err := s.dashboard.OptimizeCustom(ctx, middleware.SessionKey(ctx), data.CustomForm)
	data.CustomForm.SelectedStocks = dashboardService.NormalizeTickers(data.CustomForm.SelectedStocks)
	if err != nil {
		p = withError(p, err, msgOptimizeFailed)
	} else {
		data.setDraft(draft)
	}
	s.loadSaved(ctx, &data)

	s.renderPortfolio(w, r, p, data, err)
}

func (s *Server) portfolioSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := s.dashboard.SaveDraft(ctx, middleware.SessionKey(ctx))
	if err != nil {
		s.portfolioFailure(w, r, err, msgSaveFailed)
		return
	}

	http.Redirect(w, r, "/portfolio?flash=saved", http.StatusSeeOther)
}

func (s *Server) portfolioDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := s.dashboard.DeletePortfolio(ctx, middleware.SessionKey(ctx), chi.URLParam(r, "portfolioID"))
	if err != nil {
		s.portfolioFailure(w, r, err, msgDeleteFailed)
		return
	}

	http.Redirect(w, r, "/portfolio?flash=deleted", http.StatusSeeOther)
}

func (s *Server) portfolioClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.dashboard.ClearDraft(ctx, middleware.SessionKey(ctx)); err != nil {
		s.portfolioFailure(w, r, err, msgClearFailed)
		return
	}

	http.Redirect(w, r, "/portfolio?flash=cleared", http.StatusSeeOther)
}

// portfolioFailure re-renders the page with the current backend state and
// the failed action's alert.
func (s *Server) portfolioFailure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	ctx := r.Context()
	p := withError(s.page(r, "Portfolio", "portfolio"), err, fallback)
	data := newPortfolioData()

	if draft, draftErr := s.dashboard.Draft(ctx, middleware.SessionKey(ctx)); draftErr == nil {
		data.setDraft(draft)
	}
	s.loadSaved(ctx, &data)

	s.renderPortfolio(w, r, p, data, err)
}

func (s *Server) portfolioExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	withScreener := r.URL.Query().Get("screener") == "1"
	export, err := s.report.ExportPortfolios(ctx, middleware.SessionKey(ctx), withScreener)
	if err != nil {
		s.portfolioFailure(w, r, err, msgExportFailed)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

var errBadForm = service.NewValidationError(msgBadForm)
