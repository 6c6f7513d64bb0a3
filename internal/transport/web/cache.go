package web

import (
	"log/slog"
	"net/http"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/transport/web/middleware"
	"github.com/KotFed0t/stocknity/utils"
)

const (
	msgRefreshFailed = "Failed to refresh cache"
	msgPreWarmFailed = "Failed to pre-warm cache"
	msgRefreshed     = "Cache refreshed."
	msgPreWarmed     = "Cache pre-warm started."
)

type cachePageData struct {
	Stocks        model.CacheSnapshot
	AnnualReturns model.CacheSnapshot
}

func (s *Server) renderCache(w http.ResponseWriter, r *http.Request, p Page, err error) {
	p.Data = cachePageData{Stocks: s.monitor.Stocks(), AnnualReturns: s.monitor.AnnualReturns()}
	s.views.render(w, r, statusOf(err), "cache", p)
}

// cacheStatus reads both statuses live with the admin's backend session and
// stores them in the monitor. A failed read keeps the last polled snapshot.
func (s *Server) cacheStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)
	key := middleware.SessionKey(ctx)

	if status, err := s.dashboard.CacheStatus(ctx, key); err == nil {
		s.monitor.SetStocks(status)
	} else {
		slog.Warn("live cache status failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
	if status, err := s.dashboard.AnnualReturnsCacheStatus(ctx, key); err == nil {
		s.monitor.SetAnnualReturns(status)
	} else {
		slog.Warn("live annual returns cache status failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	p := s.page(r, "Cache Status", "cache")
	switch r.URL.Query().Get("flash") {
	case "refreshed":
		p.Success = msgRefreshed
	case "pre_warmed":
		p.Success = msgPreWarmed
	}
	s.renderCache(w, r, p, nil)
}

func (s *Server) cacheRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := s.dashboard.RefreshCache(ctx, middleware.SessionKey(ctx))
	if err != nil {
		s.renderCache(w, r, withError(s.page(r, "Cache Status", "cache"), err, msgRefreshFailed), err)
		return
	}
	s.monitor.SetStocks(status)

	http.Redirect(w, r, "/cache-status?flash=refreshed", http.StatusSeeOther)
}

func (s *Server) cachePreWarm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := s.dashboard.PreWarmCache(ctx, middleware.SessionKey(ctx))
	if err != nil {
		s.renderCache(w, r, withError(s.page(r, "Cache Status", "cache"), err, msgPreWarmFailed), err)
		return
	}
	s.monitor.SetAnnualReturns(status)

	http.Redirect(w, r, "/cache-status?flash=pre_warmed", http.StatusSeeOther)
}
