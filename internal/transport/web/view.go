package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/KotFed0t/stocknity/internal/externalApi"
	"github.com/KotFed0t/stocknity/internal/format"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"github.com/KotFed0t/stocknity/internal/transport/web/middleware"
	"github.com/KotFed0t/stocknity/utils"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{
	"home", "login", "signup", "profile", "screener", "chart",
	"ai", "portfolio", "advanced", "cache",
}

var funcs = template.FuncMap{
	"number":        format.Number,
	"grouped":       format.Grouped,
	"percentage":    format.Percentage,
	"currency":      format.Currency,
	"marketCap":     format.MarketCap,
	"dollars":       format.Dollars,
	"dollarsPtr":    format.DollarsPtr,
	"plainPercent":  format.PlainPercent,
	"ratio":         format.Ratio,
	"fixed":         format.Fixed,
	"fixed3":        format.Fixed3,
	"scaled":        format.Scaled,
	"returnRisk":    format.ReturnRiskRatio,
	"timestamp":     format.Timestamp,
	"truncate":      format.Truncate,
	"changeClass":   format.ChangeClass,
	"signClass":     format.SignClass,
	"sentColor":     format.SentimentColor,
	"sentLabel":     format.SentimentLabel,
	"riskColor":     format.RiskColor,
	"riskLabel":     format.RiskLabel,
	"methodColor":   format.MethodColor,
	"statusBadge":   format.CacheStatusBadge,
	"freshBadge":    format.FreshnessBadge,
	"ttlPercent":    format.TTLPercentage,
	"stocksVariant": format.StocksTTLVariant,
	"annualVariant": format.AnnualReturnsTTLVariant,
	"stocksMaxTTL":  func() time.Duration { return format.StocksCacheMaxTTL },
	"annualMaxTTL":  func() time.Duration { return format.AnnualReturnsCacheMaxTTL },
	"dec":           func(d decimal.Decimal) string { return d.StringFixed(2) },
	"decDollars":    func(d decimal.Decimal) string { return format.Dollars(d.InexactFloat64()) },
	"join":          strings.Join,
	"contains":      slices.Contains[[]string, string],
	"upper":         strings.ToUpper,
	"add":           func(a, b int) int { return a + b },
	"errMsg":        userMessage,
}

// Page is what every template receives.
type Page struct {
	Title        string
	Active       string
	Auth         model.AuthState
	NavBadge     format.Badge
	ShowNavBadge bool
	Error        string
	Success      string
	Data         any
}

type views struct {
	templates map[string]*template.Template
}

func newViews() (*views, error) {
	v := &views{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		v.templates[name] = t
	}
	return v, nil
}

func (v *views) render(w http.ResponseWriter, r *http.Request, status int, name string, p Page) {
	rqID := utils.GetRequestIDFromCtx(r.Context())

	t, ok := v.templates[name]
	if !ok {
		slog.Error("unknown template", slog.String("rqID", rqID), slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		slog.Error("can't render template", slog.String("rqID", rqID), slog.String("template", name), slog.String("err", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// userMessage turns an error into alert text. Backend and validation
// messages are shown as they are; anything else gets the fallback.
func userMessage(err error, fallback string) string {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Msg
	}
	var apiErr *externalApi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, externalApi.ErrBadResponse) {
		return fallback + ": unexpected response from server"
	}
	return fallback
}

// statusOf maps an error to the page status code.
func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, externalApi.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, externalApi.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) page(r *http.Request, title, active string) Page {
	auth := middleware.AuthState(r.Context())
	p := Page{Title: title, Active: active, Auth: auth}
	if auth.Authenticated && auth.IsAdmin {
		p.ShowNavBadge = true
		p.NavBadge = format.NavCacheBadge(s.monitor.Stocks().Status)
	}
	return p
}

// withError fills the alert. A rejected backend session also drops the
// authenticated view for the rest of this render.
func withError(p Page, err error, fallback string) Page {
	p.Error = userMessage(err, fallback)
	if errors.Is(err, externalApi.ErrUnauthorized) {
		p.Auth = model.AuthState{}
		p.ShowNavBadge = false
	}
	return p
}
