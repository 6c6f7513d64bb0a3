package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KotFed0t/stocknity/internal/converter/telebotConverter"
	"github.com/KotFed0t/stocknity/internal/externalApi"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"github.com/KotFed0t/stocknity/internal/service/authService"
	"github.com/KotFed0t/stocknity/internal/service/dashboardService"
	"github.com/KotFed0t/stocknity/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	SessionKeyPrefix = "tg:"

	internalErrMsg     = "Something went wrong, please try again later."
	loginFirstMsg      = "Please /login first."
	loginFailedMsg     = "Invalid email or password"
	adminOnlyMsg       = "This command is available to admins only."
	unknownCommandMsg  = "Please use one of the commands, see /start."
	stocksFailedMsg    = "Failed to fetch stock data"
	sentimentFailedMsg = "Failed to fetch sentiment data"
	recsFailedMsg      = "Failed to fetch recommendations"
	savedFailedMsg     = "Failed to load saved portfolios"
	exportFailedMsg    = "Failed to export portfolios"
)

type AuthService interface {
	State(ctx context.Context, key string) (model.AuthState, error)
	Login(ctx context.Context, key string, form model.LoginForm) (model.AuthState, error)
	Logout(ctx context.Context, key string) error
	Dialog(ctx context.Context, key string) (model.DialogAction, string, error)
	SetDialog(ctx context.Context, key string, action model.DialogAction, pendingEmail string) error
}

type DashboardService interface {
	Stocks(ctx context.Context, key string) ([]model.StockRecord, error)
	Search(ctx context.Context, key string, filter model.ScreenerFilter) ([]model.StockRecord, error)
	Sentiment(ctx context.Context, key, ticker string) (model.SentimentData, error)
	Recommendations(ctx context.Context, key string, query model.RecommendationsQuery) ([]model.StockRecommendation, error)
	SavedPortfolios(ctx context.Context, key string) ([]model.SavedPortfolio, error)
	CacheStatus(ctx context.Context, key string) (model.CacheStatus, error)
	AnnualReturnsCacheStatus(ctx context.Context, key string) (model.AnnualReturnsCacheStatus, error)
}

type CacheMonitor interface {
	Stocks() model.CacheSnapshot
	AnnualReturns() model.CacheSnapshot
	SetStocks(status model.CacheStatus)
	SetAnnualReturns(status model.AnnualReturnsCacheStatus)
}

type ReportService interface {
	StorageEnabled() bool
	ExportLink(ctx context.Context, key string) (string, error)
	ExportPortfolios(ctx context.Context, key string, withScreener bool) (model.ExportFile, error)
}

type Controller struct {
	auth      AuthService
	dashboard DashboardService
	monitor   CacheMonitor
	report    ReportService
}

func NewController(auth AuthService, dashboard DashboardService, monitor CacheMonitor, report ReportService) *Controller {
	return &Controller{
		auth:      auth,
		dashboard: dashboard,
		monitor:   monitor,
		report:    report,
	}
}

// SessionKey is the session store key of a chat.
func SessionKey(chatID int64) string {
	return SessionKeyPrefix + strconv.FormatInt(chatID, 10)
}

// ctxFromTele carries the middleware's request id into a fresh context.
func ctxFromTele(c tele.Context) context.Context {
	rqID, _ := c.Get("rqID").(string)
	return utils.CtxWithRqID(context.Background(), rqID)
}

// ErrText is the reply for a failed service call.
func ErrText(err error, fallback string) string {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Msg
	case errors.Is(err, externalApi.ErrUnauthorized):
		return loginFirstMsg
	}
	var apiErr *externalApi.APIError
	if errors.As(err, &apiErr) {
		return fallback + ": " + apiErr.Message
	}
	return fallback
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := ctxFromTele(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	state, err := ctrl.auth.State(ctx, SessionKey(c.Chat().ID))
	if err != nil {
		slog.Error("got error from auth.State", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
	return c.Send(telebotConverter.StartResponse(state))
}

func (ctrl *Controller) InitLogin(c tele.Context) error {
	ctx := ctxFromTele(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	err := ctrl.auth.SetDialog(ctx, SessionKey(c.Chat().ID), model.ExpectingEmail, "")
	if err != nil {
		slog.Error("got error from auth.SetDialog", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("Enter your email:")
}

func (ctrl *Controller) ProcessEmail(c tele.Context) error {
	ctx := ctxFromTele(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	email := strings.TrimSpace(c.Text())
	if err := authService.ValidateEmail(email); err != nil {
		return c.Send(ErrText(err, internalErrMsg))
	}

	err := ctrl.auth.SetDialog(ctx, SessionKey(c.Chat().ID), model.ExpectingPassword, email)
	if err != nil {
		slog.Error("got error from auth.SetDialog", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("Enter your password:")
}

// ProcessPassword finishes the login dialog. The password message is
// removed from the chat whatever the outcome.
func (ctrl *Controller) ProcessPassword(c tele.Context, pendingEmail string) error {
	ctx := ctxFromTele(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	key := SessionKey(c.Chat().ID)

	form := model.LoginForm{Email: pendingEmail, Password: c.Text()}

	if err := c.Delete(); err != nil {
		slog.Warn("can't delete password message", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	state, err := ctrl.auth.Login(ctx, key, form)
	if err != nil {
		slog.Info("login rejected", slog.String("rqID", rqID), slog.String("err", err.Error()))
		if dialogErr := ctrl.auth.SetDialog(ctx, key, model.DefaultAction, ""); dialogErr != nil {
			slog.Error("got error from auth.SetDialog", slog.String("rqID", rqID), slog.String("err", dialogErr.Error()))
		}
		if errors.Is(err, service.ErrValidation) {
			return c.Send(ErrText(err, loginFailedMsg))
		}
		return c.Send(loginFailedMsg + ". Use /login to try again.")
	}

	return c.Send(telebotConverter.StartResponse(state))
}

func (ctrl *Controller) Logout(c tele.Context) error {
	ctx := ctxFromTele(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if err := ctrl.auth.Logout(ctx, SessionKey(c.Chat().ID)); err != nil {
		slog.Warn("logout finished with error", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
	return c.Send("You have been logged out.")
}

// Screener lists the default screener, or the S&P 500 stocks of the sector
// given as the command argument.
func (ctrl *Controller) Screener(c tele.Context) error {
	ctx := ctxFromTele(c)
	key := SessionKey(c.Chat().ID)

	var (
		stocks []model.StockRecord
		title  string
		err    error
	)
	if sector := strings.TrimSpace(strings.Join(c.Args(), " ")); sector != "" {
		filter := model.DefaultScreenerFilter()
		filter.Sector = sector
		title = sector + " · " + filter.Index
		stocks, err = ctrl.dashboard.Search(ctx, key, filter)
	} else {
		title = "Stock screener"
		stocks, err = ctrl.dashboard.Stocks(ctx, key)
	}
	if err != nil {
		return c.Send(ErrText(err, stocksFailedMsg))
	}

	return c.Send(telebotConverter.StocksResponse(title, stocks))
}

func (ctrl *Controller) Sentiment(c tele.Context) error {
	ticker := ""
	if args := c.Args(); len(args) > 0 {
		ticker = args[0]
	}
	return ctrl.sendSentiment(c, ticker)
}

// SentimentCallback answers a recommendation button press.
func (ctrl *Controller) SentimentCallback(c tele.Context) error {
	_ = c.Respond()
	return ctrl.sendSentiment(c, c.Data())
}

func (ctrl *Controller) sendSentiment(c tele.Context, ticker string) error {
	ctx := ctxFromTele(c)

	data, err := ctrl.dashboard.Sentiment(ctx, SessionKey(c.Chat().ID), ticker)
	if err != nil {
		return c.Send(ErrText(err, sentimentFailedMsg))
	}
	return c.Send(telebotConverter.SentimentResponse(data))
}

func (ctrl *Controller) Recommendations(c tele.Context) error {
	ctx := ctxFromTele(c)

	query := dashboardService.NormalizeQuery(model.RecommendationsQuery{})
	recs, err := ctrl.dashboard.Recommendations(ctx, SessionKey(c.Chat().ID), query)
	if err != nil {
		return c.Send(ErrText(err, recsFailedMsg))
	}
	return c.Send(telebotConverter.RecommendationsResponse(query, recs))
}

func (ctrl *Controller) Portfolios(c tele.Context) error {
	ctx := ctxFromTele(c)

	saved, err := ctrl.dashboard.SavedPortfolios(ctx, SessionKey(c.Chat().ID))
	if err != nil {
		return c.Send(ErrText(err, savedFailedMsg))
	}

	reports := make([]model.PortfolioReport, 0, len(saved))
	for _, p := range saved {
		reports = append(reports, model.PortfolioReport{Portfolio: p, Stats: dashboardService.CalcPortfolioStats(p.Stocks)})
	}
	return c.Send(telebotConverter.PortfoliosResponse(reports))
}

// Cache reads both statuses live with the admin's backend session. A failed
// read falls back to the last polled snapshot.
func (ctrl *Controller) Cache(c tele.Context) error {
	ctx := ctxFromTele(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	key := SessionKey(c.Chat().ID)

	state, err := ctrl.auth.State(ctx, key)
	if err != nil {
		slog.Error("got error from auth.State", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}
	if !state.Authenticated || !state.IsAdmin {
		return c.Send(adminOnlyMsg)
	}

	if status, err := ctrl.dashboard.CacheStatus(ctx, key); err == nil {
		ctrl.monitor.SetStocks(status)
	} else {
		slog.Warn("live cache status failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
	if status, err := ctrl.dashboard.AnnualReturnsCacheStatus(ctx, key); err == nil {
		ctrl.monitor.SetAnnualReturns(status)
	} else {
		slog.Warn("live annual returns cache status failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	return c.Send(telebotConverter.CacheResponse(ctrl.monitor.Stocks(), ctrl.monitor.AnnualReturns()))
}

// Export sends a Drive link when cloud storage is configured and the
// workbook itself otherwise.
func (ctrl *Controller) Export(c tele.Context) error {
	ctx := ctxFromTele(c)
	key := SessionKey(c.Chat().ID)

	if ctrl.report.StorageEnabled() {
		link, err := ctrl.report.ExportLink(ctx, key)
		if err != nil {
			return c.Send(ErrText(err, exportFailedMsg))
		}
		return c.Send("📎 Your export is ready: " + link)
	}

	file, err := ctrl.report.ExportPortfolios(ctx, key, false)
	if err != nil {
		return c.Send(ErrText(err, exportFailedMsg))
	}
	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(file.Data)),
		FileName: file.FileName,
		MIME:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
}

func (ctrl *Controller) Unknown(c tele.Context) error {
	return c.Send(unknownCommandMsg)
}
