package stocknityApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/internal/externalApi"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
	"github.com/KotFed0t/stocknity/utils"
	"github.com/go-resty/resty/v2"
)

type outcome interface {
	Result() apiModel.Base
}

type checkMode int

const (
	// requireSuccess fails the call unless the envelope says success=true.
	requireSuccess checkMode = iota
	// bareRecord fails the call only when the record carries an error.
	bareRecord
)

// StocknityApi talks to the Stocknity backend. It keeps no cookies of its
// own: each call carries the visitor's BackendCookies and stores back what
// the backend sets.
type StocknityApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *StocknityApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.BaseURL).
		SetHeader("Accept", "application/json").
		SetCookieJar(nil)
	return &StocknityApi{client: client}
}

func (a *StocknityApi) newRequest(ctx context.Context, cookies model.BackendCookies) *resty.Request {
	req := a.client.R().SetContext(ctx)
	if len(cookies) > 0 {
		req.SetCookies(cookies.HTTPCookies())
	}
	return req
}

func (a *StocknityApi) do(
	ctx context.Context,
	op string,
	cookies model.BackendCookies,
	req *resty.Request,
	method, url string,
	out outcome,
	mode checkMode,
) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start "+op+" request", slog.String("rqID", rqID), slog.String("method", method), slog.String("url", url))

	resp, err := req.Execute(method, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			slog.Debug(op+" request cancelled", slog.String("rqID", rqID), slog.String("err", ctxErr.Error()))
			return ctxErr
		}
		slog.Error("error while dialing stocknity api", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s %s: %w", method, url, err)
	}

	if cookies != nil {
		cookies.Merge(resp.Cookies())
	}

	status := resp.StatusCode()
	body := resp.Body()

	var decodeErr error
	if len(body) > 0 {
		decodeErr = json.Unmarshal(body, out)
	}

	if status == http.StatusUnauthorized {
		slog.Warn(op+" unauthorized", slog.String("rqID", rqID))
		res := out.Result()
		return externalApi.NewAPIError(status, res.Code, res.Error, res.Message)
	}

	if status >= http.StatusBadRequest {
		res := out.Result()
		if decodeErr != nil {
			res = apiModel.Base{Error: fmt.Sprintf("%d %s", status, http.StatusText(status))}
		}
		slog.Error(op+" got error status", slog.String("rqID", rqID), slog.Int("status", status), slog.String("err", res.Error))
		return externalApi.NewAPIError(status, res.Code, res.Error, res.Message)
	}

	if decodeErr != nil {
		slog.Error("can't unmarshall "+op+" response", slog.String("rqID", rqID), slog.String("err", decodeErr.Error()))
		return fmt.Errorf("%w: %s", externalApi.ErrBadResponse, decodeErr.Error())
	}

	res := out.Result()
	switch mode {
	case requireSuccess:
		if !res.Success {
			slog.Warn(op+" got success=false", slog.String("rqID", rqID), slog.String("err", res.Error))
			return externalApi.NewAPIError(status, res.Code, res.Error, res.Message)
		}
	case bareRecord:
		if res.Error != "" {
			slog.Warn(op+" got error in record", slog.String("rqID", rqID), slog.String("err", res.Error))
			return externalApi.NewAPIError(status, res.Code, res.Error, res.Message)
		}
	}

	slog.Debug(op+" request complete", slog.String("rqID", rqID))

	return nil
}

func (a *StocknityApi) get(ctx context.Context, op string, cookies model.BackendCookies, url string, out outcome, mode checkMode) error {
	return a.do(ctx, op, cookies, a.newRequest(ctx, cookies), http.MethodGet, url, out, mode)
}

func (a *StocknityApi) postJSON(ctx context.Context, op string, cookies model.BackendCookies, url string, body any, out outcome) error {
	req := a.newRequest(ctx, cookies).SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	return a.do(ctx, op, cookies, req, http.MethodPost, url, out, requireSuccess)
}

// IsUnauthorized reports whether err means the backend session is gone.
func IsUnauthorized(err error) bool {
	return errors.Is(err, externalApi.ErrUnauthorized)
}
