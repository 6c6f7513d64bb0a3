package stocknityApi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
)

const (
	btnBuild    = "Build"
	btnOptimize = "Optimize"
	btnSave     = "Save Portfolio"
)

func (a *StocknityApi) GetDraftPortfolio(ctx context.Context, cookies model.BackendCookies) ([]model.PortfolioStock, error) {
	resp := apiModel.Envelope[[]model.PortfolioStock]{}
	err := a.get(ctx, "StocknityApi.GetDraftPortfolio", cookies, EndpointPortfolioData, &resp, bareRecord)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (a *StocknityApi) GetSavedPortfolios(ctx context.Context, cookies model.BackendCookies) ([]model.SavedPortfolio, error) {
	resp := apiModel.Envelope[[]model.SavedPortfolio]{}
	err := a.get(ctx, "StocknityApi.GetSavedPortfolios", cookies, EndpointMyPortfolioData, &resp, bareRecord)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (a *StocknityApi) BuildTopStockPortfolio(ctx context.Context, cookies model.BackendCookies, form model.TopStockForm) ([]model.PortfolioStock, error) {
	values := url.Values{}
	values.Set("btn", btnBuild)
	values.Set("sector", form.Sector)
	values.Set("index", form.Index)
	values.Set("stock_type", form.StockType)
	values.Set("investing_amount", form.InvestingAmount)
	values.Set("max_stock_price", form.MaxStockPrice)
	values.Set("risk_tolerance", form.RiskTolerance)

	return a.postPortfolioForm(ctx, "StocknityApi.BuildTopStockPortfolio", cookies, values)
}

func (a *StocknityApi) OptimizeCustomPortfolio(ctx context.Context, cookies model.BackendCookies, form model.CustomPortfolioForm) ([]model.PortfolioStock, error) {
	values := url.Values{}
	values.Set("btn", btnOptimize)
	values.Set("stock_type", form.StockType)
	values.Set("expected_return_value", form.ExpectedReturnValue)
	values.Set("investing_amount", form.InvestingAmount)
	values.Set("risk_tolerance", form.RiskTolerance)
	for _, ticker := range form.SelectedStocks {
		values.Add("stock[]", ticker)
	}

	return a.postPortfolioForm(ctx, "StocknityApi.OptimizeCustomPortfolio", cookies, values)
}

func (a *StocknityApi) postPortfolioForm(ctx context.Context, op string, cookies model.BackendCookies, values url.Values) ([]model.PortfolioStock, error) {
	resp := apiModel.Envelope[[]model.PortfolioStock]{}
	req := a.newRequest(ctx, cookies).SetFormDataFromValues(values)
	err := a.do(ctx, op, cookies, req, http.MethodPost, EndpointPortfolio, &resp, bareRecord)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (a *StocknityApi) SaveDraftPortfolio(ctx context.Context, cookies model.BackendCookies) error {
	resp := apiModel.Base{}
	req := a.newRequest(ctx, cookies).SetFormData(map[string]string{"btn": btnSave})
	return a.do(ctx, "StocknityApi.SaveDraftPortfolio", cookies, req, http.MethodPost, EndpointPortfolio, &resp, requireSuccess)
}

func (a *StocknityApi) DeletePortfolio(ctx context.Context, cookies model.BackendCookies, portfolioID string) error {
	resp := apiModel.Base{}
	req := a.newRequest(ctx, cookies)
	return a.do(ctx, "StocknityApi.DeletePortfolio", cookies, req, http.MethodPost, EndpointDeletePortfolio(portfolioID), &resp, bareRecord)
}

func (a *StocknityApi) ClearDraftPortfolio(ctx context.Context, cookies model.BackendCookies) error {
	resp := apiModel.Base{}
	req := a.newRequest(ctx, cookies)
	return a.do(ctx, "StocknityApi.ClearDraftPortfolio", cookies, req, http.MethodPost, EndpointClearBuiltPortfolio, &resp, bareRecord)
}
