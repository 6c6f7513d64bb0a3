package stocknityApi

import (
	"context"
	"net/http"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
)

func (a *StocknityApi) GetScreenerData(ctx context.Context, cookies model.BackendCookies) ([]model.StockRecord, error) {
	resp := apiModel.Envelope[[]model.StockRecord]{}
	err := a.get(ctx, "StocknityApi.GetScreenerData", cookies, EndpointScreenerData, &resp, bareRecord)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ApplyScreenerFilter stores the filter server-side; the rows come from the
// next GetScreenerData.
func (a *StocknityApi) ApplyScreenerFilter(ctx context.Context, cookies model.BackendCookies, filter model.ScreenerFilter) error {
	resp := apiModel.Base{}
	req := a.newRequest(ctx, cookies).SetFormData(map[string]string{
		"sector": filter.Sector,
		"index":  filter.Index,
	})
	return a.do(ctx, "StocknityApi.ApplyScreenerFilter", cookies, req, http.MethodPost, EndpointScreener, &resp, bareRecord)
}
