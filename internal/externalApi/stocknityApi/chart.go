package stocknityApi

import (
	"context"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
)

func (a *StocknityApi) GetChart(ctx context.Context, cookies model.BackendCookies, chartType string) ([]model.ChartData, error) {
	resp := apiModel.ChartResponse{}
	err := a.get(ctx, "StocknityApi.GetChart", cookies, EndpointChart(chartType), &resp, bareRecord)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
