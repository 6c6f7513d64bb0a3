package stocknityApi

import (
	"context"
	"errors"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
)

func (a *StocknityApi) GetCacheStatus(ctx context.Context, cookies model.BackendCookies) (model.CacheStatus, error) {
	resp := apiModel.CacheStatusResponse{}
	err := a.get(ctx, "StocknityApi.GetCacheStatus", cookies, EndpointCacheStatus, &resp, requireSuccess)
	if err != nil {
		return model.CacheStatus{}, err
	}
	if resp.CacheStatus == nil {
		return model.CacheStatus{}, errors.New("cache status missing in response")
	}
	return *resp.CacheStatus, nil
}

func (a *StocknityApi) GetAnnualReturnsCacheStatus(ctx context.Context, cookies model.BackendCookies) (model.AnnualReturnsCacheStatus, error) {
	resp := apiModel.CacheStatusResponse{}
	err := a.get(ctx, "StocknityApi.GetAnnualReturnsCacheStatus", cookies, EndpointAnnualReturnsCacheStatus, &resp, requireSuccess)
	if err != nil {
		return model.AnnualReturnsCacheStatus{}, err
	}
	if resp.CacheStatus == nil {
		return model.AnnualReturnsCacheStatus{}, errors.New("cache status missing in response")
	}
	return model.AnnualReturnsCacheStatus{
		CacheStatus:    *resp.CacheStatus,
		IsFresh:        resp.IsFresh,
		Recommendation: resp.Recommendation,
	}, nil
}

func (a *StocknityApi) RefreshCache(ctx context.Context, cookies model.BackendCookies) error {
	resp := apiModel.Base{}
	return a.postJSON(ctx, "StocknityApi.RefreshCache", cookies, EndpointCacheRefresh, nil, &resp)
}

func (a *StocknityApi) PreWarmCache(ctx context.Context, cookies model.BackendCookies) error {
	resp := apiModel.Base{}
	return a.postJSON(ctx, "StocknityApi.PreWarmCache", cookies, EndpointCachePreWarm, nil, &resp)
}
