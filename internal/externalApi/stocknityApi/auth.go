package stocknityApi

import (
	"context"
	"net/http"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/model/apiModel"
)

func (a *StocknityApi) Login(ctx context.Context, cookies model.BackendCookies, form model.LoginForm) (model.User, error) {
	resp := apiModel.AuthResponse{}
	err := a.postJSON(ctx, "StocknityApi.Login", cookies, EndpointLogin, form, &resp)
	if err != nil {
		return model.User{}, err
	}

	if resp.User == nil {
		return model.User{}, nil
	}
	return *resp.User, nil
}

func (a *StocknityApi) Signup(ctx context.Context, cookies model.BackendCookies, form model.SignupForm) error {
	resp := apiModel.AuthResponse{}
	return a.postJSON(ctx, "StocknityApi.Signup", cookies, EndpointSignup, form, &resp)
}

func (a *StocknityApi) Logout(ctx context.Context, cookies model.BackendCookies) error {
	resp := apiModel.Base{}
	return a.do(ctx, "StocknityApi.Logout", cookies, a.newRequest(ctx, cookies), http.MethodPost, EndpointLogout, &resp, bareRecord)
}

// Profile restores the session user. The backend answers 200 with the user
// either under "user" or "data".
func (a *StocknityApi) Profile(ctx context.Context, cookies model.BackendCookies) (model.User, error) {
	resp := apiModel.ProfileResponse{}
	err := a.get(ctx, "StocknityApi.Profile", cookies, EndpointProfile, &resp, bareRecord)
	if err != nil {
		return model.User{}, err
	}

	switch {
	case resp.User != nil:
		return *resp.User, nil
	case resp.Data != nil:
		return *resp.Data, nil
	default:
		return model.User{}, nil
	}
}

func (a *StocknityApi) Subscribe(ctx context.Context, cookies model.BackendCookies, email string) error {
	resp := apiModel.Base{}
	req := a.newRequest(ctx, cookies).
		SetHeader("Content-Type", "application/json").
		SetBody(apiModel.SubscribeRequest{Email: email})
	return a.do(ctx, "StocknityApi.Subscribe", cookies, req, http.MethodPost, EndpointSubscribe, &resp, bareRecord)
}
