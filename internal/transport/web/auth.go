package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
	"github.com/KotFed0t/stocknity/internal/transport/web/middleware"
	"github.com/KotFed0t/stocknity/utils"
)

const (
	msgLoginFailed     = "Invalid email or password"
	msgSignupFailed    = "Registration failed. Please try again."
	msgSubscribeFailed = "Subscription failed. Please try again."
	msgSubscribed      = "Thank you for subscribing!"
	msgSignedUp        = "Account created. Please log in."
	msgLoggedOut       = "You have been logged out."
	msgBadForm         = "Invalid form data"
)

type homeData struct {
	Email string
}

type loginData struct {
	Email string
	Next  string
}

type signupData struct {
	Email string
	Name  string
}

// safeNext keeps only local redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "Stocknity", "home")
	p.Data = homeData{}
	switch r.URL.Query().Get("flash") {
	case "subscribed":
		p.Success = msgSubscribed
	case "logged_out":
		p.Success = msgLoggedOut
	}
	s.views.render(w, r, http.StatusOK, "home", p)
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Stocknity", "home")

	if err := r.ParseForm(); err != nil {
		p.Error = msgBadForm
		s.views.render(w, r, http.StatusBadRequest, "home", p)
		return
	}

	email := r.PostForm.Get("email")
	if err := s.dashboard.Subscribe(ctx, middleware.SessionKey(ctx), email); err != nil {
		p.Data = homeData{Email: email}
		if errors.Is(err, service.ErrValidation) {
			p = withError(p, err, msgSubscribeFailed)
		} else {
			p.Error = msgSubscribeFailed
		}
		s.views.render(w, r, statusOf(err), "home", p)
		return
	}

	http.Redirect(w, r, "/?flash=subscribed", http.StatusSeeOther)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.AuthState(r.Context()).Authenticated {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	p := s.page(r, "Login", "login")
	p.Data = loginData{Next: safeNext(r.URL.Query().Get("next"))}
	if r.URL.Query().Get("flash") == "signed_up" {
		p.Success = msgSignedUp
	}
	s.views.render(w, r, http.StatusOK, "login", p)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)
	p := s.page(r, "Login", "login")

	if err := r.ParseForm(); err != nil {
		p.Error = msgBadForm
		s.views.render(w, r, http.StatusBadRequest, "login", p)
		return
	}

	form := model.LoginForm{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	next := safeNext(r.PostForm.Get("next"))

	_, err := s.auth.Login(ctx, middleware.SessionKey(ctx), form)
	if err != nil {
		slog.Info("login rejected", slog.String("rqID", rqID), slog.String("err", err.Error()))
		p.Data = loginData{Email: form.Email, Next: next}
		if errors.Is(err, service.ErrValidation) {
			p.Error = userMessage(err, msgLoginFailed)
		} else {
			p.Error = msgLoginFailed
		}
		s.views.render(w, r, http.StatusUnauthorized, "login", p)
		return
	}

	if next == "" {
		next = "/profile"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "Sign Up", "signup")
	p.Data = signupData{}
	s.views.render(w, r, http.StatusOK, "signup", p)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.page(r, "Sign Up", "signup")

	if err := r.ParseForm(); err != nil {
		p.Error = msgBadForm
		s.views.render(w, r, http.StatusBadRequest, "signup", p)
		return
	}

	form := model.SignupForm{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		Password: r.PostForm.Get("password"),
		Confirm:  r.PostForm.Get("confirm"),
	}

	if err := s.auth.Signup(ctx, middleware.SessionKey(ctx), form); err != nil {
		p.Data = signupData{Email: form.Email, Name: form.Name}
		p = withError(p, err, msgSignupFailed)
		s.views.render(w, r, statusOf(err), "signup", p)
		return
	}

	http.Redirect(w, r, "/login?flash=signed_up", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.auth.Logout(ctx, middleware.SessionKey(ctx)); err != nil {
		slog.Warn("logout finished with error", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
	http.Redirect(w, r, "/?flash=logged_out", http.StatusSeeOther)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := s.auth.CheckAuth(ctx, middleware.SessionKey(ctx))
	if err != nil {
		slog.Error("can't check auth", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
	if !state.Authenticated {
		http.Redirect(w, r, "/login?next="+url.QueryEscape("/profile"), http.StatusSeeOther)
		return
	}

	p := s.page(r.WithContext(middleware.WithAuthState(ctx, state)), "Profile", "profile")
	p.Data = state.User
	s.views.render(w, r, http.StatusOK, "profile", p)
}
