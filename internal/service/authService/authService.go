package authService

import (
	"context"
	"errors"
	"log/slog"
	"maps"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/data/session"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/utils"
)

type Api interface {
	Login(ctx context.Context, cookies model.BackendCookies, form model.LoginForm) (model.User, error)
	Signup(ctx context.Context, cookies model.BackendCookies, form model.SignupForm) error
	Logout(ctx context.Context, cookies model.BackendCookies) error
	Profile(ctx context.Context, cookies model.BackendCookies) (model.User, error)
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, sess model.Session) error
}

// AuthService owns the authentication fields of a visitor session. Everything
// else gets an AuthState copy.
type AuthService struct {
	api        Api
	session    Session
	adminEmail string
}

func New(cfg *config.Config, api Api, session Session) *AuthService {
	return &AuthService{
		api:        api,
		session:    session,
		adminEmail: cfg.AdminEmail,
	}
}

func (s *AuthService) loadSession(ctx context.Context, key string) (model.Session, error) {
	sess, err := s.session.GetSession(ctx, key)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return model.Session{}, err
	}
	if sess.BackendCookies == nil {
		sess.BackendCookies = model.BackendCookies{}
	}
	return sess, nil
}

func (s *AuthService) stateOf(sess model.Session) model.AuthState {
	return model.NewAuthState(sess.Authenticated, sess.User, s.adminEmail)
}

// State returns the stored auth state without asking the backend.
func (s *AuthService) State(ctx context.Context, key string) (model.AuthState, error) {
	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", "AuthService.State"), slog.String("err", err.Error()))
		return model.AuthState{}, err
	}
	return s.stateOf(sess), nil
}

// CheckAuth restores the auth state from the backend profile. Any failure
// leaves the visitor unauthenticated.
func (s *AuthService) CheckAuth(ctx context.Context, key string) (model.AuthState, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.CheckAuth"

	slog.Debug("CheckAuth start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("CheckAuth finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AuthState{}, err
	}

	user, apiErr := s.api.Profile(ctx, sess.BackendCookies)
	if apiErr == nil && user.ID == "" && user.Email == "" {
		apiErr = ErrNoUser
	}

	if apiErr != nil {
		slog.Info("visitor is not authenticated", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", apiErr.Error()))
		sess.Authenticated = false
		sess.User = nil
	} else {
		sess.Authenticated = true
		sess.User = &user
	}

	if err = s.session.SetSession(ctx, key, sess); err != nil {
		slog.Error("can't save session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return s.stateOf(sess), err
	}

	return s.stateOf(sess), nil
}

func (s *AuthService) Login(ctx context.Context, key string, form model.LoginForm) (model.AuthState, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Login"

	slog.Debug("Login start", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", form.Email))
	defer func() {
		slog.Debug("Login finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", form.Email))
	}()

	if err := ValidateLogin(form); err != nil {
		return model.AuthState{}, err
	}

	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AuthState{}, err
	}

	user, apiErr := s.api.Login(ctx, sess.BackendCookies, form)
	if apiErr != nil {
		slog.Warn("login failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", apiErr.Error()))
		sess.Authenticated = false
		sess.User = nil
	} else {
		sess.Authenticated = true
		sess.User = &user
	}
	sess.Action = model.DefaultAction
	sess.PendingEmail = ""

	if err = s.session.SetSession(ctx, key, sess); err != nil {
		slog.Error("can't save session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		if apiErr == nil {
			return model.AuthState{}, err
		}
	}

	if apiErr != nil {
		return model.AuthState{}, apiErr
	}

	return s.stateOf(sess), nil
}

// Signup registers the visitor. It does not log them in.
func (s *AuthService) Signup(ctx context.Context, key string, form model.SignupForm) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Signup"

	slog.Debug("Signup start", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", form.Email))
	defer func() {
		slog.Debug("Signup finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("email", form.Email))
	}()

	if err := ValidateSignup(form); err != nil {
		return err
	}

	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	before := maps.Clone(sess.BackendCookies)
	err = s.api.Signup(ctx, sess.BackendCookies, form)
	if err != nil {
		slog.Warn("signup failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if !maps.Equal(before, sess.BackendCookies) {
		if err = s.session.SetSession(ctx, key, sess); err != nil {
			slog.Error("can't save session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	return nil
}

// Logout always clears the local auth state. The backend error, if any, is
// returned after that.
func (s *AuthService) Logout(ctx context.Context, key string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.Logout"

	slog.Debug("Logout start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("Logout finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	apiErr := s.api.Logout(ctx, sess.BackendCookies)
	if apiErr != nil {
		slog.Warn("backend logout failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", apiErr.Error()))
	}

	sess.Authenticated = false
	sess.User = nil
	sess.BackendCookies = model.BackendCookies{}
	sess.Action = model.DefaultAction
	sess.PendingEmail = ""

	if err = s.session.SetSession(ctx, key, sess); err != nil {
		slog.Error("can't save session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return apiErr
}

// ClearAuthenticated drops the authenticated flag after the backend rejected
// the visitor's session.
func (s *AuthService) ClearAuthenticated(ctx context.Context, key string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AuthService.ClearAuthenticated"

	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if !sess.Authenticated && sess.User == nil {
		return nil
	}

	slog.Info("backend session expired, clearing auth", slog.String("rqID", rqID), slog.String("op", op))
	sess.Authenticated = false
	sess.User = nil

	if err = s.session.SetSession(ctx, key, sess); err != nil {
		slog.Error("can't save session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// Dialog returns the pending chat dialog step.
func (s *AuthService) Dialog(ctx context.Context, key string) (model.DialogAction, string, error) {
	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", "AuthService.Dialog"), slog.String("err", err.Error()))
		return model.DefaultAction, "", err
	}
	return sess.Action, sess.PendingEmail, nil
}

func (s *AuthService) SetDialog(ctx context.Context, key string, action model.DialogAction, pendingEmail string) error {
	sess, err := s.loadSession(ctx, key)
	if err != nil {
		slog.Error("can't load session", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("op", "AuthService.SetDialog"), slog.String("err", err.Error()))
		return err
	}
	sess.Action = action
	sess.PendingEmail = pendingEmail
	return s.session.SetSession(ctx, key, sess)
}
