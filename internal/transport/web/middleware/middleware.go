package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/utils"
	chiMW "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeader  = "X-Request-Id"
	SessionKeyPrefix = "web:"
)

type sessionKeyCtx struct{}

type authStateCtx struct{}

type AuthStateProvider interface {
	State(ctx context.Context, key string) (model.AuthState, error)
}

// Logger assigns a request id and writes one access log line per request.
func Logger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()

			rqID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(rqID); err != nil {
				rqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, rqID)

			ctx := utils.CtxWithRqID(r.Context(), rqID)
			ww := chiMW.NewWrapResponseWriter(w, r.ProtoMajor)

			slog.Info("start request", slog.String("rqID", rqID), slog.String("method", r.Method), slog.String("path", r.URL.Path))

			defer func() {
				slog.Info(
					"request finished",
					slog.String("rqID", rqID),
					slog.Int("status", ww.Status()),
					slog.Int("bytes", ww.BytesWritten()),
					slog.String("request duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

func Recover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					slog.Error(
						"Panic recovered in http handler",
						slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
						slog.Any("panic", rec),
						slog.String("stacktrace", string(debug.Stack())),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit shares one token bucket across all visitors.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				slog.Warn("Rate limit exceeded",
					slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remoteAddr", r.RemoteAddr))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Session gives every browser a random session id cookie and puts the
// matching session key into the request context.
func Session(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(cfg.Session.CookieName); err == nil {
				if _, err = uuid.Parse(c.Value); err == nil {
					sid = c.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.Session.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(cfg.Session.Expiration.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Session.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionKeyCtx{}, SessionKeyPrefix+sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionKey(ctx context.Context) string {
	key, _ := ctx.Value(sessionKeyCtx{}).(string)
	return key
}

// LoadAuth puts the visitor's AuthState into the request context. A failing
// session store leaves the visitor anonymous.
func LoadAuth(auth AuthStateProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := auth.State(r.Context(), SessionKey(r.Context()))
			if err != nil {
				slog.Error("can't load auth state", slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())), slog.String("err", err.Error()))
				state = model.AuthState{}
			}
			next.ServeHTTP(w, r.WithContext(WithAuthState(r.Context(), state)))
		})
	}
}

func WithAuthState(ctx context.Context, state model.AuthState) context.Context {
	return context.WithValue(ctx, authStateCtx{}, state)
}

func AuthState(ctx context.Context) model.AuthState {
	state, _ := ctx.Value(authStateCtx{}).(model.AuthState)
	return state
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !AuthState(r.Context()).Authenticated {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin sends non-admins home.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := AuthState(r.Context())
		if !state.Authenticated || !state.IsAdmin {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
