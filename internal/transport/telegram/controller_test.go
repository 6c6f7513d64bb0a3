package telegram

import (
	"errors"
	"net/http"
	"testing"

	"github.com/KotFed0t/stocknity/internal/externalApi"
	"github.com/KotFed0t/stocknity/internal/service"
)

func TestErrText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation", err: service.NewValidationError("Please enter a stock ticker"), want: "Please enter a stock ticker"},
		{name: "unauthorized", err: externalApi.NewAPIError(http.StatusUnauthorized, "", "Authentication required", ""), want: loginFirstMsg},
		{name: "api", err: externalApi.NewAPIError(http.StatusInternalServerError, "", "Model offline", ""), want: "Failed: Model offline"},
		{name: "transport", err: errors.New("dial tcp: refused"), want: "Failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrText(tt.err, "Failed"); got != tt.want {
				t.Errorf("ErrText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	if got := SessionKey(-100123); got != "tg:-100123" {
		t.Errorf("unexpected key %q", got)
	}
}
