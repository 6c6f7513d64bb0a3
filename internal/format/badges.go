package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KotFed0t/stocknity/internal/model"
)

const (
	StocksCacheMaxTTL        = 24 * time.Hour
	AnnualReturnsCacheMaxTTL = 48 * time.Hour
)

// Badge is a Bootstrap badge: bg variant plus text.
type Badge struct {
	Variant string
	Text    string
	Tooltip string
}

// TTLPercentage is the share of maxTTL still remaining, clamped to [0, 100].
func TTLPercentage(ttlSeconds int64, maxTTL time.Duration) float64 {
	if ttlSeconds <= 0 || maxTTL <= 0 {
		return 0
	}
	p := float64(ttlSeconds) / maxTTL.Seconds() * 100
	return math.Max(0, math.Min(100, p))
}

// StocksTTLVariant colours the stocks-cache progress bar.
func StocksTTLVariant(percentage float64) string {
	switch {
	case percentage > 75:
		return "success"
	case percentage > 50:
		return "warning"
	case percentage > 25:
		return "info"
	default:
		return "danger"
	}
}

// AnnualReturnsTTLVariant colours the annual-returns progress bar.
func AnnualReturnsTTLVariant(percentage float64) string {
	switch {
	case percentage > 75:
		return "success"
	case percentage > 50:
		return "info"
	case percentage > 25:
		return "warning"
	default:
		return "danger"
	}
}

func CacheStatusBadge(status string) Badge {
	switch status {
	case model.CacheStatusCached:
		return Badge{Variant: "success", Text: "CACHED"}
	case model.CacheStatusNotCached:
		return Badge{Variant: "warning", Text: "NOT CACHED"}
	case model.CacheStatusRedisUnavailable:
		return Badge{Variant: "danger", Text: "REDIS UNAVAILABLE"}
	default:
		return Badge{Variant: "secondary", Text: strings.ToUpper(status)}
	}
}

func FreshnessBadge(fresh bool) Badge {
	if fresh {
		return Badge{Variant: "success", Text: "FRESH"}
	}
	return Badge{Variant: "warning", Text: "AGING"}
}

// NavCacheBadge is the compact navbar indicator for the stocks cache.
// status is nil when the last poll failed or has not happened yet.
func NavCacheBadge(status *model.CacheStatus) Badge {
	if status == nil {
		return Badge{Variant: "secondary", Text: "Cache Unknown", Tooltip: "Cache status unavailable"}
	}

	switch status.Status {
	case model.CacheStatusCached:
		p := TTLPercentage(status.TTLSeconds, StocksCacheMaxTTL)
		rounded := math.Round(p)
		switch {
		case p > 50:
			return Badge{Variant: "success", Text: "Cache OK",
				Tooltip: fmt.Sprintf("Cache healthy (%.0f%% TTL remaining, %d stocks)", rounded, status.Count)}
		case p > 25:
			return Badge{Variant: "warning", Text: "Cache Aging",
				Tooltip: fmt.Sprintf("Cache aging (%.0f%% TTL remaining, %d stocks)", rounded, status.Count)}
		default:
			return Badge{Variant: "danger", Text: "Cache Expiring",
				Tooltip: fmt.Sprintf("Cache expiring soon (%.0f%% TTL remaining, %d stocks)", rounded, status.Count)}
		}
	case model.CacheStatusNotCached:
		return Badge{Variant: "warning", Text: "No Cache", Tooltip: "No cached data available"}
	case model.CacheStatusRedisUnavailable:
		return Badge{Variant: "danger", Text: "Redis Down", Tooltip: "Redis cache unavailable"}
	default:
		return Badge{Variant: "secondary", Text: "Unknown", Tooltip: "Cache status: " + status.Status}
	}
}

func SentimentColor(sentiment float64) string {
	switch {
	case sentiment > 0.1:
		return "success"
	case sentiment < -0.1:
		return "danger"
	default:
		return "secondary"
	}
}

func SentimentLabel(sentiment float64) string {
	switch {
	case sentiment > 0.1:
		return "Positive"
	case sentiment < -0.1:
		return "Negative"
	default:
		return "Neutral"
	}
}

func RiskColor(risk float64) string {
	switch {
	case risk < 0.3:
		return "success"
	case risk < 0.6:
		return "warning"
	default:
		return "danger"
	}
}

func RiskLabel(risk float64) string {
	switch {
	case risk < 0.3:
		return "Low"
	case risk < 0.6:
		return "Medium"
	default:
		return "High"
	}
}

var methodColors = map[string]string{
	"markowitz":   "primary",
	"risk_parity": "success",
	"max_sharpe":  "warning",
	"hrp":         "info",
}

func MethodColor(method string) string {
	if c, ok := methodColors[method]; ok {
		return c
	}
	return "secondary"
}

// SignClass is the text colour for a signed value.
func SignClass(v float64) string {
	switch {
	case v > 0:
		return "text-success"
	case v < 0:
		return "text-danger"
	default:
		return "text-muted"
	}
}

// ChangeClass colours a textual change: non-negative is green.
func ChangeClass(s string) string {
	v, ok := ParseLenient(s)
	if !ok {
		return ""
	}
	if v >= 0 {
		return "text-success"
	}
	return "text-danger"
}
