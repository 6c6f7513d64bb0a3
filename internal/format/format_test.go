package format

import (
	"testing"
	"time"

	"github.com/KotFed0t/stocknity/internal/model"
)

func TestStringFormatters(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"number empty", Number, "", "-"},
		{"number nan", Number, "nan", "-"},
		{"number text", Number, "N/A", "N/A"},
		{"number grouped", Number, "1234567.891", "1,234,567.891"},
		{"number rounds to 3 digits", Number, "0.12345", "0.123"},
		{"number integer", Number, "42", "42"},
		{"percentage empty", Percentage, "", "-"},
		{"percentage nan", Percentage, "nan", "-"},
		{"percentage text", Percentage, "abc", "abc"},
		{"percentage rounds", Percentage, "12.3456", "12.35%"},
		{"percentage negative", Percentage, "-3.1", "-3.10%"},
		{"percentage with suffix", Percentage, "12.5%", "12.50%"},
		{"currency empty", Currency, "", "-"},
		{"currency nan", Currency, "nan", "-"},
		{"currency text", Currency, "unknown", "unknown"},
		{"currency rounds", Currency, "189.456", "$189.46"},
		{"currency pads", Currency, "7", "$7.00"},
		{"market cap nan", MarketCap, "nan", "-"},
		{"market cap text", MarketCap, "big", "big"},
		{"market cap trillions", MarketCap, "2910000000000", "$2.91T"},
		{"market cap trillion boundary", MarketCap, "1e12", "$1.00T"},
		{"market cap billions", MarketCap, "45600000000", "$45.60B"},
		{"market cap billion boundary", MarketCap, "1000000000", "$1.00B"},
		{"market cap millions", MarketCap, "1500000", "$1.50M"},
		{"market cap below million", MarketCap, "999999", "$999,999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFloatFormatters(t *testing.T) {
	v := 0.1234
	vol := 0.2
	zero := 0.0

	if got := Ratio(&v); got != "12.34%" {
		t.Errorf("Ratio: got %q", got)
	}
	if got := Ratio(nil); got != "N/A" {
		t.Errorf("Ratio(nil): got %q", got)
	}
	if got := Fixed3(&v); got != "0.123" {
		t.Errorf("Fixed3: got %q", got)
	}
	if got := DollarsPtr(nil); got != "N/A" {
		t.Errorf("DollarsPtr(nil): got %q", got)
	}
	if got := Dollars(12500); got != "$12,500" {
		t.Errorf("Dollars: got %q", got)
	}
	if got := ReturnRiskRatio(&v, &vol); got != "61.70%" {
		t.Errorf("ReturnRiskRatio: got %q", got)
	}
	if got := ReturnRiskRatio(&v, &zero); got != "N/A" {
		t.Errorf("ReturnRiskRatio zero volatility: got %q", got)
	}
	if got := PlainPercent(25); got != "25.00%" {
		t.Errorf("PlainPercent: got %q", got)
	}
}

func TestTTLPercentage_Clamped(t *testing.T) {
	tests := []struct {
		name string
		ttl  int64
		max  time.Duration
		want float64
	}{
		{"negative", -100, StocksCacheMaxTTL, 0},
		{"zero", 0, StocksCacheMaxTTL, 0},
		{"half", 43200, StocksCacheMaxTTL, 50},
		{"full", 86400, StocksCacheMaxTTL, 100},
		{"overflow", 10 * 86400, StocksCacheMaxTTL, 100},
		{"annual returns quarter", 43200, AnnualReturnsCacheMaxTTL, 25},
		{"no max", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TTLPercentage(tt.ttl, tt.max)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("out of range: %v", got)
			}
		})
	}
}

func TestTTLVariants(t *testing.T) {
	if StocksTTLVariant(60) != "warning" || AnnualReturnsTTLVariant(60) != "info" {
		t.Error("60% should differ between the two monitors")
	}
	if StocksTTLVariant(30) != "info" || AnnualReturnsTTLVariant(30) != "warning" {
		t.Error("30% should differ between the two monitors")
	}
	if StocksTTLVariant(80) != "success" || AnnualReturnsTTLVariant(10) != "danger" {
		t.Error("unexpected extreme variants")
	}
}

func TestNavCacheBadge(t *testing.T) {
	if b := NavCacheBadge(nil); b.Text != "Cache Unknown" {
		t.Errorf("nil status: %+v", b)
	}

	b := NavCacheBadge(&model.CacheStatus{Status: model.CacheStatusCached, TTLSeconds: 64800, Count: 500})
	if b.Text != "Cache OK" || b.Tooltip != "Cache healthy (75% TTL remaining, 500 stocks)" {
		t.Errorf("healthy: %+v", b)
	}

	b = NavCacheBadge(&model.CacheStatus{Status: model.CacheStatusCached, TTLSeconds: 3600, Count: 500})
	if b.Variant != "danger" {
		t.Errorf("expiring: %+v", b)
	}

	if b := NavCacheBadge(&model.CacheStatus{Status: model.CacheStatusRedisUnavailable}); b.Text != "Redis Down" {
		t.Errorf("redis down: %+v", b)
	}
}

func TestCacheStatusBadge(t *testing.T) {
	if b := CacheStatusBadge("not_cached"); b.Variant != "warning" || b.Text != "NOT CACHED" {
		t.Errorf("not cached: %+v", b)
	}
	if b := CacheStatusBadge("warming"); b.Variant != "secondary" || b.Text != "WARMING" {
		t.Errorf("unknown: %+v", b)
	}
}

func TestSentimentAndRisk(t *testing.T) {
	if SentimentLabel(0.11) != "Positive" || SentimentLabel(-0.11) != "Negative" || SentimentLabel(0.1) != "Neutral" {
		t.Error("unexpected sentiment labels")
	}
	if RiskLabel(0.29) != "Low" || RiskLabel(0.3) != "Medium" || RiskLabel(0.6) != "High" {
		t.Error("unexpected risk labels")
	}
	if MethodColor("hrp") != "info" || MethodColor("other") != "secondary" {
		t.Error("unexpected method colours")
	}
}

func TestTimestamp(t *testing.T) {
	if got := Timestamp(""); got != "N/A" {
		t.Errorf("empty: %q", got)
	}
	if got := Timestamp("2024-03-01T10:20:30Z"); got != "2024-03-01 10:20:30" {
		t.Errorf("rfc3339: %q", got)
	}
	if got := Timestamp("yesterday"); got != "yesterday" {
		t.Errorf("passthrough: %q", got)
	}
}
