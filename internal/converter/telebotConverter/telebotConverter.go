package telebotConverter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/KotFed0t/stocknity/internal/format"
	"github.com/KotFed0t/stocknity/internal/model"
	tele "gopkg.in/telebot.v4"
)

// SentimentBtn is the callback unique of the "sentiment for ticker" buttons.
const SentimentBtn = "sentiment"

// MaxStockRows caps screener replies below Telegram's message size limit.
const MaxStockRows = 15

func StartResponse(state model.AuthState) string {
	var sb strings.Builder

	sb.WriteString("📈 Welcome to Stocknity!\n\n")
	if state.Authenticated {
		sb.WriteString(fmt.Sprintf("Logged in as %s (%s)\n\n", state.User.Name, state.User.Email))
	} else {
		sb.WriteString("You are not logged in. Use /login to sign in.\n\n")
	}

	sb.WriteString("Commands:\n")
	sb.WriteString("/screener [sector] - top stocks\n")
	sb.WriteString("/sentiment TICKER - news and social sentiment\n")
	sb.WriteString("/recommendations - AI stock picks\n")
	sb.WriteString("/portfolios - your saved portfolios\n")
	sb.WriteString("/export - saved portfolios as Excel\n")
	if state.IsAdmin {
		sb.WriteString("/cache - backend cache status\n")
	}
	if state.Authenticated {
		sb.WriteString("/logout - sign out\n")
	}

	return sb.String()
}

func StocksResponse(title string, stocks []model.StockRecord) string {
	if len(stocks) == 0 {
		return "No stocks found. Try a different sector."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔎 %s (%d stocks)\n\n", title, len(stocks)))

	for i, s := range stocks {
		if i == MaxStockRows {
			sb.WriteString(fmt.Sprintf("...and %d more on the web screener\n", len(stocks)-MaxStockRows))
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, s.Ticker))
		if s.Sector != "" {
			sb.WriteString(" · " + s.Sector)
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("   ▸ Price: %s  Change: %s\n", format.Currency(s.Price.String()), format.Percentage(s.Change.String())))
		sb.WriteString(fmt.Sprintf("   ▸ Market Cap: %s  P/E: %s\n", format.MarketCap(s.MarketCap.String()), format.Number(s.PE.String())))
		sb.WriteString(fmt.Sprintf("   ▸ Return/Risk: %s / %s\n",
			format.Percentage(s.ExpectedAnnualReturn.String()), format.Percentage(s.ExpectedAnnualRisk.String())))
	}

	return sb.String()
}

func SentimentResponse(data model.SentimentData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🧠 Sentiment for %s\n\n", data.Ticker))
	sb.WriteString(fmt.Sprintf("Overall: %s (%s)\n", format.SentimentLabel(data.OverallSentiment), format.Fixed(data.OverallSentiment, 3)))
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", format.Scaled(data.Confidence, 1)))
	sb.WriteString(fmt.Sprintf("Positive %d · Neutral %d · Negative %d\n", data.PositiveCount, data.NeutralCount, data.NegativeCount))

	if len(data.Sources) > 0 {
		sb.WriteString("\nBy source:\n")
		for _, name := range slices.Sorted(maps.Keys(data.Sources)) {
			src := data.Sources[name]
			sb.WriteString(fmt.Sprintf("   ▸ %s: %s (%d)\n", name, format.Fixed(src.Sentiment, 3), src.Volume))
		}
	}

	if len(data.TopKeywords) > 0 {
		sb.WriteString("\nKeywords: " + strings.Join(data.TopKeywords, ", ") + "\n")
	}

	return sb.String()
}

func RecommendationsResponse(query model.RecommendationsQuery, recs []model.StockRecommendation) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	if len(recs) == 0 {
		return "No recommendations available.", markup
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🤖 AI recommendations (%s horizon, %s risk)\n\n", query.TimeHorizon, query.RiskTolerance))

	btns := make([]tele.Btn, 0, len(recs))
	for i, rec := range recs {
		sb.WriteString(fmt.Sprintf("%d. %s  score %s\n", i+1, rec.Ticker, format.Scaled(rec.Score, 0)))
		sb.WriteString(fmt.Sprintf("   ▸ Predicted return: +%s\n", format.Scaled(rec.PredictedReturn, 1)))
		sb.WriteString(fmt.Sprintf("   ▸ Confidence: %s  Risk: %s\n", format.Scaled(rec.Confidence, 0), format.RiskLabel(rec.RiskScore)))
		if rec.Reasoning != "" {
			sb.WriteString("   ▸ " + format.Truncate(rec.Reasoning, 120) + "\n")
		}
		sb.WriteString("\n")

		btns = append(btns, markup.Data(rec.Ticker, SentimentBtn, rec.Ticker))
	}

	markup.Inline(markup.Split(4, btns)...)

	return sb.String(), markup
}

func PortfoliosResponse(reports []model.PortfolioReport) string {
	if len(reports) == 0 {
		return "No saved portfolios yet."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💼 Saved portfolios: %d\n\n", len(reports)))

	for i, r := range reports {
		sb.WriteString(fmt.Sprintf("%d️⃣ Portfolio %d - %s\n", i+1, i+1, r.Portfolio.CreatedLabel()))
		sb.WriteString(fmt.Sprintf("   Return %s%% · Risk %s%% · Value %s\n",
			r.Stats.Return.StringFixed(2), r.Stats.Risk.StringFixed(2), format.Dollars(r.Stats.TotalValue.InexactFloat64())))
		for _, s := range r.Portfolio.Stocks {
			sb.WriteString(fmt.Sprintf("   ▸ %s: %s, %s\n", s.Ticker, format.PlainPercent(s.Weight.Float64()), format.Dollars(s.InvestedAmount.Float64())))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func CacheResponse(stocks, annual model.CacheSnapshot) string {
	var sb strings.Builder

	sb.WriteString("🗄 Stock data cache\n")
	writeSnapshot(&sb, stocks, format.StocksCacheMaxTTL)

	sb.WriteString("\n📅 Annual returns cache\n")
	writeSnapshot(&sb, annual, format.AnnualReturnsCacheMaxTTL)
	if annual.Status != nil {
		sb.WriteString("   Freshness: " + format.FreshnessBadge(annual.IsFresh).Text + "\n")
	}
	if annual.Recommendation != "" {
		sb.WriteString("   " + annual.Recommendation + "\n")
	}

	return sb.String()
}

func writeSnapshot(sb *strings.Builder, snap model.CacheSnapshot, maxTTL time.Duration) {
	if snap.Err != "" {
		sb.WriteString("   ⚠️ " + snap.Err + "\n")
	}
	if snap.Status == nil {
		sb.WriteString("   No cache status available\n")
		return
	}

	st := snap.Status
	sb.WriteString("   Status: " + format.CacheStatusBadge(st.Status).Text + "\n")
	sb.WriteString(fmt.Sprintf("   Records: %d\n", st.Count))
	ttl := st.TTLHuman
	if ttl == "" {
		ttl = format.NotAvail
	}
	sb.WriteString(fmt.Sprintf("   TTL: %s (%.0f%%)\n", ttl, format.TTLPercentage(st.TTLSeconds, maxTTL)))
	sb.WriteString("   Created: " + format.Timestamp(st.Timestamp) + "\n")
}
