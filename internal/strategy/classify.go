package strategy

import (
	"fmt"

	"SoftWork/internal/model"
)

// Classify turns a live quote into a tip. A positive absolute change is a
// BUY; anything else, including zero, is a WATCH. Live tips are always
// Medium confidence.
func Classify(q *model.Quote) model.TipRecord {
	price := q.Price.StringFixed(2)

	tip := model.TipRecord{
		Symbol:     q.Symbol,
		Confidence: model.ConfidenceMedium,
		Price:      price,
		Change:     q.ChangePercent,
	}
	if q.Change.IsPositive() {
		tip.Type = model.TipBuy
		tip.Tip = fmt.Sprintf("%s is up %s today at $%s. Positive momentum detected.", q.Symbol, q.ChangePercent, price)
	} else {
		tip.Type = model.TipWatch
		tip.Tip = fmt.Sprintf("%s is down %s today at $%s. Watch for support levels.", q.Symbol, q.ChangePercent, price)
	}
	return tip
}

// SelectTips returns fetched when it has at least one entry, otherwise the
// fallback set. The second result names the source for logs and metrics.
func SelectTips(fetched []model.TipRecord) ([]model.TipRecord, string) {
	if len(fetched) > 0 {
		return fetched, SourceLive
	}
	return FallbackTips(), SourceFallback
}

const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)
