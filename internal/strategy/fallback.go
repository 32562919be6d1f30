package strategy

import "SoftWork/internal/model"

var fallbackTips = [...]model.TipRecord{
	{
		Symbol:     "AAPL",
		Tip:        "Apple stock shows strong support at $150. Consider buying on dips with stop loss at $145.",
		Type:       model.TipBuy,
		Confidence: model.ConfidenceHigh,
	},
	{
		Symbol:     "TSLA",
		Tip:        "Tesla breaking above $200 resistance. Momentum traders might find opportunities.",
		Type:       model.TipWatch,
		Confidence: model.ConfidenceMedium,
	},
	{
		Symbol:     "SPY",
		Tip:        "S&P 500 ETF approaching key resistance. Watch for breakout or reversal signals.",
		Type:       model.TipWatch,
		Confidence: model.ConfidenceHigh,
	},
	{
		Symbol:     "NVDA",
		Tip:        "NVIDIA showing consolidation pattern. Wait for clear direction before entry.",
		Type:       model.TipHold,
		Confidence: model.ConfidenceMedium,
	},
	{
		Symbol:     "MSFT",
		Tip:        "Microsoft maintaining uptrend. Good for long-term portfolio allocation.",
		Type:       model.TipBuy,
		Confidence: model.ConfidenceHigh,
	},
}

// FallbackTips returns a fresh copy of the static sample tips shown when no
// live quote could be used.
func FallbackTips() []model.TipRecord {
	out := make([]model.TipRecord, len(fallbackTips))
	copy(out, fallbackTips[:])
	return out
}
