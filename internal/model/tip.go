package model

// TipType classifies a tip.
type TipType string

const (
	TipBuy   TipType = "BUY"
	TipWatch TipType = "WATCH"
	TipHold  TipType = "HOLD"
)

// Confidence is the advisory confidence shown on a tip card.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// TipRecord is one displayable trading tip.
// Price and Change are only set for records built from live quotes.
type TipRecord struct {
	Symbol     string     `json:"symbol"`
	Tip        string     `json:"tip"`
	Type       TipType    `json:"type"`
	Confidence Confidence `json:"confidence"`
	Price      string     `json:"price,omitempty"`
	Change     string     `json:"change,omitempty"`
}

// HasPrice reports whether the record carries live quote data.
func (t TipRecord) HasPrice() bool { return t.Price != "" }
