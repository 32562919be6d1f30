package model

import "github.com/shopspring/decimal"

// Quote is a normalized GLOBAL_QUOTE result for one symbol.
type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent string // verbatim from the source, e.g. "1.2000%"
}
