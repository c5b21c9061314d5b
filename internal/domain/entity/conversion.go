package entity

import (
	"github.com/shopspring/decimal"
)

// ConversionRequest is a single user-submitted conversion: a raw amount
// string plus the two selected currency codes.
type ConversionRequest struct {
	Amount string `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// ConversionResult is produced only by a successful workflow run. It is
// superseded by the next result or cleared when a currency selection changes.
type ConversionResult struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Rate      decimal.Decimal `json:"rate"`
	Converted decimal.Decimal `json:"converted"`
}
