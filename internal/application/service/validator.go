package service

import (
	"strings"

	"github.com/openfx/currency-widget/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Validate applies the widget's input checks in order, short-circuiting on
// the first failure. Each failure carries its own user-facing message and the
// field that should receive focus, so only one problem is reported at a time.
func Validate(req entity.ConversionRequest) *entity.ValidationError {
	amount := strings.TrimSpace(req.Amount)
	if amount == "" {
		return &entity.ValidationError{
			Kind:    entity.EmptyAmount,
			Field:   "amount",
			Message: "Please enter an amount to convert.",
		}
	}

	value, err := decimal.NewFromString(amount)
	if err != nil || !value.IsPositive() {
		return &entity.ValidationError{
			Kind:    entity.InvalidAmount,
			Field:   "amount",
			Message: "Please enter a valid amount greater than zero.",
		}
	}

	if req.From == "" {
		return &entity.ValidationError{
			Kind:    entity.MissingSourceCurrency,
			Field:   "from",
			Message: "Please select a currency to convert from.",
		}
	}

	if req.To == "" {
		return &entity.ValidationError{
			Kind:    entity.MissingTargetCurrency,
			Field:   "to",
			Message: "Please select a currency to convert to.",
		}
	}

	if req.From == req.To {
		return &entity.ValidationError{
			Kind:    entity.SameCurrency,
			Field:   "to",
			Message: "Source and target currencies must be different.",
		}
	}

	return nil
}

// SanitizeAmount is the continuous filter applied to the amount field on
// every input event. It keeps digits and a single decimal separator; extra
// separators collapse to the first with their digit groups concatenated, and
// fractional digits beyond decimalPlaces are dropped.
func SanitizeAmount(raw string, decimalPlaces int) string {
	var b strings.Builder
	seenSeparator := false
	fractionDigits := 0

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			if seenSeparator {
				if fractionDigits >= decimalPlaces {
					continue
				}
				fractionDigits++
			}
			b.WriteRune(r)
		case r == '.':
			if !seenSeparator {
				seenSeparator = true
				b.WriteByte('.')
			}
		}
	}

	return b.String()
}
