package service

import (
	"context"

	"github.com/openfx/currency-widget/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RateProvider defines the interface for the remote exchange-rate service.
type RateProvider interface {
	// LoadCatalog fetches the full code→rate mapping for the base currency
	LoadCatalog(ctx context.Context, base string) (*entity.CurrencyCatalog, error)

	// FetchRate fetches the from→to rate. Every call re-fetches from the
	// remote source; nothing is cached between calls.
	FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error)
}
