package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CurrencyCatalog holds every known currency code and its rate relative to
// the base currency. It is built in one shot from the remote API response and
// replaced wholesale on reload, never mutated in place.
type CurrencyCatalog struct {
	Base  string
	Rates map[string]decimal.Decimal
}

// NewCurrencyCatalog creates a catalog for the given base currency
func NewCurrencyCatalog(base string, rates map[string]decimal.Decimal) *CurrencyCatalog {
	return &CurrencyCatalog{
		Base:  base,
		Rates: rates,
	}
}

// Codes returns all currency codes in lexical order for stable option lists
func (c *CurrencyCatalog) Codes() []string {
	codes := make([]string, 0, len(c.Rates))
	for code := range c.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Has reports whether the catalog knows the given currency code
func (c *CurrencyCatalog) Has(code string) bool {
	_, ok := c.Rates[code]
	return ok
}

// Rate returns the base→code rate if the catalog knows the code
func (c *CurrencyCatalog) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := c.Rates[code]
	return rate, ok
}
