package entity

import "errors"

// ValidationKind identifies which input check failed. The kinds are ordered
// the way Validate applies them; only one is ever reported at a time.
type ValidationKind string

const (
	EmptyAmount           ValidationKind = "empty_amount"
	InvalidAmount         ValidationKind = "invalid_amount"
	MissingSourceCurrency ValidationKind = "missing_source_currency"
	MissingTargetCurrency ValidationKind = "missing_target_currency"
	SameCurrency          ValidationKind = "same_currency"
)

// ValidationError is a user-correctable input problem. Field names the input
// that should receive focus when the message is shown.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Sentinel errors for the non-validation failure classes. Call sites wrap
// them with fmt.Errorf("%w: ...") and the boundary classifies with errors.Is.
var (
	// ErrNetwork is a transport-level failure reaching the rate service
	ErrNetwork = errors.New("exchange rate service unreachable")

	// ErrAPI means the rate service answered but signalled failure
	ErrAPI = errors.New("exchange rate service returned an error")

	// ErrMissingRate means the target currency was absent from the fetched
	// rate mapping
	ErrMissingRate = errors.New("no rate available for target currency")

	// ErrCatalogNotLoaded means the startup catalog load failed and no
	// reload has succeeded since
	ErrCatalogNotLoaded = errors.New("currency catalog not loaded")

	// ErrBusy rejects a submit that arrives while a conversion is in flight
	ErrBusy = errors.New("conversion already in progress")
)
