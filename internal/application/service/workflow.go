package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openfx/currency-widget/internal/domain/entity"
	domainservice "github.com/openfx/currency-widget/internal/domain/service"
	"github.com/openfx/currency-widget/internal/infrastructure/logger"
	"github.com/openfx/currency-widget/internal/infrastructure/metrics"
	"github.com/openfx/currency-widget/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

// Currency selection slots
const (
	FieldFrom = "from"
	FieldTo   = "to"
)

// ErrorDismisser schedules the auto-expiry of the visible error message.
// view.ErrorTimer is the production implementation.
type ErrorDismisser interface {
	Schedule(dismiss func())
	Cancel()
}

// Options carries the widget configuration the workflow needs
type Options struct {
	BaseCurrency  string
	DefaultFrom   string
	DefaultTo     string
	DecimalPlaces int
}

// Workflow drives the widget's conversion state machine: Idle → Loading →
// {result, error} → Idle. All session state lives here and is only reached
// through its methods; readers take a Snapshot and project it.
type Workflow struct {
	mu       sync.Mutex
	state    entity.UIState
	provider domainservice.RateProvider
	catalog  *store.CatalogStore
	dismiss  ErrorDismisser
	opts     Options
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewWorkflow creates a workflow with the default currency selections applied
func NewWorkflow(provider domainservice.RateProvider, catalog *store.CatalogStore, dismiss ErrorDismisser, opts Options, log logger.Logger, m *metrics.Metrics) *Workflow {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.BaseCurrency == "" {
		opts.BaseCurrency = "USD"
	}

	return &Workflow{
		state: entity.UIState{
			From: opts.DefaultFrom,
			To:   opts.DefaultTo,
		},
		provider: provider,
		catalog:  catalog,
		dismiss:  dismiss,
		opts:     opts,
		logger:   log,
		metrics:  m,
	}
}

// Init performs the startup catalog load. A failure leaves the widget
// unusable for conversion until Reload succeeds.
func (w *Workflow) Init(ctx context.Context) error {
	return w.Reload(ctx)
}

// Reload fetches the catalog for the base currency and replaces the stored
// one wholesale
func (w *Workflow) Reload(ctx context.Context) error {
	catalog, err := w.provider.LoadCatalog(ctx, w.opts.BaseCurrency)
	if err != nil {
		w.metrics.ObserveCatalogLoad("error")
		w.logger.Error("Failed to load currency catalog", map[string]interface{}{
			"base":  w.opts.BaseCurrency,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %v", entity.ErrCatalogNotLoaded, err)
	}

	w.catalog.Replace(catalog)

	w.mu.Lock()
	w.state.CatalogLoaded = true
	w.mu.Unlock()

	w.metrics.ObserveCatalogLoad("success")
	w.logger.Info("Currency catalog loaded", map[string]interface{}{
		"base":       catalog.Base,
		"currencies": len(catalog.Rates),
	})
	return nil
}

// AmountChanged applies the continuous input filter and stores the sanitized
// text. Runs on every input event, not just at submission.
func (w *Workflow) AmountChanged(text string) string {
	sanitized := SanitizeAmount(text, w.opts.DecimalPlaces)

	w.mu.Lock()
	w.state.AmountText = sanitized
	w.mu.Unlock()

	return sanitized
}

// CurrencyChanged updates one selection slot. It clears the displayed result
// and any active error without issuing a fetch.
func (w *Workflow) CurrencyChanged(field, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	if catalog, ok := w.catalog.Get(); ok && code != "" && !catalog.Has(code) {
		return fmt.Errorf("unknown currency code %q", code)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch field {
	case FieldFrom:
		w.state.From = code
	case FieldTo:
		w.state.To = code
	default:
		return fmt.Errorf("unknown selection field %q", field)
	}

	w.state.Result = nil
	w.state.ErrorMessage = ""
	w.dismiss.Cancel()
	return nil
}

// Submit runs one conversion: validate, enter Loading, fetch the rate,
// compute and publish the result. A submit arriving while Loading is rejected
// without touching the provider, which is what keeps a single request in
// flight.
func (w *Workflow) Submit(ctx context.Context) (*entity.ConversionResult, error) {
	w.mu.Lock()
	if w.state.Phase == entity.PhaseLoading {
		w.mu.Unlock()
		w.metrics.ObserveConversion(metrics.StatusBusy, 0)
		return nil, entity.ErrBusy
	}

	// A new action drops the previous error and its dismiss timer.
	w.state.ErrorMessage = ""
	w.dismiss.Cancel()

	if !w.state.CatalogLoaded {
		w.state.ErrorMessage = messageFor(entity.ErrCatalogNotLoaded)
		w.dismiss.Schedule(w.ClearError)
		w.mu.Unlock()
		w.metrics.ObserveConversion(metrics.StatusRateError, 0)
		return nil, entity.ErrCatalogNotLoaded
	}

	req := entity.ConversionRequest{
		Amount: w.state.AmountText,
		From:   w.state.From,
		To:     w.state.To,
	}

	if verr := Validate(req); verr != nil {
		w.state.ErrorMessage = verr.Message
		w.dismiss.Schedule(w.ClearError)
		w.mu.Unlock()
		w.metrics.ObserveConversion(metrics.StatusValidationError, 0)
		w.logger.Warn("Rejected invalid conversion input", map[string]interface{}{
			"kind":  string(verr.Kind),
			"field": verr.Field,
		})
		return nil, verr
	}

	w.state.Phase = entity.PhaseLoading
	w.mu.Unlock()

	w.logger.Info("Fetching exchange rate", map[string]interface{}{
		"from": req.From,
		"to":   req.To,
	})

	started := time.Now()
	rate, err := w.provider.FetchRate(ctx, req.From, req.To)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Phase = entity.PhaseIdle

	if err != nil {
		w.state.ErrorMessage = messageFor(err)
		w.dismiss.Schedule(w.ClearError)
		w.metrics.ObserveConversion(metrics.StatusRateError, 0)
		w.logger.Error("Rate fetch failed", map[string]interface{}{
			"from":  req.From,
			"to":    req.To,
			"error": err.Error(),
		})
		return nil, err
	}

	result := buildResult(req, rate, w.opts.DecimalPlaces)
	w.state.Result = result

	w.metrics.ObserveConversion(metrics.StatusSuccess, time.Since(started))
	w.logger.Info("Conversion completed", map[string]interface{}{
		"from":      req.From,
		"to":        req.To,
		"amount":    result.Amount.String(),
		"rate":      rate.String(),
		"converted": result.Converted.String(),
	})
	return result, nil
}

// ClearError drops the visible error message. Invoked by the dismiss timer
// when the display window expires.
func (w *Workflow) ClearError() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.ErrorMessage = ""
}

// Snapshot returns a copy of the session state for projection. The result
// pointer is shared; results are immutable once published.
func (w *Workflow) Snapshot() entity.UIState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// Convert performs a one-shot conversion outside the widget session, used by
// the stateless endpoint.
func Convert(ctx context.Context, provider domainservice.RateProvider, req entity.ConversionRequest, decimalPlaces int) (*entity.ConversionResult, error) {
	if verr := Validate(req); verr != nil {
		return nil, verr
	}

	rate, err := provider.FetchRate(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}

	return buildResult(req, rate, decimalPlaces), nil
}

// buildResult computes the converted amount, rounded half away from zero to
// the configured number of places.
func buildResult(req entity.ConversionRequest, rate decimal.Decimal, decimalPlaces int) *entity.ConversionResult {
	// The amount already passed Validate, so the parse cannot fail here.
	amount, _ := decimal.NewFromString(strings.TrimSpace(req.Amount))

	return &entity.ConversionResult{
		From:      req.From,
		To:        req.To,
		Amount:    amount,
		Rate:      rate,
		Converted: amount.Mul(rate).Round(int32(decimalPlaces)),
	}
}

// messageFor maps a failure to the short message shown to the user
func messageFor(err error) string {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, entity.ErrMissingRate):
		return "No exchange rate is available for the selected currency."
	case errors.Is(err, entity.ErrAPI):
		return "The exchange rate service reported an error. Please try again."
	case errors.Is(err, entity.ErrNetwork):
		return "Could not reach the exchange rate service. Please try again."
	case errors.Is(err, entity.ErrCatalogNotLoaded):
		return "Currencies are not available yet. Please reload."
	default:
		return "An unexpected error occurred. Please try again."
	}
}
