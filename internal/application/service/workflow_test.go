package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/openfx/currency-widget/internal/application/view"
	"github.com/openfx/currency-widget/internal/domain/entity"
	"github.com/openfx/currency-widget/internal/infrastructure/store"
	"github.com/openfx/currency-widget/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeDismisser records scheduling without ever firing
type fakeDismisser struct {
	mu        sync.Mutex
	scheduled int
	cancelled int
}

func (f *fakeDismisser) Schedule(dismiss func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled++
}

func (f *fakeDismisser) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled++
}

func (f *fakeDismisser) scheduledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduled
}

func testCatalog() *entity.CurrencyCatalog {
	return entity.NewCurrencyCatalog("USD", map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.9"),
		"GBP": decimal.RequireFromString("0.8"),
	})
}

func newTestWorkflow(t *testing.T, provider *mocks.MockRateProvider, dismiss ErrorDismisser) *Workflow {
	t.Helper()

	if dismiss == nil {
		dismiss = &fakeDismisser{}
	}

	w := NewWorkflow(provider, store.NewCatalogStore(), dismiss, Options{
		BaseCurrency:  "USD",
		DefaultFrom:   "USD",
		DefaultTo:     "EUR",
		DecimalPlaces: 2,
	}, nil, nil)

	provider.On("LoadCatalog", mock.Anything, "USD").Return(testCatalog(), nil).Once()
	require.NoError(t, w.Init(context.Background()))
	return w
}

func TestWorkflowSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("successful conversion", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		provider.On("FetchRate", mock.Anything, "USD", "EUR").
			Return(decimal.RequireFromString("0.9"), nil).Once()

		w.AmountChanged("100")
		result, err := w.Submit(ctx)

		require.NoError(t, err)
		assert.Equal(t, "USD", result.From)
		assert.Equal(t, "EUR", result.To)
		assert.Equal(t, "90.00", result.Converted.StringFixed(2))
		assert.Equal(t, "0.9000", result.Rate.StringFixed(4))

		state := w.Snapshot()
		assert.Equal(t, entity.PhaseIdle, state.Phase)
		assert.Same(t, result, state.Result)
		assert.Empty(t, state.ErrorMessage)

		provider.AssertExpectations(t)
	})

	t.Run("rounding is half away from zero", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		provider.On("FetchRate", mock.Anything, "USD", "EUR").
			Return(decimal.RequireFromString("0.8333"), nil).Once()

		w.AmountChanged("100.09")
		result, err := w.Submit(ctx)

		require.NoError(t, err)
		// 100.09 * 0.8333 = 83.404997, rounds to 83.40
		assert.Equal(t, "83.40", result.Converted.StringFixed(2))
	})

	t.Run("validation failure never touches the provider", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		dismiss := &fakeDismisser{}
		w := newTestWorkflow(t, provider, dismiss)

		w.AmountChanged("")
		result, err := w.Submit(ctx)

		assert.Nil(t, result)
		var verr *entity.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, entity.EmptyAmount, verr.Kind)

		state := w.Snapshot()
		assert.Equal(t, entity.PhaseIdle, state.Phase)
		assert.Equal(t, verr.Message, state.ErrorMessage)
		assert.Equal(t, 1, dismiss.scheduledCount())

		provider.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transport failure surfaces an error and returns to idle", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		dismiss := &fakeDismisser{}
		w := newTestWorkflow(t, provider, dismiss)

		provider.On("FetchRate", mock.Anything, "USD", "EUR").
			Return(decimal.Zero, fmt.Errorf("%w: connection refused", entity.ErrNetwork)).Once()

		w.AmountChanged("100")
		result, err := w.Submit(ctx)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, entity.ErrNetwork)

		state := w.Snapshot()
		assert.Equal(t, entity.PhaseIdle, state.Phase)
		assert.Nil(t, state.Result)
		assert.NotEmpty(t, state.ErrorMessage)
		assert.Equal(t, 1, dismiss.scheduledCount())
	})

	t.Run("missing rate surfaces an error", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		provider.On("FetchRate", mock.Anything, "USD", "EUR").
			Return(decimal.Zero, fmt.Errorf("%w: EUR", entity.ErrMissingRate)).Once()

		w.AmountChanged("100")
		_, err := w.Submit(ctx)

		assert.ErrorIs(t, err, entity.ErrMissingRate)
		assert.NotEmpty(t, w.Snapshot().ErrorMessage)
	})

	t.Run("submit while loading is rejected without a second fetch", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		release := make(chan struct{})
		provider.On("FetchRate", mock.Anything, "USD", "EUR").
			Run(func(args mock.Arguments) { <-release }).
			Return(decimal.RequireFromString("0.9"), nil).Once()

		w.AmountChanged("100")

		done := make(chan error, 1)
		go func() {
			_, err := w.Submit(ctx)
			done <- err
		}()

		require.Eventually(t, func() bool {
			return w.Snapshot().Phase == entity.PhaseLoading
		}, time.Second, 5*time.Millisecond)

		_, err := w.Submit(ctx)
		assert.ErrorIs(t, err, entity.ErrBusy)

		close(release)
		require.NoError(t, <-done)
		provider.AssertNumberOfCalls(t, "FetchRate", 1)
	})

	t.Run("submit without a loaded catalog fails", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := NewWorkflow(provider, store.NewCatalogStore(), &fakeDismisser{}, Options{
			BaseCurrency:  "USD",
			DefaultFrom:   "USD",
			DefaultTo:     "EUR",
			DecimalPlaces: 2,
		}, nil, nil)

		w.AmountChanged("100")
		_, err := w.Submit(ctx)

		assert.ErrorIs(t, err, entity.ErrCatalogNotLoaded)
		provider.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWorkflowCurrencyChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("clears result and error without fetching", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		provider.On("FetchRate", mock.Anything, "USD", "EUR").
			Return(decimal.RequireFromString("0.9"), nil).Once()

		w.AmountChanged("100")
		_, err := w.Submit(ctx)
		require.NoError(t, err)
		require.NotNil(t, w.Snapshot().Result)

		require.NoError(t, w.CurrencyChanged(FieldTo, "GBP"))

		state := w.Snapshot()
		assert.Nil(t, state.Result)
		assert.Empty(t, state.ErrorMessage)
		assert.Equal(t, "GBP", state.To)
		provider.AssertNumberOfCalls(t, "FetchRate", 1)
	})

	t.Run("selection codes are normalized", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		require.NoError(t, w.CurrencyChanged(FieldFrom, " gbp "))
		assert.Equal(t, "GBP", w.Snapshot().From)
	})

	t.Run("unknown code is rejected", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		err := w.CurrencyChanged(FieldTo, "ZZZ")
		assert.Error(t, err)
		assert.Equal(t, "EUR", w.Snapshot().To)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		provider := new(mocks.MockRateProvider)
		w := newTestWorkflow(t, provider, nil)

		err := w.CurrencyChanged("amount", "EUR")
		assert.Error(t, err)
	})
}

func TestWorkflowErrorAutoDismiss(t *testing.T) {
	provider := new(mocks.MockRateProvider)
	w := newTestWorkflow(t, provider, view.NewErrorTimer(50*time.Millisecond))

	provider.On("FetchRate", mock.Anything, "USD", "EUR").
		Return(decimal.Zero, fmt.Errorf("%w: boom", entity.ErrNetwork)).Once()

	w.AmountChanged("100")
	_, err := w.Submit(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, w.Snapshot().ErrorMessage)

	assert.Eventually(t, func() bool {
		return w.Snapshot().ErrorMessage == ""
	}, time.Second, 10*time.Millisecond)
}

func TestWorkflowReloadFailure(t *testing.T) {
	provider := new(mocks.MockRateProvider)
	w := NewWorkflow(provider, store.NewCatalogStore(), &fakeDismisser{}, Options{
		BaseCurrency: "USD",
	}, nil, nil)

	provider.On("LoadCatalog", mock.Anything, "USD").
		Return(nil, errors.New("dial tcp: connection refused")).Once()

	err := w.Init(context.Background())
	assert.ErrorIs(t, err, entity.ErrCatalogNotLoaded)
	assert.False(t, w.Snapshot().CatalogLoaded)
}
