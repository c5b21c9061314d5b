package mocks

import (
	"context"

	"github.com/openfx/currency-widget/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) LoadCatalog(ctx context.Context, base string) (*entity.CurrencyCatalog, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurrencyCatalog), args.Error(1)
}

func (m *MockRateProvider) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	if args.Error(1) != nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockErrorDismisser mocks the workflow's error dismiss scheduler
type MockErrorDismisser struct {
	mock.Mock
}

func (m *MockErrorDismisser) Schedule(dismiss func()) {
	m.Called(dismiss)
}

func (m *MockErrorDismisser) Cancel() {
	m.Called()
}
