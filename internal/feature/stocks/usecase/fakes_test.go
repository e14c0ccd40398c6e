package usecase

import (
	"context"
	"errors"
	"mokabulens/internal/feature/stocks/domain/entity"
)

var ErrDB = errors.New("database error")

// mockSecurityRepository is a func-field fake of SecurityRepository.
type mockSecurityRepository struct {
	FindActiveBySymbolFunc  func(ctx context.Context, symbol string) (*entity.Security, error)
	SearchActiveByNameFunc  func(ctx context.Context, query string, limit int) ([]entity.Security, error)
	FindActiveBySymbolsFunc func(ctx context.Context, symbols []string) ([]entity.Security, error)
	UpsertBySymbolFunc      func(ctx context.Context, sec entity.Security) error

	FindActiveBySymbolCalls int
	SearchActiveByNameCalls int
	UpsertBySymbolCalls     int
}

func (m *mockSecurityRepository) FindActiveBySymbol(ctx context.Context, symbol string) (*entity.Security, error) {
	m.FindActiveBySymbolCalls++
	if m.FindActiveBySymbolFunc != nil {
		return m.FindActiveBySymbolFunc(ctx, symbol)
	}
	return nil, nil
}

func (m *mockSecurityRepository) SearchActiveByName(ctx context.Context, query string, limit int) ([]entity.Security, error) {
	m.SearchActiveByNameCalls++
	if m.SearchActiveByNameFunc != nil {
		return m.SearchActiveByNameFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockSecurityRepository) FindActiveBySymbols(ctx context.Context, symbols []string) ([]entity.Security, error) {
	if m.FindActiveBySymbolsFunc != nil {
		return m.FindActiveBySymbolsFunc(ctx, symbols)
	}
	return nil, nil
}

func (m *mockSecurityRepository) UpsertBySymbol(ctx context.Context, sec entity.Security) error {
	m.UpsertBySymbolCalls++
	if m.UpsertBySymbolFunc != nil {
		return m.UpsertBySymbolFunc(ctx, sec)
	}
	return nil
}

// mockPriceBarRepository records the bars it was asked to save.
type mockPriceBarRepository struct {
	UpsertBatchFunc  func(ctx context.Context, bars []entity.PriceBar) error
	UpsertBatchCalls int
	Saved            []entity.PriceBar
}

func (m *mockPriceBarRepository) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	m.UpsertBatchCalls++
	m.Saved = append([]entity.PriceBar(nil), bars...)
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, bars)
	}
	return nil
}

// mockRateLimiter is a mock implementation of the RateLimiterInterface.
type mockRateLimiter struct {
	WaitIfNeededCalls int
	Err               error
}

func (m *mockRateLimiter) WaitIfNeeded(ctx context.Context) error {
	m.WaitIfNeededCalls++
	return m.Err
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }
