package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"mokabulens/internal/feature/stocks/domain"
	"mokabulens/internal/feature/stocks/domain/entity"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockStockUsecase はStockUsecaseインターフェースのモック実装です。
type mockStockUsecase struct {
	SearchFunc         func(ctx context.Context, query string, limit int) ([]entity.Security, error)
	GetPriceSeriesFunc func(ctx context.Context, symbol, period, interval string) (*entity.PriceSeries, error)
	GetInfoFunc        func(ctx context.Context, symbol string) (*entity.Security, error)
	SaveStockFunc      func(ctx context.Context, symbol string) error
	PopularFunc        func(ctx context.Context, limit int) ([]entity.Security, error)
}

func (m *mockStockUsecase) Search(ctx context.Context, query string, limit int) ([]entity.Security, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockStockUsecase) GetPriceSeries(ctx context.Context, symbol, period, interval string) (*entity.PriceSeries, error) {
	if m.GetPriceSeriesFunc != nil {
		return m.GetPriceSeriesFunc(ctx, symbol, period, interval)
	}
	return &entity.PriceSeries{Symbol: symbol}, nil
}

func (m *mockStockUsecase) GetInfo(ctx context.Context, symbol string) (*entity.Security, error) {
	if m.GetInfoFunc != nil {
		return m.GetInfoFunc(ctx, symbol)
	}
	return &entity.Security{Symbol: symbol}, nil
}

func (m *mockStockUsecase) SaveStock(ctx context.Context, symbol string) error {
	if m.SaveStockFunc != nil {
		return m.SaveStockFunc(ctx, symbol)
	}
	return nil
}

func (m *mockStockUsecase) Popular(ctx context.Context, limit int) ([]entity.Security, error) {
	if m.PopularFunc != nil {
		return m.PopularFunc(ctx, limit)
	}
	return nil, nil
}

func setupRouter(uc StockUsecase) *gin.Engine {
	h := NewStockHandler(uc)
	r := gin.New()
	g := r.Group("/api/v1/stocks")
	g.GET("/search", h.Search)
	g.GET("/popular", h.Popular)
	g.GET("/:symbol/price", h.Price)
	g.GET("/:symbol/info", h.Info)
	g.POST("/:symbol/save", h.Save)
	return r
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func str(v string) *string   { return &v }
func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

var sony = entity.Security{
	Symbol:      "6758",
	CompanyName: "ソニーグループ株式会社",
	Market:      str("JPX"),
	IsActive:    true,
}

func TestNewStockHandler(t *testing.T) {
	t.Parallel()

	h := NewStockHandler(&mockStockUsecase{})
	assert.NotNil(t, h)
	assert.NotNil(t, h.uc)
}

func TestStockHandler_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		mockFunc   func(ctx context.Context, query string, limit int) ([]entity.Security, error)
		wantQuery  string
		wantLimit  int
		wantStatus int
		wantBody   string
	}{
		{
			name:   "success with default limit",
			target: "/api/v1/stocks/search?query=6758",
			mockFunc: func(ctx context.Context, query string, limit int) ([]entity.Security, error) {
				return []entity.Security{sony}, nil
			},
			wantQuery:  "6758",
			wantLimit:  10,
			wantStatus: http.StatusOK,
			wantBody: `{"results":[{"symbol":"6758","company_name":"ソニーグループ株式会社","company_name_en":null,
				"market":"JPX","sector":null,"industry":null}],"total":1}`,
		},
		{
			name:   "empty result is an empty list",
			target: "/api/v1/stocks/search?query=0000&limit=5",
			mockFunc: func(ctx context.Context, query string, limit int) ([]entity.Security, error) {
				return nil, nil
			},
			wantQuery:  "0000",
			wantLimit:  5,
			wantStatus: http.StatusOK,
			wantBody:   `{"results":[],"total":0}`,
		},
		{
			name:       "missing query",
			target:     "/api/v1/stocks/search",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "limit too large",
			target:     "/api/v1/stocks/search?query=a&limit=51",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "limit zero",
			target:     "/api/v1/stocks/search?query=a&limit=0",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "lookup failure",
			target: "/api/v1/stocks/search?query=a",
			mockFunc: func(ctx context.Context, query string, limit int) ([]entity.Security, error) {
				return nil, domain.NewError(domain.KindLookup, "search", errors.New("db down"))
			},
			wantQuery:  "a",
			wantLimit:  10,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error","detail":"search: lookup: db down","code":"lookup"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			called := false
			uc := &mockStockUsecase{SearchFunc: func(ctx context.Context, query string, limit int) ([]entity.Security, error) {
				called = true
				assert.Equal(t, tt.wantQuery, query)
				assert.Equal(t, tt.wantLimit, limit)
				return tt.mockFunc(ctx, query, limit)
			}}

			w := serve(setupRouter(uc), http.MethodGet, tt.target)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnprocessableEntity {
				assert.False(t, called, "usecase must not be called on validation errors")
				assert.Contains(t, w.Body.String(), `"error":"Validation error"`)
				return
			}
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestStockHandler_Price(t *testing.T) {
	t.Parallel()

	d1 := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	series := &entity.PriceSeries{
		Symbol:        "6758",
		CompanyName:   "Sony Group Corporation",
		CurrentPrice:  f64(2450),
		Change:        -50,
		ChangePercent: -2,
		Volume:        i64(1200),
		Bars: []entity.PriceBar{{
			Symbol: "6758", Date: d1,
			Open: f64(2500), High: f64(2510), Low: f64(2440), Close: f64(2450),
			AdjustedClose: f64(2450), Volume: i64(1200),
		}},
	}

	tests := []struct {
		name         string
		target       string
		err          error
		wantPeriod   string
		wantInterval string
		wantStatus   int
		wantBody     string
	}{
		{
			name:         "defaults",
			target:       "/api/v1/stocks/6758/price",
			wantPeriod:   "1d",
			wantInterval: "1d",
			wantStatus:   http.StatusOK,
			wantBody: `{"symbol":"6758","company_name":"Sony Group Corporation","current_price":2450,
				"change":-50,"change_percent":-2,"volume":1200,"market_cap":null,
				"data":[{"symbol":"6758","date":"2024-01-04T00:00:00Z","open_price":2500,"high_price":2510,
				"low_price":2440,"close_price":2450,"volume":1200,"adjusted_close":2450}]}`,
		},
		{
			name:         "explicit period and interval",
			target:       "/api/v1/stocks/6758/price?period=1mo&interval=1wk",
			wantPeriod:   "1mo",
			wantInterval: "1wk",
			wantStatus:   http.StatusOK,
		},
		{
			name:       "invalid period",
			target:     "/api/v1/stocks/6758/price?period=2d",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid interval",
			target:     "/api/v1/stocks/6758/price?interval=4h",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:         "empty series",
			target:       "/api/v1/stocks/9999/price",
			err:          domain.NewError(domain.KindNotFound, "get price series", nil),
			wantPeriod:   "1d",
			wantInterval: "1d",
			wantStatus:   http.StatusNotFound,
			wantBody:     `{"error":"Not found","detail":"get price series: not_found","code":"not_found"}`,
		},
		{
			name:         "provider failure",
			target:       "/api/v1/stocks/6758/price",
			err:          domain.NewError(domain.KindLookup, "get price series", errors.New("timeout")),
			wantPeriod:   "1d",
			wantInterval: "1d",
			wantStatus:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockStockUsecase{GetPriceSeriesFunc: func(ctx context.Context, symbol, period, interval string) (*entity.PriceSeries, error) {
				assert.Equal(t, tt.wantPeriod, period)
				assert.Equal(t, tt.wantInterval, interval)
				if tt.err != nil {
					return nil, tt.err
				}
				return series, nil
			}}

			w := serve(setupRouter(uc), http.MethodGet, tt.target)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestStockHandler_Info(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		symbol     string
		sec        *entity.Security
		err        error
		wantStatus int
	}{
		{name: "found", symbol: "6758", sec: &sony, wantStatus: http.StatusOK},
		{name: "not found", symbol: "0000", err: domain.NewError(domain.KindNotFound, "get info", nil), wantStatus: http.StatusNotFound},
		{name: "lookup failure", symbol: "6758", err: domain.NewError(domain.KindLookup, "get info", errors.New("x")), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockStockUsecase{GetInfoFunc: func(ctx context.Context, symbol string) (*entity.Security, error) {
				assert.Equal(t, tt.symbol, symbol)
				return tt.sec, tt.err
			}}

			w := serve(setupRouter(uc), http.MethodGet, "/api/v1/stocks/"+tt.symbol+"/info")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.sec != nil {
				assert.Contains(t, w.Body.String(), `"company_name":"ソニーグループ株式会社"`)
			}
		})
	}
}

func TestStockHandler_Save(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "saved",
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"株式データを保存しました: 6758"}`,
		},
		{
			name:       "persistence failure",
			err:        domain.NewError(domain.KindPersistence, "save price series", errors.New("tx aborted")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error","detail":"save price series: persistence: tx aborted","code":"persistence"}`,
		},
		{
			name:       "invalid metadata",
			err:        domain.NewError(domain.KindInvalid, "save metadata", errors.New("company name is empty")),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"error":"Validation error","detail":"save metadata: invalid: company name is empty","code":"invalid"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockStockUsecase{SaveStockFunc: func(ctx context.Context, symbol string) error {
				assert.Equal(t, "6758", symbol)
				return tt.err
			}}

			w := serve(setupRouter(uc), http.MethodPost, "/api/v1/stocks/6758/save")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestStockHandler_Popular(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		wantLimit  int
		err        error
		wantStatus int
	}{
		{name: "default limit", target: "/api/v1/stocks/popular", wantLimit: 20, wantStatus: http.StatusOK},
		{name: "explicit limit", target: "/api/v1/stocks/popular?limit=3", wantLimit: 3, wantStatus: http.StatusOK},
		{name: "limit out of range", target: "/api/v1/stocks/popular?limit=100", wantStatus: http.StatusUnprocessableEntity},
		{name: "non-numeric limit", target: "/api/v1/stocks/popular?limit=abc", wantStatus: http.StatusUnprocessableEntity},
		{
			name:       "store failure",
			target:     "/api/v1/stocks/popular",
			wantLimit:  20,
			err:        domain.NewError(domain.KindLookup, "popular", errors.New("db down")),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockStockUsecase{PopularFunc: func(ctx context.Context, limit int) ([]entity.Security, error) {
				assert.Equal(t, tt.wantLimit, limit)
				if tt.err != nil {
					return nil, tt.err
				}
				return []entity.Security{sony}, nil
			}}

			w := serve(setupRouter(uc), http.MethodGet, tt.target)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"results":[{"symbol":"6758","company_name":"ソニーグループ株式会社",
					"company_name_en":null,"market":"JPX","sector":null,"industry":null}],"total":1}`, w.Body.String())
			}
		})
	}
}
