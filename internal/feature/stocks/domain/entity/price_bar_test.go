package entity_test

import (
	"mokabulens/internal/feature/stocks/domain/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTradingDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "utc midnight stays",
			in:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "intraday time truncated",
			in:   time.Date(2024, 3, 1, 15, 30, 12, 99, time.UTC),
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "tokyo morning keeps the local date",
			in:   time.Date(2024, 3, 1, 9, 0, 0, 0, tokyo), // 2024-03-01 00:00 UTC
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "tokyo just after midnight does not roll back",
			in:   time.Date(2024, 3, 2, 0, 5, 0, 0, tokyo), // 2024-03-01 15:05 UTC
			want: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entity.TradingDate(tt.in)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
