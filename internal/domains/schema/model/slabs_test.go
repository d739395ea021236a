package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func slab(min, max, rate string) *PayoutSlab {
	return &PayoutSlab{
		MinAmount: d(min),
		MaxAmount: d(max),
		Rate:      d(rate),
		FeeType:   "percentage",
	}
}

func TestFindSlab_HalfOpenBoundaries(t *testing.T) {
	slabs := []*PayoutSlab{
		slab("0", "10000", "0.010"),
		slab("10000", "100000", "0.008"),
		slab("100000", "500000", "0.005"),
	}
	SortSlabs(slabs)

	tests := []struct {
		name     string
		amount   string
		wantRate string
	}{
		{"zero lands in first slab", "0", "0.010"},
		{"inside first slab", "9999.99", "0.010"},
		{"boundary belongs to the higher slab", "10000", "0.008"},
		{"inside second slab", "50000", "0.008"},
		{"second boundary", "100000", "0.005"},
		{"just below upper limit", "499999.99", "0.005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSlab(slabs, d(tt.amount))
			require.NotNil(t, got)
			assert.True(t, got.Rate.Equal(d(tt.wantRate)),
				"amount %s resolved to rate %s, want %s", tt.amount, got.Rate, tt.wantRate)
		})
	}

	t.Run("amount past the last slab finds nothing", func(t *testing.T) {
		assert.Nil(t, FindSlab(slabs, d("500000")))
	})
}

func TestValidateSlabCoverage(t *testing.T) {
	maxAmount := d("500000")

	t.Run("no slabs is valid", func(t *testing.T) {
		assert.NoError(t, ValidateSlabCoverage(nil, maxAmount))
	})

	t.Run("contiguous partition passes", func(t *testing.T) {
		slabs := []*PayoutSlab{
			slab("0", "10000", "0.010"),
			slab("10000", "100000", "0.008"),
			slab("100000", "500000", "0.005"),
		}
		assert.NoError(t, ValidateSlabCoverage(slabs, maxAmount))
	})

	t.Run("first slab must start at zero", func(t *testing.T) {
		slabs := []*PayoutSlab{
			slab("100", "500000", "0.010"),
		}
		assert.ErrorIs(t, ValidateSlabCoverage(slabs, maxAmount), ErrSlabNotFromZero)
	})

	t.Run("gap between slabs rejected", func(t *testing.T) {
		slabs := []*PayoutSlab{
			slab("0", "10000", "0.010"),
			slab("20000", "500000", "0.008"),
		}
		assert.ErrorIs(t, ValidateSlabCoverage(slabs, maxAmount), ErrSlabGap)
	})

	t.Run("overlapping slabs rejected", func(t *testing.T) {
		slabs := []*PayoutSlab{
			slab("0", "20000", "0.010"),
			slab("10000", "500000", "0.008"),
		}
		assert.ErrorIs(t, ValidateSlabCoverage(slabs, maxAmount), ErrSlabGap)
	})

	t.Run("coverage short of the gateway max rejected", func(t *testing.T) {
		slabs := []*PayoutSlab{
			slab("0", "10000", "0.010"),
			slab("10000", "100000", "0.008"),
		}
		assert.ErrorIs(t, ValidateSlabCoverage(slabs, maxAmount), ErrSlabShortCover)
	})

	t.Run("empty range rejected", func(t *testing.T) {
		slabs := []*PayoutSlab{
			slab("0", "0", "0.010"),
		}
		assert.ErrorIs(t, ValidateSlabCoverage(slabs, maxAmount), ErrSlabEmptyRange)
	})
}

func TestPayoutSlabContains(t *testing.T) {
	s := slab("100", "200", "0.01")

	assert.True(t, s.Contains(d("100")))
	assert.True(t, s.Contains(d("199.99")))
	assert.False(t, s.Contains(d("200")))
	assert.False(t, s.Contains(d("99.99")))
}
