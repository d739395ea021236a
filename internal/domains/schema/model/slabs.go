package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SortSlabs orders slabs by MinAmount ascending. The resolver relies
// on this ordering for binary search.
func SortSlabs(slabs []*PayoutSlab) {
	sort.Slice(slabs, func(i, j int) bool {
		return slabs[i].MinAmount.LessThan(slabs[j].MinAmount)
	})
}

// ValidateSlabCoverage checks the slab partition invariant:
// slabs must tile [0, maxAmount) with no gaps, no overlaps and no
// shared lower bounds. Called on every slab write.
func ValidateSlabCoverage(slabs []*PayoutSlab, maxAmount decimal.Decimal) error {
	if len(slabs) == 0 {
		return nil // no slabs means flat payout rate applies
	}

	sorted := make([]*PayoutSlab, len(slabs))
	copy(sorted, slabs)
	SortSlabs(sorted)

	if !sorted[0].MinAmount.IsZero() {
		return ErrSlabNotFromZero
	}

	prev := decimal.Zero
	for _, slab := range sorted {
		if slab.MinAmount.GreaterThanOrEqual(slab.MaxAmount) {
			return ErrSlabEmptyRange
		}
		if !slab.MinAmount.Equal(prev) {
			// A duplicate lower bound shows up here as an overlap,
			// a missing range as a gap; both break the partition.
			return ErrSlabGap
		}
		prev = slab.MaxAmount
	}

	if prev.LessThan(maxAmount) {
		return ErrSlabShortCover
	}

	return nil
}

// FindSlab returns the slab whose [MinAmount, MaxAmount) interval
// contains amount, using binary search over slabs sorted by MinAmount.
// A boundary amount resolves to the slab where it is the lower bound.
func FindSlab(slabs []*PayoutSlab, amount decimal.Decimal) *PayoutSlab {
	lo, hi := 0, len(slabs)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		slab := slabs[mid]
		switch {
		case amount.LessThan(slab.MinAmount):
			hi = mid - 1
		case amount.GreaterThanOrEqual(slab.MaxAmount):
			lo = mid + 1
		default:
			return slab
		}
	}
	return nil
}
