package ledger

import (
	"cmp"
	"slices"

	"github.com/Veraticus/sw/internal/model"
)

// SortDescending orders movements by timestamp, newest first. Movements with
// equal timestamps keep their relative order, so sorting twice is a no-op.
func SortDescending(movements []model.Movement) {
	slices.SortStableFunc(movements, func(a, b model.Movement) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
}
