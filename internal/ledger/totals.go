package ledger

import (
	"math"

	"github.com/Veraticus/sw/internal/model"
)

// NormalizeLimit maps the "no limit" value 0 to the largest int.
func NormalizeLimit(limit int) int {
	if limit == 0 {
		return math.MaxInt
	}
	return limit
}

// Aggregate computes global totals over every movement and partial totals
// over the first limit movements that are not filtered out. Callers sort the
// movements first so the partial totals cover the most recent ones.
// A limit of zero means unbounded.
func Aggregate(movements []model.Movement, limit int) model.Totals {
	limit = NormalizeLimit(limit)

	var t model.Totals
	for _, m := range movements {
		t.Amount += m.Amount
		if m.IsIncome() {
			t.Income += m.Amount
		} else {
			t.Expense += m.Amount
		}
		t.Count++

		if m.Filtered || t.PartialCount >= limit {
			continue
		}

		t.PartialAmount += m.Amount
		if m.IsIncome() {
			t.PartialIncome += m.Amount
		} else {
			t.PartialExpense += m.Amount
		}
		t.PartialCount++
	}

	return t
}
