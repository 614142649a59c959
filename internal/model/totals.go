package model

// Totals contains the global sums over every movement and the partial sums
// over the movements listed in the current view.
type Totals struct {
	Amount         float64
	Income         float64
	Expense        float64
	PartialAmount  float64
	PartialIncome  float64
	PartialExpense float64
	Count          int
	PartialCount   int
}

// View is everything the display needs for one run.
type View struct {
	Movements []Movement // Sorted, newest first
	Totals    Totals
	Excluded  int
	Limit     int // Already normalized: never zero
}
