package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// TableRenderer prints the movement list followed by the partial and
// global totals. Colors are only emitted when w is a terminal.
type TableRenderer struct {
	w       io.Writer
	loc     *time.Location
	header  lipgloss.Style
	income  lipgloss.Style
	expense lipgloss.Style
	subtle  lipgloss.Style
}

// NewTableRenderer creates a renderer writing to w, showing dates in loc.
func NewTableRenderer(w io.Writer, loc *time.Location) *TableRenderer {
	re := lipgloss.NewRenderer(w)
	return &TableRenderer{
		w:       w,
		loc:     loc,
		header:  re.NewStyle().Bold(true),
		income:  re.NewStyle().Foreground(IncomeColor),
		expense: re.NewStyle().Foreground(ExpenseColor),
		subtle:  re.NewStyle().Foreground(SubtleColor),
	}
}

// Render writes the view.
func (r *TableRenderer) Render(view model.View) error {
	listed := min(view.Totals.Count-view.Excluded, view.Limit)

	if listed > 0 {
		if _, err := fmt.Fprintln(r.w, r.header.Render(
			fmt.Sprintf("%5s | %16s | %8s | %s", "id", "date  time", "amount", "note"))); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	shown := 0
	for _, m := range view.Movements {
		if shown >= view.Limit {
			break
		}
		if m.Filtered {
			continue
		}
		shown++

		if _, err := fmt.Fprintf(r.w, "%5d | %16s | %s | %s\n",
			m.ID,
			common.FormatTimestamp(m.Timestamp, r.loc),
			r.amount(m.Amount, 8),
			m.Note); err != nil {
			return fmt.Errorf("failed to write movement %d: %w", m.ID, err)
		}
	}

	t := view.Totals
	if listed > 1 && listed < t.Count {
		if err := r.totalsLine("Partial", t.PartialAmount, t.PartialIncome, t.PartialExpense, t.PartialCount); err != nil {
			return err
		}
	}
	return r.totalsLine("Total", t.Amount, t.Income, t.Expense, t.Count)
}

func (r *TableRenderer) totalsLine(label string, amount, income, expense float64, count int) error {
	_, err := fmt.Fprintf(r.w, "%5s | %17s: %s | %s\n",
		"",
		label,
		r.amount(amount, 8),
		r.subtle.Render(fmt.Sprintf("income=%.2f expense=%.2f movements=%d", income, expense, count)))
	if err != nil {
		return fmt.Errorf("failed to write %s line: %w", label, err)
	}
	return nil
}

func (r *TableRenderer) amount(v float64, width int) string {
	s := fmt.Sprintf("%*.2f", width, v)
	if v < 0 {
		return r.expense.Render(s)
	}
	return r.income.Render(s)
}
