// Package filter decides which movements are excluded from the active view.
package filter

import (
	"fmt"
	"strings"

	"github.com/Veraticus/sw/internal/model"
	"golang.org/x/text/cases"
)

// Filter is one user-supplied predicate. The concrete types are DateFrom,
// DateTo, TextMatch and TextExclude.
type Filter interface {
	fmt.Stringer
	isFilter()
}

// DateFrom keeps movements at or after At (Unix seconds).
type DateFrom struct {
	At int64
}

// DateTo keeps movements at or before At (Unix seconds).
type DateTo struct {
	At int64
}

// TextMatch keeps movements whose note contains Text. Several TextMatch
// filters are OR-ed together.
type TextMatch struct {
	Text string
}

// TextExclude drops movements whose note contains Text.
type TextExclude struct {
	Text string
}

func (DateFrom) isFilter()    {}
func (DateTo) isFilter()      {}
func (TextMatch) isFilter()   {}
func (TextExclude) isFilter() {}

func (f DateFrom) String() string    { return fmt.Sprintf("from %d", f.At) }
func (f DateTo) String() string      { return fmt.Sprintf("to %d", f.At) }
func (f TextMatch) String() string   { return fmt.Sprintf("match %q", f.Text) }
func (f TextExclude) String() string { return fmt.Sprintf("exclude %q", f.Text) }

// Set is the ordered list of filters for one run.
type Set []Filter

// HasTextMatch reports whether the set contains at least one TextMatch.
func (s Set) HasTextMatch() bool {
	for _, f := range s {
		if _, ok := f.(TextMatch); ok {
			return true
		}
	}
	return false
}

// Evaluate reports whether m is excluded by the set.
//
// Date bounds and TextExclude filters are AND-ed: any one failing excludes
// the movement. TextMatch filters form a single OR group: when the set holds
// any, at least one must match. Once a TextMatch has matched the remaining
// ones are not tested.
func Evaluate(m model.Movement, set Set) bool {
	if len(set) == 0 {
		return false
	}

	note := fold(m.Note)
	textMatched := false

	for _, f := range set {
		switch f := f.(type) {
		case DateFrom:
			if m.Timestamp < f.At {
				return true
			}
		case DateTo:
			if m.Timestamp > f.At {
				return true
			}
		case TextExclude:
			if strings.Contains(note, fold(f.Text)) {
				return true
			}
		case TextMatch:
			if textMatched {
				continue
			}
			textMatched = strings.Contains(note, fold(f.Text))
		}
	}

	return set.HasTextMatch() && !textMatched
}

// Apply evaluates the set against every movement, storing the result in the
// Filtered flag, and returns how many movements were excluded.
func Apply(movements []model.Movement, set Set) int {
	excluded := 0
	for i := range movements {
		movements[i].Filtered = Evaluate(movements[i], set)
		if movements[i].Filtered {
			excluded++
		}
	}
	return excluded
}

// Build assembles a set from command-line values. Date values are parsed
// with parse; text values are taken verbatim.
func Build(from, to, match, exclude []string, parse func(string) (int64, error)) (Set, error) {
	var set Set

	for _, v := range from {
		ts, err := parse(v)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		set = append(set, DateFrom{At: ts})
	}
	for _, v := range to {
		ts, err := parse(v)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		set = append(set, DateTo{At: ts})
	}
	for _, v := range match {
		set = append(set, TextMatch{Text: v})
	}
	for _, v := range exclude {
		set = append(set, TextExclude{Text: v})
	}

	return set, nil
}

// fold returns the case-folded form of s used for case-insensitive matching.
func fold(s string) string {
	return cases.Fold().String(s)
}
