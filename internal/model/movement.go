// Package model defines the core domain models used throughout the application.
package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNoteLength is the largest note, in bytes, a movement may carry.
const MaxNoteLength = 255

// ErrInvalidNote is returned when a note cannot be stored on a single line.
var ErrInvalidNote = errors.New("invalid note")

// Movement represents a single dated monetary event in the ledger.
type Movement struct {
	Note      string
	Timestamp int64 // Unix seconds
	Amount    float64
	ID        int
	Filtered  bool // Excluded from the active view; recomputed every run
}

// IsIncome reports whether the movement counts as income. Zero counts as income.
func (m Movement) IsIncome() bool {
	return m.Amount >= 0
}

// Draft holds a movement that has not been assigned an id yet.
type Draft struct {
	Note      string
	Timestamp int64
	Amount    float64
}

// NewDraft validates the note and returns a draft ready to insert.
// Surrounding whitespace is trimmed and notes longer than MaxNoteLength are
// truncated at a rune boundary.
func NewDraft(timestamp int64, amount float64, note string) (Draft, error) {
	note = strings.TrimSpace(note)
	if strings.ContainsAny(note, "\r\n") {
		return Draft{}, fmt.Errorf("%w: note must fit on one line", ErrInvalidNote)
	}

	return Draft{
		Timestamp: timestamp,
		Amount:    amount,
		Note:      TruncateNote(note),
	}, nil
}

// TruncateNote cuts a note down to MaxNoteLength bytes without splitting a rune.
func TruncateNote(note string) string {
	if len(note) <= MaxNoteLength {
		return note
	}

	cut := MaxNoteLength
	for cut > 0 && !utf8.RuneStart(note[cut]) {
		cut--
	}
	return note[:cut]
}
