// Package ledger holds the in-memory movement collection for a single run,
// together with the ordering and totals computed over it.
package ledger

import (
	"fmt"
	"slices"

	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/model"
)

// Store is an unordered collection of movements keyed by id.
// It is owned by one session and is not safe for concurrent use.
type Store struct {
	movements []model.Movement
	index     map[int]int // id -> position in movements
	maxID     int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[int]int)}
}

// Load replaces the whole collection with records read from persisted state.
// Records with a non-positive or duplicated id are rejected as corrupt and
// the previous contents are kept.
func (s *Store) Load(records []model.Movement) error {
	index := make(map[int]int, len(records))
	maxID := 0

	for i, m := range records {
		if m.ID <= 0 {
			return fmt.Errorf("%w: record %d has non-positive id %d", common.ErrStoreCorrupt, i+1, m.ID)
		}
		if _, dup := index[m.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", common.ErrStoreCorrupt, m.ID)
		}
		index[m.ID] = i
		if m.ID > maxID {
			maxID = m.ID
		}
	}

	movements := make([]model.Movement, len(records))
	copy(movements, records)
	for i := range movements {
		movements[i].Filtered = false
	}

	s.movements = movements
	s.index = index
	s.maxID = maxID
	return nil
}

// Insert adds a movement built from the draft and returns its new id.
// The id is one past the highest id this store has held since the last Load.
func (s *Store) Insert(d model.Draft) int {
	s.maxID++
	m := model.Movement{
		ID:        s.maxID,
		Timestamp: d.Timestamp,
		Amount:    d.Amount,
		Note:      d.Note,
	}
	s.index[m.ID] = len(s.movements)
	s.movements = append(s.movements, m)
	return m.ID
}

// Remove deletes the movement with the given id.
// It reports whether a movement was removed; an unknown id is not an error.
func (s *Store) Remove(id int) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}

	s.movements = slices.Delete(s.movements, pos, pos+1)
	delete(s.index, id)
	for i := pos; i < len(s.movements); i++ {
		s.index[s.movements[i].ID] = i
	}
	return true
}

// Get returns the movement with the given id.
func (s *Store) Get(id int) (model.Movement, bool) {
	pos, ok := s.index[id]
	if !ok {
		return model.Movement{}, false
	}
	return s.movements[pos], true
}

// All exposes the current movements. The slice is shared with the store so
// callers may update the Filtered flag in place; its order carries no meaning
// until Sort is called.
func (s *Store) All() []model.Movement {
	return s.movements
}

// Len returns the number of movements held.
func (s *Store) Len() int {
	return len(s.movements)
}

// Sort orders the collection newest first, keeping ties in encounter order.
func (s *Store) Sort() {
	SortDescending(s.movements)
	for i, m := range s.movements {
		s.index[m.ID] = i
	}
}

// Clear releases every movement.
func (s *Store) Clear() {
	s.movements = nil
	s.index = make(map[int]int)
	s.maxID = 0
}
