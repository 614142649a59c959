package engine

import (
	"context"
	"slices"

	"github.com/Veraticus/sw/internal/model"
)

// MockStorage is an in-memory implementation of service.Storage for tests.
type MockStorage struct {
	LoadErr   error
	SaveErr   error
	Saved     [][]model.Movement // Every collection passed to Save, in order
	movements []model.Movement
	Loads     int
}

// NewMockStorage creates a mock storage holding movements.
func NewMockStorage(movements ...model.Movement) *MockStorage {
	return &MockStorage{movements: slices.Clone(movements)}
}

// Load returns a copy of the held movements.
func (m *MockStorage) Load(_ context.Context) ([]model.Movement, error) {
	m.Loads++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return slices.Clone(m.movements), nil
}

// Save records and keeps a copy of movements.
func (m *MockStorage) Save(_ context.Context, movements []model.Movement) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.movements = slices.Clone(movements)
	m.Saved = append(m.Saved, slices.Clone(movements))
	return nil
}

// Close does nothing.
func (m *MockStorage) Close() error {
	return nil
}

// Movements returns what is currently persisted.
func (m *MockStorage) Movements() []model.Movement {
	return slices.Clone(m.movements)
}

// MockRenderer records every view it is asked to render.
type MockRenderer struct {
	Err   error
	Views []model.View
}

// Render records view.
func (r *MockRenderer) Render(view model.View) error {
	r.Views = append(r.Views, view)
	return r.Err
}
