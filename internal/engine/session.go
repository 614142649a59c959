// Package engine runs one ledger invocation: load, optionally mutate and
// persist, then filter, sort, total and render.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/filter"
	"github.com/Veraticus/sw/internal/ledger"
	"github.com/Veraticus/sw/internal/model"
	"github.com/Veraticus/sw/internal/service"
)

// Request describes what a single run should do.
type Request struct {
	Add      *model.Draft // Movement to insert before viewing, if any
	Filters  filter.Set
	DeleteID int // Movement to delete; 0 means no delete
	Limit    int // Rows listed and partially totaled; 0 means unbounded
}

// Result reports what a run did.
type Result struct {
	View    *model.View // Nil on delete runs
	AddedID int
	Deleted bool
	Saved   bool
}

// Session owns the record store for one run and wires it to the storage
// and display collaborators.
type Session struct {
	storage  service.Storage
	renderer service.Renderer
	store    *ledger.Store
}

// NewSession creates a session over the given collaborators.
func NewSession(storage service.Storage, renderer service.Renderer) *Session {
	return &Session{
		storage:  storage,
		renderer: renderer,
		store:    ledger.NewStore(),
	}
}

// Run executes one invocation.
//
// A delete run removes the movement, rewrites the store and stops without
// rendering. Otherwise an optional add is inserted and persisted, and the
// filtered, sorted, totaled view is handed to the renderer.
func (s *Session) Run(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}

	defer s.store.Clear()

	if err := s.load(ctx); err != nil {
		return Result{}, err
	}

	var result Result

	if req.DeleteID != 0 {
		result.Deleted = s.store.Remove(req.DeleteID)
		if !result.Deleted {
			slog.Debug("No movement to delete", "id", req.DeleteID)
		}
		if err := s.persist(ctx); err != nil {
			return result, err
		}
		result.Saved = true
		return result, nil
	}

	if req.Add != nil {
		result.AddedID = s.store.Insert(*req.Add)
		slog.Debug("Added movement", "id", result.AddedID)
		if err := s.persist(ctx); err != nil {
			return result, err
		}
		result.Saved = true
	}

	movements := s.store.All()
	excluded := filter.Apply(movements, req.Filters)
	s.store.Sort()
	movements = s.store.All()

	view := model.View{
		Movements: slices.Clone(movements),
		Totals:    ledger.Aggregate(movements, req.Limit),
		Excluded:  excluded,
		Limit:     ledger.NormalizeLimit(req.Limit),
	}
	result.View = &view

	slog.Debug("Computed view",
		"movements", view.Totals.Count,
		"excluded", excluded,
		"filters", len(req.Filters))

	if s.renderer != nil {
		if err := s.renderer.Render(view); err != nil {
			return result, fmt.Errorf("failed to render movements: %w", err)
		}
	}

	return result, nil
}

// Import adds every draft as a new movement and persists once. It returns
// the ids assigned, in draft order.
func (s *Session) Import(ctx context.Context, drafts []model.Draft) ([]int, error) {
	defer s.store.Clear()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(drafts))
	for _, d := range drafts {
		ids = append(ids, s.store.Insert(d))
	}

	if len(ids) == 0 {
		return ids, nil
	}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	slog.Info("Imported movements", "count", len(ids))
	return ids, nil
}

func (s *Session) load(ctx context.Context) error {
	records, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load movements: %w", err)
	}
	if err := s.store.Load(records); err != nil {
		return fmt.Errorf("failed to load movements: %w", err)
	}
	slog.Debug("Store ready", "movements", s.store.Len())
	return nil
}

func (s *Session) persist(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.store.All()); err != nil {
		return fmt.Errorf("failed to save movements: %w", err)
	}
	return nil
}

func validateRequest(req Request) error {
	if req.DeleteID < 0 {
		return common.InvalidArgument("movement id must be positive, got %d", req.DeleteID)
	}
	if req.Limit < 0 {
		return common.InvalidArgument("limit must not be negative, got %d", req.Limit)
	}
	return nil
}
