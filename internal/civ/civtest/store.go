// Package civtest provides an in-memory civ.Store for service and resolver
// tests.
package civtest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"warciv-server/internal/civ"
	apperrors "warciv-server/internal/shared/errors"
)

type Store struct {
	mu   sync.Mutex
	civs map[int]*civ.Civilization
}

func NewStore() *Store {
	return &Store{civs: make(map[int]*civ.Civilization)}
}

// Seed inserts a civilization directly, bypassing creation defaults.
func (s *Store) Seed(c *civ.Civilization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.civs[c.ID] = clone(c)
}

func (s *Store) Create(ctx context.Context, c *civ.Civilization) (*civ.Civilization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.civs[c.ID]; ok {
		return nil, apperrors.AlreadyExistsf("civilization already founded")
	}

	stored := clone(c)
	stored.CreatedAt = time.Now()
	stored.LastActive = stored.CreatedAt
	s.civs[c.ID] = stored
	return clone(stored), nil
}

func (s *Store) GetByID(ctx context.Context, id int) (*civ.Civilization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.civs[id]
	if !ok {
		return nil, apperrors.NotFoundf("civilization %d not found", id)
	}
	return clone(c), nil
}

func (s *Store) Touch(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.civs[id]; ok {
		c.LastActive = time.Now()
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id int, fn func(c *civ.Civilization) error) (*civ.Civilization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.civs[id]
	if !ok {
		return nil, apperrors.NotFoundf("civilization %d not found", id)
	}

	working := clone(stored)
	if err := fn(working); err != nil {
		return nil, err
	}

	s.civs[id] = working
	return clone(working), nil
}

func (s *Store) UpdatePair(ctx context.Context, aID, bID int, fn func(a, b *civ.Civilization) error) (*civ.Civilization, *civ.Civilization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if aID == bID {
		return nil, nil, apperrors.SelfTargetf("cannot target own civilization")
	}

	storedA, ok := s.civs[aID]
	if !ok {
		return nil, nil, apperrors.NotFoundf("civilization %d not found", aID)
	}
	storedB, ok := s.civs[bID]
	if !ok {
		return nil, nil, apperrors.NotFoundf("civilization %d not found", bID)
	}

	workingA, workingB := clone(storedA), clone(storedB)
	if err := fn(workingA, workingB); err != nil {
		return nil, nil, err
	}

	s.civs[aID] = workingA
	s.civs[bID] = workingB
	return clone(workingA), clone(workingB), nil
}

func clone(c *civ.Civilization) *civ.Civilization {
	data, err := json.Marshal(c)
	if err != nil {
		panic(err)
	}
	var out civ.Civilization
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	out.CreatedAt = c.CreatedAt
	out.LastActive = c.LastActive
	return &out
}
