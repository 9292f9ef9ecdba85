package civ

import (
	"context"
	"log/slog"
	"testing"

	"warciv-server/internal/ideology"
	"warciv-server/internal/shared/config"
	apperrors "warciv-server/internal/shared/errors"
)

type dealerStub struct {
	dealtCiv   []int
	dealtLevel []int
	err        error
}

func (d *dealerStub) DealSelection(ctx context.Context, civID, techLevel int) error {
	d.dealtCiv = append(d.dealtCiv, civID)
	d.dealtLevel = append(d.dealtLevel, techLevel)
	return d.err
}

type memStore struct {
	civs map[int]*Civilization
}

func newMemStore() *memStore {
	return &memStore{civs: make(map[int]*Civilization)}
}

func (s *memStore) Create(ctx context.Context, c *Civilization) (*Civilization, error) {
	if _, ok := s.civs[c.ID]; ok {
		return nil, apperrors.AlreadyExistsf("civilization already founded")
	}
	copied := *c
	s.civs[c.ID] = &copied
	return &copied, nil
}

func (s *memStore) GetByID(ctx context.Context, id int) (*Civilization, error) {
	c, ok := s.civs[id]
	if !ok {
		return nil, apperrors.NotFoundf("civilization %d not found", id)
	}
	return c, nil
}

func (s *memStore) Touch(ctx context.Context, id int) error { return nil }

func (s *memStore) Update(ctx context.Context, id int, fn func(c *Civilization) error) (*Civilization, error) {
	c, ok := s.civs[id]
	if !ok {
		return nil, apperrors.NotFoundf("civilization %d not found", id)
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *memStore) UpdatePair(ctx context.Context, aID, bID int, fn func(a, b *Civilization) error) (*Civilization, *Civilization, error) {
	a, ok := s.civs[aID]
	if !ok {
		return nil, nil, apperrors.NotFoundf("civilization %d not found", aID)
	}
	b, ok := s.civs[bID]
	if !ok {
		return nil, nil, apperrors.NotFoundf("civilization %d not found", bID)
	}
	if err := fn(a, b); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func setupService(t *testing.T) (*Service, *memStore, *dealerStub) {
	t.Helper()

	config.GlobalConfig = &config.Config{Game: config.GameConfig{
		StartingGold:     500,
		StartingFood:     300,
		StartingStone:    100,
		StartingWood:     100,
		StartingCitizens: 100,
		StartingSoldiers: 10,
		StartingSpies:    2,
		StartingLand:     1000,
	}}
	t.Cleanup(func() { config.GlobalConfig = nil })

	store := newMemStore()
	dealer := &dealerStub{}
	return NewService(store, dealer, slog.Default()), store, dealer
}

func TestFoundStartsWithConfiguredState(t *testing.T) {
	svc, _, dealer := setupService(t)

	c, err := svc.Found(context.Background(), 7, "Rome")
	if err != nil {
		t.Fatalf("Found failed: %v", err)
	}

	if c.ID != 7 || c.Name != "Rome" {
		t.Errorf("id/name = %d/%q, want 7/Rome", c.ID, c.Name)
	}
	if c.Ideology != ideology.None {
		t.Errorf("ideology = %q, want none chosen", c.Ideology)
	}
	if c.Resources != (Resources{Gold: 500, Food: 300, Stone: 100, Wood: 100}) {
		t.Errorf("resources = %+v", c.Resources)
	}
	if c.Population.Happiness != 50 {
		t.Errorf("happiness = %d, want 50", c.Population.Happiness)
	}
	if c.Military.TechLevel != 1 {
		t.Errorf("tech level = %d, want 1", c.Military.TechLevel)
	}

	if len(dealer.dealtCiv) != 1 || dealer.dealtCiv[0] != 7 || dealer.dealtLevel[0] != 1 {
		t.Errorf("founding hand dealt = %v at %v, want civ 7 at level 1",
			dealer.dealtCiv, dealer.dealtLevel)
	}
}

func TestFoundRejectsDuplicate(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Found(ctx, 7, "Rome"); err != nil {
		t.Fatalf("first Found failed: %v", err)
	}

	_, err := svc.Found(ctx, 7, "Second Rome")
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeAlreadyExists {
		t.Fatalf("error type = %s, want already_exists", got)
	}
}

func TestFoundValidatesName(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Found(ctx, 7, ""); apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Error("empty name must be rejected")
	}

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := svc.Found(ctx, 7, string(long)); apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Error("overlong name must be rejected")
	}
}

func TestFoundSurvivesDealerFailure(t *testing.T) {
	svc, _, dealer := setupService(t)
	dealer.err = apperrors.WrapDatabase("deal failed", context.DeadlineExceeded)

	c, err := svc.Found(context.Background(), 7, "Rome")
	if err != nil {
		t.Fatalf("Found must succeed despite dealer failure, got: %v", err)
	}
	if c.ID != 7 {
		t.Errorf("id = %d, want 7", c.ID)
	}
}

func TestSetIdeologyIsPermanent(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Found(ctx, 7, "Rome"); err != nil {
		t.Fatal(err)
	}

	c, err := svc.SetIdeology(ctx, 7, "fascism")
	if err != nil {
		t.Fatalf("SetIdeology failed: %v", err)
	}
	if c.Ideology != ideology.Fascism {
		t.Errorf("ideology = %q, want fascism", c.Ideology)
	}

	_, err = svc.SetIdeology(ctx, 7, "democracy")
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeAlreadyExists {
		t.Fatalf("error type = %s, want already_exists", got)
	}
}

func TestSetIdeologyRejectsUnknown(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Found(ctx, 7, "Rome"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SetIdeology(ctx, 7, "feudalism"); apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Error("unknown ideology must be rejected")
	}
}
