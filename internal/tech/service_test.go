package tech

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"warciv-server/internal/civ"
	"warciv-server/internal/civ/civtest"
	"warciv-server/internal/shared/config"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/random"
	"warciv-server/internal/stats"
)

// scriptedSource replays fixed values in draw order.
type scriptedSource struct {
	ints []int
}

func (s *scriptedSource) Float64() float64               { return 0 }
func (s *scriptedSource) Uniform(lo, hi float64) float64 { return lo }

func (s *scriptedSource) IntBetween(lo, hi int) int {
	if len(s.ints) == 0 {
		return lo
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

// storeStub keeps selections in memory with the same single-use semantics
// as the SQL repository.
type storeStub struct {
	mu      sync.Mutex
	nextID  int
	pending map[int]*CardSelection // by civ ID
	byID    map[int]*CardSelection
}

func newStoreStub() *storeStub {
	return &storeStub{pending: make(map[int]*CardSelection), byID: make(map[int]*CardSelection)}
}

func (s *storeStub) ReplacePending(ctx context.Context, civID, techLevel int, cards []string) (*CardSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old := s.pending[civID]; old != nil {
		delete(s.byID, old.ID)
	}
	s.nextID++
	sel := &CardSelection{
		ID:        s.nextID,
		CivID:     civID,
		TechLevel: techLevel,
		Cards:     append([]string(nil), cards...),
		Status:    SelectionPending,
		CreatedAt: time.Now(),
	}
	s.pending[civID] = sel
	s.byID[sel.ID] = sel
	return sel, nil
}

func (s *storeStub) GetPending(ctx context.Context, civID int) (*CardSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.pending[civID]
	if sel == nil {
		return nil, apperrors.New(apperrors.ErrorTypeNoSelection,
			"no pending card selection for civilization %d", civID)
	}
	clone := *sel
	clone.Cards = append([]string(nil), sel.Cards...)
	return &clone, nil
}

func (s *storeStub) MarkSelected(ctx context.Context, selectionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.byID[selectionID]
	if sel == nil || sel.Status != SelectionPending {
		return apperrors.New(apperrors.ErrorTypeNoSelection,
			"card selection %d is no longer pending", selectionID)
	}
	sel.Status = SelectionSelected
	delete(s.pending, sel.CivID)
	return nil
}

func (s *storeStub) Reopen(ctx context.Context, selectionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.byID[selectionID]
	if sel == nil || sel.Status != SelectionSelected {
		return nil
	}
	sel.Status = SelectionPending
	s.pending[sel.CivID] = sel
	return nil
}

type recorderStub struct {
	mu     sync.Mutex
	deltas map[int][]stats.Delta
}

func newRecorderStub() *recorderStub {
	return &recorderStub{deltas: make(map[int][]stats.Delta)}
}

func (r *recorderStub) Record(ctx context.Context, civID int, d stats.Delta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltas[civID] = append(r.deltas[civID], d)
}

func setupService(t *testing.T, src random.Source) (*Service, *storeStub, *civtest.Store, *recorderStub) {
	t.Helper()

	config.GlobalConfig = &config.Config{Game: config.GameConfig{TechCap: 10}}
	t.Cleanup(func() { config.GlobalConfig = nil })

	civs := civtest.NewStore()
	civs.Seed(&civ.Civilization{
		ID: 1, Name: "Rome",
		Military:  civ.Military{TechLevel: 3},
		Resources: civ.Resources{Gold: 100},
	})

	store := newStoreStub()
	recorder := newRecorderStub()

	svc := NewService(store, civs, recorder, slog.Default())
	svc.newSource = func() random.Source { return src }
	return svc, store, civs, recorder
}

func TestDealSelectionDrawsDistinctCards(t *testing.T) {
	svc, store, _, _ := setupService(t, &scriptedSource{ints: []int{0, 1, 2}})
	ctx := context.Background()

	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatalf("DealSelection failed: %v", err)
	}

	sel, err := store.GetPending(ctx, 1)
	if err != nil {
		t.Fatalf("no pending selection: %v", err)
	}
	if len(sel.Cards) != SelectionSize {
		t.Fatalf("hand size = %d, want %d", len(sel.Cards), SelectionSize)
	}
	seen := make(map[string]bool)
	for _, name := range sel.Cards {
		if _, ok := CardByName(name); !ok {
			t.Errorf("dealt unknown card %q", name)
		}
		if seen[name] {
			t.Errorf("card %q dealt twice in one hand", name)
		}
		seen[name] = true
	}
	if sel.TechLevel != 3 {
		t.Errorf("selection tech level = %d, want 3", sel.TechLevel)
	}
}

func TestDealSelectionReplacesPending(t *testing.T) {
	svc, store, _, _ := setupService(t, random.NewSeeded(1))
	ctx := context.Background()

	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}
	first, _ := store.GetPending(ctx, 1)

	if err := svc.DealSelection(ctx, 1, 4); err != nil {
		t.Fatal(err)
	}
	second, _ := store.GetPending(ctx, 1)

	if second.ID == first.ID {
		t.Error("new deal must replace the pending selection")
	}
	if second.TechLevel != 4 {
		t.Errorf("selection tech level = %d, want 4", second.TechLevel)
	}
}

func TestDealSelectionAtCap(t *testing.T) {
	svc, store, _, _ := setupService(t, random.NewSeeded(1))

	err := svc.DealSelection(context.Background(), 1, 10)
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeTechCap {
		t.Errorf("error type = %s, want tech_cap", got)
	}
	if _, err := store.GetPending(context.Background(), 1); apperrors.GetType(err) != apperrors.ErrorTypeNoSelection {
		t.Error("capped civilization must not receive a hand")
	}
}

func TestChooseAppliesCard(t *testing.T) {
	svc, _, civs, recorder := setupService(t, &scriptedSource{ints: []int{0, 1, 2}})
	ctx := context.Background()

	// Hand: Gold Cache, Resource Boost, Food Stores.
	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Choose(ctx, 1, "Gold Cache")
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if result.TechGained {
		t.Error("Gold Cache must not grant tech")
	}

	c, _ := civs.GetByID(ctx, 1)
	if c.Resources.Gold != 600 {
		t.Errorf("gold = %d, want 600", c.Resources.Gold)
	}
	if len(recorder.deltas[1]) != 1 || recorder.deltas[1][0].CardsChosen != 1 {
		t.Errorf("stats = %+v, want one card recorded", recorder.deltas[1])
	}
}

func TestChooseRejectsCardOutsideHand(t *testing.T) {
	svc, store, _, _ := setupService(t, &scriptedSource{ints: []int{0, 1, 2}})
	ctx := context.Background()

	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Choose(ctx, 1, "Land Grant")
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeInvalidCard {
		t.Errorf("error type = %s, want invalid_card", got)
	}

	// A rejected choice leaves the hand open.
	if _, err := store.GetPending(ctx, 1); err != nil {
		t.Errorf("hand consumed by invalid choice: %v", err)
	}
}

func TestChooseIsSingleUse(t *testing.T) {
	svc, _, civs, _ := setupService(t, &scriptedSource{ints: []int{0, 1, 2}})
	ctx := context.Background()

	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Choose(ctx, 1, "Gold Cache"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Choose(ctx, 1, "Resource Boost")
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeNoSelection {
		t.Errorf("error type = %s, want no_selection", got)
	}

	c, _ := civs.GetByID(ctx, 1)
	if c.Resources.Gold != 600 {
		t.Errorf("gold = %d, want 600 from the single applied card", c.Resources.Gold)
	}
}

func TestChooseReopensHandWhenApplyFails(t *testing.T) {
	svc, store, _, recorder := setupService(t, &scriptedSource{ints: []int{0, 1, 2}})
	ctx := context.Background()

	// A hand for a civilization the store no longer holds: the card
	// effect cannot land.
	if err := svc.DealSelection(ctx, 2, 3); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Choose(ctx, 2, "Gold Cache")
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeNotFound {
		t.Fatalf("error type = %s, want not_found", got)
	}

	// The failed choice must not burn the hand.
	sel, err := store.GetPending(ctx, 2)
	if err != nil {
		t.Fatalf("hand lost after failed apply: %v", err)
	}
	if !sel.Offers("Gold Cache") {
		t.Error("reopened hand must still offer the card")
	}
	if len(recorder.deltas[2]) != 0 {
		t.Errorf("stats = %+v, want none for a failed choice", recorder.deltas[2])
	}
}

func TestChooseTechBreakthroughDealsNextHand(t *testing.T) {
	// First hand includes Tech Breakthrough (pool index 11).
	svc, store, civs, _ := setupService(t, &scriptedSource{ints: []int{11, 1, 2, 0, 1, 2}})
	ctx := context.Background()

	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Choose(ctx, 1, "Tech Breakthrough")
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if !result.TechGained {
		t.Fatal("expected tech gain")
	}

	c, _ := civs.GetByID(ctx, 1)
	if c.Military.TechLevel != 4 {
		t.Errorf("tech level = %d, want 4", c.Military.TechLevel)
	}

	next, err := store.GetPending(ctx, 1)
	if err != nil {
		t.Fatalf("no follow-up hand: %v", err)
	}
	if next.TechLevel != 4 {
		t.Errorf("follow-up hand level = %d, want 4", next.TechLevel)
	}
	if result.NextHand == nil || result.NextHand.ID != next.ID {
		t.Error("result must carry the follow-up hand")
	}
}

func TestChooseTechBreakthroughStopsAtCap(t *testing.T) {
	svc, store, civs, _ := setupService(t, &scriptedSource{ints: []int{11, 1, 2}})
	ctx := context.Background()

	_, err := civs.Update(ctx, 1, func(c *civ.Civilization) error {
		c.Military.TechLevel = 9
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DealSelection(ctx, 1, 9); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Choose(ctx, 1, "Tech Breakthrough")
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if !result.TechGained {
		t.Fatal("expected the final tech gain")
	}

	c, _ := civs.GetByID(ctx, 1)
	if c.Military.TechLevel != 10 {
		t.Errorf("tech level = %d, want 10", c.Military.TechLevel)
	}
	if _, err := store.GetPending(ctx, 1); apperrors.GetType(err) != apperrors.ErrorTypeNoSelection {
		t.Error("no follow-up hand may be dealt at the cap")
	}
	if result.NextHand != nil {
		t.Error("result must not carry a hand at the cap")
	}
}

func TestChooseBonusCardsStack(t *testing.T) {
	svc, _, civs, _ := setupService(t, &scriptedSource{ints: []int{9, 10, 2, 9, 10, 2}})
	ctx := context.Background()

	// Fortification twice across two hands accumulates.
	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Choose(ctx, 1, "Fortification"); err != nil {
		t.Fatal(err)
	}
	if err := svc.DealSelection(ctx, 1, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Choose(ctx, 1, "Fortification"); err != nil {
		t.Fatal(err)
	}

	c, _ := civs.GetByID(ctx, 1)
	if got := c.Bonus("defense_strength"); got != 30 {
		t.Errorf("defense_strength = %v, want 30", got)
	}
}
