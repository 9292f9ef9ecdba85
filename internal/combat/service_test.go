package combat

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"warciv-server/internal/civ"
	"warciv-server/internal/civ/civtest"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/random"
	"warciv-server/internal/stats"
	"warciv-server/internal/war"
	"warciv-server/internal/war/wartest"
)

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

func setupService(t *testing.T, src random.Source) (*Service, *civtest.Store, *wartest.Ledger, *recorderStub) {
	t.Helper()

	civs := civtest.NewStore()
	civs.Seed(&civ.Civilization{
		ID: 1, Name: "Rome",
		Military:  civ.Military{Soldiers: 100},
		Resources: civ.Resources{Gold: 500},
	})
	civs.Seed(&civ.Civilization{
		ID: 2, Name: "Carthage",
		Military:  civ.Military{Soldiers: 50},
		Resources: civ.Resources{Gold: 1000},
	})

	ledger := wartest.NewLedger(civs)
	recorder := newRecorderStub()

	svc := NewService(civs, ledger, recorder, slog.Default())
	svc.newSource = func() random.Source { return src }
	return svc, civs, ledger, recorder
}

func TestAttackRequiresWar(t *testing.T) {
	svc, _, _, _ := setupService(t, &scriptedSource{})

	_, err := svc.Attack(context.Background(), 1, 2)
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeNotAtWar {
		t.Errorf("error type = %s, want not_at_war", got)
	}
}

func TestAttackSelfTarget(t *testing.T) {
	svc, _, _, _ := setupService(t, &scriptedSource{})

	_, err := svc.Attack(context.Background(), 1, 1)
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeSelfTarget {
		t.Errorf("error type = %s, want self_target", got)
	}
}

func TestAttackInsufficientForce(t *testing.T) {
	src := &scriptedSource{floats: []float64{1.0, 1.0}, ints: []int{4}}
	svc, civs, ledger, _ := setupService(t, src)
	ctx := context.Background()

	if _, err := ledger.Declare(ctx, 1, 2); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	// Drop the attacker below the force floor.
	_, err := civs.Update(ctx, 1, func(c *civ.Civilization) error {
		c.Military.Soldiers = 9
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Attack(ctx, 1, 2)
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeInsufficientForce {
		t.Errorf("error type = %s, want insufficient_force", got)
	}

	// Nothing may change on a refused attack.
	attacker, _ := civs.GetByID(ctx, 1)
	if attacker.Military.Soldiers != 9 {
		t.Errorf("attacker soldiers = %d, want untouched 9", attacker.Military.Soldiers)
	}
}

func TestAttackCommitsBothSides(t *testing.T) {
	src := &scriptedSource{floats: []float64{1.2, 0.8}, ints: []int{4}}
	svc, civs, ledger, recorder := setupService(t, src)
	ctx := context.Background()

	if _, err := ledger.Declare(ctx, 1, 2); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	report, err := svc.Attack(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Attack failed: %v", err)
	}
	if !report.Outcome.Victory {
		t.Fatal("expected victory")
	}

	attacker, _ := civs.GetByID(ctx, 1)
	defender, _ := civs.GetByID(ctx, 2)
	if attacker.Military.Soldiers != 96 {
		t.Errorf("attacker soldiers = %d, want 96", attacker.Military.Soldiers)
	}
	if attacker.Resources.Gold != 500+report.Outcome.Spoils.Gold {
		t.Errorf("attacker gold = %d, want %d", attacker.Resources.Gold, 500+report.Outcome.Spoils.Gold)
	}
	if defender.Resources.Gold != 1000-report.Outcome.Spoils.Gold {
		t.Errorf("defender gold = %d, want %d", defender.Resources.Gold, 1000-report.Outcome.Spoils.Gold)
	}

	if len(recorder.deltas[1]) != 1 || len(recorder.deltas[2]) != 1 {
		t.Errorf("stats recorded %d/%d times, want 1/1",
			len(recorder.deltas[1]), len(recorder.deltas[2]))
	}
}

func TestAttackWipeoutClosesWar(t *testing.T) {
	src := &scriptedSource{floats: []float64{1.2, 0.8}, ints: []int{8}}
	svc, civs, ledger, _ := setupService(t, src)
	ctx := context.Background()

	_, err := civs.Update(ctx, 2, func(c *civ.Civilization) error {
		c.Military.Soldiers = 5
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Declare(ctx, 1, 2); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	report, err := svc.Attack(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Attack failed: %v", err)
	}
	if !report.Outcome.WarWon {
		t.Fatal("expected war_won")
	}

	if _, err := ledger.OngoingBetween(ctx, 1, 2); apperrors.GetType(err) != apperrors.ErrorTypeNotAtWar {
		t.Error("war still ongoing after wipeout")
	}
}

// tracingStore and tracingLedger record the order of the pair lock and
// the war lookup.
type tracingStore struct {
	*civtest.Store
	events *[]string
}

func (s *tracingStore) UpdatePair(ctx context.Context, aID, bID int, fn func(a, b *civ.Civilization) error) (*civ.Civilization, *civ.Civilization, error) {
	return s.Store.UpdatePair(ctx, aID, bID, func(a, b *civ.Civilization) error {
		*s.events = append(*s.events, "pair_locked")
		return fn(a, b)
	})
}

type tracingLedger struct {
	*wartest.Ledger
	events *[]string
}

func (l *tracingLedger) OngoingBetween(ctx context.Context, a, b int) (*war.War, error) {
	*l.events = append(*l.events, "war_checked")
	return l.Ledger.OngoingBetween(ctx, a, b)
}

func TestAttackChecksWarUnderPairLock(t *testing.T) {
	src := &scriptedSource{floats: []float64{1.2, 0.8}, ints: []int{4}}
	svc, civs, ledger, _ := setupService(t, src)
	ctx := context.Background()

	if _, err := ledger.Declare(ctx, 1, 2); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	var events []string
	svc.civs = &tracingStore{Store: civs, events: &events}
	svc.wars = &tracingLedger{Ledger: ledger, events: &events}

	if _, err := svc.Attack(ctx, 1, 2); err != nil {
		t.Fatalf("Attack failed: %v", err)
	}

	if len(events) < 2 || events[0] != "pair_locked" || events[1] != "war_checked" {
		t.Errorf("event order = %v, want the war lookup under the pair lock", events)
	}
}

var _ war.Ledger = (*wartest.Ledger)(nil)
