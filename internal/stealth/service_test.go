package stealth

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"warciv-server/internal/civ"
	"warciv-server/internal/civ/civtest"
	"warciv-server/internal/shared/config"
	apperrors "warciv-server/internal/shared/errors"
	"warciv-server/internal/shared/random"
	"warciv-server/internal/stats"
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

type dealerStub struct {
	calls []int // tech levels passed to DealSelection
}

func (d *dealerStub) DealSelection(ctx context.Context, civID, techLevel int) error {
	d.calls = append(d.calls, techLevel)
	return nil
}

func setupService(t *testing.T, src random.Source) (*Service, *civtest.Store, *dealerStub, *recorderStub) {
	t.Helper()

	config.GlobalConfig = &config.Config{Game: config.GameConfig{TechCap: 10}}
	t.Cleanup(func() { config.GlobalConfig = nil })

	civs := civtest.NewStore()
	civs.Seed(&civ.Civilization{
		ID: 1, Name: "Rome",
		Military:  civ.Military{Spies: 10, TechLevel: 3},
		Resources: civ.Resources{Gold: 200},
	})
	civs.Seed(&civ.Civilization{
		ID: 2, Name: "Carthage",
		Military:  civ.Military{Spies: 10, TechLevel: 3},
		Resources: civ.Resources{Gold: 1000, Stone: 300, Wood: 300},
	})

	dealer := &dealerStub{}
	recorder := newRecorderStub()

	svc := NewService(civs, dealer, recorder, slog.Default())
	svc.newSource = func() random.Source { return src }
	return svc, civs, dealer, recorder
}

func TestInfiltrateSelfTarget(t *testing.T) {
	svc, _, _, _ := setupService(t, &scriptedSource{})

	_, err := svc.Infiltrate(context.Background(), 1, 1)
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeSelfTarget {
		t.Errorf("error type = %s, want self_target", got)
	}
}

func TestInfiltrateInsufficientForce(t *testing.T) {
	svc, civs, _, _ := setupService(t, &scriptedSource{})
	ctx := context.Background()

	_, err := civs.Update(ctx, 1, func(c *civ.Civilization) error {
		c.Military.Spies = 2
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Infiltrate(ctx, 1, 2)
	if got := apperrors.GetType(err); got != apperrors.ErrorTypeInsufficientForce {
		t.Errorf("error type = %s, want insufficient_force", got)
	}

	defender, _ := civs.GetByID(ctx, 2)
	if defender.Resources.Gold != 1000 {
		t.Errorf("defender gold = %d, want untouched 1000", defender.Resources.Gold)
	}
}

func TestInfiltrateCommitsTheft(t *testing.T) {
	// Success, no spy losses, theft of 10%.
	src := &scriptedSource{chances: []float64{0.1}, ints: []int{0, 1}, floats: []float64{0.10}}
	svc, civs, dealer, recorder := setupService(t, src)
	ctx := context.Background()

	report, err := svc.Infiltrate(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Infiltrate failed: %v", err)
	}
	if report.Outcome.GoldStolen != 100 {
		t.Errorf("gold stolen = %d, want 100", report.Outcome.GoldStolen)
	}

	attacker, _ := civs.GetByID(ctx, 1)
	defender, _ := civs.GetByID(ctx, 2)
	if attacker.Resources.Gold != 300 || defender.Resources.Gold != 900 {
		t.Errorf("gold = %d/%d, want 300/900", attacker.Resources.Gold, defender.Resources.Gold)
	}

	if len(dealer.calls) != 0 {
		t.Error("theft must not deal a card selection")
	}
	if len(recorder.deltas[1]) != 1 || recorder.deltas[1][0].Infiltrations != 1 {
		t.Errorf("stats = %+v, want one infiltration recorded", recorder.deltas[1])
	}
}

func TestInfiltrateTechGainDealsSelection(t *testing.T) {
	// Success, no losses, intel effect, tech roll hits.
	src := &scriptedSource{chances: []float64{0.1, 0.2}, ints: []int{0, 2}}
	svc, civs, dealer, _ := setupService(t, src)
	ctx := context.Background()

	report, err := svc.Infiltrate(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Infiltrate failed: %v", err)
	}
	if !report.Outcome.TechGained {
		t.Fatal("expected tech gain")
	}

	attacker, _ := civs.GetByID(ctx, 1)
	if attacker.Military.TechLevel != 4 {
		t.Errorf("tech level = %d, want 4", attacker.Military.TechLevel)
	}
	if len(dealer.calls) != 1 || dealer.calls[0] != 4 {
		t.Errorf("dealer calls = %v, want one at level 4", dealer.calls)
	}
}

func TestInfiltrateFailureRecordsSpyLosses(t *testing.T) {
	src := &scriptedSource{chances: []float64{0.95}, ints: []int{3}}
	svc, civs, _, recorder := setupService(t, src)
	ctx := context.Background()

	report, err := svc.Infiltrate(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Infiltrate failed: %v", err)
	}
	if report.Outcome.Success || !report.Outcome.Detected {
		t.Fatalf("outcome = %+v, want detected failure", report.Outcome)
	}

	attacker, _ := civs.GetByID(ctx, 1)
	if attacker.Military.Spies != 7 {
		t.Errorf("attacker spies = %d, want 7", attacker.Military.Spies)
	}
	if recorder.deltas[1][0].SpiesLost != 3 {
		t.Errorf("recorded spies_lost = %d, want 3", recorder.deltas[1][0].SpiesLost)
	}
}
