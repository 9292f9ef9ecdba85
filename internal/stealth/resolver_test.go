package stealth

import (
	"math"
	"testing"

	"warciv-server/internal/civ"
	"warciv-server/internal/ideology"
)

// scriptedSource replays fixed values in draw order.
type scriptedSource struct {
	floats  []float64
	ints    []int
	chances []float64
}

func (s *scriptedSource) Float64() float64 {
	v := s.chances[0]
	s.chances = s.chances[1:]
	return v
}

func (s *scriptedSource) Uniform(lo, hi float64) float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntBetween(lo, hi int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func spyCiv(id, spies, tech int) *civ.Civilization {
	return &civ.Civilization{
		ID:       id,
		Ideology: ideology.None,
		Military: civ.Military{Spies: spies, TechLevel: tech},
	}
}

func TestSuccessChanceClamping(t *testing.T) {
	src := &scriptedSource{}

	// Equal powers: base 0.6.
	if got := successChance(spyCiv(1, 5, 2), spyCiv(2, 5, 2), src); got != 0.6 {
		t.Errorf("equal powers: chance = %v, want 0.6", got)
	}

	// Overwhelming attacker clamps high.
	if got := successChance(spyCiv(1, 50, 10), spyCiv(2, 2, 1), src); got != 0.9 {
		t.Errorf("overwhelming attacker: chance = %v, want 0.9", got)
	}

	// Overwhelming defender clamps low.
	if got := successChance(spyCiv(1, 3, 1), spyCiv(2, 50, 10), src); got != 0.2 {
		t.Errorf("overwhelming defender: chance = %v, want 0.2", got)
	}
}

func TestSuccessChanceModifiers(t *testing.T) {
	anarchist := spyCiv(1, 5, 2)
	anarchist.Ideology = ideology.Anarchy
	if got, want := successChance(anarchist, spyCiv(2, 5, 2), &scriptedSource{}), 0.6*0.8; math.Abs(got-want) > 1e-9 {
		t.Errorf("anarchy attacker: chance = %v, want %v", got, want)
	}

	terrorist := spyCiv(1, 5, 2)
	terrorist.Ideology = ideology.Terrorism
	if got, want := successChance(terrorist, spyCiv(2, 5, 2), &scriptedSource{}), 0.6*1.3; math.Abs(got-want) > 1e-9 {
		t.Errorf("terrorism attacker: chance = %v, want %v", got, want)
	}

	destroyer := spyCiv(1, 5, 2)
	destroyer.Ideology = ideology.Destruction

	// Unlucky bonus draw: just the ×1.2.
	src := &scriptedSource{chances: []float64{0.5}}
	if got, want := successChance(destroyer, spyCiv(2, 5, 2), src), 0.6*1.2; math.Abs(got-want) > 1e-9 {
		t.Errorf("destruction attacker: chance = %v, want %v", got, want)
	}

	// Lucky bonus draw adds the flat 0.15.
	src = &scriptedSource{chances: []float64{0.05}}
	if got, want := successChance(destroyer, spyCiv(2, 5, 2), src), 0.6*1.2+0.15; math.Abs(got-want) > 1e-9 {
		t.Errorf("destruction attacker with bonus: chance = %v, want %v", got, want)
	}

	pacifist := spyCiv(2, 5, 2)
	pacifist.Ideology = ideology.Pacifist
	if got, want := successChance(spyCiv(1, 5, 2), pacifist, &scriptedSource{}), 0.6*1.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("pacifist defender: chance = %v, want %v", got, want)
	}
}

func TestResolveInfiltrationFailure(t *testing.T) {
	attacker := spyCiv(1, 5, 2)
	defender := spyCiv(2, 5, 2)

	// Success draw 0.7 >= chance 0.6 fails; loses the scripted 3 spies.
	src := &scriptedSource{chances: []float64{0.7}, ints: []int{3}}

	out := resolveInfiltration(attacker, defender, src, 10)

	if out.Success {
		t.Fatal("expected failure")
	}
	if !out.Detected {
		t.Error("failed infiltration must be detected")
	}
	if out.SpiesLost != 3 || attacker.Military.Spies != 2 {
		t.Errorf("spies lost = %d, remaining = %d, want 3 and 2",
			out.SpiesLost, attacker.Military.Spies)
	}
}

func TestResolveInfiltrationSabotage(t *testing.T) {
	attacker := spyCiv(1, 5, 2)
	defender := spyCiv(2, 5, 2)
	defender.Resources = civ.Resources{Stone: 100, Wood: 50}

	// Draw order: success 0.1, spy losses 1, effect index 0 (sabotage),
	// stone 120, wood 80.
	src := &scriptedSource{chances: []float64{0.1}, ints: []int{1, 0, 120, 80}}

	out := resolveInfiltration(attacker, defender, src, 10)

	if !out.Success || out.Effect != EffectSabotage {
		t.Fatalf("outcome = %+v, want sabotage success", out)
	}
	// Sabotage can push holdings into debt.
	if defender.Resources.Stone != -20 || defender.Resources.Wood != -30 {
		t.Errorf("defender stone/wood = %d/%d, want -20/-30",
			defender.Resources.Stone, defender.Resources.Wood)
	}
	if out.GoldDestroyed != 0 || out.FoodDestroyed != 0 {
		t.Error("non-destruction attacker must not burn gold or food")
	}
}

func TestResolveInfiltrationSabotageTerrorism(t *testing.T) {
	attacker := spyCiv(1, 5, 2)
	attacker.Ideology = ideology.Terrorism
	defender := spyCiv(2, 5, 2)
	defender.Resources = civ.Resources{Stone: 500, Wood: 500}

	// Draw order: success 0.1, spy losses 0, effect 0 (sabotage), stone
	// 100, wood 100; terrorism scales both draws by 1.4.
	src := &scriptedSource{chances: []float64{0.1}, ints: []int{0, 0, 100, 100}}

	out := resolveInfiltration(attacker, defender, src, 10)

	if out.StoneDestroyed != 140 || out.WoodDestroyed != 140 {
		t.Errorf("destroyed stone/wood = %d/%d, want 140/140",
			out.StoneDestroyed, out.WoodDestroyed)
	}
	if defender.Resources.Stone != 360 || defender.Resources.Wood != 360 {
		t.Errorf("defender stone/wood = %d/%d, want 360/360",
			defender.Resources.Stone, defender.Resources.Wood)
	}
}

func TestResolveInfiltrationSabotageDestruction(t *testing.T) {
	attacker := spyCiv(1, 5, 2)
	attacker.Ideology = ideology.Destruction
	defender := spyCiv(2, 5, 2)
	defender.Resources = civ.Resources{Gold: 500, Food: 300, Stone: 400, Wood: 400}

	// Draw order: destruction luck 0.5, success 0.1, spy losses 0,
	// effect 0, stone 100, wood 50, gold 60, food 40.
	src := &scriptedSource{chances: []float64{0.5, 0.1}, ints: []int{0, 0, 100, 50, 60, 40}}

	out := resolveInfiltration(attacker, defender, src, 10)

	if out.GoldDestroyed != 60 || out.FoodDestroyed != 40 {
		t.Errorf("destroyed gold/food = %d/%d, want 60/40",
			out.GoldDestroyed, out.FoodDestroyed)
	}
	if defender.Resources.Gold != 440 || defender.Resources.Food != 260 {
		t.Errorf("defender gold/food = %d/%d, want 440/260",
			defender.Resources.Gold, defender.Resources.Food)
	}
	if attacker.Resources.Gold != 0 {
		t.Errorf("attacker credited %d gold from sabotage, want 0", attacker.Resources.Gold)
	}
}

func TestResolveInfiltrationTheft(t *testing.T) {
	attacker := spyCiv(1, 5, 2)
	defender := spyCiv(2, 5, 2)
	defender.Resources.Gold = 1000

	// Draw order: success 0.1, spy losses 0, effect 1 (theft), pct 0.10.
	src := &scriptedSource{chances: []float64{0.1}, ints: []int{0, 1}, floats: []float64{0.10}}

	out := resolveInfiltration(attacker, defender, src, 10)

	if out.Effect != EffectTheft || out.GoldStolen != 100 {
		t.Fatalf("outcome = %+v, want theft of 100 gold", out)
	}
	if defender.Resources.Gold != 900 || attacker.Resources.Gold != 100 {
		t.Errorf("gold = %d/%d, want 900/100",
			defender.Resources.Gold, attacker.Resources.Gold)
	}
}

func TestResolveInfiltrationIntel(t *testing.T) {
	attacker := spyCiv(1, 5, 3)
	defender := spyCiv(2, 5, 3)

	// Draw order: success 0.1, spy losses 0, effect 2 (intel), tech
	// chance 0.2 < 0.3 grants the level.
	src := &scriptedSource{chances: []float64{0.1, 0.2}, ints: []int{0, 2}}

	out := resolveInfiltration(attacker, defender, src, 10)

	if out.Effect != EffectIntel || !out.TechGained {
		t.Fatalf("outcome = %+v, want intel with tech gain", out)
	}
	if attacker.Military.TechLevel != 4 {
		t.Errorf("tech level = %d, want 4", attacker.Military.TechLevel)
	}
}

func TestResolveInfiltrationIntelRespectsTechCap(t *testing.T) {
	attacker := spyCiv(1, 5, 10)
	defender := spyCiv(2, 5, 3)

	src := &scriptedSource{chances: []float64{0.1, 0.2}, ints: []int{0, 2}}

	out := resolveInfiltration(attacker, defender, src, 10)

	if out.TechGained {
		t.Error("tech gained past the cap")
	}
	if attacker.Military.TechLevel != 10 {
		t.Errorf("tech level = %d, want 10", attacker.Military.TechLevel)
	}
}
