package ideology

import "testing"

func TestModifierKnownValues(t *testing.T) {
	tests := []struct {
		ideology Ideology
		key      string
		want     float64
	}{
		{Fascism, SoldierTrainingSpeed, 1.25},
		{Democracy, HappinessBoost, 1.20},
		{Democracy, TradeProfit, 1.10},
		{Democracy, SoldierTrainingSpeed, 0.85},
		{Communism, CitizenProductivity, 1.10},
		{Socialism, CitizenProductivity, 1.20},
		{Theocracy, HappinessBoost, 1.05},
		{Anarchy, SoldierUpkeep, 0.0},
		{Anarchy, SpySuccess, 0.80},
		{Monarchy, TradeProfit, 1.25},
		{Terrorism, SabotageSuccess, 1.40},
		{Terrorism, SpySuccess, 1.30},
		{Pacifist, HappinessBoost, 1.35},
		{Destruction, SoldierTrainingSpeed, 1.75},
		{Destruction, CitizenProductivity, 0.60},
		{Destruction, SoldierUpkeep, 1.20},
	}

	for _, tt := range tests {
		if got := Modifier(tt.ideology, tt.key); got != tt.want {
			t.Errorf("Modifier(%s, %s) = %v, want %v", tt.ideology, tt.key, got, tt.want)
		}
	}
}

func TestModifierDefaultsToOne(t *testing.T) {
	if got := Modifier(Fascism, TradeProfit); got != 1.0 {
		t.Errorf("Modifier(fascism, trade_profit) = %v, want 1.0", got)
	}
	if got := Modifier(None, SoldierTrainingSpeed); got != 1.0 {
		t.Errorf("Modifier(none, soldier_training_speed) = %v, want 1.0", got)
	}
}

func TestEveryTableIdeologyIsKnown(t *testing.T) {
	known := map[Ideology]bool{Destruction: true}
	for _, i := range All() {
		known[i] = true
	}
	for i := range modifiers {
		if !known[i] {
			t.Errorf("modifier table names unknown ideology %q", i)
		}
	}
}

func TestValid(t *testing.T) {
	for _, i := range All() {
		if !Valid(string(i)) {
			t.Errorf("Valid(%q) = false, want true", i)
		}
	}
	for _, s := range []string{"socialism", "monarchy", "terrorism"} {
		if !Valid(s) {
			t.Errorf("Valid(%q) = false, want true", s)
		}
	}
	if Valid("none") {
		t.Error("Valid(none) = true, want false: none is not selectable")
	}
	if Valid("destruction") {
		t.Error("Valid(destruction) = true, want false: destruction is event-granted")
	}
	if Valid("feudalism") {
		t.Error("Valid(feudalism) = true, want false")
	}
}
