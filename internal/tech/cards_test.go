package tech

import (
	"testing"

	"warciv-server/internal/civ"
	"warciv-server/internal/ideology"
	"warciv-server/internal/shared/random"
)

func TestPoolNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range pool {
		if seen[c.Name] {
			t.Errorf("duplicate card %q", c.Name)
		}
		seen[c.Name] = true
		if c.apply == nil {
			t.Errorf("card %q has no effect", c.Name)
		}
	}
}

func TestDrawIsDistinct(t *testing.T) {
	src := random.NewSeeded(42)
	for i := 0; i < 50; i++ {
		names := draw(src, SelectionSize)
		seen := make(map[string]bool)
		for _, name := range names {
			if seen[name] {
				t.Fatalf("draw %v repeats %q", names, name)
			}
			seen[name] = true
		}
	}
}

func TestFestivalHappinessScalesWithIdeology(t *testing.T) {
	card, ok := CardByName("Festival")
	if !ok {
		t.Fatal("card missing from pool")
	}

	plain := &civ.Civilization{}
	card.apply(plain)
	if plain.Population.Happiness != 20 {
		t.Errorf("happiness = %d, want 20", plain.Population.Happiness)
	}

	democratic := &civ.Civilization{Ideology: ideology.Democracy}
	card.apply(democratic)
	if democratic.Population.Happiness != 24 {
		t.Errorf("democracy happiness = %d, want 24", democratic.Population.Happiness)
	}
}

func TestResourceBoost(t *testing.T) {
	card, ok := CardByName("Resource Boost")
	if !ok {
		t.Fatal("card missing from pool")
	}

	c := &civ.Civilization{}
	card.apply(c)
	want := civ.Resources{Gold: 200, Food: 200, Stone: 200, Wood: 200}
	if c.Resources != want {
		t.Errorf("resources = %+v, want %+v", c.Resources, want)
	}
}
