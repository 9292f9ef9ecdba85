package ideology

// Ideology is a civilization's form of government. It is chosen once and
// never changes afterwards.
type Ideology string

const (
	None        Ideology = "none"
	Fascism     Ideology = "fascism"
	Democracy   Ideology = "democracy"
	Communism   Ideology = "communism"
	Socialism   Ideology = "socialism"
	Theocracy   Ideology = "theocracy"
	Anarchy     Ideology = "anarchy"
	Monarchy    Ideology = "monarchy"
	Terrorism   Ideology = "terrorism"
	Pacifist    Ideology = "pacifist"
	Destruction Ideology = "destruction"
)

// Modifier keys. Every key has a consumer: training speed divides soldier
// gold cost, productivity scales work yields, trade profit scales tax
// income, the happiness boost scales festival gains, upkeep scales siege
// maintenance, and the spy/sabotage factors feed the stealth resolver.
const (
	SoldierTrainingSpeed = "soldier_training_speed"
	CitizenProductivity  = "citizen_productivity"
	TradeProfit          = "trade_profit"
	HappinessBoost       = "happiness_boost"
	SoldierUpkeep        = "soldier_upkeep"
	SpySuccess           = "spy_success"
	SabotageSuccess      = "sabotage_success"
)

var modifiers = map[Ideology]map[string]float64{
	Fascism: {
		SoldierTrainingSpeed: 1.25,
	},
	Democracy: {
		HappinessBoost:       1.20,
		TradeProfit:          1.10,
		SoldierTrainingSpeed: 0.85,
	},
	Communism: {
		CitizenProductivity: 1.10,
	},
	Socialism: {
		HappinessBoost:       1.15,
		CitizenProductivity:  1.20,
		SoldierTrainingSpeed: 0.90,
	},
	Theocracy: {
		HappinessBoost: 1.05,
	},
	Anarchy: {
		SoldierUpkeep: 0.0,
		SpySuccess:    0.80,
	},
	Monarchy: {
		TradeProfit:         1.25,
		CitizenProductivity: 0.90,
	},
	Terrorism: {
		SabotageSuccess: 1.40,
		SpySuccess:      1.30,
		HappinessBoost:  0.60,
	},
	Pacifist: {
		HappinessBoost: 1.35,
	},
	Destruction: {
		SoldierTrainingSpeed: 1.75,
		CitizenProductivity:  0.60,
		HappinessBoost:       0.80,
		SoldierUpkeep:        1.20,
	},
}

// All lists the selectable ideologies, in presentation order. Destruction
// is event-granted and deliberately absent; it is still a valid stored
// value. Its combat and sabotage edge lives in the battle and stealth
// formulas, layered on top of the table.
func All() []Ideology {
	return []Ideology{
		Fascism, Democracy, Communism, Socialism, Theocracy,
		Anarchy, Monarchy, Terrorism, Pacifist,
	}
}

// Valid reports whether s names a selectable ideology.
func Valid(s string) bool {
	for _, i := range All() {
		if string(i) == s {
			return true
		}
	}
	return false
}

// Modifiers returns the modifier table for an ideology. The returned map
// must not be mutated. Unknown ideologies have no modifiers.
func Modifiers(i Ideology) map[string]float64 {
	return modifiers[i]
}

// Modifier returns the factor an ideology applies to the given key, or 1.0
// when the ideology does not touch it.
func Modifier(i Ideology, key string) float64 {
	if m, ok := modifiers[i]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return 1.0
}
