package stats

// Statistics aggregates a civilization's lifetime combat record.
type Statistics struct {
	CivID         int `json:"civ_id"`
	WarsDeclared  int `json:"wars_declared"`
	WarsWon       int `json:"wars_won"`
	BattlesFought int `json:"battles_fought"`
	BattlesWon    int `json:"battles_won"`
	SiegesLaid    int `json:"sieges_laid"`
	Infiltrations int `json:"infiltrations"`
	SoldiersLost  int `json:"soldiers_lost"`
	SpiesLost     int `json:"spies_lost"`
	CardsChosen   int `json:"cards_chosen"`
}

// Delta is an increment applied to the counters.
type Delta struct {
	WarsDeclared  int
	WarsWon       int
	BattlesFought int
	BattlesWon    int
	SiegesLaid    int
	Infiltrations int
	SoldiersLost  int
	SpiesLost     int
	CardsChosen   int
}
