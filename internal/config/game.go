package config

// Game identifies a round evaluator.
type Game string

const (
	Baccarat Game = "baccarat"
	Holdem   Game = "holdem"
	SicBo    Game = "sicbo"
	Keno     Game = "keno"
	Slots    Game = "slots"
	Dice     Game = "dice"
	CoinFlip Game = "coinflip"
	Roulette Game = "roulette"
)

// Known reports whether the identifier names a registered game family.
func (g Game) Known() bool {
	switch g {
	case Baccarat, Holdem, SicBo, Keno, Slots, Dice, CoinFlip, Roulette:
		return true
	}

	return false
}
