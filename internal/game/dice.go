package game

// Roll бросок кубика 1-6
func Roll(r Rand) int {
	return r.Intn(DiceSides) + DiceMin
}

// результат броска двух игроков
type DiceOutcome struct {
	Rolls    [2]int
	Tie      bool
	CoinFlip bool
	Winner   int // индекс игрока 0/1, -1 при ничьей
}

// ResolveDice сравнивает броски. ties - сколько ничьих уже было подряд;
// если эта ничья достигает потолка maxTies, победитель выбирается монеткой
func ResolveDice(r Rand, rolls [2]int, ties, maxTies int) DiceOutcome {
	out := DiceOutcome{Rolls: rolls, Winner: -1}
	switch {
	case rolls[0] > rolls[1]:
		out.Winner = 0
	case rolls[1] > rolls[0]:
		out.Winner = 1
	default:
		out.Tie = true
		if maxTies > 0 && ties+1 >= maxTies {
			out.CoinFlip = true
			out.Winner = r.Intn(2)
		}
	}
	return out
}
