package game

import "quiz_duel/internal/domain"

// исход раунда камень-ножницы-бумага с точки зрения первого игрока
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeWin
	OutcomeLose
)

// Beats сообщает, бьёт ли a выбор b
func Beats(a, b domain.Choice) bool {
	switch a {
	case domain.Rock:
		return b == domain.Scissors
	case domain.Paper:
		return b == domain.Rock
	case domain.Scissors:
		return b == domain.Paper
	}
	return false
}

// Decide определяет результат одного раунда
func Decide(a, b domain.Choice) Outcome {
	switch {
	case a == b:
		return OutcomeDraw
	case Beats(a, b):
		return OutcomeWin
	default:
		return OutcomeLose
	}
}

// RandomChoice выбор за игрока, который не успел ответить
func RandomChoice(r Rand) domain.Choice {
	return domain.Choices[r.Intn(len(domain.Choices))]
}
