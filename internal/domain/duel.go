package domain

// фаза дуэли
type Phase string

const (
	PhaseWaiting          Phase = "waiting"
	PhaseRPS              Phase = "rps"
	PhaseSubjectSelection Phase = "subject_selection"
	PhaseDeckCreation     Phase = "deck_creation"
	PhaseDiceRoll         Phase = "dice_roll"
	PhaseAwaitingSummon   Phase = "awaiting_summon"
	PhaseAwaitingAnswer   Phase = "awaiting_answer"
	PhaseGameOver         Phase = "game_over"
)

// Valid сообщает, известна ли фаза
func (p Phase) Valid() bool {
	switch p {
	case PhaseWaiting, PhaseRPS, PhaseSubjectSelection, PhaseDeckCreation,
		PhaseDiceRoll, PhaseAwaitingSummon, PhaseAwaitingAnswer, PhaseGameOver:
		return true
	}
	return false
}

// выбор в камень-ножницы-бумага
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

var Choices = []Choice{Rock, Paper, Scissors}

func (c Choice) Valid() bool {
	return c == Rock || c == Paper || c == Scissors
}

// причины завершения сессии
const (
	ReasonHPZero               = "hp_zero"
	ReasonSurrender            = "surrender"
	ReasonOpponentDisconnected = "opponent_disconnected"
	ReasonTimeoutForfeit       = "timeout_forfeit"
	ReasonSetupFailed          = "setup_failed"
	ReasonCardsExhausted       = "cards_exhausted"
)

// роли в обмене ударами
const (
	RoleAttacker = "attacker"
	RoleDefender = "defender"
)
