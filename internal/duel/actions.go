package duel

import (
	"errors"

	"quiz_duel/internal/domain"
)

// ActionType тип входящего действия
type ActionType string

const (
	ActJoin                ActionType = "join"
	ActRPSChoice           ActionType = "rpsChoice"
	ActSelectSubject       ActionType = "selectSubject"
	ActConfirmDeck         ActionType = "confirmDeck"
	ActRollDice            ActionType = "rollDice"
	ActSummonCard          ActionType = "summonCard"
	ActSubmitAnswer        ActionType = "submitAnswer"
	ActSurrender           ActionType = "surrender"
	ActRequestInitialCards ActionType = "requestInitialCards"
	ActAckGameOver         ActionType = "ackGameOver"

	// синтетические действия, которые ставит в очередь сама сессия
	ActDisconnect ActionType = "disconnect"
	ActTimeout    ActionType = "timeout"
	ActPoolLoaded ActionType = "poolLoaded"
)

// Synthetic сообщает, что действие пришло не от клиента
func (t ActionType) Synthetic() bool {
	return t == ActDisconnect || t == ActTimeout || t == ActPoolLoaded
}

var (
	ErrWrongPhase     = errors.New("wrong phase")
	ErrStalePhase     = errors.New("stale phase")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrUnknownAction  = errors.New("unknown action")
	ErrAlreadyActed   = errors.New("already acted")
	ErrInvalidChoice  = errors.New("invalid choice")
	ErrInvalidSubject = errors.New("invalid subject")
	ErrPoolNotReady   = errors.New("question pool not ready")
	ErrInvalidDeck    = errors.New("invalid deck selection")
	ErrWrongQuestion  = errors.New("question already resolved")
	ErrSessionOver    = errors.New("session is over")
	ErrNoDeck         = errors.New("deck not created yet")
)

// Action одно входящее действие. Клиент указывает фазу, в которой, как он считает,
// находится сессия; пустая фаза не проверяется
type Action struct {
	Type     ActionType
	PlayerID string
	Phase    domain.Phase

	DisplayName string
	Choice      domain.Choice
	SubjectID   string
	QuestionIDs []string
	CardID      string
	QuestionID  string
	Answer      string

	// для синтетических действий
	Timer     TimerKey
	Token     uint64
	Questions []domain.Question
	Err       error
}
