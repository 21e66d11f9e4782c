package duel

import "quiz_duel/internal/domain"

// EventType тип исходящего события
type EventType string

const (
	EvRoomStatus    EventType = "roomStatus"
	EvRPSStart      EventType = "rpsStart"
	EvRPSResult     EventType = "rpsResult"
	EvSubjectChosen EventType = "subjectChosen"
	EvQuestionPool  EventType = "questionPool"
	EvDeckConfirmed EventType = "deckConfirmed"
	EvDiceResult    EventType = "diceResult"
	EvDealCards     EventType = "dealCards"
	EvHandUpdate    EventType = "playerHandUpdate"
	EvGameUpdate    EventType = "gameUpdate"
	EvCardSummoned  EventType = "cardSummoned"
	EvAnswerResult  EventType = "answerResult"
	EvGameOver      EventType = "gameOver"
	EvRejected      EventType = "rejected"
	EvSnapshot      EventType = "snapshot"
)

// Envelope событие и адресат. Пустой To - обоим игрокам
type Envelope struct {
	To      string
	Type    EventType
	Payload any
}

// Private сообщает, что событие предназначено только одному игроку
func (e Envelope) Private() bool { return e.To != "" }

type RoomStatus struct {
	PlayerCount int      `json:"playerCount"`
	Connected   []string `json:"connected"`
}

type RPSStart struct {
	Round       int   `json:"round"`
	CountdownMs int64 `json:"countdownMs"`
	Deadline    int64 `json:"deadline"`
}

type RPSResult struct {
	Round    int                      `json:"round"`
	IsDraw   bool                     `json:"isDraw"`
	WinnerID string                   `json:"winnerId,omitempty"`
	Choices  map[string]domain.Choice `json:"choices"`
	Auto     []string                 `json:"auto,omitempty"`
}

type SubjectChosen struct {
	SubjectID string `json:"subjectId"`
	ChosenBy  string `json:"chosenBy,omitempty"`
}

type QuestionPool struct {
	SubjectID string                  `json:"subjectId"`
	DeckSize  int                     `json:"deckSize"`
	Questions []domain.PublicQuestion `json:"questions"`
	Deadline  int64                   `json:"deadline"`
}

type DeckConfirmed struct {
	PlayerID string `json:"playerId"`
	Auto     bool   `json:"auto,omitempty"`
}

type DiceResult struct {
	Player1Roll int    `json:"player1Roll"`
	Player2Roll int    `json:"player2Roll"`
	WinnerID    string `json:"winnerId,omitempty"`
	IsTie       bool   `json:"isTie"`
	CoinFlip    bool   `json:"coinFlip,omitempty"`
}

type Hand struct {
	Hand []domain.CardView `json:"hand"`
}

type FieldState struct {
	CardID     string                 `json:"cardId"`
	PlayerID   string                 `json:"playerId"`
	Question   *domain.PublicQuestion `json:"question,omitempty"`
	LastEffect string                 `json:"lastEffect,omitempty"`
}

type GameUpdate struct {
	Phase            domain.Phase   `json:"phase"`
	CurrentTurn      string         `json:"currentTurn,omitempty"`
	HP               map[string]int `json:"hp"`
	HPDelta          map[string]int `json:"hpDelta,omitempty"`
	HandCounts       map[string]int `json:"handCounts"`
	DeckCounts       map[string]int `json:"deckCounts"`
	LastSummonedCard *FieldState    `json:"lastSummonedCard,omitempty"`
	Subjects         []string       `json:"subjects,omitempty"`
	Deadline         int64          `json:"deadline,omitempty"`
}

type CardSummoned struct {
	CardID   string                `json:"cardId"`
	PlayerID string                `json:"playerId"`
	Question domain.PublicQuestion `json:"question"`
	Auto     bool                  `json:"auto,omitempty"`
	Deadline int64                 `json:"deadline"`
}

type AnswerResult struct {
	AttackerID    string `json:"attackerId"`
	DefenderID    string `json:"defenderId"`
	AttackerHP    int    `json:"attackerHp"`
	DefenderHP    int    `json:"defenderHp"`
	IsCorrect     bool   `json:"isCorrect"`
	TimedOut      bool   `json:"timedOut,omitempty"`
	ResultRole    string `json:"resultRole"`
	CorrectAnswer string `json:"correctAnswer"`
}

type GameOver struct {
	WinnerID string `json:"winnerId"`
	Reason   string `json:"reason"`
}

type Rejected struct {
	Action ActionType `json:"action"`
	Reason string     `json:"reason"`
}
