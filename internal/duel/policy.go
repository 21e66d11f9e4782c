package duel

import (
	"time"

	"quiz_duel/internal/game"
)

// Policy фиксированные константы дуэли
type Policy struct {
	MaxHP          int
	Damage         int
	HandSize       int
	DeckSize       int
	MaxDiceTies    int
	MaxIdleStrikes int

	RPSCountdown    time.Duration
	RPSWindow       time.Duration
	SubjectWindow   time.Duration
	DeckWindow      time.Duration
	DiceWindow      time.Duration
	SummonWindow    time.Duration
	AnswerWindow    time.Duration
	DisconnectGrace time.Duration
	IdleTimeout     time.Duration
	LingerTimeout   time.Duration

	// темы, из которых выбирается случайная при таймауте выбора
	Subjects []string
}

func DefaultPolicy() Policy {
	return Policy{
		MaxHP:           game.DefaultMaxHP,
		Damage:          game.DefaultDamage,
		HandSize:        game.DefaultHandSize,
		DeckSize:        game.DefaultDeckSize,
		MaxDiceTies:     game.DefaultDiceTies,
		MaxIdleStrikes:  3,
		RPSCountdown:    3 * time.Second,
		RPSWindow:       10 * time.Second,
		SubjectWindow:   30 * time.Second,
		DeckWindow:      90 * time.Second,
		DiceWindow:      15 * time.Second,
		SummonWindow:    30 * time.Second,
		AnswerWindow:    20 * time.Second,
		DisconnectGrace: 30 * time.Second,
		IdleTimeout:     120 * time.Second,
		LingerTimeout:   30 * time.Second,
	}
}

// LongestWindow самое длинное окно ввода; простой сессии должен быть дольше него
func (p Policy) LongestWindow() time.Duration {
	longest := p.RPSCountdown + p.RPSWindow
	for _, d := range []time.Duration{p.SubjectWindow, p.DeckWindow, p.DiceWindow, p.SummonWindow, p.AnswerWindow} {
		if d > longest {
			longest = d
		}
	}
	return longest
}
