package duel

import (
	"quiz_duel/internal/domain"
	"quiz_duel/internal/game"
)

// enterSummon начинает ход владельца currentTurn
func (m *Machine) enterSummon(r *Result) {
	m.pending = nil
	m.phase = domain.PhaseAwaitingSummon
	if !m.ensurePlayable(r) {
		return
	}
	m.armPhase(r, m.policy.SummonWindow)
	r.emit("", EvGameUpdate, m.update(nil))
}

// ensurePlayable гарантирует, что у владельца хода есть карта.
// Пустая рука добирает из колоды, иначе ход переходит сопернику;
// если призвать не может никто - игра заканчивается
func (m *Machine) ensurePlayable(r *Result) bool {
	for tries := 0; tries < 2; tries++ {
		p := m.players[m.turn]
		if p.deck.HandSize() > 0 {
			return true
		}
		if !p.deck.CanDraw() {
			m.turn = 1 - m.turn
			continue
		}
		p.deck.Draw()
		r.emit(p.id, EvHandUpdate, Hand{Hand: domain.ViewCards(p.deck.Hand())})
		return true
	}
	winner := -1
	switch a, b := m.players[0].hp, m.players[1].hp; {
	case a > b:
		winner = 0
	case b > a:
		winner = 1
	}
	m.finish(r, domain.ReasonCardsExhausted, winner)
	return false
}

func (m *Machine) summon(r *Result, idx int, cardID string, auto bool) error {
	if m.phase != domain.PhaseAwaitingSummon {
		return ErrWrongPhase
	}
	if idx != m.turn {
		return ErrNotYourTurn
	}
	p := m.players[idx]
	card, err := p.deck.Play(cardID)
	if err != nil {
		return err
	}

	m.phase = domain.PhaseAwaitingAnswer
	m.armPhase(r, m.policy.AnswerWindow)
	m.pending = &pendingQuestion{card: card, attacker: idx, deadline: m.deadline}

	q := card.Question.Public()
	m.field = &FieldState{CardID: card.ID, PlayerID: p.id, Question: &q, LastEffect: "summon"}

	r.emit("", EvCardSummoned, CardSummoned{
		CardID:   card.ID,
		PlayerID: p.id,
		Question: q,
		Auto:     auto,
		Deadline: m.deadlineMs(),
	})
	r.emit(p.id, EvHandUpdate, Hand{Hand: domain.ViewCards(p.deck.Hand())})
	r.emit("", EvGameUpdate, m.update(nil))
	return nil
}

// summonTimeout за бездействующего атакующего разыгрывается случайная карта
func (m *Machine) summonTimeout(r *Result) {
	if m.strike(r, m.turn) {
		return
	}
	hand := m.players[m.turn].deck.Hand()
	if len(hand) == 0 {
		m.enterSummon(r)
		return
	}
	card := hand[m.rnd.Intn(len(hand))]
	if err := m.summon(r, m.turn, card.ID, true); err != nil {
		m.enterSummon(r)
	}
}

func (m *Machine) submitAnswer(r *Result, idx int, questionID, answer string) error {
	if m.phase != domain.PhaseAwaitingAnswer || m.pending == nil {
		return ErrWrongPhase
	}
	if idx == m.pending.attacker {
		return ErrNotYourTurn
	}
	if questionID != m.pending.card.Question.ID {
		return ErrWrongQuestion
	}
	m.resolve(r, game.CheckAnswer(m.pending.card.Question, answer), false)
	return nil
}

// answerTimeout отсутствие ответа засчитывается как неверный ответ
func (m *Machine) answerTimeout(r *Result) {
	if m.pending == nil {
		return
	}
	defender := 1 - m.pending.attacker
	m.resolve(r, false, true)
	if m.phase != domain.PhaseGameOver {
		m.strike(r, defender)
	}
}

func (m *Machine) resolve(r *Result, correct, timedOut bool) {
	m.disarm(TimerPhase, "")
	pq := m.pending
	m.pending = nil
	a := pq.attacker
	att, def := m.players[a], m.players[1-a]

	ex := game.ResolveExchange(att.hp, def.hp, m.policy.Damage, m.policy.MaxHP, correct, timedOut)
	delta := map[string]int{
		att.id: ex.AttackerHP - att.hp,
		def.id: ex.DefenderHP - def.hp,
	}
	att.hp, def.hp = ex.AttackerHP, ex.DefenderHP

	drawer := att
	if ex.Drawer == 1 {
		drawer = def
	}
	if _, ok := drawer.deck.Draw(); ok {
		r.emit(drawer.id, EvHandUpdate, Hand{Hand: domain.ViewCards(drawer.deck.Hand())})
	}

	m.turn = a
	if ex.NextTurn == 1 {
		m.turn = 1 - a
	}
	if m.field != nil {
		m.field.LastEffect = ex.ResultRole
	}

	r.emit("", EvAnswerResult, AnswerResult{
		AttackerID:    att.id,
		DefenderID:    def.id,
		AttackerHP:    att.hp,
		DefenderHP:    def.hp,
		IsCorrect:     ex.Correct,
		TimedOut:      timedOut,
		ResultRole:    ex.ResultRole,
		CorrectAnswer: pq.card.Question.CorrectAnswer,
	})

	if m.checkHP(r) {
		return
	}
	m.phase = domain.PhaseAwaitingSummon
	if !m.ensurePlayable(r) {
		return
	}
	m.armPhase(r, m.policy.SummonWindow)
	r.emit("", EvGameUpdate, m.update(delta))
}
