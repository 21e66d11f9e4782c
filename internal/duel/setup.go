package duel

import (
	"slices"

	"quiz_duel/internal/domain"
	"quiz_duel/internal/game"
)

func (m *Machine) roomStatus() RoomStatus {
	st := RoomStatus{PlayerCount: m.connectedCount(), Connected: []string{}}
	for _, p := range m.players {
		if p.connected {
			st.Connected = append(st.Connected, p.id)
		}
	}
	return st
}

// join первое подключение или реконнект
func (m *Machine) join(r *Result, idx int, a Action) error {
	p := m.players[idx]
	reconnect := p.connected || m.phase != domain.PhaseWaiting
	p.connected = true
	if a.DisplayName != "" {
		p.name = a.DisplayName
	}
	m.disarm(TimerGrace, p.id)
	r.emit("", EvRoomStatus, m.roomStatus())

	if m.phase == domain.PhaseWaiting {
		if m.connectedCount() == 2 {
			m.enterRPS(r)
		}
		return nil
	}
	if reconnect {
		r.emit(p.id, EvSnapshot, m.snapshotFor(idx))
	}
	return nil
}

// onDisconnect помечает игрока отключенным; проигрыш назначит только таймер грейс-периода
func (m *Machine) onDisconnect(a Action) Result {
	var r Result
	idx := m.index(a.PlayerID)
	if idx < 0 || !m.players[idx].connected {
		return r
	}
	p := m.players[idx]
	p.connected = false
	r.Accepted = true
	r.emit("", EvRoomStatus, m.roomStatus())

	switch m.phase {
	case domain.PhaseGameOver:
		if m.connectedCount() == 0 {
			r.Closed = true
		}
	case domain.PhaseWaiting:
	default:
		m.arm(&r, TimerGrace, p.id, m.policy.DisconnectGrace)
	}
	return r
}

func (m *Machine) graceTimeout(r *Result, playerID string) {
	idx := m.index(playerID)
	if idx < 0 || m.players[idx].connected || m.phase == domain.PhaseGameOver {
		return
	}
	m.players[idx].hp = 0
	m.finish(r, domain.ReasonOpponentDisconnected, 1-idx)
}

// --- камень-ножницы-бумага ---

func (m *Machine) enterRPS(r *Result) {
	m.phase = domain.PhaseRPS
	m.rpsRound++
	for _, p := range m.players {
		p.rps = ""
	}
	m.armPhase(r, m.policy.RPSCountdown+m.policy.RPSWindow)
	r.emit("", EvRPSStart, RPSStart{
		Round:       m.rpsRound,
		CountdownMs: m.policy.RPSCountdown.Milliseconds(),
		Deadline:    m.deadlineMs(),
	})
	r.emit("", EvGameUpdate, m.update(nil))
}

func (m *Machine) rpsChoice(r *Result, idx int, c domain.Choice) error {
	if m.phase != domain.PhaseRPS {
		return ErrWrongPhase
	}
	if !c.Valid() {
		return ErrInvalidChoice
	}
	p := m.players[idx]
	if p.rps != "" {
		return ErrAlreadyActed
	}
	p.rps = c
	if m.players[0].rps != "" && m.players[1].rps != "" {
		m.resolveRPS(r, nil)
	}
	return nil
}

func (m *Machine) rpsTimeout(r *Result) {
	var auto []string
	for _, p := range m.players {
		if p.rps == "" {
			p.rps = game.RandomChoice(m.rnd)
			auto = append(auto, p.id)
		}
	}
	m.resolveRPS(r, auto)
}

func (m *Machine) resolveRPS(r *Result, auto []string) {
	m.disarm(TimerPhase, "")
	p1, p2 := m.players[0], m.players[1]
	res := RPSResult{
		Round:   m.rpsRound,
		Choices: map[string]domain.Choice{p1.id: p1.rps, p2.id: p2.rps},
		Auto:    auto,
	}
	switch game.Decide(p1.rps, p2.rps) {
	case game.OutcomeDraw:
		res.IsDraw = true
		r.emit("", EvRPSResult, res)
		m.enterRPS(r)
		return
	case game.OutcomeWin:
		m.turn = 0
	case game.OutcomeLose:
		m.turn = 1
	}
	res.WinnerID = m.players[m.turn].id
	r.emit("", EvRPSResult, res)
	m.enterSubjectSelection(r)
}

// --- выбор темы ---

func (m *Machine) enterSubjectSelection(r *Result) {
	m.phase = domain.PhaseSubjectSelection
	m.armPhase(r, m.policy.SubjectWindow)
	r.emit("", EvGameUpdate, m.update(nil))
}

func (m *Machine) selectSubject(r *Result, idx int, subjectID string) error {
	if m.phase != domain.PhaseSubjectSelection {
		return ErrWrongPhase
	}
	if idx != m.turn {
		return ErrNotYourTurn
	}
	if subjectID == "" || (len(m.policy.Subjects) > 0 && !slices.Contains(m.policy.Subjects, subjectID)) {
		return ErrInvalidSubject
	}
	m.chooseSubject(r, subjectID, m.players[idx].id)
	return nil
}

func (m *Machine) subjectTimeout(r *Result) {
	if len(m.policy.Subjects) == 0 {
		m.finish(r, domain.ReasonTimeoutForfeit, 1-m.turn)
		return
	}
	m.chooseSubject(r, m.policy.Subjects[m.rnd.Intn(len(m.policy.Subjects))], "")
}

func (m *Machine) chooseSubject(r *Result, subjectID, by string) {
	m.subject = subjectID
	m.phase = domain.PhaseDeckCreation
	// окно колоды начинается сразу: зависшая загрузка тоже упирается в дедлайн
	m.armPhase(r, m.policy.DeckWindow)
	r.emit("", EvSubjectChosen, SubjectChosen{SubjectID: subjectID, ChosenBy: by})
	r.emit("", EvGameUpdate, m.update(nil))
	r.Fetch = &FetchPool{SubjectID: subjectID}
}

// --- создание колоды ---

func (m *Machine) onPoolLoaded(a Action) Result {
	var r Result
	if m.phase != domain.PhaseDeckCreation || a.SubjectID != m.subject || m.pool != nil {
		return r
	}
	r.Accepted = true
	if a.Err != nil || len(a.Questions) < m.policy.DeckSize {
		m.finish(&r, domain.ReasonSetupFailed, -1)
		return r
	}
	m.pool = append([]domain.Question(nil), a.Questions...)
	m.poolByID = make(map[string]domain.Question, len(m.pool))
	public := make([]domain.PublicQuestion, 0, len(m.pool))
	for _, q := range m.pool {
		m.poolByID[q.ID] = q
		public = append(public, q.Public())
	}
	m.armPhase(&r, m.policy.DeckWindow)
	r.emit("", EvQuestionPool, QuestionPool{
		SubjectID: m.subject,
		DeckSize:  m.policy.DeckSize,
		Questions: public,
		Deadline:  m.deadlineMs(),
	})
	return r
}

func (m *Machine) confirmDeck(r *Result, idx int, ids []string) error {
	if m.phase != domain.PhaseDeckCreation {
		return ErrWrongPhase
	}
	if m.pool == nil {
		return ErrPoolNotReady
	}
	p := m.players[idx]
	if p.confirmed {
		return ErrAlreadyActed
	}
	if len(ids) != m.policy.DeckSize {
		return ErrInvalidDeck
	}
	seen := make(map[string]bool, len(ids))
	questions := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := m.poolByID[id]
		if !ok || seen[id] {
			return ErrInvalidDeck
		}
		seen[id] = true
		questions = append(questions, q)
	}
	m.buildDeck(r, idx, questions, false)
	return nil
}

// buildDeck карты создаются один раз и больше никогда не пересоздаются
func (m *Machine) buildDeck(r *Result, idx int, questions []domain.Question, auto bool) {
	p := m.players[idx]
	cards := make([]domain.Card, 0, len(questions))
	for i := range questions {
		q := questions[i]
		cards = append(cards, domain.Card{ID: m.newID(), Kind: domain.CardQuestion, Question: &q})
	}
	p.deck = game.NewDeck(m.rnd, cards, m.policy.HandSize)
	dealt := p.deck.Deal(m.policy.HandSize)
	p.confirmed = true

	r.emit("", EvDeckConfirmed, DeckConfirmed{PlayerID: p.id, Auto: auto})
	r.emit(p.id, EvDealCards, Hand{Hand: domain.ViewCards(dealt)})

	if m.players[0].confirmed && m.players[1].confirmed {
		m.enterDiceRoll(r)
	}
}

func (m *Machine) deckTimeout(r *Result) {
	if m.pool == nil {
		m.finish(r, domain.ReasonSetupFailed, -1)
		return
	}
	for i, p := range m.players {
		if p.confirmed {
			continue
		}
		picked := append([]domain.Question(nil), m.pool...)
		game.Shuffle(m.rnd, picked)
		m.buildDeck(r, i, picked[:m.policy.DeckSize], true)
	}
}

// --- бросок кубика ---

func (m *Machine) enterDiceRoll(r *Result) {
	m.phase = domain.PhaseDiceRoll
	for _, p := range m.players {
		p.dice = 0
	}
	m.armPhase(r, m.policy.DiceWindow)
	r.emit("", EvGameUpdate, m.update(nil))
}

func (m *Machine) rollDice(r *Result, idx int) error {
	if m.phase != domain.PhaseDiceRoll {
		return ErrWrongPhase
	}
	p := m.players[idx]
	if p.dice != 0 {
		return ErrAlreadyActed
	}
	p.dice = game.Roll(m.rnd)
	if m.players[0].dice != 0 && m.players[1].dice != 0 {
		m.resolveDice(r)
	}
	return nil
}

func (m *Machine) diceTimeout(r *Result) {
	for _, p := range m.players {
		if p.dice == 0 {
			p.dice = game.Roll(m.rnd)
		}
	}
	m.resolveDice(r)
}

func (m *Machine) resolveDice(r *Result) {
	m.disarm(TimerPhase, "")
	rolls := [2]int{m.players[0].dice, m.players[1].dice}
	out := game.ResolveDice(m.rnd, rolls, m.diceTies, m.policy.MaxDiceTies)
	res := DiceResult{
		Player1Roll: rolls[0],
		Player2Roll: rolls[1],
		IsTie:       out.Tie,
		CoinFlip:    out.CoinFlip,
	}
	if out.Winner < 0 {
		m.diceTies++
		r.emit("", EvDiceResult, res)
		m.enterDiceRoll(r)
		return
	}
	m.turn = out.Winner
	res.WinnerID = m.players[out.Winner].id
	r.emit("", EvDiceResult, res)
	m.enterSummon(r)
}
