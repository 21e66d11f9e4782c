// Package duel содержит авторитетный конечный автомат дуэли.
//
// Machine не потокобезопасен: им владеет ровно одна горутина сессии (ws.Room),
// которая последовательно применяет действия из своей очереди. Machine не
// выполняет ввод-вывод - таймеры и загрузка вопросов возвращаются в Result
// как эффекты, а их результаты приходят обратно синтетическими действиями.
package duel

import (
	"time"

	"quiz_duel/internal/domain"
	"quiz_duel/internal/game"

	"github.com/google/uuid"
)

// Seat игрок, назначенный лобби
type Seat struct {
	ID   string
	Name string
}

// FetchPool просьба загрузить вопросы для темы
type FetchPool struct {
	SubjectID string
}

// Result итог применения одного действия
type Result struct {
	Accepted bool
	Err      error
	Events   []Envelope
	Timers   []Timer
	Fetch    *FetchPool
	// сессию можно уничтожить
	Closed bool
}

func (r *Result) emit(to string, typ EventType, payload any) {
	r.Events = append(r.Events, Envelope{To: to, Type: typ, Payload: payload})
}

type player struct {
	id        string
	name      string
	hp        int
	deck      *game.Deck
	rps       domain.Choice
	dice      int
	connected bool
	confirmed bool
	strikes   int
	acked     bool
}

type pendingQuestion struct {
	card     domain.Card
	attacker int
	deadline time.Time
}

type Machine struct {
	id     string
	policy Policy
	rnd    game.Rand
	newID  func() string

	phase   domain.Phase
	players [2]*player
	turn    int

	subject  string
	pool     []domain.Question
	poolByID map[string]domain.Question

	field    *FieldState
	pending  *pendingQuestion
	rpsRound int
	diceTies int

	winner string
	reason string

	createdAt time.Time
	expiresAt time.Time
	deadline  time.Time
	now       time.Time

	tokens map[TimerKey]uint64
	seq    uint64
}

type Option func(*Machine)

// WithRand подменяет источник случайности
func WithRand(r game.Rand) Option {
	return func(m *Machine) { m.rnd = r }
}

// WithIDs подменяет генератор идентификаторов карт
func WithIDs(f func() string) Option {
	return func(m *Machine) { m.newID = f }
}

func New(id string, seats [2]Seat, policy Policy, opts ...Option) *Machine {
	m := &Machine{
		id:     id,
		policy: policy,
		rnd:    game.CryptoRand{},
		newID:  uuid.NewString,
		phase:  domain.PhaseWaiting,
		turn:   -1,
		tokens: make(map[TimerKey]uint64),
	}
	for i, s := range seats {
		m.players[i] = &player{id: s.ID, name: s.Name, hp: policy.MaxHP}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) ID() string { return m.id }
func (m *Machine) Phase() domain.Phase { return m.phase }
func (m *Machine) Over() bool { return m.phase == domain.PhaseGameOver }
func (m *Machine) Winner() string { return m.winner }
func (m *Machine) Reason() string { return m.reason }
func (m *Machine) ExpiresAt() time.Time { return m.expiresAt }

// CurrentTurn id игрока, которому принадлежит ход
func (m *Machine) CurrentTurn() string {
	if m.turn < 0 {
		return ""
	}
	return m.players[m.turn].id
}

// HasPlayer сообщает, назначен ли игрок в эту сессию
func (m *Machine) HasPlayer(id string) bool {
	return m.index(id) >= 0
}

// Start взводит таймер простоя сессии
func (m *Machine) Start(now time.Time) Result {
	var r Result
	m.now = now
	m.createdAt = now
	m.expiresAt = now.Add(m.policy.IdleTimeout)
	m.arm(&r, TimerIdle, "", m.policy.IdleTimeout)
	r.Accepted = true
	return r
}

func (m *Machine) index(id string) int {
	for i, p := range m.players {
		if p.id == id {
			return i
		}
	}
	return -1
}

func (m *Machine) connectedCount() int {
	n := 0
	for _, p := range m.players {
		if p.connected {
			n++
		}
	}
	return n
}

// Apply валидирует действие против текущего состояния и применяет его.
// Отклонённое действие не меняет состояние.
func (m *Machine) Apply(a Action, now time.Time) Result {
	m.now = now

	switch a.Type {
	case ActTimeout:
		return m.onTimeout(a)
	case ActPoolLoaded:
		return m.onPoolLoaded(a)
	case ActDisconnect:
		return m.onDisconnect(a)
	}

	idx := m.index(a.PlayerID)
	if idx < 0 {
		return m.reject(a, ErrUnknownPlayer)
	}

	if m.phase == domain.PhaseGameOver && a.Type != ActJoin && a.Type != ActAckGameOver && a.Type != ActRequestInitialCards {
		return m.reject(a, ErrSessionOver)
	}

	// клиент видит устаревшее состояние - поправляем полным снимком
	if a.Phase != "" && a.Phase != m.phase && a.Type != ActJoin && a.Type != ActSurrender {
		r := m.reject(a, ErrStalePhase)
		r.emit(a.PlayerID, EvSnapshot, m.snapshotFor(idx))
		return r
	}

	var (
		r   Result
		err error
	)
	switch a.Type {
	case ActJoin:
		err = m.join(&r, idx, a)
	case ActRPSChoice:
		err = m.rpsChoice(&r, idx, a.Choice)
	case ActSelectSubject:
		err = m.selectSubject(&r, idx, a.SubjectID)
	case ActConfirmDeck:
		err = m.confirmDeck(&r, idx, a.QuestionIDs)
	case ActRollDice:
		err = m.rollDice(&r, idx)
	case ActSummonCard:
		err = m.summon(&r, idx, a.CardID, false)
	case ActSubmitAnswer:
		err = m.submitAnswer(&r, idx, a.QuestionID, a.Answer)
	case ActSurrender:
		m.finish(&r, domain.ReasonSurrender, 1-idx)
	case ActRequestInitialCards:
		err = m.requestCards(&r, idx)
	case ActAckGameOver:
		err = m.ackGameOver(&r, idx)
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		return m.reject(a, err)
	}

	m.players[idx].strikes = 0
	m.touch()
	m.checkHP(&r)
	r.Accepted = true
	return r
}

func (m *Machine) reject(a Action, err error) Result {
	r := Result{Err: err}
	if a.PlayerID != "" {
		r.emit(a.PlayerID, EvRejected, Rejected{Action: a.Type, Reason: err.Error()})
	}
	return r
}

func (m *Machine) touch() {
	m.expiresAt = m.now.Add(m.policy.IdleTimeout)
}

func (m *Machine) deadlineMs() int64 {
	if m.deadline.IsZero() {
		return 0
	}
	return m.deadline.UnixMilli()
}

// armPhase взводит таймер текущей фазы
// armPhase взводит таймер фазы; простой сессии отсчитывается от дедлайна фазы
func (m *Machine) armPhase(r *Result, d time.Duration) {
	m.deadline = m.now.Add(d)
	if idle := m.deadline.Add(m.policy.IdleTimeout); idle.After(m.expiresAt) {
		m.expiresAt = idle
	}
	m.arm(r, TimerPhase, "", d)
}

func (m *Machine) arm(r *Result, kind TimerKind, playerID string, d time.Duration) {
	m.seq++
	key := TimerKey{Kind: kind, Player: playerID}
	m.tokens[key] = m.seq
	r.Timers = append(r.Timers, Timer{Key: key, Token: m.seq, After: d})
}

func (m *Machine) disarm(kind TimerKind, playerID string) {
	delete(m.tokens, TimerKey{Kind: kind, Player: playerID})
	if kind == TimerPhase {
		m.deadline = time.Time{}
	}
}

// checkHP проверка после каждого изменения HP; конец игры вытесняет остальные переходы
func (m *Machine) checkHP(r *Result) bool {
	if m.phase == domain.PhaseGameOver {
		return true
	}
	for i, p := range m.players {
		if p.hp <= 0 {
			m.finish(r, domain.ReasonHPZero, 1-i)
			return true
		}
	}
	return false
}

// finish переводит сессию в GameOver. winner -1 - ничья
func (m *Machine) finish(r *Result, reason string, winner int) {
	if m.phase == domain.PhaseGameOver {
		return
	}
	m.phase = domain.PhaseGameOver
	m.reason = reason
	m.winner = ""
	if winner >= 0 {
		m.winner = m.players[winner].id
	}
	m.pending = nil
	for key := range m.tokens {
		delete(m.tokens, key)
	}
	m.deadline = time.Time{}

	r.emit("", EvGameUpdate, m.update(nil))
	r.emit("", EvGameOver, GameOver{WinnerID: m.winner, Reason: reason})
	m.arm(r, TimerLinger, "", m.policy.LingerTimeout)
}

func (m *Machine) onTimeout(a Action) Result {
	var r Result
	if tok, ok := m.tokens[a.Timer]; !ok || tok != a.Token {
		// устаревший таймер
		return r
	}
	delete(m.tokens, a.Timer)

	switch a.Timer.Kind {
	case TimerPhase:
		m.deadline = time.Time{}
		m.phaseTimeout(&r)
	case TimerGrace:
		m.graceTimeout(&r, a.Timer.Player)
	case TimerIdle:
		m.idleTimeout(&r)
	case TimerLinger:
		r.Closed = true
	}
	m.checkHP(&r)
	r.Accepted = true
	return r
}

func (m *Machine) phaseTimeout(r *Result) {
	switch m.phase {
	case domain.PhaseRPS:
		m.rpsTimeout(r)
	case domain.PhaseSubjectSelection:
		m.subjectTimeout(r)
	case domain.PhaseDeckCreation:
		m.deckTimeout(r)
	case domain.PhaseDiceRoll:
		m.diceTimeout(r)
	case domain.PhaseAwaitingSummon:
		m.summonTimeout(r)
	case domain.PhaseAwaitingAnswer:
		m.answerTimeout(r)
	}
}

func (m *Machine) idleTimeout(r *Result) {
	if m.phase == domain.PhaseGameOver {
		return
	}
	if m.now.Before(m.expiresAt) {
		m.arm(r, TimerIdle, "", m.expiresAt.Sub(m.now))
		return
	}
	winner := -1
	if m.phase == domain.PhaseWaiting {
		for i, p := range m.players {
			if p.connected && !m.players[1-i].connected {
				winner = i
			}
		}
	}
	m.finish(r, domain.ReasonTimeoutForfeit, winner)
}

// strike засчитывает бездействие; true, если игрок проиграл по таймауту
func (m *Machine) strike(r *Result, idx int) bool {
	p := m.players[idx]
	p.strikes++
	if m.policy.MaxIdleStrikes > 0 && p.strikes >= m.policy.MaxIdleStrikes {
		m.finish(r, domain.ReasonTimeoutForfeit, 1-idx)
		return true
	}
	return false
}

func (m *Machine) ackGameOver(r *Result, idx int) error {
	if m.phase != domain.PhaseGameOver {
		return ErrWrongPhase
	}
	m.players[idx].acked = true
	if m.players[0].acked && m.players[1].acked {
		r.Closed = true
	}
	return nil
}

func (m *Machine) requestCards(r *Result, idx int) error {
	p := m.players[idx]
	if p.deck == nil {
		return ErrNoDeck
	}
	r.emit(p.id, EvDealCards, Hand{Hand: domain.ViewCards(p.deck.Hand())})
	return nil
}
