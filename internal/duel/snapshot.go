package duel

import "quiz_duel/internal/domain"

// update публичная дельта состояния для обоих игроков
func (m *Machine) update(delta map[string]int) GameUpdate {
	u := GameUpdate{
		Phase:       m.phase,
		CurrentTurn: m.CurrentTurn(),
		HP:          make(map[string]int, 2),
		HandCounts:  make(map[string]int, 2),
		DeckCounts:  make(map[string]int, 2),
		HPDelta:     delta,
		Deadline:    m.deadlineMs(),
	}
	for _, p := range m.players {
		u.HP[p.id] = p.hp
		if p.deck != nil {
			u.HandCounts[p.id] = p.deck.HandSize()
			u.DeckCounts[p.id] = p.deck.PileSize()
		} else {
			u.HandCounts[p.id] = 0
			u.DeckCounts[p.id] = 0
		}
	}
	if m.field != nil {
		f := *m.field
		u.LastSummonedCard = &f
	}
	if m.phase == domain.PhaseSubjectSelection {
		u.Subjects = append([]string(nil), m.policy.Subjects...)
	}
	return u
}

type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HP        int    `json:"hp"`
	Connected bool   `json:"connected"`
	Confirmed bool   `json:"deckConfirmed"`
}

type PendingView struct {
	CardID     string                `json:"cardId"`
	AttackerID string                `json:"attackerId"`
	Question   domain.PublicQuestion `json:"question"`
	Deadline   int64                 `json:"deadline"`
}

// Snapshot полное авторитетное состояние. Hand заполняется только для адресата
type Snapshot struct {
	SessionID string       `json:"sessionId"`
	Subject   string       `json:"subject,omitempty"`
	RPSRound  int          `json:"rpsRound"`
	Players   []PlayerView `json:"players"`
	GameUpdate
	Pending      *PendingView            `json:"pending,omitempty"`
	You          string                  `json:"you,omitempty"`
	Hand         []domain.CardView       `json:"hand,omitempty"`
	QuestionPool []domain.PublicQuestion `json:"questionPool,omitempty"`
	WinnerID     string                  `json:"winnerId,omitempty"`
	Reason       string                  `json:"reason,omitempty"`
	CreatedAt    int64                   `json:"createdAt"`
	ExpiresAt    int64                   `json:"expiresAt"`
}

// Public снимок без скрытой информации
func (m *Machine) Public() Snapshot {
	s := Snapshot{
		SessionID:  m.id,
		Subject:    m.subject,
		RPSRound:   m.rpsRound,
		GameUpdate: m.update(nil),
		WinnerID:   m.winner,
		Reason:     m.reason,
		CreatedAt:  m.createdAt.UnixMilli(),
		ExpiresAt:  m.expiresAt.UnixMilli(),
	}
	for _, p := range m.players {
		s.Players = append(s.Players, PlayerView{
			ID:        p.id,
			Name:      p.name,
			HP:        p.hp,
			Connected: p.connected,
			Confirmed: p.confirmed,
		})
	}
	if m.pending != nil {
		s.Pending = &PendingView{
			CardID:     m.pending.card.ID,
			AttackerID: m.players[m.pending.attacker].id,
			Question:   m.pending.card.Question.Public(),
			Deadline:   m.pending.deadline.UnixMilli(),
		}
	}
	return s
}

func (m *Machine) snapshotFor(idx int) Snapshot {
	s := m.Public()
	p := m.players[idx]
	s.You = p.id
	if p.deck != nil {
		s.Hand = domain.ViewCards(p.deck.Hand())
	}
	if m.phase == domain.PhaseDeckCreation && !p.confirmed {
		for _, q := range m.pool {
			s.QuestionPool = append(s.QuestionPool, q.Public())
		}
	}
	return s
}

// SnapshotFor снимок для конкретного игрока, false если игрок не из этой сессии
func (m *Machine) SnapshotFor(playerID string) (Snapshot, bool) {
	idx := m.index(playerID)
	if idx < 0 {
		return Snapshot{}, false
	}
	return m.snapshotFor(idx), true
}
