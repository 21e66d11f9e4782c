package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"quiz_duel/internal/domain"
	"quiz_duel/internal/duel"
)

var ErrBadMessage = errors.New("bad message")

// Message исходящее сообщение клиенту
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// inbound входящее сообщение: {"type":..., "phase":..., "payload":{...}}
type inbound struct {
	Type    duel.ActionType `json:"type"`
	Phase   domain.Phase    `json:"phase"`
	Payload json.RawMessage `json:"payload"`
}

type actionPayload struct {
	DisplayName string        `json:"displayName"`
	Choice      domain.Choice `json:"choice"`
	SubjectID   string        `json:"subjectId"`
	QuestionIDs []string      `json:"questionIds"`
	CardID      string        `json:"cardId"`
	QuestionID  string        `json:"questionId"`
	Answer      string        `json:"answer"`
}

// DecodeAction разбирает сообщение клиента. Игрок берётся из соединения,
// а не из тела, синтетические типы от клиента не принимаются
func DecodeAction(playerID string, raw []byte) (duel.Action, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return duel.Action{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if in.Type == "" || in.Type.Synthetic() {
		return duel.Action{}, fmt.Errorf("%w: type %q", ErrBadMessage, in.Type)
	}
	if in.Phase != "" && !in.Phase.Valid() {
		return duel.Action{}, fmt.Errorf("%w: phase %q", ErrBadMessage, in.Phase)
	}

	var p actionPayload
	if len(in.Payload) > 0 && string(in.Payload) != "null" {
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return duel.Action{}, fmt.Errorf("%w: payload: %v", ErrBadMessage, err)
		}
	}

	return duel.Action{
		Type:        in.Type,
		PlayerID:    playerID,
		Phase:       in.Phase,
		DisplayName: p.DisplayName,
		Choice:      p.Choice,
		SubjectID:   p.SubjectID,
		QuestionIDs: p.QuestionIDs,
		CardID:      p.CardID,
		QuestionID:  p.QuestionID,
		Answer:      p.Answer,
	}, nil
}

func encode(typ string, payload any) ([]byte, error) {
	return json.Marshal(Message{Type: typ, Payload: payload})
}
