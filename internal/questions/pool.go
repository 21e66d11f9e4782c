// Package questions - адаптер банка вопросов. Источник только читается и может
// вызываться из многих сессий одновременно.
package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"quiz_duel/internal/domain"
	"quiz_duel/internal/game"
)

var ErrUnknownSubject = errors.New("unknown subject")

// Pool внешний банк вопросов
type Pool interface {
	// FetchQuestions возвращает перемешанный список вопросов темы
	FetchQuestions(ctx context.Context, subjectID string) ([]domain.Question, error)
}

// StaticPool вопросы в памяти, загружаются из JSON файла
type StaticPool struct {
	bySubject map[string][]domain.Question
	rnd       game.Rand
}

func NewStaticPool(qs []domain.Question) *StaticPool {
	p := &StaticPool{bySubject: make(map[string][]domain.Question), rnd: game.CryptoRand{}}
	for _, q := range qs {
		p.bySubject[q.SubjectID] = append(p.bySubject[q.SubjectID], q)
	}
	return p
}

// LoadFile читает JSON массив вопросов
func LoadFile(path string) (*StaticPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading questions file: %w", err)
	}
	var qs []domain.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("parsing questions file: %w", err)
	}
	for i, q := range qs {
		if q.ID == "" || q.SubjectID == "" || q.Text == "" || q.CorrectAnswer == "" {
			return nil, fmt.Errorf("question #%d: id, subject_id, text and correct_answer are required", i)
		}
	}
	return NewStaticPool(qs), nil
}

func (p *StaticPool) FetchQuestions(ctx context.Context, subjectID string) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	qs, ok := p.bySubject[subjectID]
	if !ok {
		return nil, ErrUnknownSubject
	}
	out := append([]domain.Question(nil), qs...)
	game.Shuffle(p.rnd, out)
	return out, nil
}

// Subjects список тем в алфавитном порядке
func (p *StaticPool) Subjects() []string {
	out := make([]string, 0, len(p.bySubject))
	for s := range p.bySubject {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
