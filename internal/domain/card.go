package domain

// тип карты
type CardKind string

const (
	CardQuestion    CardKind = "question"
	CardSpellEffect CardKind = "spell_effect"
)

// вопрос из внешнего банка вопросов
type Question struct {
	ID            string   `json:"id"`
	SubjectID     string   `json:"subject_id"`
	Text          string   `json:"text"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Public возвращает вопрос без правильного ответа, для отправки клиенту
func (q Question) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Text: q.Text, Choices: append([]string(nil), q.Choices...)}
}

type PublicQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// карта неизменяема после раздачи, меняется только её место (колода/рука/сброс)
type Card struct {
	ID       string    `json:"card_id"`
	Kind     CardKind  `json:"kind"`
	Question *Question `json:"-"`
}

// QuestionText возвращает текст вопроса карты или пустую строку
func (c Card) QuestionText() string {
	if c.Question == nil {
		return ""
	}
	return c.Question.Text
}

// CardView то, что видит владелец руки
type CardView struct {
	ID       string          `json:"card_id"`
	Kind     CardKind        `json:"kind"`
	Question *PublicQuestion `json:"question,omitempty"`
}

func (c Card) View() CardView {
	v := CardView{ID: c.ID, Kind: c.Kind}
	if c.Question != nil {
		pq := c.Question.Public()
		v.Question = &pq
	}
	return v
}

func ViewCards(cards []Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.View())
	}
	return out
}
