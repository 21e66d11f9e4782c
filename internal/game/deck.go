package game

import (
	"errors"
	"strings"

	"quiz_duel/internal/domain"
)

var (
	ErrHandFull      = errors.New("hand is full")
	ErrDuplicateText = errors.New("question with this text is already in hand")
	ErrCardNotInHand = errors.New("card not in hand")
)

// Deck колода и рука одного игрока.
//
// Инварианты: в руке не больше maxHand карт, тексты вопросов в руке уникальны,
// len(hand)+len(pile) только уменьшается - сыгранные карты уходят в сброс навсегда.
type Deck struct {
	pile    []domain.Card // конец среза - следующая карта
	hand    []domain.Card
	discard []domain.Card
	maxHand int
}

// NewDeck перемешивает выбранные карты и создаёт колоду
func NewDeck(r Rand, cards []domain.Card, maxHand int) *Deck {
	if maxHand <= 0 {
		maxHand = DefaultHandSize
	}
	pile := append([]domain.Card(nil), cards...)
	Shuffle(r, pile)
	return &Deck{pile: pile, maxHand: maxHand}
}

func textKey(c domain.Card) string {
	return strings.ToLower(strings.TrimSpace(c.QuestionText()))
}

func (d *Deck) inHand(key string) bool {
	if key == "" {
		return false
	}
	for _, c := range d.hand {
		if textKey(c) == key {
			return true
		}
	}
	return false
}

// add единственная точка вставки в руку, проверяет инварианты
func (d *Deck) add(c domain.Card) error {
	if len(d.hand) >= d.maxHand {
		return ErrHandFull
	}
	if d.inHand(textKey(c)) {
		return ErrDuplicateText
	}
	d.hand = append(d.hand, c)
	return nil
}

// Draw берёт верхнюю карту, текст которой ещё не встречается в руке.
// Дубликаты остаются в колоде. false, если брать нечего или рука полна
func (d *Deck) Draw() (domain.Card, bool) {
	if len(d.hand) >= d.maxHand {
		return domain.Card{}, false
	}
	for i := len(d.pile) - 1; i >= 0; i-- {
		c := d.pile[i]
		if d.inHand(textKey(c)) {
			continue
		}
		if err := d.add(c); err != nil {
			return domain.Card{}, false
		}
		d.pile = append(d.pile[:i], d.pile[i+1:]...)
		return c, true
	}
	return domain.Card{}, false
}

// Deal начальная раздача до n карт
func (d *Deck) Deal(n int) []domain.Card {
	var dealt []domain.Card
	for i := 0; i < n; i++ {
		c, ok := d.Draw()
		if !ok {
			break
		}
		dealt = append(dealt, c)
	}
	return dealt
}

// Play убирает карту из руки в сброс
func (d *Deck) Play(cardID string) (domain.Card, error) {
	for i, c := range d.hand {
		if c.ID == cardID {
			d.hand = append(d.hand[:i], d.hand[i+1:]...)
			d.discard = append(d.discard, c)
			return c, nil
		}
	}
	return domain.Card{}, ErrCardNotInHand
}

// Hand копия руки
func (d *Deck) Hand() []domain.Card {
	return append([]domain.Card(nil), d.hand...)
}

func (d *Deck) HandSize() int { return len(d.hand) }
func (d *Deck) PileSize() int { return len(d.pile) }
func (d *Deck) Discarded() int { return len(d.discard) }

// CanDraw есть ли в колоде карта, которую можно взять в руку
func (d *Deck) CanDraw() bool {
	if len(d.hand) >= d.maxHand {
		return false
	}
	for _, c := range d.pile {
		if !d.inHand(textKey(c)) {
			return true
		}
	}
	return false
}
