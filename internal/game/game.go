package game

import (
	"crypto/rand"
	"math/big"
)

// политика дуэли по умолчанию
const (
	DefaultMaxHP    = 100
	DefaultDamage   = 20
	DefaultHandSize = 5
	DefaultDeckSize = 15
	DefaultDiceTies = 5
	DiceSides       = 6
	DiceMin         = 1
)

// Rand источник случайности для правил; в тестах подменяется сценарием
type Rand interface {
	// Intn возвращает число в [0, n)
	Intn(n int) int
}

// CryptoRand использует crypto/rand, как и остальные игры
type CryptoRand struct{}

func (CryptoRand) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// запасной вариант - никогда не должно происходить
		return 0
	}
	return int(v.Int64())
}

// Shuffle перемешивает срез на месте (Фишер-Йейтс)
func Shuffle[T any](r Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
