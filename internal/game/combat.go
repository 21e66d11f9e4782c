package game

import (
	"strings"

	"quiz_duel/internal/domain"
)

// Exchange итог одного обмена: призыв карты и ответ защитника
type Exchange struct {
	Correct    bool
	TimedOut   bool
	Damage     int
	AttackerHP int
	DefenderHP int
	NextTurn   int // 0 - атакующий, 1 - защитник
	Drawer     int // кто добирает карту, в тех же ролях
	ResultRole string
}

// ClampHP держит HP в [0, max]
func ClampHP(hp, max int) int {
	if hp < 0 {
		return 0
	}
	if hp > max {
		return max
	}
	return hp
}

// CheckAnswer сравнение без учета регистра и пробелов по краям
func CheckAnswer(q *domain.Question, answer string) bool {
	if q == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
}

// ResolveExchange применяет правило "ход следует за правильностью":
// верный ответ - урон атакующему, защитник добирает и получает ход;
// неверный ответ или таймаут - урон защитнику, атакующий добирает и сохраняет ход
func ResolveExchange(attackerHP, defenderHP, damage, maxHP int, correct, timedOut bool) Exchange {
	ex := Exchange{Correct: correct && !timedOut, TimedOut: timedOut, Damage: damage}
	if ex.Correct {
		ex.AttackerHP = ClampHP(attackerHP-damage, maxHP)
		ex.DefenderHP = ClampHP(defenderHP, maxHP)
		ex.NextTurn = 1
		ex.Drawer = 1
		ex.ResultRole = domain.RoleDefender
		return ex
	}
	ex.AttackerHP = ClampHP(attackerHP, maxHP)
	ex.DefenderHP = ClampHP(defenderHP-damage, maxHP)
	ex.NextTurn = 0
	ex.Drawer = 0
	ex.ResultRole = domain.RoleAttacker
	return ex
}
