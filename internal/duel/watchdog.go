package duel

import (
	"sync"
	"time"
)

type TimerKind string

const (
	TimerPhase  TimerKind = "phase"
	TimerGrace  TimerKind = "grace"
	TimerIdle   TimerKind = "idle"
	TimerLinger TimerKind = "linger"
)

// TimerKey один дедлайн сессии; Player заполнен только для грейс-периода
type TimerKey struct {
	Kind   TimerKind
	Player string
}

// Timer эффект: через After поставить в очередь таймаут с токеном Token
type Timer struct {
	Key   TimerKey
	Token uint64
	After time.Duration
}

// Watchdog планирует таймеры сессии. Сработавший таймер не трогает состояние,
// а ставит синтетическое действие в ту же очередь, что и действия игроков,
// поэтому оно упорядочено с ними. Устаревшие токены отбрасывает Machine
type Watchdog struct {
	mu      sync.Mutex
	timers  map[TimerKey]*time.Timer
	fire    func(Action)
	stopped bool
}

func NewWatchdog(fire func(Action)) *Watchdog {
	return &Watchdog{
		timers: make(map[TimerKey]*time.Timer),
		fire:   fire,
	}
}

// Arm перевзводит таймер с этим ключом
func (w *Watchdog) Arm(t Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if old, ok := w.timers[t.Key]; ok {
		old.Stop()
	}
	w.timers[t.Key] = time.AfterFunc(t.After, func() {
		w.fire(Action{Type: ActTimeout, Timer: t.Key, Token: t.Token})
	})
}

// Pending количество взведённых таймеров
func (w *Watchdog) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

// Stop останавливает все таймеры; повторные Arm игнорируются
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
	}
}
