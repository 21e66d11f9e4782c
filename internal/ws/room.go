package ws

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quiz_duel/internal/duel"
	"quiz_duel/internal/logger"
	"quiz_duel/internal/metrics"
	"quiz_duel/internal/questions"
)

var ErrRoomClosed = errors.New("room closed")

// Sink куда комната пишет сообщения одного игрока.
// Send не должен блокировать: false значит сообщение отброшено
type Sink interface {
	Send(msg []byte) bool
	Close()
}

type attach struct {
	playerID string
	name     string
	sink     Sink
	reply    chan error
}

type detach struct {
	playerID string
	sink     Sink
}

type query struct {
	playerID string
	reply    chan snapshotReply
}

type snapshotReply struct {
	snap duel.Snapshot
	ok   bool
}

// Room актор одной сессии. Все мутации Machine происходят в горутине Run,
// действия игроков, таймеры и загрузка пула приходят через одну очередь
type Room struct {
	ID string

	machine  *duel.Machine
	watchdog *duel.Watchdog
	pool     questions.Pool
	clients  map[string]Sink

	actions chan duel.Action
	attachC chan attach
	detachC chan detach
	queries chan query

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	poolTimeout time.Duration
	now         func() time.Time
	onClose     func(id string)
	log         *slog.Logger
}

func NewRoom(ctx context.Context, m *duel.Machine, pool questions.Pool, poolTimeout time.Duration) *Room {
	ctx, cancel := context.WithCancel(ctx)
	r := &Room{
		ID:          m.ID(),
		machine:     m,
		pool:        pool,
		clients:     make(map[string]Sink),
		actions:     make(chan duel.Action, 64),
		attachC:     make(chan attach),
		detachC:     make(chan detach, 2),
		queries:     make(chan query),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		poolTimeout: poolTimeout,
		now:         time.Now,
		log:         logger.ForSession(m.ID()),
	}
	r.watchdog = duel.NewWatchdog(func(a duel.Action) { r.Enqueue(a) })
	return r
}

// Done закрывается, когда сессия уничтожена
func (r *Room) Done() <-chan struct{} { return r.done }

// Close уничтожает сессию без GameOver (остановка сервера)
func (r *Room) Close() { r.cancel() }

// Enqueue ставит действие в очередь сессии
func (r *Room) Enqueue(a duel.Action) bool {
	select {
	case r.actions <- a:
		return true
	case <-r.done:
		return false
	}
}

// Attach привязывает соединение игрока и применяет join.
// Прежнее соединение того же игрока закрывается
func (r *Room) Attach(playerID, name string, sink Sink) error {
	reply := make(chan error, 1)
	select {
	case r.attachC <- attach{playerID: playerID, name: name, sink: sink, reply: reply}:
	case <-r.done:
		return ErrRoomClosed
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

// Detach сообщает об обрыве соединения. Уже заменённое соединение игнорируется
func (r *Room) Detach(playerID string, sink Sink) {
	select {
	case r.detachC <- detach{playerID: playerID, sink: sink}:
	case <-r.done:
	}
}

// Snapshot снимок, прочитанный через очередь сессии. С playerID - вид этого игрока
// вместе с его рукой, без него - публичный
func (r *Room) Snapshot(ctx context.Context, playerID string) (duel.Snapshot, error) {
	reply := make(chan snapshotReply, 1)
	select {
	case r.queries <- query{playerID: playerID, reply: reply}:
	case <-r.done:
		return duel.Snapshot{}, ErrRoomClosed
	case <-ctx.Done():
		return duel.Snapshot{}, ctx.Err()
	}
	select {
	case s := <-reply:
		if !s.ok {
			return duel.Snapshot{}, duel.ErrUnknownPlayer
		}
		return s.snap, nil
	case <-r.done:
		return duel.Snapshot{}, ErrRoomClosed
	case <-ctx.Done():
		return duel.Snapshot{}, ctx.Err()
	}
}

func (r *Room) Run() {
	defer r.shutdown()

	r.log.Info("session started")
	if r.execute(r.machine.Start(r.now())) {
		return
	}

	for {
		select {
		case <-r.ctx.Done():
			r.log.Info("session cancelled")
			return

		case a := <-r.actions:
			if r.apply(a) {
				return
			}

		case at := <-r.attachC:
			if !r.machine.HasPlayer(at.playerID) {
				at.reply <- duel.ErrUnknownPlayer
				continue
			}
			if old, ok := r.clients[at.playerID]; ok && old != at.sink {
				old.Close()
			}
			r.clients[at.playerID] = at.sink
			at.reply <- nil
			if r.apply(duel.Action{Type: duel.ActJoin, PlayerID: at.playerID, DisplayName: at.name}) {
				return
			}

		case d := <-r.detachC:
			if r.clients[d.playerID] != d.sink {
				continue
			}
			delete(r.clients, d.playerID)
			if r.apply(duel.Action{Type: duel.ActDisconnect, PlayerID: d.playerID}) {
				return
			}

		case q := <-r.queries:
			if q.playerID == "" {
				q.reply <- snapshotReply{snap: r.machine.Public(), ok: true}
				continue
			}
			snap, ok := r.machine.SnapshotFor(q.playerID)
			q.reply <- snapshotReply{snap: snap, ok: ok}
		}
	}
}

// apply применяет одно действие и исполняет эффекты; true - сессию пора закрыть
func (r *Room) apply(a duel.Action) bool {
	wasOver := r.machine.Over()
	res := r.machine.Apply(a, r.now())

	outcome := "accepted"
	if !res.Accepted {
		outcome = "rejected"
	}
	metrics.Actions.WithLabelValues(string(a.Type), outcome).Inc()

	if res.Err != nil {
		r.log.Debug("action rejected", "player", a.PlayerID, "action", a.Type, "error", res.Err)
	}
	if !wasOver && r.machine.Over() {
		metrics.GamesFinished.WithLabelValues(r.machine.Reason()).Inc()
		r.log.Info("game over", "winner", r.machine.Winner(), "reason", r.machine.Reason())
	}
	return r.execute(res)
}

func (r *Room) execute(res duel.Result) bool {
	for _, ev := range res.Events {
		msg, err := encode(string(ev.Type), ev.Payload)
		if err != nil {
			r.log.Error("marshal event", "type", ev.Type, "error", err)
			continue
		}
		if ev.Private() {
			r.send(ev.To, msg)
			continue
		}
		for id := range r.clients {
			r.send(id, msg)
		}
	}
	for _, t := range res.Timers {
		r.watchdog.Arm(t)
	}
	if res.Fetch != nil {
		go r.fetch(res.Fetch.SubjectID)
	}
	return res.Closed
}

func (r *Room) send(playerID string, msg []byte) {
	sink, ok := r.clients[playerID]
	if !ok {
		return
	}
	if !sink.Send(msg) {
		metrics.DroppedMessages.Inc()
		r.log.Warn("send buffer full, dropping message", "player", playerID)
	}
}

// fetch грузит пул вне очереди и возвращает результат синтетическим действием
func (r *Room) fetch(subjectID string) {
	ctx, cancel := context.WithTimeout(r.ctx, r.poolTimeout)
	defer cancel()

	start := time.Now()
	qs, err := r.pool.FetchQuestions(ctx, subjectID)
	metrics.PoolFetch.Observe(time.Since(start).Seconds())
	if err != nil {
		r.log.Warn("question pool fetch failed", "subject", subjectID, "error", err)
	}
	r.Enqueue(duel.Action{Type: duel.ActPoolLoaded, SubjectID: subjectID, Questions: qs, Err: err})
}

func (r *Room) shutdown() {
	r.watchdog.Stop()
	r.cancel()
	for id, sink := range r.clients {
		sink.Close()
		delete(r.clients, id)
	}
	if r.onClose != nil {
		r.onClose(r.ID)
	}
	close(r.done)
	r.log.Info("session closed")
}
