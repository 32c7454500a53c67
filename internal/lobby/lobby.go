package lobby

import (
	"context"
	"errors"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/DoyleJ11/sniper-keeper/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Msg interface{ isLobbyMsg() }

// FromClient carries one command. Reply is optional; when set it receives
// the outcome even if the command was a no-op.
type FromClient struct {
	Cmd   engine.Command
	Reply chan Result
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	GameID     uuid.UUID
	Version    int
	NumClients int
	State      engine.State
}

type Result struct {
	Snapshot Snapshot
	Events   []engine.Event
	Err      error
}

type recordBatch struct {
	seq    int
	events []engine.Event
}

type Lobby struct {
	inbox    chan Msg
	game     *engine.Game
	gameID   uuid.UUID
	version  int
	clients  map[string]chan Snapshot
	recorder store.Recorder
	records  chan recordBatch
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

type Option func(*Lobby)

func WithRecorder(r store.Recorder) Option {
	return func(l *Lobby) { l.recorder = r }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Lobby) { l.log = log }
}

// NewLobby takes ownership of game; nothing else may touch it afterwards.
func NewLobby(parent context.Context, game *engine.Game, opts ...Option) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:    make(chan Msg, 64), // Small buffer
		game:     game,
		gameID:   newGameID(),
		clients:  make(map[string]chan Snapshot),
		recorder: store.NopRecorder{},
		records:  make(chan recordBatch, 64),
		log:      zap.NewNop(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With(zap.String("game_id", l.gameID.String()))

	go l.recordLoop()
	go l.loop()
	return l
}

func newGameID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately.
				// A rejoin under the same id replaces the old outbox.
				if old, ok := l.clients[msg.ClientID]; ok && old != msg.Outbox {
					close(old)
				}
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- l.snapshot()
				l.log.Debug("client joined", zap.String("client_id", msg.ClientID))

			case Leave:
				delete(l.clients, msg.ClientID)
				l.log.Debug("client left", zap.String("client_id", msg.ClientID))

			case FromClient:
				res := l.apply(msg.Cmd)
				if msg.Reply != nil {
					msg.Reply <- res
				}

			case GetState:
				msg.Reply <- View{
					GameID:     l.gameID,
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.game.Snapshot(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) apply(cmd engine.Command) Result {
	events, err := l.game.Apply(cmd)
	if err != nil {
		l.log.Warn("rejected command", zap.String("type", string(cmd.Type)), zap.Error(err))
		return Result{Snapshot: l.snapshot(), Err: err}
	}
	if len(events) == 0 {
		// Guard failed; nothing changed so nobody needs a new snapshot.
		return Result{Snapshot: l.snapshot()}
	}

	l.version++
	snap := l.snapshot()
	l.broadcast(snap)
	l.enqueueRecord(recordBatch{seq: l.version, events: events})

	for _, ev := range events {
		l.log.Info("game event",
			zap.String("event", string(ev.Type)),
			zap.String("role", string(ev.Role)),
			zap.Int("round", ev.Round),
			zap.Int("version", l.version),
		)
	}
	return Result{Snapshot: snap, Events: events}
}

func (l *Lobby) snapshot() Snapshot {
	return Snapshot{Version: l.version, State: l.game.Snapshot()}
}

func (l *Lobby) enqueueRecord(b recordBatch) {
	select {
	case l.records <- b:
	default:
		l.log.Warn("record queue full, dropping events", zap.Int("seq", b.seq))
	}
}

func (l *Lobby) recordLoop() {
	for b := range l.records {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.recorder.Record(ctx, l.gameID, b.seq, b.events); err != nil {
			l.log.Error("record events", zap.Int("seq", b.seq), zap.Error(err))
		}
		cancel()
	}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	close(l.records)
	l.cancel()
	l.log.Debug("lobby shut down")
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
			l.log.Info("dropped slow client", zap.String("client_id", id))
		}
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) GameID() uuid.UUID { return l.gameID }

// Done is closed once the lobby has stopped accepting messages.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

var ErrClosed = errors.New("lobby closed")

// Send delivers msg unless ctx ends or the lobby has shut down first.
func (l *Lobby) Send(ctx context.Context, msg Msg) error {
	select {
	case l.inbox <- msg:
		return nil
	case <-l.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do applies cmd and waits for the outcome.
func (l *Lobby) Do(ctx context.Context, cmd engine.Command) (Result, error) {
	reply := make(chan Result, 1)
	if err := l.Send(ctx, FromClient{Cmd: cmd, Reply: reply}); err != nil {
		return Result{}, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-l.ctx.Done():
		return Result{}, ErrClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (l *Lobby) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.ctx.Done():
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}
