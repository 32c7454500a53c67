package hub

import (
	"context"
	"errors"
	"slices"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/DoyleJ11/sniper-keeper/internal/lobby"
	"go.uber.org/zap"
)

type HubMsg interface{ isHubMsg() }

type CreateLobby struct {
	Code  string
	Game  *engine.Game
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type EnsureLobby struct {
	Code  string
	Game  *engine.Game // only used if creation happens
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code string
}

type ListLobbies struct {
	Reply chan []string
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ListLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox     chan HubMsg
	lobbies   map[string]*lobby.Lobby
	lobbyOpts []lobby.Option
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

type Option func(*Hub)

// WithLobbyOptions is applied to every lobby the hub creates.
func WithLobbyOptions(opts ...lobby.Option) Option {
	return func(h *Hub) { h.lobbyOpts = append(h.lobbyOpts, opts...) }
}

func WithLogger(log *zap.Logger) Option {
	return func(h *Hub) { h.log = log }
}

func NewHub(parent context.Context, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		log:     zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				msg.Reply <- h.ensure(msg.Code, msg.Game)

			case GetLobby:
				msg.Reply <- h.live(msg.Code) // May be nil

			case EnsureLobby:
				msg.Reply <- h.ensure(msg.Code, msg.Game)

			case RemoveLobby:
				if lb := h.lobbies[msg.Code]; lb != nil {
					stopLobby(lb)
					delete(h.lobbies, msg.Code)
					h.log.Info("lobby removed", zap.String("code", msg.Code))
				}

			case ListLobbies:
				codes := make([]string, 0, len(h.lobbies))
				for code := range h.lobbies {
					codes = append(codes, code)
				}
				slices.Sort(codes)
				msg.Reply <- codes

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// live returns the lobby for code, forgetting it if it has already stopped.
func (h *Hub) live(code string) *lobby.Lobby {
	lb := h.lobbies[code]
	if lb == nil {
		return nil
	}
	select {
	case <-lb.Done():
		delete(h.lobbies, code)
		return nil
	default:
		return lb
	}
}

func (h *Hub) ensure(code string, game *engine.Game) *lobby.Lobby {
	if lb := h.live(code); lb != nil {
		return lb
	}
	if game == nil {
		game = engine.NewDefaultGame()
	}
	lb := lobby.NewLobby(h.ctx, game, h.lobbyOpts...)
	h.lobbies[code] = lb
	h.log.Info("lobby created",
		zap.String("code", code),
		zap.String("game_id", lb.GameID().String()),
	)
	return lb
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		stopLobby(lb)
	}
	clear(h.lobbies)
	h.cancel()
}

func stopLobby(lb *lobby.Lobby) {
	select {
	case lb.Inbox() <- lobby.Shutdown{}:
	case <-lb.Done():
	}
}

// Get asks the hub loop for a lobby. A nil lobby means no such code.
func (h *Hub) Get(ctx context.Context, code string) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	return h.roundTrip(ctx, GetLobby{Code: code, Reply: reply}, reply)
}

// Ensure returns the lobby for code, creating it around game if missing.
func (h *Hub) Ensure(ctx context.Context, code string, game *engine.Game) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	return h.roundTrip(ctx, EnsureLobby{Code: code, Game: game, Reply: reply}, reply)
}

func (h *Hub) List(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	if err := h.send(ctx, ListLobbies{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case codes := <-reply:
		return codes, nil
	case <-h.ctx.Done():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) Remove(ctx context.Context, code string) error {
	return h.send(ctx, RemoveLobby{Code: code})
}

var ErrClosed = errors.New("hub closed")

func (h *Hub) send(ctx context.Context, msg HubMsg) error {
	select {
	case h.inbox <- msg:
		return nil
	case <-h.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) roundTrip(ctx context.Context, msg HubMsg, reply chan *lobby.Lobby) (*lobby.Lobby, error) {
	if err := h.send(ctx, msg); err != nil {
		return nil, err
	}
	select {
	case lb := <-reply:
		return lb, nil
	case <-h.ctx.Done():
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
