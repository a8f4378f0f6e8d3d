package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Recorder receives hub activity for metrics.
type Recorder interface {
	ObserveCircles(circles, members int)
	MessagePosted()
	JoinRejected()
}

type nopRecorder struct{}

func (nopRecorder) ObserveCircles(int, int) {}
func (nopRecorder) MessagePosted()          {}
func (nopRecorder) JoinRejected()           {}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub is the single owner of the Engine. Every command, disconnect and query
// runs on the goroutine executing Run, one at a time.
type Hub struct {
	engine  *Engine
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbox      chan clientCommand
	queries    chan func(*Engine)
	done       chan struct{}

	log     *zerolog.Logger
	metrics Recorder
}

// NewHub creates a new chat hub. logger and metrics may be nil.
func NewHub(logger *zerolog.Logger, metrics Recorder, opts ...Option) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}

	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan clientCommand, 256),
		queries:    make(chan func(*Engine)),
		done:       make(chan struct{}),
		log:        logger,
		metrics:    metrics,
	}
	h.engine = NewEngine(h, opts...)
	return h
}

// Run processes hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			go h.pump(ctx, c)
			h.log.Debug().Str("client_id", c.ID).Msg("client registered")
		case c := <-h.unregister:
			h.handleUnregister(c)
		case cc := <-h.inbox:
			h.handleCommand(cc)
		case query := <-h.queries:
			query(h.engine)
		}
	}
}

// RegisterClient attaches a client to the hub. It fails with ErrHubStopped
// once Run has returned; the client is then never served.
func (h *Hub) RegisterClient(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// UnregisterClient detaches a client, removing it from its circle.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Circles returns a snapshot of the live circles.
func (h *Hub) Circles(ctx context.Context) ([]CircleInfo, error) {
	reply := make(chan []CircleInfo, 1)
	query := func(e *Engine) { reply <- e.Circles() }

	select {
	case h.queries <- query:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case circles := <-reply:
		return circles, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pump forwards one client's commands into the hub inbox.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if cmd == nil {
				continue
			}
			select {
			case h.inbox <- clientCommand{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleUnregister(c *Client) {
	if current, ok := h.clients[c.ID]; !ok || current != c {
		return
	}

	circle, _ := h.engine.CircleOf(c.ID)
	if member, err := h.engine.Leave(c.ID); err == nil {
		h.log.Info().
			Str("client_id", c.ID).
			Str("circle", circle).
			Str("nickname", member.Nickname).
			Msg("left circle")
		if _, open := h.engine.Room(circle); !open {
			h.log.Info().Str("circle", circle).Msg("circle is empty and has been removed")
		}
	}

	h.release(c)
	h.observe()
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

func (h *Hub) handleCommand(cc clientCommand) {
	c, cmd := cc.client, cc.cmd
	if current, ok := h.clients[c.ID]; !ok || current != c {
		// Client went away while the command was queued.
		return
	}

	logger := h.log.With().Str("client_id", c.ID).Str("command", cmd.Kind.String()).Logger()

	switch cmd.Kind {
	case CommandJoinCircle:
		_, err := h.engine.Join(c.ID, cmd.Join)
		switch {
		case err == nil:
			logger.Info().Str("circle", cmd.Join.Circle).Str("nickname", cmd.Join.Nickname).Msg("joined circle")
		case errors.Is(err, ErrNicknameTaken):
			h.metrics.JoinRejected()
			logger.Info().Str("circle", cmd.Join.Circle).Str("nickname", cmd.Join.Nickname).Msg("nickname taken")
		default:
			logger.Debug().Err(err).Msg("join ignored")
		}
	case CommandPostMessage:
		if _, err := h.engine.Post(c.ID, cmd.Text, cmd.Style); err != nil {
			logger.Debug().Err(err).Msg("post ignored")
			return
		}
		h.metrics.MessagePosted()
	case CommandLeaveCircle:
		circle, _ := h.engine.CircleOf(c.ID)
		member, err := h.engine.Leave(c.ID)
		if err != nil {
			logger.Debug().Err(err).Msg("leave ignored")
			return
		}
		logger.Info().Str("circle", circle).Str("nickname", member.Nickname).Msg("left circle")
	default:
		logger.Warn().Msg("unknown command")
		return
	}

	h.observe()
}

// Send implements Transport by queueing ev on the client's event channel.
// Events for unknown or slow clients are dropped.
func (h *Hub) Send(connID string, ev *Event) {
	c, ok := h.clients[connID]
	if !ok {
		h.log.Debug().Str("client_id", connID).Str("event", ev.Kind.String()).Msg("drop event for unknown client")
		return
	}
	select {
	case c.Events <- ev:
	default:
		h.log.Debug().Str("client_id", connID).Str("event", ev.Kind.String()).Msg("drop event for slow client")
	}
}

func (h *Hub) observe() {
	h.metrics.ObserveCircles(h.engine.Stats())
}

// release forgets the client and closes its channels. Only the hub goroutine
// sends on Events, so closing here is safe.
func (h *Hub) release(c *Client) {
	delete(h.clients, c.ID)
	close(c.done)
	close(c.Events)
}

func (h *Hub) shutdown() {
	for _, c := range h.clients {
		_, _ = h.engine.Leave(c.ID)
		h.release(c)
	}
	h.observe()
	h.log.Info().Msg("hub stopped")
}
