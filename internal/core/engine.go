package core

import (
	"errors"
	"strings"
	"time"
)

// JoinRequest carries what a connection sends when entering a circle.
type JoinRequest struct {
	Circle   string
	Nickname string
	Flair    string
	Token    string
}

// JoinResult is what a successful join produced.
type JoinResult struct {
	History []Message
	Members []Member
	// Evicted lists stale members of the same identity that were replaced.
	Evicted []Member
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	maxHistory int
	now        func() time.Time
}

// WithMaxHistory sets how many messages each circle retains.
func WithMaxHistory(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.maxHistory = n
		}
	}
}

// WithClock overrides the message timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Engine applies join, post and leave to circles and dispatches the
// resulting events. It is not safe for concurrent use: every call must be
// serialized by a single owner, such as Hub.
type Engine struct {
	rooms    *Registry
	sessions *Sessions
	router   *Router
	now      func() time.Time
}

// NewEngine creates an engine that delivers events through transport.
func NewEngine(transport Transport, opts ...Option) *Engine {
	o := engineOptions{maxHistory: DefaultMaxHistory, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	rooms := NewRegistry(o.maxHistory)
	return &Engine{
		rooms:    rooms,
		sessions: NewSessions(),
		router:   NewRouter(rooms, transport),
		now:      o.now,
	}
}

// Join puts connID into req.Circle under req.Nickname.
// On a nickname conflict the requester receives EventNicknameError and the
// returned error matches ErrNicknameTaken. A connection already joined to a
// different circle leaves it first, unless the join is rejected.
func (e *Engine) Join(connID string, req JoinRequest) (JoinResult, error) {
	if connID == "" || req.Circle == "" || req.Nickname == "" || strings.TrimSpace(req.Token) == "" {
		return JoinResult{}, ErrBadRequest
	}

	member := Member{
		ConnID:   connID,
		Nickname: req.Nickname,
		Flair:    req.Flair,
		Token:    req.Token,
		Avatar:   DefaultAvatar,
	}

	if current, ok := e.sessions.Lookup(connID); ok && current != req.Circle {
		if room, exists := e.rooms.Get(req.Circle); exists {
			if _, err := room.check(member); err != nil {
				return JoinResult{}, e.reject(connID, req.Circle, err)
			}
		}
		_, _ = e.Leave(connID)
	}

	room := e.rooms.GetOrCreate(req.Circle)
	evicted, err := room.Join(member)
	if err != nil {
		// A rejected join must not leave behind a room created for it.
		e.rooms.RemoveIfEmpty(req.Circle)
		return JoinResult{}, e.reject(connID, req.Circle, err)
	}
	for _, stale := range evicted {
		e.sessions.Unbind(stale.ConnID)
	}
	e.sessions.Bind(connID, req.Circle)

	result := JoinResult{
		History: room.History(),
		Members: room.Members(),
		Evicted: evicted,
	}

	e.router.SendToConnection(connID, &Event{
		Kind:     EventMessageHistory,
		Circle:   req.Circle,
		Messages: result.History,
	})
	e.router.SendToRoomExcept(req.Circle, connID, &Event{
		Kind:   EventSystemMessage,
		Circle: req.Circle,
		Notice: joinedNotice(member.Nickname),
	})
	e.router.SendToRoom(req.Circle, &Event{
		Kind:    EventUserList,
		Circle:  req.Circle,
		Members: result.Members,
	})

	return result, nil
}

func (e *Engine) reject(connID, circle string, err error) error {
	var cerr *CoreError
	if !errors.As(err, &cerr) {
		return err
	}
	e.router.SendToConnection(connID, &Event{
		Kind:   EventNicknameError,
		Circle: circle,
		Error:  cerr,
	})
	return cerr
}

// Post appends text to the history of the circle connID is joined to and
// broadcasts it to every member, sender included. Posts from connections
// that are not joined are dropped with ErrNotInCircle.
func (e *Engine) Post(connID, text, style string) (Message, error) {
	circle, ok := e.sessions.Lookup(connID)
	if !ok {
		return Message{}, ErrNotInCircle
	}
	room, ok := e.rooms.Get(circle)
	if !ok {
		return Message{}, ErrNotInCircle
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrBadRequest
	}

	msg, ok := room.Post(connID, text, style, e.now())
	if !ok {
		return Message{}, ErrNotInCircle
	}

	e.router.SendToRoom(circle, &Event{
		Kind:    EventMessage,
		Circle:  circle,
		Message: msg,
	})
	return msg, nil
}

// Leave removes connID from its circle. The circle is dropped when it
// becomes empty; otherwise remaining members get a notice and a fresh user
// list. Leaving twice is a no-op that returns ErrNotInCircle.
func (e *Engine) Leave(connID string) (Member, error) {
	circle, ok := e.sessions.Lookup(connID)
	if !ok {
		return Member{}, ErrNotInCircle
	}
	e.sessions.Unbind(connID)

	room, ok := e.rooms.Get(circle)
	if !ok {
		return Member{}, ErrNotInCircle
	}
	member, ok := room.Leave(connID)
	if !ok {
		return Member{}, ErrNotInCircle
	}

	if e.rooms.RemoveIfEmpty(circle) {
		return member, nil
	}

	e.router.SendToRoom(circle, &Event{
		Kind:   EventSystemMessage,
		Circle: circle,
		Notice: leftNotice(member.Nickname),
	})
	e.router.SendToRoom(circle, &Event{
		Kind:    EventUserList,
		Circle:  circle,
		Members: room.Members(),
	})
	return member, nil
}

// Room returns the live circle with the given id.
func (e *Engine) Room(circle string) (*Room, bool) {
	return e.rooms.Get(circle)
}

// CircleOf returns the circle connID is joined to.
func (e *Engine) CircleOf(connID string) (string, bool) {
	return e.sessions.Lookup(connID)
}

// Circles lists live circles sorted by id.
func (e *Engine) Circles() []CircleInfo {
	return e.rooms.Circles()
}

// Stats returns the number of live circles and joined members.
func (e *Engine) Stats() (circles, members int) {
	for _, room := range e.rooms.rooms {
		members += room.Len()
	}
	return e.rooms.Len(), members
}
