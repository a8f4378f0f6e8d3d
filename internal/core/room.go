package core

import "time"

// DefaultMaxHistory is how many messages a circle keeps for replay.
const DefaultMaxHistory = 50

// Room is a circle: its members and its recent history.
// Room is not safe for concurrent use; the Hub owns every Room.
type Room struct {
	ID         string
	members    map[string]Member
	order      []string
	history    []Message
	maxHistory int
}

// NewRoom constructs a circle with no members and empty history.
func NewRoom(id string, maxHistory int) *Room {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Room{
		ID:         id,
		members:    make(map[string]Member),
		maxHistory: maxHistory,
	}
}

// Join adds or replaces the member keyed by m.ConnID.
// It fails with ErrNicknameTaken when another member holds the nickname under
// a different or empty token. Members holding the same nickname and token
// under another connection are stale and get evicted; they are returned to the
// caller.
func (r *Room) Join(m Member) ([]Member, error) {
	stale, err := r.check(m)
	if err != nil {
		return nil, err
	}

	for _, s := range stale {
		r.remove(s.ConnID)
	}

	if _, exists := r.members[m.ConnID]; !exists {
		r.order = append(r.order, m.ConnID)
	}
	r.members[m.ConnID] = m
	return stale, nil
}

// check validates nickname uniqueness for m without mutating the room.
func (r *Room) check(m Member) ([]Member, error) {
	var stale []Member
	for _, id := range r.order {
		existing := r.members[id]
		if id == m.ConnID || existing.Nickname != m.Nickname {
			continue
		}
		if m.Token == "" || existing.Token != m.Token {
			return nil, nicknameTaken(m.Nickname)
		}
		stale = append(stale, existing)
	}
	return stale, nil
}

// Leave removes the member for connID. Returns false if it was not present.
func (r *Room) Leave(connID string) (Member, bool) {
	m, ok := r.members[connID]
	if !ok {
		return Member{}, false
	}
	r.remove(connID)
	return m, true
}

func (r *Room) remove(connID string) {
	delete(r.members, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Post appends a message authored by connID and returns it.
// The second result is false when connID is not a member.
func (r *Room) Post(connID, text, style string, at time.Time) (Message, bool) {
	m, ok := r.members[connID]
	if !ok {
		return Message{}, false
	}

	msg := Message{
		From:      m.Nickname,
		Flair:     m.Flair,
		Avatar:    m.Avatar,
		Text:      text,
		Style:     style,
		CreatedAt: at,
	}
	r.history = append(r.history, msg)
	if over := len(r.history) - r.maxHistory; over > 0 {
		r.history = r.history[over:]
	}
	return msg, true
}

// Member returns the member for connID.
func (r *Room) Member(connID string) (Member, bool) {
	m, ok := r.members[connID]
	return m, ok
}

// Members returns the member list in join order.
func (r *Room) Members() []Member {
	out := make([]Member, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.members[id])
	}
	return out
}

// History returns a copy of the retained messages, oldest first.
func (r *Room) History() []Message {
	return append([]Message(nil), r.history...)
}

// Len returns the number of members.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no members are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}
