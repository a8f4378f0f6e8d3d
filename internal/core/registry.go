package core

import "sort"

// CircleInfo is a read-only summary of a live circle.
type CircleInfo struct {
	ID       string
	Members  int
	Messages int
}

// Registry maps circle ids to rooms. A circle is present iff it has members.
type Registry struct {
	rooms      map[string]*Room
	maxHistory int
}

// NewRegistry creates an empty registry whose rooms keep maxHistory messages.
func NewRegistry(maxHistory int) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		maxHistory: maxHistory,
	}
}

// GetOrCreate returns the room for id, creating an empty one if absent.
func (g *Registry) GetOrCreate(id string) *Room {
	room, ok := g.rooms[id]
	if !ok {
		room = NewRoom(id, g.maxHistory)
		g.rooms[id] = room
	}
	return room
}

// Get looks up a room without creating it.
func (g *Registry) Get(id string) (*Room, bool) {
	room, ok := g.rooms[id]
	return room, ok
}

// RemoveIfEmpty drops the room for id when it has no members.
// Reports whether an entry was removed.
func (g *Registry) RemoveIfEmpty(id string) bool {
	room, ok := g.rooms[id]
	if !ok || !room.Empty() {
		return false
	}
	delete(g.rooms, id)
	return true
}

// Len returns the number of live circles.
func (g *Registry) Len() int {
	return len(g.rooms)
}

// Circles lists live circles sorted by id.
func (g *Registry) Circles() []CircleInfo {
	out := make([]CircleInfo, 0, len(g.rooms))
	for id, room := range g.rooms {
		out = append(out, CircleInfo{ID: id, Members: room.Len(), Messages: len(room.history)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
