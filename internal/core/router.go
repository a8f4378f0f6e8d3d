package core

// Transport delivers a single event to a single connection.
// Implementations must not block the caller and must swallow delivery
// failures; the engine never learns whether an event arrived.
type Transport interface {
	Send(connID string, event *Event)
}

// Router addresses events to connections, whole circles, or circles minus
// one connection. It holds no state of its own.
type Router struct {
	rooms     *Registry
	transport Transport
}

// NewRouter builds a router resolving circle membership through rooms.
func NewRouter(rooms *Registry, transport Transport) *Router {
	return &Router{rooms: rooms, transport: transport}
}

// SendToConnection delivers event to connID only.
func (r *Router) SendToConnection(connID string, event *Event) {
	r.transport.Send(connID, event)
}

// SendToRoom delivers event to every member of circle.
func (r *Router) SendToRoom(circle string, event *Event) {
	r.SendToRoomExcept(circle, "", event)
}

// SendToRoomExcept delivers event to every member of circle but connID.
func (r *Router) SendToRoomExcept(circle, connID string, event *Event) {
	room, ok := r.rooms.Get(circle)
	if !ok {
		return
	}
	for _, id := range room.order {
		if id == connID {
			continue
		}
		r.transport.Send(id, event)
	}
}
