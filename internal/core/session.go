package core

// Sessions binds a connection to the circle it currently belongs to.
type Sessions struct {
	bound map[string]string
}

// NewSessions creates an empty binding table.
func NewSessions() *Sessions {
	return &Sessions{bound: make(map[string]string)}
}

// Bind records that connID is joined to circle, replacing any previous binding.
func (s *Sessions) Bind(connID, circle string) {
	s.bound[connID] = circle
}

// Lookup returns the circle connID is joined to.
func (s *Sessions) Lookup(connID string) (string, bool) {
	circle, ok := s.bound[connID]
	return circle, ok
}

// Unbind forgets connID. Safe to call for unbound connections.
func (s *Sessions) Unbind(connID string) {
	delete(s.bound, connID)
}

// Len returns the number of bound connections.
func (s *Sessions) Len() int {
	return len(s.bound)
}
