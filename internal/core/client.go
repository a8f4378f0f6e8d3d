package core

// DefaultClientBuffer is the default capacity of a client's channels.
const DefaultClientBuffer = 64

// Client is a connection as seen by the core layer.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
	done     chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
	}
}

// Done is closed once the hub has released the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
