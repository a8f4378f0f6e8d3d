package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinCircle enters a circle under a nickname.
	CommandJoinCircle CommandKind = iota
	// CommandPostMessage sends a chat message to the joined circle.
	CommandPostMessage
	// CommandLeaveCircle leaves the joined circle.
	CommandLeaveCircle
)

func (k CommandKind) String() string {
	switch k {
	case CommandJoinCircle:
		return "join"
	case CommandPostMessage:
		return "post"
	case CommandLeaveCircle:
		return "leave"
	default:
		return "unknown"
	}
}

// Command represents an action requested by a client.
type Command struct {
	Kind  CommandKind
	Join  JoinRequest
	Text  string
	Style string
}
