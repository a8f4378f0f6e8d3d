package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage delivers a chat message to every member of a circle.
	EventMessage EventKind = iota
	// EventSystemMessage is a plain-text notice such as joins and leaves.
	EventSystemMessage
	// EventUserList carries the full member list of a circle.
	EventUserList
	// EventMessageHistory replays retained messages to a joining connection.
	EventMessageHistory
	// EventNicknameError rejects a join because the nickname is in use.
	EventNicknameError
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventSystemMessage:
		return "systemMessage"
	case EventUserList:
		return "userList"
	case EventMessageHistory:
		return "messageHistory"
	case EventNicknameError:
		return "nicknameError"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in a circle.
// Events are shared between recipients and must not be mutated after dispatch.
type Event struct {
	Kind     EventKind
	Circle   string
	Notice   string    // EventSystemMessage
	Message  Message   // EventMessage
	Messages []Message // EventMessageHistory
	Members  []Member  // EventUserList
	Error    *CoreError
}

func joinedNotice(nickname string) string {
	return nickname + " has joined the circle."
}

func leftNotice(nickname string) string {
	return nickname + " has left the circle."
}
