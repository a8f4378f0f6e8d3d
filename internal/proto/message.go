package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeNewUser     = "newUser"
	InboundTypeChatMessage = "chatMessage"
	InboundTypeLeave       = "leave"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameNicknameError  = "nicknameError"
	EventNameMessageHistory = "messageHistory"
	EventNameSystemMessage  = "systemMessage"
	EventNameUserList       = "userList"
	EventNameMessage        = "message"

	ErrCodeInvalidMessage = "invalid_message"
)

// NewUserData asks to join a circle under a nickname.
type NewUserData struct {
	Nickname    string `json:"nickname"`
	Flair       string `json:"flair"`
	ClientToken string `json:"clientToken"`
	Circle      string `json:"circle"`
}

// ChatMessageData is a chat message from the client.
type ChatMessageData struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is a chat message as delivered to clients.
type EventMessage struct {
	Username  string    `json:"username"`
	Flair     string    `json:"flair"`
	Avatar    string    `json:"avatar"`
	Text      string    `json:"text"`
	Style     string    `json:"style"`
	Timestamp time.Time `json:"timestamp"`
}

// EventUser is one entry of a userList event.
type EventUser struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Flair    string `json:"flair"`
	Avatar   string `json:"avatar"`
}

// EventNicknameError rejects a join.
type EventNicknameError struct {
	Message string `json:"message"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
