package http

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/wirecircle/internal/core"
	"github.com/vovakirdan/wirecircle/internal/proto"
)

// inboundToCommand maps a client frame to a hub command. A nil command with a
// nil protocol error means the frame is malformed and should be dropped.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeNewUser:
		var data proto.NewUserData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		req := core.JoinRequest{
			Circle:   strings.TrimSpace(data.Circle),
			Nickname: strings.TrimSpace(data.Nickname),
			Flair:    data.Flair,
			Token:    strings.TrimSpace(data.ClientToken),
		}
		if req.Circle == "" || req.Nickname == "" || req.Token == "" {
			return nil, nil, nil
		}
		return &core.Command{Kind: core.CommandJoinCircle, Join: req}, nil, nil
	case proto.InboundTypeChatMessage:
		var data proto.ChatMessageData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:  core.CommandPostMessage,
			Text:  data.Text,
			Style: data.Style,
		}, nil, nil
	case proto.InboundTypeLeave:
		return &core.Command{Kind: core.CommandLeaveCircle}, nil, nil
	default:
		return nil, &proto.Error{Code: proto.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func unmarshalData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data:  messageToProto(event.Message),
		}
	case core.EventSystemMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameSystemMessage,
			Data:  event.Notice,
		}
	case core.EventUserList:
		users := make([]proto.EventUser, 0, len(event.Members))
		for _, m := range event.Members {
			users = append(users, proto.EventUser{
				ID:       m.ConnID,
				Nickname: m.Nickname,
				Flair:    m.Flair,
				Avatar:   m.Avatar,
			})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameUserList,
			Data:  users,
		}
	case core.EventMessageHistory:
		messages := make([]proto.EventMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageToProto(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessageHistory,
			Data:  messages,
		}
	case core.EventNicknameError:
		msg := "nickname is already in use"
		if event.Error != nil {
			msg = event.Error.Message
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameNicknameError,
			Data:  proto.EventNicknameError{Message: msg},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func messageToProto(msg core.Message) proto.EventMessage {
	return proto.EventMessage{
		Username:  msg.From,
		Flair:     msg.Flair,
		Avatar:    msg.Avatar,
		Text:      msg.Text,
		Style:     msg.Style,
		Timestamp: msg.CreatedAt,
	}
}
