package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirecircle/internal/proto"
)

type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	nickname := flag.String("nick", "cli-user", "nickname")
	flair := flag.String("flair", "", "flair shown next to the nickname")
	circle := flag.String("circle", "general", "circle to join")
	token := flag.String("token", "", "client token, reuse it to reclaim the nickname after a reconnect")
	flag.Parse()

	if *token == "" {
		*token = fmt.Sprintf("cli-%d", os.Getpid())
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, proto.InboundTypeNewUser, proto.NewUserData{
		Nickname:    *nickname,
		Flair:       *flair,
		ClientToken: *token,
		Circle:      *circle,
	}); err != nil {
		return err
	}

	fmt.Printf("Connected to %s as %s in circle %s\n", *addr, *nickname, *circle)
	fmt.Println("Type messages and press Enter to send. /leave leaves the circle. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var in frame
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if in.Type == proto.OutboundTypeError && in.Error != nil {
			fmt.Printf("! %s: %s\n", in.Error.Code, in.Error.Msg)
			continue
		}

		switch in.Event {
		case proto.EventNameMessage:
			var msg proto.EventMessage
			if decode(in, &msg) {
				printMessage(msg)
			}
		case proto.EventNameMessageHistory:
			var history []proto.EventMessage
			if decode(in, &history) {
				for _, msg := range history {
					printMessage(msg)
				}
			}
		case proto.EventNameSystemMessage:
			var notice string
			if decode(in, &notice) {
				fmt.Printf("* %s\n", notice)
			}
		case proto.EventNameUserList:
			var users []proto.EventUser
			if decode(in, &users) {
				names := make([]string, 0, len(users))
				for _, u := range users {
					names = append(names, u.Avatar+" "+u.Nickname)
				}
				fmt.Printf("* online: %s\n", strings.Join(names, ", "))
			}
		case proto.EventNameNicknameError:
			var nickErr proto.EventNicknameError
			if decode(in, &nickErr) {
				fmt.Printf("! %s\n", nickErr.Message)
			}
		default:
			fmt.Printf("event=%s data=%s\n", in.Event, in.Data)
		}
	}
}

func decode(in frame, v any) bool {
	if err := json.Unmarshal(in.Data, v); err != nil {
		log.Printf("unmarshal %s: %v", in.Event, err)
		return false
	}
	return true
}

func printMessage(msg proto.EventMessage) {
	name := msg.Username
	if msg.Flair != "" {
		name += " " + msg.Flair
	}
	fmt.Printf("[%s] %s %s: %s\n", msg.Timestamp.Local().Format("15:04:05"), msg.Avatar, name, msg.Text)
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			var err error
			if text == "/leave" {
				err = send(ctx, conn, proto.InboundTypeLeave, struct{}{})
			} else {
				err = send(ctx, conn, proto.InboundTypeChatMessage, proto.ChatMessageData{Text: text})
			}
			if err != nil {
				log.Printf("%v", err)
				return
			}
		}
	}
}
