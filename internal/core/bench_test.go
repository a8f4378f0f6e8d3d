package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkCircleBroadcast(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	buffer := 4*recipients + 16
	sender := NewClient("sender", buffer)
	hub.RegisterClient(sender)
	sender.Commands <- &Command{Kind: CommandJoinCircle, Join: join("bench", "sender", "s")}

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient(fmt.Sprintf("c%d", i), buffer)
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoinCircle, Join: join("bench", fmt.Sprintf("user%d", i), "t")}
		clients = append(clients, c)
	}

	// Drain events for everyone but the first recipient to avoid backpressure.
	go func() {
		for range sender.Events {
		}
	}()
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}

	target := clients[0]
	for ev := range target.Events {
		if ev.Kind == EventUserList && len(ev.Members) == recipients+1 {
			break
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Commands <- &Command{Kind: CommandPostMessage, Text: "payload"}
		for ev := range target.Events {
			if ev.Kind == EventMessage {
				break
			}
		}
	}
}

func BenchmarkCircleBroadcast_10(b *testing.B)  { benchmarkCircleBroadcast(b, 10) }
func BenchmarkCircleBroadcast_100(b *testing.B) { benchmarkCircleBroadcast(b, 100) }
func BenchmarkCircleBroadcast_500(b *testing.B) { benchmarkCircleBroadcast(b, 500) }
