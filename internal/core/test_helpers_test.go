package core

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

type delivery struct {
	connID string
	event  *Event
}

// recordingTransport captures every event the engine dispatches.
type recordingTransport struct {
	sent []delivery
}

func (r *recordingTransport) Send(connID string, ev *Event) {
	r.sent = append(r.sent, delivery{connID: connID, event: ev})
}

func (r *recordingTransport) eventsFor(connID string) []*Event {
	var out []*Event
	for _, d := range r.sent {
		if d.connID == connID {
			out = append(out, d.event)
		}
	}
	return out
}

func (r *recordingTransport) kindsFor(connID string) []EventKind {
	var out []EventKind
	for _, ev := range r.eventsFor(connID) {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recordingTransport) reset() {
	r.sent = nil
}

func join(circle, nickname, token string) JoinRequest {
	return JoinRequest{Circle: circle, Nickname: nickname, Flair: "✨", Token: token}
}

func nicknames(members []Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Nickname)
	}
	return out
}
