package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T, opts ...Option) (*Hub, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	hub := NewHub(nil, nil, opts...)
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHubJoinBroadcastAndLeave(t *testing.T) {
	hub, _ := startHub(t)

	alice := NewClient("a", 0)
	bob := NewClient("b", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinCircle, Join: join("general", "alice", "t1")}
	mustEvent(t, alice.Events, EventUserList)

	bob.Commands <- &Command{Kind: CommandJoinCircle, Join: join("general", "bob", "t2")}
	history := mustEvent(t, bob.Events, EventMessageHistory)
	if len(history.Messages) != 0 {
		t.Fatalf("unexpected history: %+v", history.Messages)
	}

	notice := mustEvent(t, alice.Events, EventSystemMessage)
	if notice.Notice != "bob has joined the circle." {
		t.Fatalf("unexpected notice: %q", notice.Notice)
	}

	alice.Commands <- &Command{Kind: CommandPostMessage, Text: "hi", Style: "normal"}
	msgEv := mustEvent(t, bob.Events, EventMessage)
	if msgEv.Message.Text != "hi" || msgEv.Message.From != "alice" || msgEv.Circle != "general" {
		t.Fatalf("unexpected message event: %+v", msgEv)
	}

	alice.Commands <- &Command{Kind: CommandLeaveCircle}
	leftEv := mustEvent(t, bob.Events, EventSystemMessage)
	for leftEv.Notice != "alice has left the circle." {
		leftEv = mustEvent(t, bob.Events, EventSystemMessage)
	}
	list := mustEvent(t, bob.Events, EventUserList)
	if len(list.Members) != 1 || list.Members[0].Nickname != "bob" {
		t.Fatalf("unexpected user list: %+v", list.Members)
	}
}

func TestHubNicknameTaken(t *testing.T) {
	hub, _ := startHub(t)

	x := NewClient("x", 0)
	y := NewClient("y", 0)
	hub.RegisterClient(x)
	hub.RegisterClient(y)

	x.Commands <- &Command{Kind: CommandJoinCircle, Join: join("r1", "alice", "t1")}
	mustEvent(t, x.Events, EventUserList)

	y.Commands <- &Command{Kind: CommandJoinCircle, Join: join("r1", "alice", "t2")}
	ev := mustEvent(t, y.Events, EventNicknameError)
	if ev.Error == nil || ev.Error.Code != ErrCodeNicknameTaken {
		t.Fatalf("expected nickname_taken error, got %+v", ev)
	}

	circles, err := hub.Circles(context.Background())
	if err != nil {
		t.Fatalf("circles: %v", err)
	}
	if len(circles) != 1 || circles[0].Members != 1 {
		t.Fatalf("unexpected circles: %+v", circles)
	}
}

func TestHubDisconnectRemovesCircle(t *testing.T) {
	hub, _ := startHub(t)

	x := NewClient("x", 0)
	y := NewClient("y", 0)
	hub.RegisterClient(x)
	hub.RegisterClient(y)

	x.Commands <- &Command{Kind: CommandJoinCircle, Join: join("r1", "alice", "t1")}
	mustEvent(t, x.Events, EventUserList)
	y.Commands <- &Command{Kind: CommandJoinCircle, Join: join("r1", "bob", "t2")}
	mustEvent(t, y.Events, EventMessageHistory)

	hub.UnregisterClient(y)
	notice := mustEvent(t, x.Events, EventSystemMessage)
	for notice.Notice != "bob has left the circle." {
		notice = mustEvent(t, x.Events, EventSystemMessage)
	}

	select {
	case <-y.Done():
	case <-time.After(time.Second):
		t.Fatal("unregistered client not released")
	}

	hub.UnregisterClient(x)
	// The query is served after the unregister, so the circle must be gone.
	circles, err := hub.Circles(context.Background())
	if err != nil {
		t.Fatalf("circles: %v", err)
	}
	if len(circles) != 0 {
		t.Fatalf("circle still registered: %+v", circles)
	}
}

func TestHubIgnoresCommandsAfterUnregister(t *testing.T) {
	hub, _ := startHub(t)

	x := NewClient("x", 0)
	hub.RegisterClient(x)
	hub.UnregisterClient(x)

	// Nothing reads these anymore; the hub must not resurrect the client.
	x.Commands <- &Command{Kind: CommandJoinCircle, Join: join("r1", "alice", "t1")}

	circles, err := hub.Circles(context.Background())
	if err != nil {
		t.Fatalf("circles: %v", err)
	}
	if len(circles) != 0 {
		t.Fatalf("unexpected circles: %+v", circles)
	}
}

func TestHubStopReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	x := NewClient("x", 0)
	if err := hub.RegisterClient(x); err != nil {
		t.Fatalf("register: %v", err)
	}
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	select {
	case <-x.Done():
	case <-time.After(time.Second):
		t.Fatal("client not released on stop")
	}

	if _, err := hub.Circles(context.Background()); err != ErrHubStopped {
		t.Fatalf("expected ErrHubStopped, got %v", err)
	}
	if err := hub.RegisterClient(NewClient("late", 0)); err != ErrHubStopped {
		t.Fatalf("late register = %v, want ErrHubStopped", err)
	}
	// Must not block once the hub is gone.
	hub.UnregisterClient(x)
}

type countingRecorder struct {
	posted   chan struct{}
	rejected chan struct{}
}

func (r *countingRecorder) ObserveCircles(int, int) {}
func (r *countingRecorder) MessagePosted()          { r.posted <- struct{}{} }
func (r *countingRecorder) JoinRejected()           { r.rejected <- struct{}{} }

func TestHubRecordsMetrics(t *testing.T) {
	rec := &countingRecorder{posted: make(chan struct{}, 4), rejected: make(chan struct{}, 4)}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	hub := NewHub(nil, rec)
	go hub.Run(ctx)

	x := NewClient("x", 0)
	y := NewClient("y", 0)
	hub.RegisterClient(x)
	hub.RegisterClient(y)

	x.Commands <- &Command{Kind: CommandJoinCircle, Join: join("r1", "alice", "t1")}
	x.Commands <- &Command{Kind: CommandPostMessage, Text: "hi"}
	mustEvent(t, x.Events, EventMessage)
	y.Commands <- &Command{Kind: CommandJoinCircle, Join: join("r1", "alice", "t2")}
	mustEvent(t, y.Events, EventNicknameError)

	for name, ch := range map[string]chan struct{}{"posted": rec.posted, "rejected": rec.rejected} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("%s not recorded", name)
		}
	}
}
