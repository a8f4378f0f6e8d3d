package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecording(t *testing.T) {
	m := New()

	m.ObserveCircles(3, 7)
	m.MessagePosted()
	m.MessagePosted()
	m.JoinRejected()

	if got := testutil.ToFloat64(m.circles); got != 3 {
		t.Fatalf("circles = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.members); got != 7 {
		t.Fatalf("members = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.messages); got != 2 {
		t.Fatalf("messages = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.rejected); got != 1 {
		t.Fatalf("rejected = %v, want 1", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.ObserveCircles(1, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"wirecircle_circles 1", "wirecircle_members 2", "wirecircle_messages_total 0"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
