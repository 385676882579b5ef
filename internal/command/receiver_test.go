package command

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestReceiverHandle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	q := NewQueue()
	wakes := 0
	r := NewReceiver(DefaultEndpoint, q, func() { wakes++ }, logger)

	r.Handle([]byte(`{"type":"layout","layout":"fit4k"}`))
	r.Handle([]byte(`{"type":"layout"}`))
	r.Handle([]byte(`not json`))

	if q.Len() != 1 {
		t.Fatalf("expected 1 queued command, got %d", q.Len())
	}
	if wakes != 1 {
		t.Fatalf("expected 1 wake, got %d", wakes)
	}
	if !strings.Contains(buf.String(), "dropping control message") {
		t.Fatalf("expected drop to be logged, got:\n%s", buf.String())
	}
}
