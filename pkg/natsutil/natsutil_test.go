package natsutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/nats-io/nats.go"
)

type payload struct {
	Name string `json:"name"`
}

func TestDispatchDecodesAndCalls(t *testing.T) {
	msg := &nats.Msg{Subject: "jobs", Data: []byte(`{"name":"civic"}`)}

	var got payload
	dispatch(msg, func(_ context.Context, p payload) { got = p })
	if got.Name != "civic" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDispatchLogsAndDropsMalformed(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	msg := &nats.Msg{Subject: "jobs", Data: []byte("not json")}
	called := false
	dispatch(msg, func(context.Context, payload) { called = true })

	if called {
		t.Fatal("malformed message must not reach the handler")
	}
	if !strings.Contains(buf.String(), "dropping undecodable message") {
		t.Fatalf("expected a drop log, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "subject=jobs") {
		t.Fatalf("expected subject in drop log, got: %s", buf.String())
	}
}

func TestHeaderCarrierRoundTrip(t *testing.T) {
	h := make(nats.Header)
	c := headerCarrier(h)
	c.Set("traceparent", "00-abc-def-01")

	if got := c.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("unexpected value: %q", got)
	}
	if keys := c.Keys(); len(keys) != 1 || keys[0] != "Traceparent" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
