// Package natsutil provides typed JSON publish/subscribe over NATS with
// OpenTelemetry trace propagation through message headers.
package natsutil

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// headerCarrier adapts nats.Header to the OTel TextMapCarrier interface.
type headerCarrier nats.Header

func (c headerCarrier) Get(key string) string { return nats.Header(c).Get(key) }
func (c headerCarrier) Set(key, val string)   { nats.Header(c).Set(key, val) }

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Publish marshals v as JSON and publishes it on subject, injecting the
// trace context from ctx into the message headers.
func Publish[T any](ctx context.Context, nc *nats.Conn, subject string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: subject, Data: data, Header: make(nats.Header)}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(msg.Header))
	return nc.PublishMsg(msg)
}

// Subscribe registers a handler for JSON messages of type T on subject. The
// trace context is restored from the message headers. Messages that fail to
// decode are logged and dropped.
func Subscribe[T any](nc *nats.Conn, subject string, handler func(context.Context, T)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		dispatch(msg, handler)
	})
}

func dispatch[T any](msg *nats.Msg, handler func(context.Context, T)) {
	var v T
	if err := json.Unmarshal(msg.Data, &v); err != nil {
		slog.Warn("dropping undecodable message", "subject", msg.Subject, "err", err)
		return
	}
	ctx := context.Background()
	if msg.Header != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, headerCarrier(msg.Header))
	}
	handler(ctx, v)
}
