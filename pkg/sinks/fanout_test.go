package sinks

import (
	"context"
	"errors"
	"testing"
)

type stubSink struct {
	id    string
	typ   string
	err   error
	calls int
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return s.typ }
func (s *stubSink) Send(context.Context, Alert) error {
	s.calls++
	return s.err
}

func TestFanoutSendAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Sink{
		&stubSink{id: "ok", typ: "http"},
		&stubSink{id: "bad", typ: "http", err: errors.New("failed")},
	})

	count, err := fanout.Send(context.Background(), Alert{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutSkipsNilSinks(t *testing.T) {
	fanout := NewFanout([]Sink{nil, &stubSink{id: "ok", typ: "http"}})
	if fanout.Size() != 1 {
		t.Fatalf("expected nil sinks to be dropped, size=%d", fanout.Size())
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	built, err := BuildAll(context.Background(), reg, []SinkConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPSinkConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(built) != 1 {
		t.Fatalf("expected 1 sink, got %d", len(built))
	}
	if built[0].Type() != TypeHTTP || built[0].ID() != "hook" {
		t.Fatalf("unexpected sink: %s/%s", built[0].Type(), built[0].ID())
	}
}

func TestBuildAllFailsOnUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	_, err := BuildAll(context.Background(), reg, []SinkConfig{
		{ID: "x", Type: "carrier-pigeon"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered sink type")
	}
}
