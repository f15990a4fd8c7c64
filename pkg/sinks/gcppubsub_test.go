package sinks

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
)

func TestGCPPubSubSinkPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	defer os.Unsetenv("PUBSUB_EMULATOR_HOST")
	os.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if _, err := client.CreateTopic(ctx, "leak-alerts"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	sink, err := newGCPPubSubSink(ctx, SinkConfig{
		ID:   "stream",
		Type: TypePubSub,
		PubSub: &PubSubSinkConfig{
			ProjectID: "test-project",
			Topic:     "leak-alerts",
		},
	}, nil)
	if err != nil {
		t.Fatalf("newGCPPubSubSink: %v", err)
	}

	err = sink.Send(ctx, Alert{
		QueryID: "query-1",
		Finding: domain.Finding{ID: "leak:1"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
}
