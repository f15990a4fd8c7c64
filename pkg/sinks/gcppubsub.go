package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// gcpPubSubSink implements the Sink interface for Google Cloud Pub/Sub.
type gcpPubSubSink struct {
	id     string
	typ    string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

// newGCPPubSubSink creates a new Pub/Sub sink with the given configuration.
// The client also honors PUBSUB_EMULATOR_HOST for local development.
func newGCPPubSubSink(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("sink %q missing pubsub configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubSink{
		id:     cfg.ID,
		typ:    TypePubSub,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    ensureLogger(log),
	}, nil
}

func (s *gcpPubSubSink) ID() string   { return s.id }
func (s *gcpPubSubSink) Type() string { return s.typ }

// Send publishes the alert to the configured Pub/Sub topic and waits for
// the server acknowledgement.
func (s *gcpPubSubSink) Send(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	result := s.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"query_id": alert.QueryID},
	})
	if _, err := result.Get(ctx); err != nil {
		s.log.ErrorObj("pubsub sink send failed", "sink_pubsub_error", map[string]any{
			"sink_id": s.id,
			"error":   err.Error(),
		})
		return fmt.Errorf("publish message to pubsub: %w", err)
	}
	s.log.DebugObj("pubsub sink delivered alert", "sink_pubsub_delivery", map[string]any{
		"sink_id": s.id,
	})
	return nil
}
