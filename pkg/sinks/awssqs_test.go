package sinks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestAWSSQSSinkSendSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &awsSQSSink{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := sink.Send(context.Background(), Alert{
		QueryID: "query-1",
		Finding: domain.Finding{ID: "leak:1"},
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["query_id"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "query-1" {
		t.Fatalf("query_id attribute missing or wrong: %#v", attr)
	}
	if attr.DataType == nil || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if client.input.MessageBody == nil || !strings.Contains(aws.ToString(client.input.MessageBody), `"query_id":"query-1"`) {
		t.Fatalf("MessageBody missing query_id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestAWSSQSSinkSendError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	sink := &awsSQSSink{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := sink.Send(context.Background(), Alert{
		QueryID: "query-1",
		Finding: domain.Finding{ID: "leak:1"},
	})
	if err == nil {
		t.Fatalf("expected error from Send")
	}
}
