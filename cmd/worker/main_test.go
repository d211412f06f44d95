package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"portfolio-pulse/internal/ingest"
	"portfolio-pulse/internal/queue"
	"portfolio-pulse/internal/shared/telemetry"
)

type fakeSQS struct {
	deleted  []string
	messages []sqstypes.Message
	cancel   context.CancelFunc
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if len(f.messages) == 0 {
		if f.cancel != nil {
			f.cancel()
		}
		return nil, context.Canceled
	}
	out := &sqs.ReceiveMessageOutput{Messages: f.messages}
	f.messages = nil
	return out, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeRunner struct {
	err   error
	calls int
}

func (f *fakeRunner) RunBatch(ctx context.Context) (ingest.BatchResponse, error) {
	f.calls++
	return ingest.BatchResponse{Message: ingest.ProcessedMessage}, f.err
}

func quiet(t *testing.T) {
	t.Helper()
	telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { telemetry.Configure(os.Stdout, "info") })
}

func jobMessage(t *testing.T, id, receipt string) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeMessage(queue.NewJob("req-"+id, time.Now()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	quiet(t)
	client := &fakeSQS{}
	runner := &fakeRunner{}

	handleMessage(context.Background(), client, "queue", runner, jobMessage(t, "m1", "r1"))

	if len(client.deleted) != 1 || runner.calls != 1 {
		t.Fatalf("expected one run and one delete, got %d runs %d deletes", runner.calls, len(client.deleted))
	}
}

func TestWorkerDeletesWhenNothingToIngest(t *testing.T) {
	quiet(t)
	client := &fakeSQS{}
	runner := &fakeRunner{err: ingest.ErrNoSourceFiles}

	handleMessage(context.Background(), client, "queue", runner, jobMessage(t, "m1", "r1"))

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	quiet(t)
	client := &fakeSQS{}
	runner := &fakeRunner{err: errors.New("boom")}

	handleMessage(context.Background(), client, "queue", runner, jobMessage(t, "m2", "r2"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesUnrecoverable(t *testing.T) {
	quiet(t)
	cases := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{bad-json"},
		{name: "empty", body: "  "},
		{name: "missing job id", body: `{"requestId":"req-3"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeSQS{}
			runner := &fakeRunner{}
			msg := sqstypes.Message{
				MessageId:     aws.String("m3"),
				ReceiptHandle: aws.String("r3"),
				Body:          aws.String(tc.body),
			}

			handleMessage(context.Background(), client, "queue", runner, msg)

			if len(client.deleted) != 1 || runner.calls != 0 {
				t.Fatalf("expected delete without run, got %d deletes %d runs", len(client.deleted), runner.calls)
			}
		})
	}
}

func TestWorkerSkipsDeleteWithoutReceipt(t *testing.T) {
	quiet(t)
	client := &fakeSQS{}
	msg := jobMessage(t, "m4", "")

	handleMessage(context.Background(), client, "queue", &fakeRunner{}, msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestRunDrainsReceivedMessages(t *testing.T) {
	quiet(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &fakeSQS{
		messages: []sqstypes.Message{jobMessage(t, "a", "ra"), jobMessage(t, "b", "rb")},
		cancel:   cancel,
	}
	runner := &fakeRunner{}

	run(ctx, client, "queue", runner, 1, 30, time.Second)

	if runner.calls != 2 || len(client.deleted) != 2 {
		t.Fatalf("expected both jobs processed, got %d runs %d deletes", runner.calls, len(client.deleted))
	}
}

func TestReceiveCount(t *testing.T) {
	cases := map[string]int{"": 0, "3": 3, "x": 0}
	for raw, want := range cases {
		msg := sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": raw}}
		if got := receiveCount(msg); got != want {
			t.Fatalf("receiveCount(%q) = %d, want %d", raw, got, want)
		}
	}
}
