package workerproc

import (
	"context"
	"errors"
	"testing"

	"portfolio-pulse/internal/ingest"
	"portfolio-pulse/internal/queue"
)

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) RunBatch(ctx context.Context) (ingest.BatchResponse, error) {
	f.calls++
	if f.err != nil {
		return ingest.BatchResponse{}, f.err
	}
	return ingest.BatchResponse{Message: ingest.ProcessedMessage, ProjectsProcessed: 2}, nil
}

func body(t *testing.T, msg queue.Message) string {
	t.Helper()
	b, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(b)
}

func TestParseMessageErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want func(error) bool
	}{
		{"empty", "  ", func(err error) bool { var e ErrEmptyBody; return errors.As(err, &e) }},
		{"garbage", "{oops", func(err error) bool { var e ErrDecode; return errors.As(err, &e) }},
		{"missing id", `{"requestId":"r-1"}`, func(err error) bool {
			var e ErrMissingJobID
			return errors.As(err, &e) && e.RequestID == "r-1"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseMessage(tc.body)
			if err == nil || !tc.want(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Unrecoverable(err) {
				t.Fatalf("expected unrecoverable: %v", err)
			}
		})
	}
}

func TestHandleMessageRunsBatch(t *testing.T) {
	runner := &fakeRunner{}
	if err := HandleMessage(context.Background(), runner, body(t, queue.Message{JobID: "job-1"})); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one batch, got %d", runner.calls)
	}
}

func TestHandleMessageUsesParsedMessage(t *testing.T) {
	runner := &fakeRunner{}
	ctx := WithParsedMessage(context.Background(), queue.Message{JobID: "job-ctx"})
	if err := HandleMessage(ctx, runner, ""); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one batch, got %d", runner.calls)
	}
}

func TestHandleMessageNoFilesIsNotFailure(t *testing.T) {
	runner := &fakeRunner{err: ingest.ErrNoSourceFiles}
	if err := HandleMessage(context.Background(), runner, body(t, queue.Message{JobID: "job-2"})); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	boom := errors.New("store down")
	runner := &fakeRunner{err: boom}
	err := HandleMessage(context.Background(), runner, body(t, queue.Message{JobID: "job-3", RequestID: "r-3"}))
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.JobID != "job-3" || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %+v", procErr)
	}
	if Unrecoverable(err) {
		t.Fatalf("process errors should be retried")
	}
}
