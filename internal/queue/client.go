package queue

import "context"

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Recorder keeps sent messages in memory. It is used in dev and tests.
type Recorder struct {
	Sent []Message
	Err  error
}

func (r *Recorder) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, msg)
	return nil
}

var _ Client = (*Recorder)(nil)
