// Package mailtest provides an in-memory Mailer for tests.
package mailtest

import (
	"context"
	"sync"

	"github.com/anonto42/microblog/pkg/mail"
)

// Recorder keeps every message it is asked to send.
type Recorder struct {
	mu       sync.Mutex
	messages []mail.Message
	Err      error
}

func (r *Recorder) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *Recorder) Messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.messages...)
}
