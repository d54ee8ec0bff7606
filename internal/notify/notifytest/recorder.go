// Package notifytest provides an in-memory notify.Sink for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/jmylchreest/hyprkit/internal/notify"
)

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	sent  []notify.Notification
	reply string
	err   error
}

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Reply sets the action key returned by Ask.
func (r *Recorder) Reply(key string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reply = key
	return r
}

// FailWith makes every call return err.
func (r *Recorder) FailWith(err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return r
}

// Send implements notify.Sink.
func (r *Recorder) Send(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

// Ask implements notify.Sink.
func (r *Recorder) Ask(_ context.Context, n notify.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

// Sent returns a copy of the recorded notifications.
func (r *Recorder) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return notify.Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Len returns the number of recorded notifications.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}
