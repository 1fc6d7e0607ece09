package events

import (
	"context"
	"sync"
)

// Recorder is an in-memory Publisher for tests: it captures every emitted
// event and can be told to fail, standing in for an unreachable broker.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
	fail   error
}

type Recorded struct {
	Topic   string
	Key     string
	Payload any
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Emit(_ context.Context, topic, key string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return &PublishError{Topic: topic, Err: r.fail}
	}
	r.events = append(r.events, Recorded{Topic: topic, Key: key, Payload: payload})
	return nil
}

// FailWith makes every subsequent Emit return a PublishError wrapping err.
// Pass nil to restore normal recording.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) ByTopic(topic string) []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Recorded
	for _, e := range r.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}
