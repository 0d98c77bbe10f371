//go:build e2e

package e2e

import (
	"context"
	"sync"
)

type PublishedMessage struct {
	Topic string
	Key   string
	Value []byte
}

// RecordingPublisher stands in for Kafka.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
	fail     error
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(_ context.Context, topic, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.messages = append(p.messages, PublishedMessage{Topic: topic, Key: key, Value: value})
	return nil
}

func (p *RecordingPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

func (p *RecordingPublisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedMessage(nil), p.messages...)
}

func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = nil
	p.fail = nil
}
