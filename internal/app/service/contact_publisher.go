package service

import (
	"encoding/json"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/nats-io/nats.go"
)

// ContactPublisher publishes contact events to NATS JetStream.
type ContactPublisher struct {
	js nats.JetStreamContext
}

// NewContactPublisher creates a new contact event publisher.
func NewContactPublisher(js nats.JetStreamContext) *ContactPublisher {
	return &ContactPublisher{js: js}
}

// Publish puts one contact event on the stream.
func (p *ContactPublisher) Publish(event model.ContactEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.ContactStreamSubject, data)
	return err
}
