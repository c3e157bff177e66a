package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julienvb/portfolio-api/internal/app/model"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NotificationMailer delivers the admin notification for one contact event.
type NotificationMailer interface {
	Enabled() bool
	Send(subject, body string) error
}

// ContactNotifier consumes contact events from JetStream and mails them to
// the site owner.
type ContactNotifier struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	mailer NotificationMailer
}

// NewContactNotifier creates a new contact event consumer.
func NewContactNotifier(js nats.JetStreamContext, logger *zap.Logger, mailer NotificationMailer) *ContactNotifier {
	return &ContactNotifier{js: js, logger: logger, mailer: mailer}
}

// Start ensures the stream and durable consumer exist and begins consuming.
func (n *ContactNotifier) Start() error {
	_, err := n.js.StreamInfo(model.ContactStreamName)
	if err != nil {
		_, err = n.js.AddStream(&nats.StreamConfig{
			Name:     model.ContactStreamName,
			Subjects: []string{model.ContactStreamSubject},
			MaxBytes: model.ContactStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	_, err = n.js.ConsumerInfo(model.ContactStreamName, model.ContactConsumerName)
	if err != nil {
		_, err = n.js.AddConsumer(model.ContactStreamName, &nats.ConsumerConfig{
			Durable:   model.ContactConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := n.js.PullSubscribe(model.ContactStreamSubject, model.ContactConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go n.consume(sub)
	return nil
}

func (n *ContactNotifier) consume(sub *nats.Subscription) {
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			n.logger.Error("failed to fetch contact events", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.ContactEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				n.logger.Error("failed to unmarshal contact event", zap.Error(err))
				msg.Nak()
				continue
			}

			if !n.mailer.Enabled() {
				n.logger.Debug("mailer disabled, dropping contact notification",
					zap.String("id", event.ID))
				msg.Ack()
				continue
			}

			subject := fmt.Sprintf("New contact message from %s", event.Name)
			body := fmt.Sprintf("From: %s <%s>\nReceived: %s\n\n%s",
				event.Name, event.Email,
				event.CreatedAt.Format(time.RFC1123), event.Message)

			if err := n.mailer.Send(subject, body); err != nil {
				n.logger.Error("failed to send contact notification",
					zap.String("id", event.ID),
					zap.Error(err))
				msg.Nak()
				continue
			}

			n.logger.Debug("contact notification sent",
				zap.String("id", event.ID),
				zap.String("email", event.Email))

			msg.Ack()
		}
	}
}
