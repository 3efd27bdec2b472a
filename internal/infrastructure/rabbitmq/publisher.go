package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-admin-dashboard/internal/application"
	"github.com/oksasatya/go-admin-dashboard/internal/domain/event"
)

// Publisher sends user change events to a durable queue.
type Publisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	Queue  string
	Logger *logrus.Logger
}

func NewPublisher(url, queue string, logger *logrus.Logger) (*Publisher, error) {
	conn, ch, err := open(url, queue)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, Queue: queue, Logger: logger}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Publish JSON-encodes ev onto the queue.
func (p *Publisher) Publish(ctx context.Context, ev event.UserEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
			Type:         ev.Type,
			Body:         b,
		},
	)
}

// Listener adapts the publisher to store change notifications.
func (p *Publisher) Listener() application.Listener {
	return func(c application.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		ev := EventFromChange(c, time.Now().UTC())
		if err := p.Publish(ctx, ev); err != nil && p.Logger != nil {
			p.Logger.WithError(err).WithFields(logrus.Fields{"change": ev.Type, "user_id": ev.UserID}).Warn("publish user event failed")
		}
	}
}

// EventFromChange maps a store change to its wire event.
func EventFromChange(c application.Change, at time.Time) event.UserEvent {
	ev := event.UserEvent{UserID: c.UserID, Version: c.Snapshot.Version, OccurredAt: at}
	switch c.Kind {
	case application.ChangeLoaded:
		ev.Type = event.TypeUsersLoaded
		ev.Users = c.Snapshot.Users
	case application.ChangeUpdated:
		ev.Type = event.TypeUserUpdated
		ev.User = c.User
	case application.ChangeDeleted:
		ev.Type = event.TypeUserDeleted
	default:
		ev.Type = string(c.Kind)
	}
	return ev
}

func open(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
