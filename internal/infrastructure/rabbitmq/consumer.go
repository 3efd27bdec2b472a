package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/event"
)

// Handler processes one event. A returned error requeues the message.
type Handler func(ctx context.Context, ev event.UserEvent) error

type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	Queue    string
	Prefetch int
	Logger   *logrus.Logger
}

func NewConsumer(url, queue string, prefetch int, logger *logrus.Logger) (*Consumer, error) {
	conn, ch, err := open(url, queue)
	if err != nil {
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = 16
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Consumer{conn: conn, ch: ch, Queue: queue, Prefetch: prefetch, Logger: logger}, nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.handle(ctx, msg, h)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery, h Handler) {
	var ev event.UserEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		c.Logger.WithError(err).Warn("bad user event")
		_ = msg.Nack(false, false)
		return
	}
	if err := h(ctx, ev); err != nil {
		c.Logger.WithError(err).WithFields(logrus.Fields{"type": ev.Type, "user_id": ev.UserID}).Warn("handle user event failed")
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
