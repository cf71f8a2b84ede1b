package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ordersExchange    = "orders_topic"
	createdRoutingKey = "kitchen.order.created"
	statusRoutingKey  = "kitchen.order.status"
)

// AMQPPublisher pushes order snapshots to a RabbitMQ topic exchange for
// kitchen and display consumers.
type AMQPPublisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ordersExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

func (p *AMQPPublisher) PublishOrderCreated(ctx context.Context, snap *OrderSnapshot) error {
	return p.publish(ctx, createdRoutingKey, snap)
}

func (p *AMQPPublisher) PublishOrderStatus(ctx context.Context, snap *OrderSnapshot) error {
	return p.publish(ctx, statusRoutingKey, snap)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, snap *OrderSnapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return p.channel.PublishWithContext(
		ctx,
		ordersExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
