package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/arogyahq/care-platform/internal/config"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

const exchangeName = "care_events"

// RabbitMQBroker implements ports.EventPublisher over a topic exchange.
// Reminder and notification consumers bind their own queues with
// "reminders.*" and "notifications.*" patterns.
type RabbitMQBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	cb   *gobreaker.CircuitBreaker
}

var _ ports.EventPublisher = (*RabbitMQBroker)(nil)

func NewRabbitMQBroker(amqpURL, queueName string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	// Declare and bind the default consumer queue (idempotent) so events
	// published before any worker starts are not dropped by the broker.
	_, err = ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	for _, pattern := range []string{"reminders.*", "notifications.*"} {
		if err := ch.QueueBind(queueName, pattern, exchangeName, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return &RabbitMQBroker{
		conn: conn,
		ch:   ch,
		cb:   config.NewCircuitBreaker("RabbitMQ-Publisher"),
	}, nil
}

func (rmq *RabbitMQBroker) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			exchangeName,
			routingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
