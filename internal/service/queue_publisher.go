// Package queue_publisher publishes ticket lifecycle events to RabbitMQ.
// Errors are logged and returned; callers treat publishing as best effort
// and never fail a request because of it.
package queue_publisher

import (
    "context"
    "encoding/json"
    "log"
    "time"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/event-ticketing/internal/queue"
)

// Publisher sends events to the ticket queue of the broker at URL.  Each
// call dials its own connection, so a broker outage never leaves a stale
// channel behind.
type Publisher struct {
    URL string
}

func New(url string) *Publisher { return &Publisher{URL: url} }

// Publish sends ev to the durable ticket queue as a persistent message with
// a fresh message id.
func (p *Publisher) Publish(ctx context.Context, ev q.TicketEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        q.TicketQueueName, // name
        true,              // durable
        false,             // autoDelete
        false,             // exclusive
        false,             // noWait
        nil,               // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    pub, err := newPublishing(ev, time.Now().UTC())
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }
    if err := ch.PublishWithContext(ctx, "", q.TicketQueueName, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish %s failed: %v", ev.Type, err)
        return err
    }
    return nil
}

func newPublishing(ev q.TicketEvent, now time.Time) (amqp.Publishing, error) {
    if ev.OccurredAt == "" {
        ev.OccurredAt = now.Format(time.RFC3339)
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return amqp.Publishing{}, err
    }
    return amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    uuid.NewString(),
        Type:         ev.Type,
        Timestamp:    now,
        Body:         body,
    }, nil
}
