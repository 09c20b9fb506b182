package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CRMMirror is the downstream a lead event is relayed to (Airtable).
type CRMMirror interface {
	UpsertLead(ctx context.Context, payload LeadEventPayload) error
}

// Worker consumes lead events off the queue and mirrors them. It is
// fully decoupled from the database; everything it needs rides in the
// payload.
type Worker struct {
	Channel *amqp.Channel
	Mirror  CRMMirror
}

func NewWorker(ch *amqp.Channel, mirror CRMMirror) *Worker {
	return &Worker{Channel: ch, Mirror: mirror}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("[WORKER] failed to register consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadEventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[WORKER] malformed message, rejecting: %s", err)
				// No requeue: a body that never parses would loop
				// forever. The DLQ keeps it inspectable.
				d.Nack(false, false)
				continue
			}

			if err := w.Mirror.UpsertLead(context.Background(), payload); err != nil {
				log.Printf("[WORKER] mirror failed event=%s lead=%s: %s", payload.Event, payload.LeadID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf("[WORKER] consuming lead events from '%s'", queueName)
	<-forever
}
