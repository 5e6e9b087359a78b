package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/otabek-dev/kinoteka-bot/internal/broadcast"
	"github.com/otabek-dev/kinoteka-bot/internal/telegram"
)

// Notifier reports a finished run back to the requesting admin.
type Notifier interface {
	SendText(chat telegram.ChatRef, text string, markup any) (int, error)
}

// StartBroadcastConsumer connects to RabbitMQ, declares the
// broadcast.requested queue (durable), and runs jobs one at a time
// through the sender.  It runs a reconnect loop with exponential
// backoff and keeps operating through broker restarts; a message that
// cannot be processed is rejected without requeue so a poisoned job
// does not loop forever.
func StartBroadcastConsumer(sender *broadcast.Sender, notify Notifier) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("broadcast-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, sender, notify); err != nil {
			log.Printf("broadcast-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, sender *broadcast.Sender, notify Notifier) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// One unacked job at a time: a broadcast can take minutes and we
	// never want two running concurrently against the rate limit.
	if err := ch.Qos(1, 0, false); err != nil {
		log.Printf("broadcast-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(broadcastQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(broadcastQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, sender, notify); err != nil {
			log.Printf("broadcast-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, sender *broadcast.Sender, notify Notifier) error {
	var ev BroadcastRequestedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	sum, err := sender.Run(context.Background(), ev.Job)
	if err != nil {
		return fmt.Errorf("run broadcast: %w", err)
	}
	log.Printf("broadcast-consumer: audience=%s total=%d success=%d failed=%d",
		ev.Job.Audience, sum.Total, sum.Success, sum.Failed)

	if notify != nil && ev.RequestedBy != 0 {
		text := fmt.Sprintf("📣 Xabar yuborish yakunlandi.\n👥 Jami: %d\n✅ Yetkazildi: %d\n❌ Yetkazilmadi: %d",
			sum.Total, sum.Success, sum.Failed)
		if _, err := notify.SendText(telegram.ChatID(ev.RequestedBy), text, nil); err != nil {
			log.Printf("broadcast-consumer: notify admin %d: %v", ev.RequestedBy, err)
		}
	}
	return nil
}
