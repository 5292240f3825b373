package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"bookandgo/internal/utils"

	"github.com/streadway/amqp"
)

const notifyExchange = "booking.events"

// AMQPNotifier publishes booking events to a topic exchange for the
// notification collaborator. The connection is dialed lazily and reopened
// after failures.
type AMQPNotifier struct {
	URL string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

type notifyPayload struct {
	BookingID int64  `json:"booking_id"`
	Event     string `json:"event"`
	At        string `json:"at"`
}

func (n *AMQPNotifier) Notify(_ context.Context, bookingID int64, event string) error {
	ch, err := n.channel()
	if err != nil {
		return err
	}

	body, err := json.Marshal(notifyPayload{
		BookingID: bookingID,
		Event:     event,
		At:        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	err = ch.Publish(notifyExchange, event, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
	if err != nil {
		// Drop the channel so the next publish redials.
		n.reset()
	}
	return err
}

func (n *AMQPNotifier) channel() (*amqp.Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.ch != nil {
		return n.ch, nil
	}

	conn, err := amqp.Dial(n.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(notifyExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	n.conn = conn
	n.ch = ch
	return ch, nil
}

func (n *AMQPNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ch != nil {
		_ = n.ch.Close()
		n.ch = nil
	}
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
}

func (n *AMQPNotifier) Close() {
	n.reset()
}

// LogNotifier is the fallback when no broker is configured.
type LogNotifier struct {
	RequestID string
}

func (l LogNotifier) Notify(_ context.Context, bookingID int64, event string) error {
	utils.LogEvent(l.RequestID, "notify", event, "booking_id="+strconv.FormatInt(bookingID, 10))
	return nil
}
