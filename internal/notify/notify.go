package notify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Message is one outbound notification. Channel-specific formatting and the
// actual delivery happen in a separate worker consuming the queue.
type Message struct {
	ID       string    `json:"id"`
	Contact  string    `json:"contact"`
	Channel  string    `json:"channel"` // email, sms
	Body     string    `json:"body"`
	QueuedAt time.Time `json:"queued_at"`
}

type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// ShareMessage builds the share-link notification for a contact. Contacts
// containing "@" go out by email, anything else by SMS.
func ShareMessage(contact, shareURL string) Message {
	channel := "sms"
	if strings.Contains(contact, "@") {
		channel = "email"
	}
	return Message{
		ID:      uuid.NewString(),
		Contact: contact,
		Channel: channel,
		Body:    "Track my route live: " + shareURL,
	}
}

const queueKey = "notify:outbound"

// Queue dispatches messages onto a Redis list for delivery workers.
type Queue struct {
	redis *redis.Client
}

func NewQueue(redisClient *redis.Client) *Queue {
	return &Queue{redis: redisClient}
}

func (q *Queue) Send(ctx context.Context, msg Message) error {
	if q.redis == nil {
		return nil
	}
	if msg.QueuedAt.IsZero() {
		msg.QueuedAt = time.Now()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return q.redis.LPush(ctx, queueKey, payload).Err()
}
