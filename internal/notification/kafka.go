package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/discoveryevent/ticketing-backend/monitoring"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a Notifier that publishes confirmations to a topic for
// a Consumer to deliver. Notify only queues; a single background goroutine
// does the broker writes so a slow or unreachable broker never holds up the
// purchase request.
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	pending chan kafka.Message
	done    chan struct{}
}

const publishQueueSize = 256

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic}).Info("✅ Kafka publisher configured")
	return newKafkaPublisher(writer, topic, publishQueueSize)
}

func newKafkaPublisher(w messageWriter, topic string, queueSize int) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:  w,
		topic:   topic,
		timeout: 10 * time.Second,
		pending: make(chan kafka.Message, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Notify queues c, keyed by ticket code, without waiting for the broker.
func (p *KafkaPublisher) Notify(_ context.Context, c Confirmation) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.pending <- kafka.Message{Key: []byte(c.TicketCode), Value: payload, Time: time.Now()}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.pending {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			monitoring.TrackEmail("publish_failed")
			logrus.WithError(err).WithFields(logrus.Fields{
				"ticket_code": string(msg.Key),
				"topic":       p.topic,
			}).Error("❌ Failed to publish ticket confirmation")
		}
	}
}

// Close stops intake and waits for queued confirmations to be written
// until ctx expires. The writer is closed either way; anything still queued
// then fails fast and is logged.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.pending)
	}
	p.mu.Unlock()

	var waitErr error
	select {
	case <-p.done:
	case <-ctx.Done():
		waitErr = ctx.Err()
	}
	if err := p.writer.Close(); err != nil {
		return err
	}
	return waitErr
}

// Consumer reads confirmations from the topic and delivers them. Offsets
// are committed after delivery has been attempted, so a crash redelivers.
type Consumer struct {
	reader    messageReader
	deliverer Deliverer
}

func NewConsumer(brokers []string, topic, groupID string, d Deliverer) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
	return &Consumer{reader: reader, deliverer: d}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	logrus.Info("📨 Ticket confirmation consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			logrus.WithError(err).Error("Error reading confirmation from Kafka")
			continue
		}

		if err := HandleMessage(ctx, c.deliverer, msg); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Error("confirmation message not delivered")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Warn("⚠️ could not commit confirmation offset")
		}
	}
}

// HandleMessage decodes one kafka message and delivers it. Undecodable
// messages are reported and skipped.
func HandleMessage(ctx context.Context, d Deliverer, msg kafka.Message) error {
	var conf Confirmation
	if err := json.Unmarshal(msg.Value, &conf); err != nil {
		return fmt.Errorf("decode confirmation: %w", err)
	}
	if conf.TicketCode == "" || conf.BuyerEmail == "" {
		return errors.New("confirmation missing ticket_code or buyer_email")
	}
	return d.Deliver(ctx, conf)
}
