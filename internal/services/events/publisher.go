package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"sortserver/internal/logger"
	"sortserver/internal/models"
)

// Publisher sends committed classification events to a Kafka topic so
// downstream consumers (sorter controllers, dashboards) can react without
// polling the backend. The publisher is optional: when no bootstrap servers
// are configured NewPublisher returns nil and the pipeline runs without it.
type Publisher struct {
	producer     *kafka.Producer
	topic        string
	deliveryChan chan kafka.Event

	sent   atomic.Int64
	acked  atomic.Int64
	failed atomic.Int64

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *logger.Logger
}

// NewPublisher creates a Kafka publisher from the environment.
// KAFKA_BOOTSTRAP_SERVERS empty means event publishing is disabled.
func NewPublisher(logger *logger.Logger) (*Publisher, error) {
	servers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if servers == "" {
		return nil, nil
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "material-classifications"
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  servers,
		"acks":               "all",
		"enable.idempotence": true,
		"request.timeout.ms": 30000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		producer:     producer,
		topic:        topic,
		deliveryChan: make(chan kafka.Event, 256),
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}

	p.wg.Add(1)
	go p.handleDeliveryReports()

	logger.Info("Kafka event publisher initialized - topic: %s, servers: %s", topic, servers)
	return p, nil
}

// handleDeliveryReports processes delivery confirmations in the background.
func (p *Publisher) handleDeliveryReports() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case e := <-p.deliveryChan:
			m, ok := e.(*kafka.Message)
			if !ok {
				continue
			}
			if m.TopicPartition.Error != nil {
				p.failed.Add(1)
				p.logger.Error("Event delivery failed: %v", m.TopicPartition.Error)
			} else {
				p.acked.Add(1)
			}
		}
	}
}

// PublishClassification produces one classification event, keyed by record
// ID so replays for the same event land in the same partition.
func (p *Publisher) PublishClassification(rec models.ClassificationRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize classification event: %w", err)
	}

	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &p.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(rec.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "material_type", Value: []byte(rec.MaterialType)},
			{Key: "action", Value: []byte(rec.Action)},
			{Key: "source", Value: []byte(rec.Source)},
		},
	}

	if err := p.producer.Produce(message, p.deliveryChan); err != nil {
		p.failed.Add(1)
		return fmt.Errorf("failed to produce classification event: %w", err)
	}

	p.sent.Add(1)
	return nil
}

// Metrics returns sent/acked/failed counters.
func (p *Publisher) Metrics() map[string]int64 {
	return map[string]int64{
		"events_sent":   p.sent.Load(),
		"events_acked":  p.acked.Load(),
		"events_failed": p.failed.Load(),
	}
}

// Close flushes pending events and shuts the producer down.
func (p *Publisher) Close() {
	remaining := p.producer.Flush(int((10 * time.Second).Milliseconds()))
	if remaining > 0 {
		p.logger.Warning("%d events still unflushed at shutdown", remaining)
	}

	p.cancel()
	p.wg.Wait()
	p.producer.Close()
}
