package repository

import (
	"context"

	"HealthPulse/internal/domain/models"
	"HealthPulse/internal/domain/repository"
	pkgkafka "HealthPulse/pkg/kafka"
)

// KafkaRefreshPublisher emits bundle refresh events keyed by country so
// downstream consumers see per-country ordering.
type KafkaRefreshPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaRefreshPublisher creates a Kafka-backed refresh publisher.
func NewKafkaRefreshPublisher(producer *pkgkafka.Producer, topic string) repository.RefreshPublisher {
	return &KafkaRefreshPublisher{producer: producer, topic: topic}
}

func (p *KafkaRefreshPublisher) BundleRefreshed(ctx context.Context, ev models.RefreshEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Country), ev)
}

func (p *KafkaRefreshPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
