package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/remitip/rates-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishComparison writes one comparison event keyed by corridor, so all
// events for a corridor land in the same partition.
func (k *KafkaPublisher) PublishComparison(event domain.ComparisonEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	corridor := fmt.Sprintf("%s-%s", event.SenderCountry, event.RecipientCountry)

	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(corridor),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
