package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/emberwatch/smoke-threat-etl/internal/config"
	"github.com/emberwatch/smoke-threat-etl/internal/domain"
)

// Writer produces assessments to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple assessments to the sink topic
// in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, assessments []domain.Assessment) error {
	if len(assessments) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(assessments))
	for i := range assessments {
		msg, err := serializeToMessage(assessments[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Assessment into a Kafka message keyed by
// request ID so retries for the same window land on the same partition.
func serializeToMessage(a domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment %q: %w", a.RequestID, err)
	}
	return kafkago.Message{
		Key:   []byte(a.RequestID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(a.GeneratedAt.Format(time.RFC3339))},
			{Key: "insufficient_data", Value: []byte(strconv.FormatBool(a.InsufficientData))},
		},
	}, nil
}
