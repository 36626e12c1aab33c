package kafka

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"gridfeed/pkg/event"
)

type ProducerConfig struct {
	Broker      string
	Topic       string
	Compression string // none, snappy, lz4 or gzip
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	codec, err := compressionCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Broker),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond, // small batch for latency
			Compression:  codec,
		},
	}, nil
}

// Dial verifies the broker is reachable before the publish loop starts.
func Dial(ctx context.Context, broker, topic string) error {
	conn, err := kafka.DialLeader(ctx, "tcp", broker, topic, 0)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", event.ErrConnection, broker, err)
	}
	return conn.Close()
}

func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: topic %s: %v", event.ErrSend, p.writer.Topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close writer for topic %s: %w", p.writer.Topic, err)
	}
	return nil
}

func compressionCodec(name string) (kafka.Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return 0, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "gzip":
		return kafka.Gzip, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}
