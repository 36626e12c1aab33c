package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"gridfeed/pkg/event"
)

type Consumer struct {
	reader  *kafka.Reader
	pool    *Pool
	handler JobHandler
}

func NewConsumer(broker, topic, groupID string, pool *Pool, handler JobHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})

	return &Consumer{
		reader:  r,
		pool:    pool,
		handler: handler,
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("%w: fetch: %v", event.ErrConnection, err)
		}

		msg := m
		c.pool.Submit(func(ctx context.Context) error {
			err := c.handler.Handle(ctx, string(msg.Key), msg.Value)
			if err != nil && !errors.Is(err, event.ErrDecode) {
				// Leave the offset uncommitted so the message is retried
				// after a restart.
				return err
			}
			// Decode failures are poison messages: the handler has counted
			// them, commit so the group does not wedge on one payload.
			return c.reader.CommitMessages(ctx, msg)
		})
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
