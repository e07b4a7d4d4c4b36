package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/model"
)

type Consumer struct {
	readers    []*kafka.Reader
	ctx        context.Context
	cancel     context.CancelFunc
	numWorkers int
	wg         sync.WaitGroup
}

type MessageHandler func(event *model.BookingEvent) error

func NewConsumer() (*Consumer, error) {
	ctx, cancel := context.WithCancel(context.Background())
	numWorkers := 8

	conn, err := kafka.DialLeader(ctx, "tcp", config.AppConfig.Kafka.Brokers[0], config.AppConfig.Kafka.Topic, 0)
	if err != nil {
		cancel()
		return nil, err
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		cancel()
		return nil, err
	}

	var topicPartitions []int
	for _, p := range partitions {
		if p.Topic == config.AppConfig.Kafka.Topic {
			topicPartitions = append(topicPartitions, p.ID)
		}
	}

	slog.Info("kafka topic discovered",
		"topic", config.AppConfig.Kafka.Topic, "partitions", len(topicPartitions))

	readers := make([]*kafka.Reader, 0, numWorkers)

	if actual := min(numWorkers, len(topicPartitions)); actual < numWorkers {
		slog.Info("fewer partitions than workers, shrinking worker pool",
			"partitions", len(topicPartitions), "workers", actual)
		numWorkers = actual
	}

	// one reader per worker, each pinned to a partition
	for i := 0; i < numWorkers; i++ {
		partition := topicPartitions[i%len(topicPartitions)]
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:   config.AppConfig.Kafka.Brokers,
			Topic:     config.AppConfig.Kafka.Topic,
			Partition: partition,
			MinBytes:  10e3, // 10KB
			MaxBytes:  10e6, // 10MB
		})
		readers = append(readers, reader)
	}

	// no partitions visible yet: fall back to a consumer group reader
	if len(readers) == 0 {
		slog.Warn("no partitions detected, falling back to consumer group mode",
			"group", config.AppConfig.Kafka.GroupID)
		groupReader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  config.AppConfig.Kafka.Brokers,
			Topic:    config.AppConfig.Kafka.Topic,
			GroupID:  config.AppConfig.Kafka.GroupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		})
		readers = append(readers, groupReader)
		numWorkers = 1
	}

	return &Consumer{
		readers:    readers,
		ctx:        ctx,
		cancel:     cancel,
		numWorkers: numWorkers,
	}, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// StartConsuming launches one goroutine per reader.
func (c *Consumer) StartConsuming(handler MessageHandler) {
	for i := 0; i < len(c.readers); i++ {
		reader := c.readers[i]
		if reader == nil {
			continue
		}

		c.wg.Add(1)
		go func(workerID int, r *kafka.Reader) {
			defer c.wg.Done()
			c.consumeMessages(workerID, r, handler)
		}(i, reader)
	}

	slog.Info("kafka consumer workers started", "workers", len(c.readers))
}

func (c *Consumer) consumeMessages(workerID int, reader *kafka.Reader, handler MessageHandler) {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			m, err := reader.ReadMessage(c.ctx)
			if err != nil {
				if err == context.Canceled {
					return
				}
				slog.Error("read booking event failed", "worker", workerID, "error", err)
				time.Sleep(time.Second)
				continue
			}

			var event model.BookingEvent
			if err := json.Unmarshal(m.Value, &event); err != nil {
				slog.Error("decode booking event failed", "worker", workerID, "error", err)
				continue
			}

			if err := handler(&event); err != nil {
				slog.Error("handle booking event failed",
					"worker", workerID, "type", event.Type, "booking", event.BookingID, "error", err)
			}
		}
	}
}

// Stop cancels the workers and closes every reader.
func (c *Consumer) Stop() error {
	c.cancel()
	c.wg.Wait()

	for i, reader := range c.readers {
		if reader != nil {
			if err := reader.Close(); err != nil {
				slog.Warn("close kafka reader failed", "worker", i, "error", err)
			}
		}
	}
	return nil
}
