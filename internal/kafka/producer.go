package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/model"
)

type Producer struct {
	writer         *kafka.Writer
	ctx            context.Context
	partitionCount int
}

func NewProducer() (*Producer, error) {
	ctx := context.Background()

	// discover the partition count so operators can sanity-check topology
	conn, err := kafka.DialLeader(ctx, "tcp", config.AppConfig.Kafka.Brokers[0], config.AppConfig.Kafka.Topic, 0)
	if err != nil {
		return nil, fmt.Errorf("dial kafka leader: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return nil, fmt.Errorf("read partitions: %w", err)
	}

	topicPartitions := 0
	for _, p := range partitions {
		if p.Topic == config.AppConfig.Kafka.Topic {
			topicPartitions++
		}
	}

	slog.Info("kafka producer ready",
		"topic", config.AppConfig.Kafka.Topic, "partitions", topicPartitions)

	// hash balancer keyed by ticket id keeps one ticket's bookings in
	// order on a single partition
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.AppConfig.Kafka.Brokers...),
		Topic:    config.AppConfig.Kafka.Topic,
		Balancer: &kafka.Hash{},
	}

	return &Producer{
		writer:         writer,
		ctx:            ctx,
		partitionCount: topicPartitions,
	}, nil
}

// SendBookingEvent publishes one booking lifecycle transition.
func (p *Producer) SendBookingEvent(event *model.BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode booking event: %w", err)
	}

	key := []byte(event.TicketID)
	if len(key) == 0 {
		key = []byte(event.BookingID)
	}

	msg := kafka.Message{
		Key:   key,
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(p.ctx, msg); err != nil {
		return fmt.Errorf("write booking event: %w", err)
	}
	return nil
}

// Close closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
