package consumer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/events"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/kafka"
)

// AdoptionRecorder records a completed adoption; *application.AdoptionRequestService satisfies it.
type AdoptionRecorder interface {
	RecordAdoption(ctx context.Context, req application.RecordAdoptionRequest) (*application.AdoptionDTO, error)
}

// AdoptionEventConsumer listens to adoption events and records completed adoptions.
type AdoptionEventConsumer struct {
	consumer *kafka.Consumer
	recorder AdoptionRecorder
	logger   *zap.Logger
}

// NewAdoptionEventConsumer creates a new AdoptionEventConsumer.
func NewAdoptionEventConsumer(
	brokers []string,
	groupID string,
	recorder AdoptionRecorder,
	logger *zap.Logger,
) *AdoptionEventConsumer {
	return &AdoptionEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, events.TopicAdoptionEvents, logger),
		recorder: recorder,
		logger:   logger,
	}
}

// Start begins consuming adoption events. This blocks until the context is cancelled.
func (c *AdoptionEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *AdoptionEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *AdoptionEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from adoption topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.AdoptionCompleted:
		return c.handleAdoptionCompleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled adoption event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *AdoptionEventConsumer) handleAdoptionCompleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.AdoptionCompletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse AdoptionCompletedEvent data", zap.Error(err))
		return nil
	}

	c.logger.Info("processing adoption completed event",
		zap.Uint("pet_id", evt.PetID),
		zap.Uint("user_id", evt.UserID),
	)

	record, err := c.recorder.RecordAdoption(ctx, application.RecordAdoptionRequest{
		PetID:  evt.PetID,
		UserID: evt.UserID,
	})
	if err != nil {
		// Only store failures are worth another attempt.
		if domain.KindOf(err) != domain.KindInternal {
			c.logger.Warn("adoption event rejected",
				zap.Uint("pet_id", evt.PetID),
				zap.Uint("user_id", evt.UserID),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to record adoption",
			zap.Uint("pet_id", evt.PetID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("adoption recorded from event", zap.Uint("adoption_id", record.ID))
	return nil
}
