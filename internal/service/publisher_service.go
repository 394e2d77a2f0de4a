package service

import (
	"context"
	"encoding/json"

	"eduverse-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
	PublishEmbedRecord(ctx context.Context, recordId uuid.UUID) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (s *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return s.pubSub.Publish(s.topicName, msg)
}

// PublishEmbedRecord satisfies memory.Publisher.
func (s *publisherService) PublishEmbedRecord(ctx context.Context, recordId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedRecordMessage{RecordId: recordId})
	if err != nil {
		return err
	}
	return s.Publish(ctx, payload)
}
