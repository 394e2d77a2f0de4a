package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"eduverse-be/internal/dto"
	"eduverse-be/internal/repository/specification"
	"eduverse-be/internal/repository/unitofwork"
	"eduverse-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService embeds memory records asynchronously. Records are written
// unembedded and become vector-searchable only after this consumer runs.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedRecordMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding memory record %s", payload.RecordId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.MemoryRecordRepository().FindOne(ctx, specification.ByID{ID: payload.RecordId})
	if err != nil {
		log.Printf("[ERROR] Failed to get memory record %s: %v", payload.RecordId, err)
		msg.Nack()
		return
	}
	if record == nil {
		log.Printf("[WARN] Memory record not found: %s", payload.RecordId)
		msg.Ack() // Record deleted? Ack.
		return
	}
	if record.Embedded {
		msg.Ack() // Redelivery after a successful run.
		return
	}

	res, err := cs.embeddingProvider.Generate(record.Content, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for record %s: %v", payload.RecordId, err)
		msg.Nack()
		return
	}

	now := time.Now()
	record.EmbeddingValue = res.Embedding.Values
	record.Embedded = true
	record.UpdatedAt = &now
	if err := uow.MemoryRecordRepository().Update(ctx, record); err != nil {
		log.Printf("[ERROR] Failed to update memory record %s: %v", payload.RecordId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Memory record embedded: %s", payload.RecordId)
	msg.Ack()
}
