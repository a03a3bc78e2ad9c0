package service

import (
	"context"
	"encoding/json"
	"time"

	"legal-rag-be/internal/dto"
	"legal-rag-be/internal/entity"
	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/internal/repository/contract"
	"legal-rag-be/pkg/embedding"
	"legal-rag-be/pkg/events"
	pktNats "legal-rag-be/pkg/nats"
	"legal-rag-be/pkg/store"
	"legal-rag-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	// Chunking parameters for uploaded documents.
	ingestChunkSize    = 800
	ingestChunkOverlap = 100

	// The manifest preview is the document head, bounded to this length.
	manifestPreviewLen = 1000
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	vectorRepo        contract.VectorRepository
	embeddingProvider embedding.EmbeddingProvider
	sessionStore      store.SessionStore
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	vectorRepo contract.VectorRepository,
	embeddingProvider embedding.EmbeddingProvider,
	sessionStore store.SessionStore,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		vectorRepo:        vectorRepo,
		embeddingProvider: embeddingProvider,
		sessionStore:      sessionStore,
		eventPublisher:    eventPublisher,
		logger:            log,
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
	var payload dto.IngestDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal ingest message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("Consumer", "Processing document ingestion", map[string]interface{}{
		"thread_id": payload.ThreadId,
		"filename":  payload.Filename,
		"length":    len(payload.Content),
	})

	// 1. Split Text
	chunks := utils.SplitText(payload.Content, ingestChunkSize, ingestChunkOverlap)
	cs.logger.Info("Consumer", "Content split into chunks", map[string]interface{}{"chunks": len(chunks)})

	// 2. Embed the whole batch with document task type
	vectors, err := cs.embeddingProvider.GenerateBatch(chunks, embedding.TaskRetrievalDocument)
	if err != nil {
		cs.logger.Error("Consumer", "Failed to embed document chunks", map[string]interface{}{
			"filename": payload.Filename,
			"error":    err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	// 3. Store private chunks tagged with the thread id
	newChunks := make([]*entity.FileChunk, len(chunks))
	now := time.Now()
	for i, text := range chunks {
		newChunks[i] = &entity.FileChunk{
			Id:         uuid.New(),
			ThreadId:   payload.ThreadId,
			Filename:   payload.Filename,
			Source:     payload.Source,
			Content:    text,
			ChunkIndex: i,
			Embedding:  vectors[i],
			CreatedAt:  now,
		}
	}

	if err := cs.vectorRepo.CreateFileChunks(ctx, newChunks); err != nil {
		cs.logger.Error("Consumer", "Failed to store file chunks", map[string]interface{}{
			"filename": payload.Filename,
			"error":    err.Error(),
		})
		msg.Nack()
		return
	}

	// 4. Register the document in the thread manifest (idempotent by filename)
	entry := store.ManifestEntry{
		Filename: payload.Filename,
		Preview:  utils.TruncateRunes(payload.Content, manifestPreviewLen),
	}
	changed, err := cs.sessionStore.AppendManifest(ctx, payload.ThreadId, entry)
	if err != nil {
		cs.logger.Error("Consumer", "Failed to update thread manifest", map[string]interface{}{
			"thread_id": payload.ThreadId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}
	if !changed {
		cs.logger.Info("Consumer", "Manifest already lists this file, skipping append", map[string]interface{}{"filename": payload.Filename})
	}

	// 5. Announce completion; delivery failure must not fail ingestion
	if cs.eventPublisher != nil {
		evt := events.NewDocumentIngested(payload.ThreadId, payload.Filename, len(newChunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("Consumer", "Failed to publish ingest-completed event", map[string]interface{}{"error": err.Error()})
		}
	}

	cs.logger.Info("Consumer", "Document ingested", map[string]interface{}{
		"thread_id": payload.ThreadId,
		"filename":  payload.Filename,
		"chunks":    len(newChunks),
	})
	msg.Ack()
}
