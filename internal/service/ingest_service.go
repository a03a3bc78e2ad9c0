package service

import (
	"context"
	"encoding/json"
	"fmt"

	"legal-rag-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IIngestService enqueues documents for background ingestion so the API
// returns immediately.
type IIngestService interface {
	Enqueue(ctx context.Context, req *dto.IngestDocumentRequest) error
}

type ingestService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewIngestService(topicName string, pubSub *gochannel.GoChannel) IIngestService {
	return &ingestService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (s *ingestService) Enqueue(ctx context.Context, req *dto.IngestDocumentRequest) error {
	payload := dto.IngestDocumentMessage{
		ThreadId: req.ThreadId,
		Filename: req.Filename,
		Source:   req.Source,
		Content:  req.Content,
	}

	msgJson, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal ingest message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), msgJson)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		return fmt.Errorf("publish ingest message: %w", err)
	}

	return nil
}
