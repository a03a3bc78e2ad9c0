package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/internal/websocket"
	"legal-rag-be/pkg/events"
	pktNats "legal-rag-be/pkg/nats" // Renamed to avoid collision
)

// ingestNotification is the frame pushed to a thread room when one of its
// documents finishes ingestion.
type ingestNotification struct {
	ThreadId string `json:"thread_id"`
	Type     string `json:"type"` // always "notification"
	Event    string `json:"event"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	At       string `json:"at"`
}

// NotificationService relays ingest-completed events from the event bus
// to the websocket room of the affected thread.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, hub *websocket.Hub, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		hub:        hub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	subject := fmt.Sprintf("events.%s", events.EventTypeDocumentIngested)
	err := s.subscriber.Subscribe(subject, "ingest-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start ingest notifier", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Ingest notifier started", map[string]interface{}{"subject": subject})
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// The NATS subject includes the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	if typeCode != events.EventTypeDocumentIngested {
		return nil
	}

	payload := event.Payload()
	threadID, _ := payload["thread_id"].(string)
	if threadID == "" {
		s.logger.Warn("NotificationService", "Ingest event without thread_id, dropping", map[string]interface{}{"type": typeCode})
		return nil
	}
	filename, _ := payload["filename"].(string)
	// JSON numbers decode as float64.
	chunks, _ := payload["chunks"].(float64)

	s.hub.SendToRoom(threadID, ingestNotification{
		ThreadId: threadID,
		Type:     "notification",
		Event:    typeCode,
		Filename: filename,
		Chunks:   int(chunks),
		At:       event.Timestamp().Format(time.RFC3339),
	})

	s.logger.Info("NotificationService", "Ingest notification delivered", map[string]interface{}{
		"thread_id": threadID,
		"filename":  filename,
	})
	return nil
}
