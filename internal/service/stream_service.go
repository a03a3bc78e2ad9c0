package service

import (
	"context"
	"time"

	"legal-rag-be/internal/dto"
	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/internal/websocket"
)

const (
	// Answers are streamed to the room in fixed-size rune slices.
	streamChunkSize = 10
	streamDelay     = 50 * time.Millisecond

	// StreamEndMarker is the content of the terminal frame.
	StreamEndMarker = "__END__"
)

// IStreamService turns a chat question into a sequence of websocket
// frames delivered to the thread room.
type IStreamService interface {
	HandleQuery(threadID, question string)
}

type streamService struct {
	chatService IChatService
	hub         *websocket.Hub
	logger      logger.ILogger
}

func NewStreamService(chatService IChatService, hub *websocket.Hub, log logger.ILogger) IStreamService {
	return &streamService{
		chatService: chatService,
		hub:         hub,
		logger:      log,
	}
}

func (s *streamService) HandleQuery(threadID, question string) {
	ctx := context.Background()

	resp, err := s.chatService.Query(ctx, &dto.QueryRequest{
		ThreadId: threadID,
		Question: question,
	})
	if err != nil {
		// Query never fails on pipeline faults; this is a transport-level
		// problem, so close the turn cleanly for the client.
		s.logger.Error("StreamService", "Query failed", map[string]interface{}{
			"thread_id": threadID,
			"error":     err.Error(),
		})
		s.sendEnd(threadID, "")
		return
	}

	answer := []rune(resp.Answer)
	for i := 0; i < len(answer); i += streamChunkSize {
		end := i + streamChunkSize
		if end > len(answer) {
			end = len(answer)
		}
		s.hub.SendToRoom(threadID, dto.StreamFrame{
			ThreadId: threadID,
			Type:     "stream",
			Content:  string(answer[i:end]),
			Summary:  "",
			Title:    resp.Title,
		})
		time.Sleep(streamDelay)
	}

	if len(resp.Sources) > 0 {
		s.hub.SendToRoom(threadID, dto.SourceFrame{
			ThreadId: threadID,
			Type:     "source",
			Sources:  resp.Sources,
		})
	}

	s.sendEnd(threadID, resp.Title)
}

func (s *streamService) sendEnd(threadID, title string) {
	s.hub.SendToRoom(threadID, dto.StreamFrame{
		ThreadId: threadID,
		Type:     "stream",
		Content:  StreamEndMarker,
		Summary:  "",
		Title:    title,
	})
}
