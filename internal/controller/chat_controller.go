package controller

import (
	"legal-rag-be/internal/dto"
	"legal-rag-be/internal/pkg/serverutils"
	"legal-rag-be/internal/service"
	internalWS "legal-rag-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	streamService service.IStreamService
	hub           *internalWS.Hub
}

func NewChatController(chatService service.IChatService, streamService service.IStreamService, hub *internalWS.Hub) IChatController {
	return &chatController{
		chatService:   chatService,
		streamService: streamService,
		hub:           hub,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("query", c.Query)
	h.Get("session/:thread_id", c.Session)

	// WebSocket (streamed answers, one room per thread)
	h.Get("ws/:thread_id", c.ServeWs)
}

func (c *chatController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.chatService.Query(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run chat query", res))
}

func (c *chatController) Session(ctx *fiber.Ctx) error {
	threadId := ctx.Params("thread_id")
	if threadId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "thread_id is required")
	}

	res, err := c.chatService.GetSession(ctx.Context(), threadId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

// ServeWs upgrades the connection and attaches it to the thread room.
func (c *chatController) ServeWs(ctx *fiber.Ctx) error {
	threadId := ctx.Params("thread_id")
	if threadId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "thread_id is required")
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(c.hub, conn, threadId, c.streamService.HandleQuery)
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
