package controller

import (
	"legal-rag-be/internal/dto"
	"legal-rag-be/internal/pkg/serverutils"
	"legal-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IIngestController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
}

type ingestController struct {
	ingestService service.IIngestService
}

func NewIngestController(ingestService service.IIngestService) IIngestController {
	return &ingestController{
		ingestService: ingestService,
	}
}

func (c *ingestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ingest/v1")
	h.Post("documents", c.Submit)
}

// Submit queues a document for background chunking and embedding. The
// response returns before the document is searchable.
func (c *ingestController) Submit(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	if err := c.ingestService.Enqueue(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(
		serverutils.SuccessResponse("Document queued for ingestion", dto.IngestAcceptedResponse{Status: "queued"}),
	)
}
