package controller

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"pdf-chat-be/internal/dto"
	"pdf-chat-be/internal/pkg/serverutils"
	"pdf-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	GetTranscript(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetActiveSession(ctx *fiber.Ctx) error
	SetActiveSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	UploadDocument(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	// "active" must be registered before the ":id" routes.
	h.Get("sessions/active", c.GetActiveSession)
	h.Put("sessions/active", c.SetActiveSession)
	h.Get("sessions", c.ListSessions)
	h.Post("sessions", c.CreateSession)
	h.Get("sessions/:id/messages", c.GetTranscript)
	h.Post("sessions/:id/messages", c.SendMessage)
	h.Post("sessions/:id/document", c.UploadDocument)
	h.Delete("sessions/:id", c.DeleteSession)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetAllSessions(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *chatController) GetTranscript(ctx *fiber.Ctx) error {
	id, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetTranscript(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get transcript", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.DeleteSession(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *chatController) GetActiveSession(ctx *fiber.Ctx) error {
	res := c.chatService.GetActiveSession(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get active session", res))
}

func (c *chatController) SetActiveSession(ctx *fiber.Ctx) error {
	var req dto.SetActiveSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.chatService.SetActiveSession(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set active session", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	id, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendMessage(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) UploadDocument(ctx *fiber.Ctx) error {
	id, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing multipart file field 'file'")
	}

	if err := validatePDF(fileHeader); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unable to read uploaded file")
	}
	defer file.Close()

	res, err := c.chatService.UploadDocument(ctx.Context(), id, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload document", res))
}

func parseSessionId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID format")
	}
	return id, nil
}

func validatePDF(fileHeader *multipart.FileHeader) error {
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported")
	}
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" && ct != "application/octet-stream" {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported")
	}
	return nil
}
