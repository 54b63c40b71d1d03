package serverutils

import (
	"errors"

	"pdf-chat-be/internal/repository/contract"
	"pdf-chat-be/pkg/answer"
	"pdf-chat-be/pkg/ingestion"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates errors returned by controllers into
// the JSON envelope. Upstream AI failures map to 502 so the browser can
// tell "the service is broken" from "my request was bad"; both ingestion
// and query failures are surfaced with the underlying message when one
// exists.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, verr.Error()))
		}

		var ierr *ingestion.IngestionError
		if errors.As(err, &ierr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, ierr.Error()))
		}

		var qerr *answer.QueryError
		if errors.As(err, &qerr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, qerr.Error()))
		}

		if errors.Is(err, contract.ErrSessionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, "session not found"))
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}
