package http

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/codes"
)

type registerReq struct {
	Email string `json:"email" validate:"required,email"`
}

func RegisterHandler(svc *codes.Service, mailer Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "MISSING_FIELD",
				"message":    "Email is required",
			})
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "MISSING_FIELD",
				"message":    "Email is required",
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_EMAIL",
				"message":    "Invalid email format",
			})
		}
		// stricter than the validator tag
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_EMAIL",
				"message":    "Invalid email format",
			})
		}

		code, err := svc.Issue(c.Context(), req.Email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not generate verification code",
			})
		}

		if err := mailer.SendVerification(c.Context(), req.Email, code); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "DELIVERY_FAILURE",
				"message":    "Could not send verification e-mail",
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Verification code sent to your e-mail",
		})
	}
}
