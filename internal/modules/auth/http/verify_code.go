package http

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/codes"
	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
)

type verifyReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func VerifyCodeHandler(svc *codes.Service, creds domain.CredentialStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "MISSING_FIELD",
				"message":    "Email and code are required",
			})
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Code = strings.TrimSpace(req.Code)

		if req.Email == "" || req.Code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "MISSING_FIELD",
				"message":    "Email and code are required",
			})
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_EMAIL",
				"message":    "Invalid email format",
			})
		}

		if err := svc.Verify(c.Context(), req.Email, req.Code); err != nil {
			return codeError(c, err)
		}

		if err := creds.MarkVerified(c.Context(), req.Email); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not confirm e-mail",
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Code verified successfully",
		})
	}
}

// codeError maps lifecycle failures onto the response taxonomy.
func codeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrCodeNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error_code": "CODE_NOT_FOUND",
			"message":    "Invalid or expired code",
		})
	case errors.Is(err, domain.ErrCodeExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error_code": "CODE_EXPIRED",
			"message":    "Code expired",
		})
	case errors.Is(err, domain.ErrCodeMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error_code": "CODE_MISMATCH",
			"message":    "Incorrect code",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error_code": "SERVER_ERROR",
			"message":    "Could not verify code",
		})
	}
}
