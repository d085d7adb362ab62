package http

import (
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/codes"
	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
	"github.com/garpP/sistema-de-emails-pra-API/internal/platform/security"
)

type resetReq struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func ResetPasswordHandler(svc *codes.Service, creds domain.CredentialStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resetReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "MISSING_FIELD",
				"message":    "Email, code and new password are required",
			})
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Code = strings.TrimSpace(req.Code)

		if req.Email == "" || req.Code == "" || req.NewPassword == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "MISSING_FIELD",
				"message":    "Email, code and new password are required",
			})
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_EMAIL",
				"message":    "Invalid email format",
			})
		}
		if len(req.NewPassword) < 8 || len(req.NewPassword) > 50 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error_code": "INVALID_PASSWORD",
				"message":    "Password must be 8 to 50 characters",
			})
		}

		if err := svc.Verify(c.Context(), req.Email, req.Code); err != nil {
			return codeError(c, err)
		}

		hash, err := security.HashPassword(req.NewPassword)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not process password",
			})
		}
		if err := creds.SetPassword(c.Context(), req.Email, hash); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error_code": "SERVER_ERROR",
				"message":    "Could not reset password",
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Password updated successfully",
		})
	}
}
