package http

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/codes"
	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
)

// Notifier dispatches code e-mails. Satisfied by *notify.Mailer.
type Notifier interface {
	SendVerification(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, code string) error
}

var validate = validator.New()

// Module wires up dependencies for the auth HTTP module.
type Module struct {
	verifyCodes *codes.Service
	resetCodes  *codes.Service
	creds       domain.CredentialStore
	mailer      Notifier
}

// NewModule builds the two code lifecycles (registration and password
// reset) over one store, namespaced by kind.
func NewModule(store domain.CodeStore, creds domain.CredentialStore, mailer Notifier, ttl time.Duration) *Module {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &Module{
		verifyCodes: codes.NewService(store, domain.CodeVerify, ttl),
		resetCodes:  codes.NewService(store, domain.CodeReset, ttl),
		creds:       creds,
		mailer:      mailer,
	}
}

func (m *Module) Register(r fiber.Router) {
	auth := r.Group("/auth")
	auth.Post("/register", RegisterHandler(m.verifyCodes, m.mailer))
	auth.Post("/verify-code", VerifyCodeHandler(m.verifyCodes, m.creds))
	auth.Post("/forgot-password", ForgotPasswordHandler(m.resetCodes, m.mailer))
	auth.Post("/reset-password", ResetPasswordHandler(m.resetCodes, m.creds))
}
