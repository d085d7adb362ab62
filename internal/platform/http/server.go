package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// SMTPProber reports mail-transport reachability for the health endpoint.
type SMTPProber interface {
	VerifyConnection(ctx context.Context) bool
}

type Options struct {
	AppName        string
	Mail           SMTPProber
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewServer(opts Options, modules ...Module) *fiber.App {
	app := fiber.New(fiber.Config{AppName: opts.AppName})

	api := app.Group("/api")
	if opts.RateLimitRPS > 0 {
		api.Use(NewRateLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst).Handle())
	}

	for _, m := range modules {
		m.Register(api)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		reachable := false
		if opts.Mail != nil {
			reachable = opts.Mail.VerifyConnection(c.Context())
		}
		return c.JSON(fiber.Map{"status": "ok", "email_smtp": reachable})
	})
	return app
}
