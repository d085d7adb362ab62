package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/garpP/sistema-de-emails-pra-API/internal/db"
	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/infra"
	redisinfra "github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/infra/redis"
	"github.com/garpP/sistema-de-emails-pra-API/internal/platform/config"
	phttp "github.com/garpP/sistema-de-emails-pra-API/internal/platform/http"
	"github.com/garpP/sistema-de-emails-pra-API/internal/platform/notify"

	authhttp "github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()

	var store domain.CodeStore
	if cfg.RedisAddr != "" {
		client := db.MustOpenRedis(cfg.RedisAddr, cfg.RedisPass)
		defer client.Close()
		store = redisinfra.NewCodeStore(client)
		log.Printf("code store: redis at %s", cfg.RedisAddr)
	} else {
		store = infra.NewMemCodeStore()
		log.Println("code store: in-memory (codes are lost on restart, single instance only)")
	}

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.EmailLogOnly)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if mailer.VerifyConnection(ctx) {
		log.Println("smtp reachable")
	} else {
		log.Println("WARN: smtp not reachable (check the local MTA)")
	}
	cancel()

	authModule := authhttp.NewModule(store, infra.NewMemCredentialStore(), mailer, cfg.CodeTTL)
	app := phttp.NewServer(phttp.Options{
		AppName:        "email-codes",
		Mail:           mailer,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, authModule)

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
