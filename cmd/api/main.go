package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finnychat/internal/app"
	"github.com/MrJamesThe3rd/finnychat/internal/config"
	finnyHttp "github.com/MrJamesThe3rd/finnychat/internal/http"
	agentHandler "github.com/MrJamesThe3rd/finnychat/internal/http/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/http/auth"
)

func main() {
	tokenFor := flag.Int64("token-for", 0, "print a 24h bearer token for this user id and exit")
	seed := flag.Int64("seed", 0, "seed the default categories for this user id before serving")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	secret := []byte(cfg.Auth.JWTSecret)

	if *tokenFor != 0 {
		token, err := auth.IssueToken(secret, *tokenFor, 24*time.Hour)
		if err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}

		fmt.Println(token)

		return
	}

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to build agent", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if *seed != 0 {
		if err := a.Seed(ctx, *seed); err != nil {
			slog.Error("failed to seed categories", "user_id", *seed, "error", err)
			os.Exit(1)
		}
	}

	router := finnyHttp.New(secret, cfg.CORS.AllowedOrigins, agentHandler.NewHandler(a.Agent))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + cfg.LLM.Timeout,
	}

	slog.Info("starting server", "port", srv.Addr, "driver", cfg.DB.Driver)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
