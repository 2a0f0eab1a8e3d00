package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-finlink-api/internal/config"
	"github.com/go-finlink-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-finlink-api/internal/infrastructure/jwt"
	"github.com/go-finlink-api/internal/infrastructure/plaid"
	"github.com/go-finlink-api/internal/pkg/password"
	transporthttp "github.com/go-finlink-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Credential store. An unreachable store at startup is fatal.
	dynamoClient, err := dynamo.NewClient(cfg)
	if err != nil {
		log.Fatalf("dynamo client: %v", err)
	}
	if err := dynamo.Bootstrap(context.Background(), dynamoClient, cfg.UsersTable); err != nil {
		log.Fatalf("dynamo bootstrap: %v", err)
	}

	// Session token provider. The signing key lives for the process lifetime.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.UsersTable),
		Aggregator:  plaid.NewClient(cfg),
		JWTProvider: jwtProvider,
		Hasher:      password.NewHasher(),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
