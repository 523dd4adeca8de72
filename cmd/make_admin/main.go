package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"kova-store/internal/config"
	"kova-store/internal/db"
	"kova-store/internal/repository"
	"kova-store/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// make_admin promueve a administrador un usuario existente.
// Uso: go run ./cmd/make_admin -email user@example.com
func main() {
	emailAddr := flag.String("email", "", "email del usuario a promover")
	flag.Parse()
	if *emailAddr == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userSvc := service.NewUserService(logger, repository.NewPgUserRepository(pool))
	if err := userSvc.PromoteToAdmin(ctx, *emailAddr); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			fmt.Fprintf(os.Stderr, "user %s not found, log in once before promoting\n", *emailAddr)
			os.Exit(1)
		}
		logger.Fatal("promote failed", zap.Error(err))
	}
	fmt.Printf("%s is now an administrator\n", *emailAddr)
}
