package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"kova-store/internal/config"
	"kova-store/internal/db"
	"kova-store/internal/repository"
	"kova-store/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// seed carga el catalogo por defecto.
func main() {
	reset := flag.Bool("reset", false, "borrar los productos existentes antes de cargar")
	flag.Parse()

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

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	// Con redis configurado se invalida el cache que comparte la API.
	var cache service.CatalogCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		cache = service.NewRedisCatalogCache(client)
	}

	catalog := service.NewCatalogService(logger, repository.NewPgProductRepository(pool), cache, cfg.CatalogCacheTTL())
	imageBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/") + "/uploads"
	n, err := catalog.Seed(ctx, service.DefaultCatalog(imageBaseURL), *reset)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	fmt.Printf("seeded %d products\n", n)
}
