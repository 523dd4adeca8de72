package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"kova-store/internal/domain"
	"kova-store/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

const defaultCatalogCacheTTL = time.Minute

// ProductInput is the payload for creating a catalog entry.
type ProductInput struct {
	Name       string
	Price      float64
	Category   string
	Image      string
	Sizes      []string
	Collection string
}

// CatalogService serves the product catalog with a read-through cache.
type CatalogService struct {
	logger   *zap.Logger
	products repository.ProductRepository
	cache    CatalogCache
	cacheTTL time.Duration
}

// NewCatalogService wires the catalog. A nil cache disables caching.
func NewCatalogService(logger *zap.Logger, products repository.ProductRepository, cache CatalogCache, cacheTTL time.Duration) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCatalogCacheTTL
	}
	return &CatalogService{
		logger:   logger,
		products: products,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *CatalogService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter = domain.ProductFilter{
		Search:     strings.TrimSpace(filter.Search),
		Collection: strings.TrimSpace(filter.Collection),
		Category:   strings.TrimSpace(filter.Category),
	}
	key := "list:" + filter.Search + "|" + filter.Collection + "|" + filter.Category

	var products []domain.Product
	gen, hit := s.cached(ctx, key, &products)
	if hit {
		return products, nil
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.store(ctx, gen, key, products)
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (domain.Product, error) {
	key := "product:" + strconv.FormatInt(id, 10)

	var product domain.Product
	gen, hit := s.cached(ctx, key, &product)
	if hit {
		return product, nil
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, err
	}
	s.store(ctx, gen, key, product)
	return product, nil
}

func (s *CatalogService) Create(ctx context.Context, input ProductInput) (domain.Product, error) {
	product, err := validateProduct(input)
	if err != nil {
		return domain.Product{}, err
	}
	created, err := s.products.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx)
	s.logger.Info("product created", zap.Int64("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// Seed inserts products, optionally wiping the catalog first.
func (s *CatalogService) Seed(ctx context.Context, inputs []ProductInput, reset bool) (int, error) {
	if reset {
		if err := s.products.DeleteAll(ctx); err != nil {
			return 0, err
		}
	}
	n := 0
	for _, input := range inputs {
		product, err := validateProduct(input)
		if err != nil {
			return n, err
		}
		if _, err := s.products.Create(ctx, product); err != nil {
			return n, err
		}
		n++
	}
	s.invalidate(ctx)
	return n, nil
}

func validateProduct(input ProductInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" || category == "" {
		return domain.Product{}, ErrInvalidProduct
	}
	if input.Price < 0 || math.IsNaN(input.Price) || math.IsInf(input.Price, 0) {
		return domain.Product{}, ErrInvalidProduct
	}

	sizes := make([]string, 0, len(input.Sizes))
	for _, size := range input.Sizes {
		if size = strings.TrimSpace(size); size != "" {
			sizes = append(sizes, size)
		}
	}
	product := domain.Product{
		Name:     name,
		Price:    input.Price,
		Category: category,
		Image:    strings.TrimSpace(input.Image),
		Sizes:    sizes,
	}
	if collection := strings.TrimSpace(input.Collection); collection != "" {
		product.Collection = &collection
	}
	return product, nil
}

// cached looks key up in the current generation and returns that generation
// so the caller can store a fresh read under it. A negative generation means
// the cache is unavailable and nothing should be stored.
func (s *CatalogService) cached(ctx context.Context, key string, dst any) (int64, bool) {
	if s.cache == nil {
		return -1, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Warn("catalog cache generation failed", zap.Error(err))
		return -1, false
	}
	raw, ok, err := s.cache.Get(ctx, gen, key)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.Error(err), zap.String("key", key))
		return gen, false
	}
	if !ok {
		return gen, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("catalog cache decode failed", zap.Error(err), zap.String("key", key))
		return gen, false
	}
	return gen, true
}

func (s *CatalogService) store(ctx context.Context, gen int64, key string, value any) {
	if s.cache == nil || gen < 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, gen, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err), zap.String("key", key))
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}
