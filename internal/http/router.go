package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kova-store/internal/service"
)

// RouterOptions agrupa la configuracion del router que no son handlers.
type RouterOptions struct {
	AllowedOrigins []string
	// UploadDir se sirve en /uploads cuando las imagenes se guardan en disco.
	UploadDir string
}

// Handlers agrupa los handlers HTTP de la API.
type Handlers struct {
	Users    *UserHandler
	Products *ProductHandler
	Orders   *OrderHandler
	Uploads  *UploadHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, opts RouterOptions, guard *service.AccessGuard, h Handlers) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y CORS.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(opts.AllowedOrigins))

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	api := r.Group("", jsonContentTypeMiddleware())
	authed := AuthMiddleware(logger, guard)

	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend is running"})
	})

	auth := api.Group("/auth")
	auth.POST("/send-otp", h.Users.RequestOTP)
	auth.POST("/verify-otp", h.Users.VerifyOTP)

	users := api.Group("/users", authed)
	users.GET("/me", h.Users.Me)
	users.PUT("/profile", h.Users.UpdateProfile)

	products := api.Group("/products")
	products.GET("", h.Products.ListProducts)
	products.GET("/:id", h.Products.GetProduct)
	products.POST("", authed, RequireAdmin(), h.Products.CreateProduct)
	products.DELETE("/:id", authed, RequireAdmin(), h.Products.DeleteProduct)

	api.POST("/upload", authed, RequireAdmin(), h.Uploads.UploadImage)

	orders := api.Group("/orders", authed)
	orders.POST("", h.Orders.CreateOrder)
	orders.GET("/my", h.Orders.ListMyOrders)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
