// Package gateway is the storefront's HTTP surface: menu browsing, the
// session cart and checkout.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/example/buttg/pkg/cart"
	"github.com/example/buttg/pkg/catalog"
	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/order"
	"github.com/gin-gonic/gin"
	"github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// OrderSubmitter turns a checkout into an order id.
type OrderSubmitter interface {
	Submit(ctx context.Context, req *order.Request) (string, error)
}

type Gateway struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	server  *http.Server
	catalog *catalog.Catalog
	carts   *cart.Store
	orders  OrderSubmitter
	limiter *ipRateLimiter
}

func NewGateway(cfg *config.Config, logger *zap.Logger, cat *catalog.Catalog, carts *cart.Store, orders OrderSubmitter) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	// ClientIP keys the checkout limiter, so only listed proxies may set it.
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		logger.Error("Invalid trusted proxies, trusting none", zap.Strings("trusted_proxies", cfg.HTTP.TrustedProxies), zap.Error(err))
		router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:  cfg,
		logger:  logger,
		router:  router,
		catalog: cat,
		carts:   carts,
		orders:  orders,
		limiter: newIPRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst, 10*time.Minute),
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := g.router.Group("/api/v1")
	{
		v1.GET("/categories", g.listCategories)
		v1.GET("/deals", g.listDeals)

		menu := v1.Group("/menu")
		{
			menu.GET("", g.listMenu)
			menu.GET("/popular", g.listPopular)
			menu.GET("/:id", g.getMenuItem)
		}

		carts := v1.Group("/cart", sessionMiddleware(g.config.Cart, g.config.HTTP.SecureCookies))
		{
			carts.GET("", g.getCart)
			carts.DELETE("", g.clearCart)
			carts.POST("/items", g.addCartItem)
			carts.PUT("/items/:id", g.updateCartItem)
			carts.DELETE("/items/:id", g.removeCartItem)
		}
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Checkout keeps the path the storefront's forms already post to.
	g.router.POST("/api/orders",
		sessionMiddleware(g.config.Cart, g.config.HTTP.SecureCookies),
		rateLimitMiddleware(g.limiter),
		g.submitOrder)
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := g.config.HTTP.Addr()
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.logger.Info("Gateway starting", zap.String("address", addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}
