package bridge

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
)

// AuthService is the slice of the auth manager the bridge needs.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) error
	Logout()
	IsAuthenticated() bool
	UserID() string
}

// CatalogService serves product listings and lookups.
type CatalogService interface {
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// CartService is the observable cart the shell mutates.
type CartService interface {
	Add(product domain.Product, quantity int)
	Remove(productID string)
	Clear()
	ItemCount() int
	Snapshot() domain.CartSnapshot
}

// ProfileService exposes the resolved display identity.
type ProfileService interface {
	Current() domain.Profile
	Resolve(ctx context.Context) domain.Profile
}

// OrderService runs the two-phase submission.
type OrderService interface {
	Submit(ctx context.Context, userID string, snap domain.CartSnapshot) (*domain.Order, error)
}

// Deps carries the core services the routes are built from.
type Deps struct {
	Auth    AuthService
	Catalog CatalogService
	Cart    CartService
	Profile ProfileService
	Orders  OrderService
}

// buildRouter wires the routes the UI shell consumes. CORS is open: the
// shell's webview runs on a local origin.
func buildRouter(logger *logrus.Logger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{deps: deps, log: logger}

	router.GET("/products", h.listProducts)

	router.GET("/cart", h.getCart)
	router.GET("/cart/badge", h.cartBadge)
	router.POST("/cart/items", h.addCartItem)
	router.DELETE("/cart/items/:productId", h.removeCartItem)

	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
	router.GET("/profile", h.getProfile)
	router.POST("/profile/refresh", h.refreshProfile)

	router.POST("/checkout", h.checkout)

	return router
}
