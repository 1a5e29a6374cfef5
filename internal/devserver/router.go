package devserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
	orderrepo "delicia/internal/repository/order"
	profilerepo "delicia/internal/repository/profile"
)

// AuthAPI issues and validates bearer tokens.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*profilerepo.Record, string, string, error)
	LookupByToken(ctx context.Context, token string) (string, error)
	AccessTTLSeconds() int
}

type ProductAPI interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type ProfileAPI interface {
	GetByID(ctx context.Context, id string) (*profilerepo.Record, error)
}

type OrderAPI interface {
	CreateHeader(ctx context.Context, in orderrepo.CreateHeaderInput) (*domain.Order, error)
	CreateLines(ctx context.Context, lines []domain.OrderLine) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// Deps carries the services the routes are built from.
type Deps struct {
	Auth     AuthAPI
	Products ProductAPI
	Profiles ProfileAPI
	Orders   OrderAPI
}

const userIDKey = "devserver.userID"

// buildRouter wires the REST dialect routes.
func buildRouter(logger *logrus.Logger, db *pgxpool.Pool, apiKey string, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, log: logger}

	authGroup := router.Group("/auth/v1", apiKeyMiddleware(apiKey))
	authGroup.POST("/token", h.tokenGrant)

	rest := router.Group("/rest/v1", apiKeyMiddleware(apiKey))
	rest.GET("/productos", h.listProducts)
	rest.GET("/profiles", bearerMiddleware(deps.Auth), h.getProfiles)
	rest.GET("/pedidos", bearerMiddleware(deps.Auth), h.listOrders)
	rest.POST("/pedidos", bearerMiddleware(deps.Auth), h.createOrder)
	rest.POST("/pedido_items", bearerMiddleware(deps.Auth), h.createOrderItems)

	return router
}

// apiKeyMiddleware enforces the apikey header when a key is configured.
func apiKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" && c.GetHeader("apikey") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid api key"})
			return
		}
		c.Next()
	}
}

// bearerMiddleware resolves the Authorization header into a user id.
func bearerMiddleware(auth AuthAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "bearer token required"})
			return
		}
		userID, err := auth.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}
