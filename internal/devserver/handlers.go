package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
	"delicia/internal/money"
	orderrepo "delicia/internal/repository/order"
)

type handlers struct {
	deps Deps
	log  *logrus.Logger
}

// tokenGrant implements POST /auth/v1/token?grant_type=password.
func (h *handlers) tokenGrant(c *gin.Context) {
	if c.Query("grant_type") != "password" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_grant_type"})
		return
	}

	var req tokenGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	rec, access, refresh, err := h.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_grant", "error_description": "Invalid login credentials"})
			return
		}
		h.log.WithError(err).Error("token grant failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, tokenGrantResponse{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    h.deps.Auth.AccessTTLSeconds(),
		RefreshToken: refresh,
		User:         grantUser{ID: rec.ID, Email: rec.Email},
	})
}

// listProducts implements GET /rest/v1/productos.
func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Products.List(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("list productos failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list products"})
		return
	}

	records := make([]productRecord, 0, len(products))
	for _, p := range products {
		records = append(records, toProductRecord(p))
	}
	c.JSON(http.StatusOK, records)
}

// getProfiles implements GET /rest/v1/profiles with an id=eq.{uuid} filter.
// Results come back as an array, empty when no row matches.
func (h *handlers) getProfiles(c *gin.Context) {
	id := strings.TrimPrefix(c.Query("id"), "eq.")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id filter required"})
		return
	}

	rec, err := h.deps.Profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusOK, []profileRecord{})
			return
		}
		h.log.WithError(err).Error("get profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, []profileRecord{toProfileRecord(*rec)})
}

// createOrder implements POST /rest/v1/pedidos. With Prefer: return=representation
// the created row comes back as a single-element array.
func (h *handlers) createOrder(c *gin.Context) {
	var payload orderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order payload"})
		return
	}
	if payload.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "userid is required"})
		return
	}

	totalCents, err := money.ParseDecimal(payload.Total.String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid total"})
		return
	}

	status := payload.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	created, err := h.deps.Orders.CreateHeader(c.Request.Context(), orderrepo.CreateHeaderInput{
		UserID:     payload.UserID,
		TotalCents: totalCents,
		Status:     status,
		CreatedAt:  payload.CreatedAt,
	})
	if err != nil {
		h.log.WithError(err).Error("create pedido failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order"})
		return
	}

	if wantsRepresentation(c) {
		c.JSON(http.StatusCreated, []orderRecord{toOrderRecord(*created)})
		return
	}
	c.Status(http.StatusCreated)
}

// createOrderItems implements POST /rest/v1/pedido_items. The body is an
// array and the insert is atomic.
func (h *handlers) createOrderItems(c *gin.Context) {
	var payload []orderItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid items payload"})
		return
	}
	if len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "at least one item is required"})
		return
	}

	lines := make([]domain.OrderLine, 0, len(payload))
	for _, item := range payload {
		if item.OrderID == "" || item.ProductID == "" || item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item"})
			return
		}
		priceCents, err := money.ParseDecimal(item.Price.String())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item price"})
			return
		}
		lines = append(lines, domain.OrderLine{
			OrderID:        item.OrderID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: priceCents,
		})
	}

	if err := h.deps.Orders.CreateLines(c.Request.Context(), lines); err != nil {
		h.log.WithError(err).Error("create pedido_items failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order items"})
		return
	}
	c.Status(http.StatusCreated)
}

// listOrders implements GET /rest/v1/pedidos?userid=eq.{uuid}. Callers may
// only list their own orders.
func (h *handlers) listOrders(c *gin.Context) {
	userID := strings.TrimPrefix(c.Query("userid"), "eq.")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "userid filter required"})
		return
	}
	if caller := c.GetString(userIDKey); caller != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	orders, err := h.deps.Orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.WithError(err).Error("list pedidos failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list orders"})
		return
	}

	records := make([]orderRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, toOrderRecord(o))
	}
	c.JSON(http.StatusOK, records)
}

func wantsRepresentation(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Prefer"), "return=representation")
}
