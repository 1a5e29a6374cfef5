package bridge

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"delicia/internal/auth"
	"delicia/internal/backend"
	"delicia/internal/domain"
	"delicia/internal/order"
)

type handlers struct {
	deps Deps
	log  *logrus.Logger
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.log.Warnf("bridge: list products: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Cart.Snapshot())
}

// cartBadge emits the item count only. How (or whether) a badge is rendered
// is the shell's decision.
func (h *handlers) cartBadge(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.deps.Cart.ItemCount()})
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.deps.Catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.log.Warnf("bridge: lookup product %s: %v", req.ProductID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load product"})
		return
	}

	h.deps.Cart.Add(*product, req.Quantity)
	c.JSON(http.StatusOK, h.deps.Cart.Snapshot())
}

func (h *handlers) removeCartItem(c *gin.Context) {
	h.deps.Cart.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, h.deps.Cart.Snapshot())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.deps.Auth.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentialsInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var remote *backend.RemoteError
		if errors.As(err, &remote) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in rejected"})
			return
		}
		h.log.Warnf("bridge: login: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "sign in unavailable"})
		return
	}

	profile := h.deps.Profile.Resolve(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *handlers) logout(c *gin.Context) {
	h.deps.Auth.Logout()
	profile := h.deps.Profile.Resolve(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *handlers) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profile": h.deps.Profile.Current()})
}

func (h *handlers) refreshProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profile": h.deps.Profile.Resolve(c.Request.Context())})
}

// checkout rejects guests before the protocol runs, submits the captured
// snapshot, and clears the cart only after both remote writes succeed.
func (h *handlers) checkout(c *gin.Context) {
	if !h.deps.Auth.IsAuthenticated() || h.deps.Auth.UserID() == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to place an order"})
		return
	}

	snap := h.deps.Cart.Snapshot()
	if len(snap.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	created, err := h.deps.Orders.Submit(c.Request.Context(), h.deps.Auth.UserID(), snap)
	if err != nil {
		var orphaned *order.OrphanedHeaderError
		if errors.As(err, &orphaned) {
			h.log.Warnf("bridge: checkout left orphaned header %s: %v", orphaned.OrderID, err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "order lines could not be saved, cart kept for retry",
				"orderId": orphaned.OrderID,
			})
			return
		}
		h.log.Warnf("bridge: checkout: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "order could not be created"})
		return
	}

	h.deps.Cart.Clear()
	c.JSON(http.StatusCreated, gin.H{"order": created})
}
