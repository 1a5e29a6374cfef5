package devserver

import (
	"encoding/json"
	"time"

	"delicia/internal/domain"
	"delicia/internal/money"
	profilerepo "delicia/internal/repository/profile"
)

// Wire records in the REST dialect the client consumes. Field names here are
// the remote names; translation to internal names happens on the client side.

type productRecord struct {
	ID          string      `json:"idproducto"`
	Name        string      `json:"nombreproducto"`
	Description string      `json:"descripcion,omitempty"`
	Category    string      `json:"categoria,omitempty"`
	ImageURL    string      `json:"imagen_url,omitempty"`
	Price       json.Number `json:"precio"`
}

func toProductRecord(p domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Price:       json.Number(money.FormatCents(p.PriceCents)),
	}
}

type profileRecord struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

func toProfileRecord(rec profilerepo.Record) profileRecord {
	return profileRecord{ID: rec.ID, FullName: rec.FullName, Email: rec.Email}
}

type orderRecord struct {
	ID        string      `json:"idpedido"`
	UserID    string      `json:"userid"`
	Total     json.Number `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func toOrderRecord(o domain.Order) orderRecord {
	return orderRecord{
		ID:        o.ID,
		UserID:    o.UserID,
		Total:     json.Number(money.FormatCents(o.TotalCents)),
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

type orderPayload struct {
	UserID    string      `json:"userid"`
	Total     json.Number `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type orderItemPayload struct {
	OrderID   string      `json:"pedido_id"`
	ProductID string      `json:"producto_id"`
	Quantity  int         `json:"cantidad"`
	Price     json.Number `json:"precio"`
}

type tokenGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenGrantResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         grantUser `json:"user"`
}

type grantUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
