// Package backend implements the REST client for the remote commerce API.
// Wire field names differ from the domain names and are translated here, at
// the boundary.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
	"delicia/internal/money"
)

// RemoteError reports a non-2xx or malformed response from the backend.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call failed: status=%d body=%s", e.Status, e.Body)
}

// Credentials is the result of a successful password-grant sign in.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
}

// Client issues authenticated requests against the backend. The bearer token
// is process-wide mutable state with a single writer (the auth manager);
// in-flight requests keep whatever token they captured at send time.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	bucket     string
	log        logrus.FieldLogger

	mu    sync.RWMutex
	token string
}

func New(baseURL, apiKey, bucket string, logger logrus.FieldLogger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
		log:        logger,
	}
}

// SetToken replaces the outgoing Authorization header state. An empty token
// clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if token == "" {
		c.log.Debug("backend: authorization header cleared")
	} else {
		c.log.Debug("backend: authorization header set")
	}
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn performs the password grant and returns the issued credentials.
func (c *Client) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	payload := map[string]string{"email": email, "password": password}
	var res tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", payload, false, &res); err != nil {
		return Credentials{}, err
	}
	creds := Credentials{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		UserID:       res.User.ID,
		Email:        res.User.Email,
	}
	return creds, nil
}

type productRecord struct {
	ID          string      `json:"idproducto"`
	Name        string      `json:"nombreproducto"`
	Description string      `json:"descripcion"`
	Category    string      `json:"categoria"`
	ImageURL    string      `json:"imagen_url"`
	Price       json.Number `json:"precio"`
}

// ListProducts fetches the full catalog. Cancelling ctx aborts the request
// and leaves no partial state behind.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var records []productRecord
	if err := c.doJSON(ctx, http.MethodGet, "/rest/v1/productos?select=*", nil, false, &records); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		cents := int64(0)
		if rec.Price != "" {
			parsed, err := money.ParseDecimal(rec.Price.String())
			if err != nil {
				c.log.Warnf("backend: product %s has unparseable price %q, skipping", rec.ID, rec.Price)
				continue
			}
			cents = parsed
		}
		products = append(products, domain.Product{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Category:    rec.Category,
			ImageURL:    c.normalizeImageURL(rec.ImageURL),
			PriceCents:  cents,
		})
	}
	c.log.Debugf("backend: listed %d products", len(products))
	return products, nil
}

type profileRecord struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// GetProfile looks up a profile record by user id. A valid id with no
// provisioned profile returns (nil, nil).
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	path := "/rest/v1/profiles?id=eq." + url.QueryEscape(userID) + "&select=*"
	var records []profileRecord
	if err := c.doJSON(ctx, http.MethodGet, path, nil, false, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &domain.Profile{FullName: records[0].FullName, Email: records[0].Email}, nil
}

type orderPayload struct {
	UserID    string      `json:"userid"`
	Total     json.Number `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type orderRecord struct {
	ID        string      `json:"idpedido"`
	UserID    string      `json:"userid"`
	Total     json.Number `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreateOrder writes the order header. The backend assigns the id; it is
// echoed back via Prefer: return=representation.
func (c *Client) CreateOrder(ctx context.Context, userID string, totalCents int64, createdAt time.Time) (*domain.Order, error) {
	payload := orderPayload{
		UserID:    userID,
		Total:     json.Number(money.FormatCents(totalCents)),
		Status:    domain.OrderStatusPending,
		CreatedAt: createdAt,
	}
	var created []orderRecord
	if err := c.doJSON(ctx, http.MethodPost, "/rest/v1/pedidos", payload, true, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, nil
	}
	rec := created[0]
	cents := totalCents
	if rec.Total != "" {
		if parsed, err := money.ParseDecimal(rec.Total.String()); err == nil {
			cents = parsed
		}
	}
	return &domain.Order{
		ID:         rec.ID,
		UserID:     rec.UserID,
		TotalCents: cents,
		Status:     rec.Status,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

type orderLinePayload struct {
	OrderID   string      `json:"pedido_id"`
	ProductID string      `json:"producto_id"`
	Quantity  int         `json:"cantidad"`
	Price     json.Number `json:"precio"`
}

// CreateOrderLines writes one batch of line records referencing orderID.
func (c *Client) CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	payload := make([]orderLinePayload, 0, len(lines))
	for _, line := range lines {
		payload = append(payload, orderLinePayload{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     json.Number(money.FormatCents(line.UnitPriceCents)),
		})
	}
	return c.doJSON(ctx, http.MethodPost, "/rest/v1/pedido_items", payload, true, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, prefer bool, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if prefer {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", method, path, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RemoteError{Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &RemoteError{Status: resp.StatusCode, Body: string(data)}
	}
	return nil
}

// normalizeImageURL turns stored image paths into fetchable URLs. Absolute
// URLs pass through; bare object names are rewritten against the public
// storage bucket. Unresolvable values collapse to empty, and the UI decides
// the placeholder.
func (c *Client) normalizeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	decoded = strings.TrimSpace(decoded)
	if parsed, err := url.Parse(decoded); err == nil && parsed.IsAbs() {
		return parsed.String()
	}
	if c.bucket == "" {
		return ""
	}
	name := strings.TrimPrefix(decoded, "/")
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, url.PathEscape(name))
}
