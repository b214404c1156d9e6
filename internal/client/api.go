// Package client est le client HTTP de l'API Cedra (catalogue, panier, wishlist).
package client

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

	"cedra_storefront/internal/middleware"
	"cedra_storefront/internal/models"
	"cedra_storefront/internal/utils"
)

// API opérations consommées par les services d'état côté client
type API interface {
	SetToken(token string)

	Search(ctx context.Context, params url.Values) (models.SearchResult, error)
	Product(ctx context.Context, productID string) (models.Product, error)

	Cart(ctx context.Context) (models.CartView, error)
	AddToCart(ctx context.Context, productID string, quantity int) (models.CartView, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (models.CartView, error)
	RemoveFromCart(ctx context.Context, productID string) (models.CartView, error)
	ClearCart(ctx context.Context) (models.CartView, error)

	Wishlist(ctx context.Context) ([]models.Product, error)
	AddToWishlist(ctx context.Context, productID string) ([]models.Product, error)
	RemoveFromWishlist(ctx context.Context, productID string) ([]models.Product, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New baseURL sans slash final, ex: http://localhost:8080
func New(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken "" = appels anonymes
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) Search(ctx context.Context, params url.Values) (models.SearchResult, error) {
	var out models.SearchResult
	path := "/api/products/search"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *HTTPClient) Product(ctx context.Context, productID string) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID), nil, &out)
	return out, err
}

func (c *HTTPClient) Cart(ctx context.Context) (models.CartView, error) {
	return c.cartCall(ctx, http.MethodGet, "/api/cart", nil)
}

func (c *HTTPClient) AddToCart(ctx context.Context, productID string, quantity int) (models.CartView, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.cartCall(ctx, http.MethodPost, "/api/cart", body)
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, productID string, quantity int) (models.CartView, error) {
	return c.cartCall(ctx, http.MethodPut, "/api/cart/"+url.PathEscape(productID), map[string]int{"quantity": quantity})
}

func (c *HTTPClient) RemoveFromCart(ctx context.Context, productID string) (models.CartView, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(productID), nil)
}

func (c *HTTPClient) ClearCart(ctx context.Context) (models.CartView, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart", nil)
}

func (c *HTTPClient) cartCall(ctx context.Context, method, path string, body any) (models.CartView, error) {
	var out models.CartView
	err := c.do(ctx, method, path, body, &out)
	return out, err
}

func (c *HTTPClient) Wishlist(ctx context.Context) ([]models.Product, error) {
	return c.wishlistCall(ctx, http.MethodGet, "/api/wishlist", nil)
}

func (c *HTTPClient) AddToWishlist(ctx context.Context, productID string) ([]models.Product, error) {
	return c.wishlistCall(ctx, http.MethodPost, "/api/wishlist", map[string]string{"productId": productID})
}

func (c *HTTPClient) RemoveFromWishlist(ctx context.Context, productID string) ([]models.Product, error) {
	return c.wishlistCall(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(productID), nil)
}

func (c *HTTPClient) wishlistCall(ctx context.Context, method, path string, body any) ([]models.Product, error) {
	var out models.Wishlist
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encodage requête: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("création requête: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("décodage réponse %s: %w", path, err)
	}
	return nil
}

// decodeError reconstruit l'AppError envoyée par le serveur
func decodeError(resp *http.Response) error {
	var body middleware.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return &utils.AppError{
			Kind:    kindFromStatus(resp.StatusCode),
			Message: http.StatusText(resp.StatusCode),
		}
	}

	kind := utils.ErrorKind(body.Code)
	if body.Code == "" || body.Code == "rate_limited" {
		kind = kindFromStatus(resp.StatusCode)
	}
	return &utils.AppError{
		Kind:      kind,
		Message:   body.Error,
		Retryable: body.Retryable || resp.StatusCode == http.StatusTooManyRequests,
	}
}

func kindFromStatus(status int) utils.ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return utils.KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return utils.KindAuth
	case http.StatusNotFound:
		return utils.KindNotFound
	case http.StatusConflict:
		return utils.KindConflict
	default:
		return utils.KindInternal
	}
}
