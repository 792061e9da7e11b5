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
	"time"

	"github.com/atinyakov/brownies/internal/models"
)

// APIError is a non-2xx answer of the shop API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Client talks to a shop server.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// New returns a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

type message struct {
	Message string `json:"message"`
}

// do sends body as JSON and decodes a 2xx answer into out (if not nil).
// The token, if any, is sent verbatim in the Authorization header.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var m message
		_ = json.NewDecoder(resp.Body).Decode(&m)
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, username, name, password, confirmPassword string) error {
	return c.do(ctx, http.MethodPost, "/signup", "", map[string]string{
		"username":        username,
		"name":            name,
		"password":        password,
		"confirmPassword": confirmPassword,
	}, nil)
}

// Login returns a session token for the credentials.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	return out.Token, err
}

// CreateProduct registers a product. token may be empty when the server
// does not protect product creation.
func (c *Client) CreateProduct(ctx context.Context, token, name, description string, price float64) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPost, "/products", token, map[string]any{
		"name":        name,
		"description": description,
		"price":       price,
	}, &p)
	return p, err
}

// ListProducts returns the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/products", "", nil, &products)
	return products, err
}

// AddToCart adds quantity of productID to userID's cart.
func (c *Client) AddToCart(ctx context.Context, token, userID, productID string, quantity int) error {
	return c.do(ctx, http.MethodPost, cartPath(userID), token, map[string]any{
		"productId": productID,
		"quantity":  quantity,
	}, nil)
}

// GetCart returns userID's cart.
func (c *Client) GetCart(ctx context.Context, token, userID string) (models.Cart, error) {
	cart := models.Cart{}
	err := c.do(ctx, http.MethodGet, cartPath(userID), token, nil, &cart)
	return cart, err
}

// Checkout empties userID's cart.
func (c *Client) Checkout(ctx context.Context, token, userID string) error {
	return c.do(ctx, http.MethodPost, cartPath(userID)+"/checkout", token, nil, nil)
}

func cartPath(userID string) string {
	return "/cart/" + url.PathEscape(userID)
}
