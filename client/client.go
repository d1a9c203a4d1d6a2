package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ErrSessionExpired is returned when a request made with a stored token
// comes back unauthorized. The stale token has already been cleared by the
// time the caller sees this.
var ErrSessionExpired = goerrors.New("session expired, please login again", goerrors.CategoryAuth).
	WithTextCode("SESSION_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// Item mirrors the server's listing payload
type Item struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post mirrors the server's post payload
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction mirrors the server's transaction payload
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	SellerID    uuid.UUID `json:"seller_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterInput is the registration payload
type RegisterInput struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ItemInput is the listing payload
type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
}

// PostInput is the post payload
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Client talks to a tradepost server. All calls attach the stored bearer
// token when one exists, endpoints that require it fail server side when it
// does not.
type Client struct {
	baseURL string
	http    *http.Client
	store   *SessionStore
	gate    *SessionGate
}

func New(baseURL string, storage Storage) (*Client, error) {
	store := NewSessionStore(storage)
	gate, err := NewSessionGate(store)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		gate:    gate,
	}, nil
}

// Gate exposes the session state machine for callers that render it.
func (c *Client) Gate() *SessionGate {
	return c.gate
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token and flips the gate on success.
func (c *Client) Login(ctx context.Context, identifier, password string) error {
	out := tokenResponse{}
	payload := map[string]string{"identifier": identifier, "password": password}

	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &out); err != nil {
		return err
	}

	return c.gate.OnAuthenticated(out.Token)
}

// Register creates an account and logs the new user in with the returned
// token.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	out := tokenResponse{}

	if err := c.do(ctx, http.MethodPost, "/auth/register", input, &out); err != nil {
		return err
	}

	return c.gate.OnAuthenticated(out.Token)
}

// Logout drops the local session. The server keeps no session state, so
// there is nothing to call.
func (c *Client) Logout() error {
	return c.gate.Logout()
}

func (c *Client) Items(ctx context.Context) ([]Item, error) {
	out := struct {
		Items []Item `json:"items"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/items", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) Item(ctx context.Context, id uuid.UUID) (*Item, error) {
	out := Item{}
	if err := c.do(ctx, http.MethodGet, "/items/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateItem(ctx context.Context, input ItemInput) (*Item, error) {
	out := Item{}
	if err := c.do(ctx, http.MethodPost, "/items", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*Item, error) {
	out := Item{}
	if err := c.do(ctx, http.MethodPut, "/items/"+id.String(), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/items/"+id.String(), nil, nil)
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	out := struct {
		Posts []Post `json:"posts"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (c *Client) CreatePost(ctx context.Context, input PostInput) (*Post, error) {
	out := Post{}
	if err := c.do(ctx, http.MethodPost, "/posts", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	out := struct {
		Transactions []Transaction `json:"transactions"`
	}{}
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

func (c *Client) Purchase(ctx context.Context, itemID uuid.UUID) (*Transaction, error) {
	out := Transaction{}
	payload := map[string]string{"item_id": itemID.String()}
	if err := c.do(ctx, http.MethodPost, "/transactions", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do runs one request. The bearer token is read from the store at call
// time, never from a cached copy, so a logout in a parallel process takes
// effect on the next call.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to encode request payload")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to build request")
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Credential endpoints authenticate with the payload, never the
	// stored token: a 401 there means bad credentials, not a dead
	// session, and must leave any existing session untouched.
	hadToken := false
	if !isCredentialPath(path) {
		token, ok, err := c.store.Get()
		if err != nil {
			return err
		}
		if ok {
			req.Header.Set("Authorization", "Bearer "+token)
			hadToken = true
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "request failed")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized && hadToken {
		// The server refused a token we believed in. Drop it before
		// reporting so the caller sees a clean anonymous state.
		if err := c.gate.OnRejected(); err != nil {
			return err
		}
		return ErrSessionExpired
	}

	if res.StatusCode >= 400 {
		return decodeAPIError(res)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to decode response payload")
	}

	return nil
}

func isCredentialPath(path string) bool {
	return path == "/auth/login" || path == "/auth/register"
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeAPIError(res *http.Response) error {
	msg := fmt.Sprintf("server returned %d", res.StatusCode)

	body := apiError{}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		if body.Message != "" {
			msg = body.Message
		} else if body.Error != "" {
			msg = body.Error
		}
	}

	category := goerrors.CategoryOperation
	switch res.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		category = goerrors.CategoryAuth
	case http.StatusBadRequest:
		category = goerrors.CategoryValidation
	case http.StatusConflict:
		category = goerrors.CategoryConflict
	}

	return goerrors.New(msg, category).WithMetadata(map[string]any{
		"status": res.StatusCode,
	})
}
