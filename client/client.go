// Package client is the Go client for the playgrounds API, plus the state
// containers the UI layer reads from.
//
// The Client speaks the API's envelope protocol and carries the session
// cookie in a jar, so one Client behaves like one browser: sign in once,
// every later call is authenticated. The stores (stores.go, github.go) wrap
// a Client and mirror loading/error/data state for rendering.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/model"
	"github.com/omk-66/playgrounds/internal/validate"
)

// envelope mirrors the server's uniform response wrapper. Data stays raw
// until the caller knows what type to decode into.
type envelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Errors  []apperror.Issue `json:"errors"`
}

// APIError is returned for any non-success envelope.
type APIError struct {
	StatusCode int
	Message    string
	Issues     []apperror.Issue
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// Client calls the playgrounds API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the API at baseURL. The cookie jar holds the
// session cookie across calls — without it every request would be anonymous.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SignUp registers an email/password account and stores the session cookie.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*model.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/sign-up", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn authenticates and stores the session cookie.
func (c *Client) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	body := map[string]string{"email": email, "password": password}
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/sign-in", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the current session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/sign-out", nil, nil)
}

// Session asks who is logged in. A nil user with a nil error means nobody.
func (c *Client) Session(ctx context.Context) (*model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session", nil)
	if err != nil {
		return nil, fmt.Errorf("client: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: fetching session: %w", err)
	}
	defer resp.Body.Close()

	// /session has its own shape: {"user": ...} with user possibly null.
	var out struct {
		User *model.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("client: decoding session response: %w", err)
	}
	return out.User, nil
}

// CreatePlayground validates the form locally and, only if it passes,
// submits it. The local check is advisory — the server re-validates
// everything — but it gives the form immediate per-field feedback without a
// network round trip.
func (c *Client) CreatePlayground(ctx context.Context, in validate.PlaygroundInput) (*model.Playground, error) {
	if _, issues := validate.Playground(in); len(issues) > 0 {
		return nil, &APIError{
			StatusCode: http.StatusBadRequest,
			Message:    "Validation failed",
			Issues:     issues,
		}
	}

	var playground model.Playground
	if err := c.do(ctx, http.MethodPost, "/api/addPlayground", in, &playground); err != nil {
		return nil, err
	}
	return &playground, nil
}

// ListPlaygrounds fetches every playground created by userID.
func (c *Client) ListPlaygrounds(ctx context.Context, userID string) ([]model.Playground, error) {
	var playgrounds []model.Playground
	if err := c.do(ctx, http.MethodGet, "/api/playground/"+userID, nil, &playgrounds); err != nil {
		return nil, err
	}
	return playgrounds, nil
}

// DeletePlayground deletes a playground by ID.
func (c *Client) DeletePlayground(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/playground/%d", id), nil, nil)
}

// do performs one request and unwraps the envelope. Error envelopes become
// *APIError carrying the server's message and field issues.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("client: encoding request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("server returned an unreadable response (status %d)", resp.StatusCode),
		}
	}

	if env.Status != "success" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			Issues:     env.Errors,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decoding response data: %w", err)
		}
	}

	return nil
}
