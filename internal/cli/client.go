package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

// APIError is a non-2xx answer from the BFA.
type APIError struct {
	Status   int
	Message  string
	Redirect string
}

func (e *APIError) Error() string {
	if e.Redirect != "" {
		return fmt.Sprintf("%s (HTTP %d, see %s)", e.Message, e.Status, e.Redirect)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Client talks to the FeedTrack BFA on behalf of one user.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// NewClient returns a client for base. token may be empty before login.
func NewClient(base string, httpClient *http.Client, token string) *Client {
	return &Client{base: base, http: httpClient, token: token}
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	var sess domain.Session
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, domain.LoginRequest{Username: username, Password: password}, &sess); err != nil {
		return nil, err
	}
	c.token = sess.AccessToken
	return &sess, nil
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, nil)
}

// Get decodes the JSON answer of GET path into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Delete issues DELETE path and decodes the answer into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Download streams the raw body of GET path into w.
func (c *Client) Download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		var e struct {
			Error    string `json:"error"`
			Redirect string `json:"redirect"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: e.Error, Redirect: e.Redirect}
	}
	return resp, nil
}
