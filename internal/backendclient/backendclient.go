// Package backendclient forwards profile deletions to a remote backend API:
// DELETE {backend}?user_id={id}, authorized with the caller's bearer token.
package backendclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/profiledel/internal/auth"
	"github.com/patric-chuzhbe/profiledel/internal/models"
)

// Client is a profile remover that delegates to the backend.
type Client struct {
	http      *resty.Client
	deleteURL string
}

// New returns a Client for deleteURL. timeout bounds every backend call.
func New(deleteURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(deleteURL)
	if err != nil {
		return nil, fmt.Errorf("in internal/backendclient/backendclient.go/New(): error while `url.Parse()` calling: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend URL %q must be absolute", deleteURL)
	}

	return &Client{
		http:      resty.New().SetTimeout(timeout),
		deleteURL: deleteURL,
	}, nil
}

// RemoveProfile asks the backend to delete userID. A 404 from the backend
// becomes models.ErrProfileNotFound; any other non-2xx status is an error
// carrying the backend's response body.
func (c *Client) RemoveProfile(ctx context.Context, userID string) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("user_id", userID)
	if token := auth.TokenFromContext(ctx); token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Delete(c.deleteURL)
	if err != nil {
		return fmt.Errorf("in internal/backendclient/backendclient.go/RemoveProfile(): error while `req.Delete()` calling: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return models.ErrProfileNotFound
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("backend error: %s", resp.String())
	}

	return nil
}

func (c *Client) Close() error {
	return nil
}
