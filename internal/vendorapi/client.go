package vendorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/MrSnakeDoc/islandhop/internal/utils"
)

const (
	defaultUserAgent = "islandhop-portal"
	maxResponseBytes = 4 << 20

	// HeaderActingUser carries the signed-in user on every user-scoped
	// call, so the API can enforce ownership on its side too.
	HeaderActingUser = "X-Acting-User-Id"
)

// envelope is the shape of every Persistence API response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to the Persistence API. It owns no state beyond its
// configuration and is safe for concurrent use.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	Token     string
	UserAgent string
	logger    logger.Logger
}

// NewClient builds a client for baseURL. No request timeout is set: outbound
// calls rely on the transport defaults and on the caller's context.
func NewClient(baseURL, token string, log logger.Logger) *Client {
	return &Client{
		HTTP:      &http.Client{},
		BaseURL:   baseURL,
		Token:     token,
		UserAgent: defaultUserAgent,
		logger:    log,
	}
}

// GetVendorProfile fetches the vendor profile attached to a user.
func (c *Client) GetVendorProfile(ctx context.Context, userID string) (domain.VendorProfile, error) {
	q := url.Values{}
	q.Set("userId", userID)

	req, err := c.newRequest(ctx, http.MethodGet, "/vendors/profile", q, nil)
	if err != nil {
		return domain.VendorProfile{}, err
	}
	req.Header.Set(HeaderActingUser, userID)

	var profile domain.VendorProfile
	if err := c.do(req, &profile); err != nil {
		if errors.Is(err, ErrNoData) {
			return domain.VendorProfile{}, fmt.Errorf("vendor profile: %w", ErrNotFound)
		}
		return domain.VendorProfile{}, err
	}
	return profile, nil
}

// GetService fetches one service record on behalf of userID.
func (c *Client) GetService(ctx context.Context, userID string, serviceID int64) (domain.ServiceRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, servicePath(serviceID), nil, nil)
	if err != nil {
		return domain.ServiceRecord{}, err
	}
	req.Header.Set(HeaderActingUser, userID)

	var record domain.ServiceRecord
	if err := c.do(req, &record); err != nil {
		if errors.Is(err, ErrNoData) {
			return domain.ServiceRecord{}, fmt.Errorf("service %d: %w", serviceID, ErrNotFound)
		}
		return domain.ServiceRecord{}, err
	}
	return record, nil
}

// UpdateService sends payload as the new content of a service record on
// behalf of userID. Exactly one PUT is issued; nothing is retried.
func (c *Client) UpdateService(ctx context.Context, userID string, serviceID int64, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal update payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, servicePath(serviceID), nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(HeaderActingUser, userID)
	return c.do(req, nil)
}

// ListIslands fetches the island reference list.
func (c *Client) ListIslands(ctx context.Context) ([]domain.Island, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/islands", nil, nil)
	if err != nil {
		return nil, err
	}

	var islands []domain.Island
	if err := c.do(req, &islands); err != nil {
		if errors.Is(err, ErrNoData) {
			return []domain.Island{}, nil
		}
		return nil, err
	}
	return islands, nil
}

// Ping checks that the API answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/islands", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("api unreachable: %w", err)
	}
	utils.DrainAndClose(resp.Body)
	return nil
}

func servicePath(serviceID int64) string {
	return "/vendor/services/" + strconv.FormatInt(serviceID, 10)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if query != nil {
		base.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

// do executes req and decodes the envelope. dest may be nil when only the
// success flag matters.
func (c *Client) do(req *http.Request, dest any) error {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer utils.Close(resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", req.Method, req.URL.Path, err)
	}

	if c.logger != nil {
		c.logger.Debug("api request",
			logger.String("method", req.Method),
			logger.String("path", req.URL.Path),
			logger.Int("status", resp.StatusCode),
			logger.Duration("duration", time.Since(start)))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = strings.TrimSpace(env.Message)
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", req.Method, req.URL.Path, decodeErr)
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(env.Message)}
	}

	if dest == nil {
		return nil
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return ErrNoData
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("%s %s: failed to decode data: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
