package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2/"
	limit_param    = "limit"
	offset_param   = "offset"
)

// ErrNotFound is returned when the api answers a lookup with 404.
var ErrNotFound = errors.New("pokeapi: resource not found")

// StatusError carries the status of a non-2xx api response.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi: %q answered with status %d", e.Endpoint, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Client struct {
	cache   Cache
	client  *http.Client
	baseURL string
}

func NewClient(cache Cache, client *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		cache:   cache,
		client:  client,
		baseURL: baseURL,
	}
}

func do[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	value := new(T)
	found, err := c.cache.Get(endpoint, value)
	if err != nil {
		return nil, fmt.Errorf("reading %q from cache: %w", endpoint, err)
	}
	if found {
		return value, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %q: %w", endpoint, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", endpoint, err)
	}
	v := new(T)
	err = json.Unmarshal(body, v)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", endpoint, err)
	}

	err = c.cache.Set(endpoint, v)
	if err != nil {
		slog.Warn("caching pokeapi response", slog.String("endpoint", endpoint), slog.Any("error", err))
	}
	return v, nil
}
