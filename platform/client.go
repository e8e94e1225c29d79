package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/soletta-dev/postpilot/config"
	"github.com/soletta-dev/postpilot/logger"
)

// Client is the narrow contract the pipeline has with the social platform:
// per-call success/failure and an identifier return value.
type Client interface {
	CreatePost(ctx context.Context, text string) (string, error)
	CreateReply(ctx context.Context, parentID, text string) (string, error)
	QuotePost(ctx context.Context, targetID, comment string) (string, error)
	DeletePost(ctx context.Context, postID string) error
	Search(ctx context.Context, query string) ([]FoundPost, error)
}

type FoundPost struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		ID    string      `json:"id"`
		Posts []FoundPost `json:"posts"`
	} `json:"data"`
}

// HTTPClient talks to one or more configured backends. Requests share a
// rate limiter and a concurrency cap; every call carries the configured
// per-request timeout so a stalled backend cannot pin a job indefinitely.
type HTTPClient struct {
	backends map[string]config.BackendConfig
	registry *Registry
	http     *http.Client
	limiter  *rate.Limiter
	sem      *semaphore.Weighted
	creds    *config.Credentials
}

func NewHTTPClient(cfg config.PlatformConfig, creds *config.Credentials) *HTTPClient {
	backends := make(map[string]config.BackendConfig, len(cfg.Backends))
	for _, b := range cfg.Backends {
		backends[b.Name] = b
	}

	return &HTTPClient{
		backends: backends,
		registry: NewRegistry(),
		http:     &http.Client{Timeout: cfg.RequestTimeout()},
		limiter:  rate.NewLimiter(rate.Every(cfg.RequestInterval()), 2),
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrentRequests)),
		creds:    creds,
	}
}

// Registry exposes the capability registry for availability queries.
func (c *HTTPClient) Registry() *Registry {
	return c.registry
}

// Probe asks every backend what it offers. Each backend is probed
// independently so one unavailable backend never takes down the rest.
func (c *HTTPClient) Probe(ctx context.Context) {
	for name, backend := range c.backends {
		ops, err := c.probeBackend(ctx, backend)
		if err != nil {
			logger.Logger.Printf("Warning: backend %s unavailable: %v", name, err)
			continue
		}
		c.registry.Register(name, ops)
		logger.Logger.Printf("Backend %s offers %d operations", name, len(ops))
	}
}

func (c *HTTPClient) probeBackend(ctx context.Context, backend config.BackendConfig) ([]Operation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, backend.URL+"/capabilities", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capabilities returned status %d", resp.StatusCode)
	}

	var payload struct {
		Operations []Operation `json:"operations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Operations, nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.creds.APIToken)
	req.Header.Set("Content-Type", "application/json")
}

func (c *HTTPClient) endpoint(op Operation) (string, error) {
	name, ok := c.registry.BackendFor(op)
	if !ok {
		return "", fmt.Errorf("operation %s not available on any backend", op)
	}
	return c.backends[name].URL, nil
}

func (c *HTTPClient) do(ctx context.Context, method, reqURL string, body any) (*apiResponse, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		if result.Message == "" {
			result.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", result.Message)
	}
	return &result, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, text string) (string, error) {
	base, err := c.endpoint(OpPost)
	if err != nil {
		return "", err
	}
	result, err := c.do(ctx, http.MethodPost, base+"/posts", map[string]string{
		"text":    text,
		"user_id": c.creds.UserID,
	})
	if err != nil {
		return "", err
	}
	return result.Data.ID, nil
}

func (c *HTTPClient) CreateReply(ctx context.Context, parentID, text string) (string, error) {
	base, err := c.endpoint(OpReply)
	if err != nil {
		return "", err
	}
	result, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/posts/%s/reply", base, parentID), map[string]string{
		"text":    text,
		"user_id": c.creds.UserID,
	})
	if err != nil {
		return "", err
	}
	return result.Data.ID, nil
}

func (c *HTTPClient) QuotePost(ctx context.Context, targetID, comment string) (string, error) {
	base, err := c.endpoint(OpQuote)
	if err != nil {
		return "", err
	}
	result, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/posts/%s/quote", base, targetID), map[string]string{
		"text":    comment,
		"user_id": c.creds.UserID,
	})
	if err != nil {
		return "", err
	}
	return result.Data.ID, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, postID string) error {
	base, err := c.endpoint(OpDelete)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/posts/%s", base, postID), nil)
	return err
}

func (c *HTTPClient) Search(ctx context.Context, query string) ([]FoundPost, error) {
	base, err := c.endpoint(OpSearch)
	if err != nil {
		return nil, err
	}
	result, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/search?q=%s", base, url.QueryEscape(query)), nil)
	if err != nil {
		return nil, err
	}
	return result.Data.Posts, nil
}
