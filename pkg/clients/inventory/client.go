// Package inventory talks to the external inventory REST backend.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
)

// Client exposes the inventory backend operations used by the portal.
type Client interface {
	Fetch(ctx context.Context, res config.Resource) Collection
	GetUser(ctx context.Context, id string) (normalize.Raw, error)
	Create(ctx context.Context, res config.Resource, payload any) (normalize.Raw, error)
	Delete(ctx context.Context, res config.Resource, id string) error
	Login(ctx context.Context, email, password string) (normalize.Raw, error)
	Ping(ctx context.Context, res config.Resource) error
}

// Observer receives fetch and mutation outcomes. *metrics.Metrics
// satisfies it.
type Observer interface {
	ObserveFetch(resource string, found bool, elapsed time.Duration)
	PathFailed(resource, reason string)
	Mutation(resource, action string, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveFetch(string, bool, time.Duration) {}
func (noopObserver) PathFailed(string, string)                {}
func (noopObserver) Mutation(string, string, error)           {}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	endpoints  config.Endpoints
	observer   Observer
	logger     *zap.Logger
}

// NewClient builds a backend client from the configured origin and timeout.
func NewClient(cfg config.BackendConfig, endpoints config.Endpoints, observer Observer, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = noopObserver{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{
		httpClient: restyClient,
		endpoints:  endpoints,
		observer:   observer,
		logger:     logger,
	}
}

// GetUser loads one user by id. A 404 yields ErrNotFound.
func (c *APIClient) GetUser(ctx context.Context, id string) (normalize.Raw, error) {
	users := c.endpoints.MustResource(config.ResourceUsers)
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(users.GetPath(id))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}

	body, err := decodeObject(resp)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	user := unwrap(body, "data", "user")
	if len(user) == 0 {
		return nil, ErrNotFound
	}
	return user, nil
}

// Create posts payload to the resource's create path and returns the
// created record when the backend echoes one.
func (c *APIClient) Create(ctx context.Context, res config.Resource, payload any) (normalize.Raw, error) {
	if res.Create == "" {
		return nil, fmt.Errorf("resource %s: %w", res.Name, ErrUnsupported)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(res.Create)
	if err != nil {
		err = fmt.Errorf("create %s: %w", res.Name, err)
		c.observer.Mutation(res.Name, "create", err)
		return nil, err
	}

	body, err := decodeObject(resp)
	c.observer.Mutation(res.Name, "create", err)
	if err != nil {
		c.logger.Error("backend rejected create",
			zap.String("resource", res.Name),
			zap.Int("status", resp.StatusCode()),
			zap.Error(err),
		)
		return nil, err
	}
	return unwrap(body, "data", res.Name), nil
}

// Delete removes the record id from the resource.
func (c *APIClient) Delete(ctx context.Context, res config.Resource, id string) error {
	if res.Delete == "" {
		return fmt.Errorf("resource %s: %w", res.Name, ErrUnsupported)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(res.DeletePath(id))
	if err != nil {
		err = fmt.Errorf("delete %s %s: %w", res.Name, id, err)
		c.observer.Mutation(res.Name, "delete", err)
		return err
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		err = statusError(resp)
		c.logger.Error("backend rejected delete",
			zap.String("resource", res.Name),
			zap.String("id", id),
			zap.Int("status", resp.StatusCode()),
			zap.Error(err),
		)
	}
	c.observer.Mutation(res.Name, "delete", err)
	return err
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials against the backend and returns the user object
// of the response.
func (c *APIClient) Login(ctx context.Context, email, password string) (normalize.Raw, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: email, Password: password}).
		Post(c.endpoints.Login)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr := statusError(resp)
		if !apiErr.FromBody {
			apiErr.Message = "Invalid email or password"
		}
		return nil, apiErr
	}

	body, err := decodeObject(resp)
	if err != nil {
		return nil, err
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		return nil, &APIError{Status: resp.StatusCode(), Message: "Login response did not include a user"}
	}
	return normalize.Raw(user), nil
}

// Ping issues a HEAD request against the resource's first read path.
func (c *APIClient) Ping(ctx context.Context, res config.Resource) error {
	if len(res.Read) == 0 {
		return fmt.Errorf("resource %s: %w", res.Name, ErrUnsupported)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Head(res.Read[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode())
	}
	return nil
}

// decodeObject parses a mutation response. Non-JSON bodies and non-2xx
// statuses become *APIError; an empty 2xx body is an empty object.
func decodeObject(resp *resty.Response) (normalize.Raw, error) {
	raw := resp.Body()
	if len(strings.TrimSpace(string(raw))) == 0 {
		if resp.StatusCode() >= http.StatusBadRequest {
			return nil, statusError(resp)
		}
		return normalize.Raw{}, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &APIError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("Server returned invalid JSON. Status: %d, Response: %s", resp.StatusCode(), string(raw)),
		}
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, newAPIError(resp.StatusCode(), decoded)
	}

	obj, _ := decoded.(map[string]any)
	return normalize.Raw(obj), nil
}

// unwrap returns the first nested object found under keys, or body itself.
func unwrap(body normalize.Raw, keys ...string) normalize.Raw {
	for _, key := range keys {
		if nested, ok := body[key].(map[string]any); ok {
			return normalize.Raw(nested)
		}
	}
	return body
}

func statusError(resp *resty.Response) *APIError {
	var decoded any
	_ = json.Unmarshal(resp.Body(), &decoded)
	return newAPIError(resp.StatusCode(), decoded)
}
