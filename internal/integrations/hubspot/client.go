package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client HubSpot CRM v3 objects API
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         Logger
}

// NewClient создает новый экземпляр клиента HubSpot
func NewClient(baseURL, accessToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FindRecordByKey searches objectType by the smc_key property. Returns nil if absent.
func (c *Client) FindRecordByKey(ctx context.Context, objectType, key string) (*string, error) {
	body := searchRequest{
		FilterGroups: []filterGroup{{
			Filters: []filter{{PropertyName: KeyProperty, Operator: "EQ", Value: key}},
		}},
		Properties: []string{KeyProperty},
		Limit:      1,
	}

	var resp searchResponse
	path := fmt.Sprintf("/crm/v3/objects/%s/search", url.PathEscape(objectType))
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}
	if resp.Total > 1 {
		c.log.Warn("HubSpot: %d %s records share key %s, using %s", resp.Total, objectType, key, resp.Results[0].ID)
	}
	id := resp.Results[0].ID
	return &id, nil
}

// CreateRecord creates a record and returns its id
func (c *Client) CreateRecord(ctx context.Context, objectType string, properties map[string]string) (string, error) {
	var resp object
	path := fmt.Sprintf("/crm/v3/objects/%s", url.PathEscape(objectType))
	if err := c.do(ctx, http.MethodPost, path, objectInput{Properties: properties}, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: created %s record has no id", ErrInvalidResponse, objectType)
	}
	return resp.ID, nil
}

// UpdateRecord overwrites the given properties. Setting the same values again is harmless.
func (c *Client) UpdateRecord(ctx context.Context, objectType, id string, properties map[string]string) error {
	path := fmt.Sprintf("/crm/v3/objects/%s/%s", url.PathEscape(objectType), url.PathEscape(id))
	return c.do(ctx, http.MethodPatch, path, objectInput{Properties: properties}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrRecordNotFound, method, path)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, readError(resp.Body))
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, readError(resp.Body))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, readError(resp.Body))
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readError(resp.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

func readError(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	var e ErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(raw)
}
