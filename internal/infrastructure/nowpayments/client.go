package nowpayments

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

	"github.com/LavaJover/shvark-topup-service/internal/domain"
)

const (
	paymentPath    = "/v1/payment"
	apiKeyHeader   = "x-api-key"
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 512
)

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.ProviderPayment, error) {
	if !c.Configured() {
		return nil, domain.ErrProviderConfig
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	return c.do(ctx, http.MethodPost, c.baseURL+paymentPath, body)
}

func (c *Client) FetchStatus(ctx context.Context, paymentID string) (*domain.ProviderPayment, error) {
	if !c.Configured() {
		return nil, domain.ErrProviderConfig
	}
	if paymentID == "" {
		return nil, fmt.Errorf("%w: empty payment id", domain.ErrInvalidInput)
	}

	return c.do(ctx, http.MethodGet, c.baseURL+paymentPath+"/"+url.PathEscape(paymentID), nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (*domain.ProviderPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrProviderUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrProviderUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: nowpayments returned status %d: %s",
			domain.ErrProviderUnavailable, resp.StatusCode, errorMessage(respBody))
	}

	var payment domain.ProviderPayment
	if err := json.Unmarshal(respBody, &payment); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrProviderUnavailable, err)
	}

	return &payment, nil
}

// errorMessage pulls "message" or "error" out of an error body, falling back
// to a truncated copy of the body itself.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
