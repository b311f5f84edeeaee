// Package gateway implements the payment processor boundary. The only
// processor supported is Razorpay's Orders API; signature verification uses
// the key secret shared with the processor's checkout flow.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.razorpay.com"
	requestTimeout = 15 * time.Second

	maxAttempts  = 3
	retryWaitMin = 500 * time.Millisecond
	retryWaitMax = 5 * time.Second
)

// Client calls the Razorpay Orders API. Transient faults (network errors,
// 5xx responses) are retried with exponential backoff; 4xx responses are
// definitional failures and are never retried.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient builds a gateway client. An empty baseURL selects the production
// Razorpay endpoint.
func NewClient(baseURL, keyID, keySecret string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers an order with the processor and returns its id.
func (c *Client) CreateOrder(ctx context.Context, input ports.OrderInput) (*ports.Order, error) {
	if input.Amount <= 0 || input.Currency == "" || input.Receipt == "" {
		return nil, domain.ErrInvalidOrder
	}

	body, err := json.Marshal(orderRequest{
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	resp, err := c.post(ctx, "/v1/orders", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Msg("gateway rejected order")
		if resp.StatusCode >= 500 {
			return nil, domain.ErrGatewayUnavailable
		}
		return nil, domain.ErrInvalidOrder
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", domain.ErrGatewayUnavailable, err)
	}
	if order.ID == "" {
		return nil, domain.ErrGatewayUnavailable
	}

	return &ports.Order{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}

// VerifySignature reports whether signature equals the hex HMAC-SHA256 of
// "<orderID>|<paymentID>" under the processor key secret. The comparison is
// constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// post sends the request, retrying transient failures with exponential
// backoff up to maxAttempts.
func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			wait := retryWaitMin * time.Duration(1<<uint(attempt-2))
			if wait > retryWaitMax {
				wait = retryWaitMax
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.SetBasicAuth(c.keyID, c.keySecret)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if isRetryable(err) && attempt < maxAttempts {
				c.log.Warn().Err(err).Int("attempt", attempt).Msg("gateway request failed, retrying")
				continue
			}
			return nil, fmt.Errorf("gateway request failed after %d attempts: %w", attempt, err)
		}

		if resp.StatusCode >= 500 && attempt < maxAttempts {
			resp.Body.Close()
			lastErr = fmt.Errorf("gateway returned %d", resp.StatusCode)
			c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("gateway error, retrying")
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// isRetryable reports whether a transport error is worth another attempt.
// Cancellation is honoured; everything else the http.Client surfaces is a
// network-level fault.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
