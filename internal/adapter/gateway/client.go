package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/agrimart/checkout/internal/domain/model"
)

// ErrPaymentUnknown indicates the gateway has no record of the order yet.
var ErrPaymentUnknown = errors.New("payment not registered")

// TooManyRequestsError represents a rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes operations against the payment gateway function.
//
// Initiate only ever starts a payment; the authoritative outcome arrives via
// webhook or is pulled with Status. No Client call moves an order to paid.
type Client interface {
	Initiate(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error)
	Status(ctx context.Context, orderNumber string) (model.PaymentStatus, error)
}

// HTTPClient implements Client via the gateway's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// initiateRequest mirrors the JSON payload expected by the gateway function.
type initiateRequest struct {
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	Wallet        string `json:"wallet,omitempty"`
	BankCode      string `json:"bankCode,omitempty"`
	OrderID       string `json:"orderId"`
	Description   string `json:"description"`
	RedirectURL   string `json:"redirectUrl"`
}

// initiateResponse mirrors the gateway's answer: exactly one of checkoutUrl
// or clientKey on success, error otherwise.
type initiateResponse struct {
	CheckoutURL string `json:"checkoutUrl,omitempty"`
	ClientKey   string `json:"clientKey,omitempty"`
	Error       string `json:"error,omitempty"`
}

type statusResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// NewHTTPClient creates an HTTP gateway client with a default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Initiate asks the gateway to create a payment for the order.
func (c *HTTPClient) Initiate(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	payload := initiateRequest{
		Amount:        req.Amount.StringFixed(2),
		PaymentMethod: string(req.Method),
		OrderID:       req.OrderNumber,
		Description:   req.Description,
		RedirectURL:   req.RedirectURL,
	}
	switch req.Method {
	case model.PaymentBankTransfer:
		payload.BankCode = req.Channel
	default:
		payload.Wallet = req.Channel
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/payments")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data initiateResponse
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		if data.Error != "" {
			return nil, fmt.Errorf("gateway rejected payment: %s", data.Error)
		}
		return &model.PaymentSession{CheckoutURL: data.CheckoutURL, ClientKey: data.ClientKey}, nil
	case http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway initiation failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}
}

// Status pulls the gateway's view of the payment for an order.
func (c *HTTPClient) Status(ctx context.Context, orderNumber string) (model.PaymentStatus, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/payments/", orderNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		var data statusResponse
		if err := json.Unmarshal(raw, &data); err != nil {
			return "", err
		}
		switch model.PaymentStatus(data.Status) {
		case model.PaymentStatusPaid, model.PaymentStatusFailed, model.PaymentStatusPending:
			return model.PaymentStatus(data.Status), nil
		default:
			return "", fmt.Errorf("gateway returned unknown status %q", data.Status)
		}
	case http.StatusNotFound, http.StatusNoContent:
		return "", ErrPaymentUnknown
	case http.StatusTooManyRequests:
		return "", TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway status request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return "", fmt.Errorf("gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
