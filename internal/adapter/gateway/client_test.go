package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrimart/checkout/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad", testLogger()); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := NewHTTPClient("/relative/path", testLogger()); err == nil {
		t.Fatal("expected absolute URL requirement")
	}
	if _, err := NewHTTPClient("https://gateway.example", testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newGatewayServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return server, client
}

func paymentRequest(method model.PaymentMethod, channel string) model.PaymentRequest {
	return model.PaymentRequest{
		Amount:      decimal.NewFromInt(598),
		Method:      method,
		Channel:     channel,
		OrderNumber: "ORD-20260830-AAAA1111",
		Description: "Order ORD-20260830-AAAA1111",
		RedirectURL: "https://shop.example/payment/return",
	}
}

func TestInitiateHostedWallet(t *testing.T) {
	var got map[string]any
	_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/payments" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"checkoutUrl":"https://pay.example/session/abc"}`)
	})

	session, err := client.Initiate(context.Background(), paymentRequest(model.PaymentHostedCheckout, model.ChannelGCash))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.CheckoutURL != "https://pay.example/session/abc" {
		t.Fatalf("checkout url = %q", session.CheckoutURL)
	}
	if got["amount"] != "598.00" {
		t.Fatalf("amount = %v, want two decimal places", got["amount"])
	}
	if got["wallet"] != "gcash" {
		t.Fatalf("wallet = %v", got["wallet"])
	}
	if _, present := got["bankCode"]; present {
		t.Fatal("wallet payment must not carry a bank code")
	}
	if got["orderId"] != "ORD-20260830-AAAA1111" {
		t.Fatalf("orderId = %v", got["orderId"])
	}
}

func TestInitiateBankTransferUsesBankCode(t *testing.T) {
	var got map[string]any
	_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"checkoutUrl":"https://pay.example/session/abc"}`)
	})

	if _, err := client.Initiate(context.Background(), paymentRequest(model.PaymentBankTransfer, "bpi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["bankCode"] != "bpi" {
		t.Fatalf("bankCode = %v", got["bankCode"])
	}
	if _, present := got["wallet"]; present {
		t.Fatal("bank transfer must not carry a wallet")
	}
}

func TestInitiateGatewayRejection(t *testing.T) {
	_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"amount below minimum"}`)
	})

	_, err := client.Initiate(context.Background(), paymentRequest(model.PaymentHostedCheckout, model.ChannelGCash))
	if err == nil || !strings.Contains(err.Error(), "amount below minimum") {
		t.Fatalf("expected rejection with gateway message, got %v", err)
	}
}

func TestInitiateRateLimited(t *testing.T) {
	_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Initiate(context.Background(), paymentRequest(model.PaymentHostedCheckout, model.ChannelGCash))
	var rateErr TooManyRequestsError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected TooManyRequestsError, got %v", err)
	}
	if rateErr.RetryAfter != 30*time.Second {
		t.Fatalf("retry after = %s", rateErr.RetryAfter)
	}
}

func TestInitiateServerError(t *testing.T) {
	_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.Initiate(context.Background(), paymentRequest(model.PaymentHostedCheckout, model.ChannelGCash)); err == nil {
		t.Fatal("expected error")
	}
}

func TestStatusMapping(t *testing.T) {
	for _, status := range []model.PaymentStatus{model.PaymentStatusPaid, model.PaymentStatusFailed, model.PaymentStatusPending} {
		_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/payments/ORD-20260830-AAAA1111" {
				t.Errorf("path = %s", r.URL.Path)
			}
			io.WriteString(w, `{"orderId":"ORD-20260830-AAAA1111","status":"`+string(status)+`"}`)
		})

		got, err := client.Status(context.Background(), "ORD-20260830-AAAA1111")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", status, err)
		}
		if got != status {
			t.Fatalf("status = %s, want %s", got, status)
		}
	}
}

func TestStatusUnknownValueRejected(t *testing.T) {
	_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"refunded"}`)
	})

	if _, err := client.Status(context.Background(), "ORD-20260830-AAAA1111"); err == nil {
		t.Fatal("expected error for unmapped status")
	}
}

func TestStatusUnregisteredPayment(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusNoContent} {
		_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})

		_, err := client.Status(context.Background(), "ORD-20260830-AAAA1111")
		if !errors.Is(err, ErrPaymentUnknown) {
			t.Fatalf("code %d: expected ErrPaymentUnknown, got %v", code, err)
		}
	}
}

func TestStatusRateLimitedDefaultsRetryAfter(t *testing.T) {
	_, client := newGatewayServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Status(context.Background(), "ORD-20260830-AAAA1111")
	var rateErr TooManyRequestsError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected TooManyRequestsError, got %v", err)
	}
	if rateErr.RetryAfter != 5*time.Second {
		t.Fatalf("retry after = %s, want default", rateErr.RetryAfter)
	}
}
