package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"boxcric-api/internal/pkg/config"
	"boxcric-api/internal/pkg/errs"
	"boxcric-api/internal/usecase/commands"
)

// GatewayError carries the HTTP status and body the gateway answered
// with, for the error log and for telling 4xx from 5xx upstream.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("cashfree responded %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	secretKey  string
	apiVersion string
}

func NewClient(cfg config.CashfreeConfig) commands.PaymentGateway {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL(),
		appID:      cfg.AppID,
		secretKey:  cfg.SecretKey,
		apiVersion: cfg.APIVersion,
	}
}

type customerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type orderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
	NotifyURL string `json:"notify_url,omitempty"`
}

type createOrderBody struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     json.Number     `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails customerDetails `json:"customer_details"`
	OrderMeta       orderMeta       `json:"order_meta"`
}

type orderResponse struct {
	OrderID          string      `json:"order_id"`
	CfOrderID        json.Number `json:"cf_order_id"`
	PaymentSessionID string      `json:"payment_session_id"`
	OrderStatus      string      `json:"order_status"`
}

func (c *Client) CreateOrder(ctx context.Context, p commands.CreateOrderParams) (*commands.GatewayOrder, error) {
	body := createOrderBody{
		OrderID:       p.OrderID,
		OrderAmount:   paiseToRupees(p.Amount),
		OrderCurrency: p.Currency,
		CustomerDetails: customerDetails{
			CustomerID:    p.CustomerID,
			CustomerName:  p.CustomerName,
			CustomerEmail: p.CustomerEmail,
			CustomerPhone: p.CustomerPhone,
		},
		OrderMeta: orderMeta{
			ReturnURL: p.ReturnURL,
			NotifyURL: p.NotifyURL,
		},
	}

	var resp orderResponse
	raw, err := c.do(ctx, http.MethodPost, "/orders", body, &resp)
	if err != nil {
		return nil, err
	}

	return &commands.GatewayOrder{
		OrderID:          resp.OrderID,
		PaymentSessionID: resp.PaymentSessionID,
		Status:           resp.OrderStatus,
		TransactionID:    resp.CfOrderID.String(),
		Raw:              raw,
	}, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*commands.GatewayOrder, error) {
	var resp orderResponse
	raw, err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &resp)
	if err != nil {
		return nil, err
	}

	return &commands.GatewayOrder{
		OrderID:          resp.OrderID,
		PaymentSessionID: resp.PaymentSessionID,
		Status:           resp.OrderStatus,
		TransactionID:    resp.CfOrderID.String(),
		Raw:              raw,
	}, nil
}

// do performs the request and returns the raw response body alongside
// decoding it into out, so callers can keep the body for audit.
func (c *Client) do(ctx context.Context, method, path string, body, out any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errs.Wrap(err, "failed to encode gateway request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secretKey)
	req.Header.Set("x-api-version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.Wrap(err, "failed to read gateway response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return nil, errs.Wrap(err, "failed to decode gateway response")
	}
	return raw, nil
}

// paiseToRupees renders paise as a decimal rupee amount without
// float rounding, e.g. 120050 -> 1200.50.
func paiseToRupees(paise int64) json.Number {
	return json.Number(strconv.FormatInt(paise/100, 10) + "." + fmt.Sprintf("%02d", paise%100))
}
