package payment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"fitstore/internal/config"
	"fitstore/internal/domain"
	"fitstore/internal/errors"
)

const (
	sandboxEndpoint = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	liveEndpoint    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"

	currency = "BDT"
)

// Session is a successfully initiated gateway payment: the URL to redirect
// the customer to and the gateway's session key.
type Session struct {
	PaymentURL string
	SessionKey string
}

type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

type gatewayResponse struct {
	Status         string `json:"status"`
	GatewayPageURL string `json:"GatewayPageURL"`
	SessionKey     string `json:"sessionkey"`
	FailedReason   string `json:"failedreason"`
}

// Client submits payment-initiation requests to the gateway. The HTTP client
// carries an explicit timeout; a hung gateway surfaces as GatewayTimeout
// instead of blocking the checkout request indefinitely.
type Client struct {
	cfg        config.GatewayConfig
	baseURL    string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg config.GatewayConfig, serverBaseURL string, logger *zap.Logger) *Client {
	endpoint := liveEndpoint
	if cfg.Sandbox {
		endpoint = sandboxEndpoint
	}
	return &Client{
		cfg:      cfg,
		baseURL:  strings.TrimRight(serverBaseURL, "/"),
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// InitiatePayment posts the fixed form payload and returns the redirect
// session. Every field is populated even when redundant: the gateway rejects
// incomplete submissions.
func (c *Client) InitiatePayment(ctx context.Context, order *domain.Order, customer CustomerInfo) (*Session, error) {
	form := c.buildForm(order, customer)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
			c.logger.Error("gateway call timed out", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
			return nil, errors.NewGatewayTimeoutError("payment gateway did not respond in time")
		}
		c.logger.Error("gateway unreachable", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return nil, errors.NewGatewayUnreachableError("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	var gw gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gw); err != nil {
		return nil, errors.NewGatewayUnreachableError("decoding gateway response", err)
	}

	if gw.Status != "SUCCESS" {
		c.logger.Warn("gateway rejected session",
			zap.String("orderNumber", order.OrderNumber),
			zap.String("status", gw.Status),
			zap.String("reason", gw.FailedReason),
		)
		return nil, errors.NewGatewayError(gw.FailedReason)
	}

	c.logger.Info("gateway session created",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("sessionKey", gw.SessionKey),
	)

	return &Session{
		PaymentURL: gw.GatewayPageURL,
		SessionKey: gw.SessionKey,
	}, nil
}

func (c *Client) buildForm(order *domain.Order, customer CustomerInfo) url.Values {
	addr := order.ShippingAddress

	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", fmt.Sprintf("%.2f", order.Total))
	form.Set("currency", currency)
	form.Set("tran_id", order.OrderNumber)
	form.Set("success_url", c.baseURL+"/payment/success")
	form.Set("fail_url", c.baseURL+"/payment/fail")
	form.Set("cancel_url", c.baseURL+"/payment/cancel")
	form.Set("ipn_url", c.baseURL+"/payment/ipn")
	form.Set("shipping_method", "YES")
	form.Set("product_name", productNames(order))
	form.Set("product_category", "fitness")
	form.Set("product_profile", "physical-goods")
	form.Set("cus_name", customer.Name)
	form.Set("cus_email", customer.Email)
	form.Set("cus_add1", addr.AddressLine)
	form.Set("cus_city", addr.City)
	form.Set("cus_state", addr.Region)
	form.Set("cus_postcode", addr.PostalCode)
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", customer.Phone)
	form.Set("ship_name", addr.Name)
	form.Set("ship_add1", addr.AddressLine)
	form.Set("ship_city", addr.City)
	form.Set("ship_state", addr.Region)
	form.Set("ship_postcode", addr.PostalCode)
	form.Set("ship_country", "Bangladesh")
	form.Set("ship_phone", addr.Phone)
	return form
}

func productNames(order *domain.Order) string {
	names := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		names = append(names, item.Title)
	}
	return strings.Join(names, ", ")
}

func isTimeout(err error) bool {
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return stderrors.Is(err, context.DeadlineExceeded)
}
