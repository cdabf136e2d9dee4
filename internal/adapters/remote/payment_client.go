package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"truck-trading-service/internal/ports"
)

// PaymentClient implements the PaymentService port against the payment
// service's HTTP API.
type PaymentClient struct {
	session *http.Client
	baseURL string
}

func NewPaymentClient(baseURL string) (*PaymentClient, error) {
	if baseURL == "" {
		return nil, errors.New("payment client: base url is empty")
	}
	return &PaymentClient{session: newHTTPClient(), baseURL: baseURL}, nil
}

func (c *PaymentClient) GetBalance(ctx context.Context, accountID string) (int, error) {
	var out struct {
		Balance int `json:"balance"`
	}
	u := fmt.Sprintf("%s/api/accounts/%s/balance", c.baseURL, url.PathEscape(accountID))
	if err := getJSON(ctx, c.session, u, &out); err != nil {
		return 0, fmt.Errorf("get balance account=%q: %w", accountID, mapPaymentError(err))
	}
	return out.Balance, nil
}

func (c *PaymentClient) Transfer(ctx context.Context, accountID string, amount int) (int, error) {
	body := map[string]any{"amount": amount}
	var out struct {
		NewBalance int `json:"new_balance"`
	}
	u := fmt.Sprintf("%s/api/accounts/%s/transfer", c.baseURL, url.PathEscape(accountID))
	if err := postJSON(ctx, c.session, u, body, &out); err != nil {
		return 0, fmt.Errorf("transfer account=%q amount=%d: %w", accountID, amount, mapPaymentError(err))
	}
	return out.NewBalance, nil
}

func mapPaymentError(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return ports.ErrNotFound
		case http.StatusPaymentRequired, http.StatusConflict:
			return ports.ErrInsufficientFunds
		}
	}
	return err
}
