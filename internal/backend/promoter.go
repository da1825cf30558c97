// internal/backend/promoter.go
package backend

import (
	"context"
	"net/http"
	"net/url"

	"luckydraw-crm/internal/domain"
)

type CustomerFilter struct {
	SeasonID string
	Query    string
}

func (f CustomerFilter) values() url.Values {
	q := url.Values{}
	if f.SeasonID != "" {
		q.Set("seasonId", f.SeasonID)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	return q
}

func (c *Client) PromoterProfile(ctx context.Context, token string) (*domain.Promoter, error) {
	p, err := getData[domain.Promoter](ctx, c, token, "/promoter/profile", nil)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListCustomers(ctx context.Context, token string, f CustomerFilter) ([]domain.Customer, error) {
	return getData[[]domain.Customer](ctx, c, token, "/promoter/customers", f.values())
}

func (c *Client) GetCustomer(ctx context.Context, token, id string) (*domain.Customer, error) {
	cust, err := getData[domain.Customer](ctx, c, token, "/promoter/customers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) CreateCustomer(ctx context.Context, token string, in domain.CustomerInput) (*domain.Customer, error) {
	cust, err := sendData[domain.Customer](ctx, c, http.MethodPost, token, "/promoter/customers", in)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, token, id string, in domain.CustomerInput) (*domain.Customer, error) {
	cust, err := sendData[domain.Customer](ctx, c, http.MethodPut, token, "/promoter/customers/"+url.PathEscape(id), in)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, token, "/promoter/customers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListRepayments(ctx context.Context, token, customerID string) ([]domain.Repayment, error) {
	q := url.Values{}
	if customerID != "" {
		q.Set("customerId", customerID)
	}
	return getData[[]domain.Repayment](ctx, c, token, "/promoter/repayments", q)
}

func (c *Client) CreateRepayment(ctx context.Context, token string, in domain.RepaymentInput) (*domain.Repayment, error) {
	r, err := sendData[domain.Repayment](ctx, c, http.MethodPost, token, "/promoter/repayments", in)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Wallet(ctx context.Context, token string) (*domain.Wallet, error) {
	w, err := getData[domain.Wallet](ctx, c, token, "/promoter/wallet", nil)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) ListWithdrawals(ctx context.Context, token string) ([]domain.Withdrawal, error) {
	return getData[[]domain.Withdrawal](ctx, c, token, "/promoter/withdrawals", nil)
}

func (c *Client) RequestWithdrawal(ctx context.Context, token string, in domain.WithdrawalInput) (*domain.Withdrawal, error) {
	w, err := sendData[domain.Withdrawal](ctx, c, http.MethodPost, token, "/promoter/withdrawals", in)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) ListSeasons(ctx context.Context, token string) ([]domain.Season, error) {
	return getData[[]domain.Season](ctx, c, token, "/seasons", nil)
}

func (c *Client) GetSeason(ctx context.Context, token, id string) (*domain.Season, error) {
	s, err := getData[domain.Season](ctx, c, token, "/seasons/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Posters is public; no token is sent.
func (c *Client) Posters(ctx context.Context) ([]domain.Poster, error) {
	return getData[[]domain.Poster](ctx, c, "", "/posters", nil)
}
