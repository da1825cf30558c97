// internal/backend/customer.go
package backend

import (
	"context"

	"luckydraw-crm/internal/domain"
)

func (c *Client) CustomerProfile(ctx context.Context, token string) (*domain.Customer, error) {
	cust, err := getData[domain.Customer](ctx, c, token, "/customer/profile", nil)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) CustomerLedger(ctx context.Context, token string) (*domain.CustomerLedger, error) {
	l, err := getData[domain.CustomerLedger](ctx, c, token, "/customer/installments", nil)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CustomerPromoter returns the contact card of the customer's promoter.
func (c *Client) CustomerPromoter(ctx context.Context, token string) (*domain.Promoter, error) {
	p, err := getData[domain.Promoter](ctx, c, token, "/customer/promoter", nil)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
