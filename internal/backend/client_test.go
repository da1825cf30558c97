package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luckydraw-crm/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second)
}

func TestLoginSurfacesBackendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/promoter/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid phone number or password"}`))
	})

	_, err := c.Login(context.Background(), domain.RolePromoter, Credentials{Phone: "9876543210", Password: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid phone number or password", Message(err))
}

func TestLoginUnwrapsDataEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "9876543210", creds.Phone)
		assert.Equal(t, "/auth/customer/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"token":"tok-1","userId":"c-9","mustResetPassword":true}}`))
	})

	res, err := c.Login(context.Background(), domain.RoleCustomer, Credentials{Phone: "9876543210", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "c-9", res.UserID)
	assert.True(t, res.MustResetPassword)
}

func TestLoginWithoutTokenFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"userId":"c-9"}`))
	})
	_, err := c.Login(context.Background(), domain.RoleCustomer, Credentials{})
	assert.Error(t, err)
}

func TestLoginUnknownRole(t *testing.T) {
	c := New("http://unused", time.Second)
	_, err := c.Login(context.Background(), domain.Role("admin"), Credentials{})
	assert.Error(t, err)
}

func TestVerifyTreats401AsInvalid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})

	v, err := c.Verify(context.Background(), "stale")
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestVerifyServerErrorIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	_, err := c.Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, "upstream exploded", Message(err))
}

func TestListCustomersSendsFilterAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/promoter/customers", r.URL.Path)
		assert.Equal(t, "s-1", r.URL.Query().Get("seasonId"))
		assert.Equal(t, "asha", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"c1","name":"Asha","phone":"9876543210","joinedAt":"2024-01-02"}]`))
	})

	got, err := c.ListCustomers(context.Background(), "tok", CustomerFilter{SeasonID: "s-1", Query: "asha"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Asha", got[0].Name)
	assert.Equal(t, 2, got[0].JoinedAt.Day())
}

func TestCreateRepaymentPostsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in domain.RepaymentInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "2024-03", in.Month)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r1","customerId":"c1","month":"2024-03","amount":"500.00"}`))
	})

	r, err := c.CreateRepayment(context.Background(), "tok", domain.RepaymentInput{
		CustomerID: "c1", SeasonID: "s1", Month: "2024-03", Amount: decimal.NewFromInt(500), Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
	assert.True(t, r.Amount.Equal(decimal.NewFromInt(500)))
}

func TestDeleteCustomerNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/promoter/customers/c%2F1", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteCustomer(context.Background(), "tok", "c/1"))
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Customer not found"}`))
	})

	_, err := c.GetCustomer(context.Background(), "tok", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Customer not found", Message(err))
}

func TestEmptyErrorBodyFallsBackToStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Wallet(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, "Service Unavailable", Message(err))
}

func TestUnknownJSONErrorBodyIsSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(` {"errors":["amount exceeds balance"]} `))
	})

	_, err := c.Wallet(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, `{"errors":["amount exceeds balance"]}`, Message(err))
}

func TestPostersSendsNoToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"p1","title":"Season 5","imageUrl":"https://cdn/p1.png"}]}`))
	})

	posters, err := c.Posters(context.Background())
	require.NoError(t, err)
	require.Len(t, posters, 1)
	assert.Equal(t, "Season 5", posters[0].Title)
}

func TestTransportErrorIsWrapped(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.Wallet(context.Background(), "tok")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
