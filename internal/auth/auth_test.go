package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/config"
	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/storage/memory"
)

type fakeBackend struct {
	loginErr    error
	mustReset   bool
	verify      *backend.Verification
	verifyErr   error
	verifyCalls int
	resetErr    error
}

func (f *fakeBackend) Login(_ context.Context, role domain.Role, creds backend.Credentials) (*backend.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &backend.LoginResult{Token: "backend-" + creds.Phone, UserID: string(role) + "-1", MustResetPassword: f.mustReset}, nil
}

func (f *fakeBackend) Verify(context.Context, string) (*backend.Verification, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verify, nil
}

func (f *fakeBackend) ResetPassword(context.Context, string, string, string) error {
	return f.resetErr
}

func newService(t *testing.T, b *fakeBackend) (*SessionService, *memory.Storage) {
	t.Helper()
	store := memory.NewStorage()
	tokens := NewTokenService(config.Config{JWTSecret: "test-secret", JWTExpiresIn: time.Hour})
	return NewSessionService(store, tokens, b, time.Minute), store
}

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService(config.Config{JWTSecret: "s", JWTExpiresIn: time.Hour})
	now := time.Now()
	tok, err := ts.GenerateToken(domain.Session{ID: "sid", Role: domain.RoleCustomer, UserID: "c-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	claims, err := ts.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid", claims.SessionID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	assert.Equal(t, "c-1", claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	ts := NewTokenService(config.Config{JWTSecret: "s", JWTExpiresIn: time.Hour})
	now := time.Now()

	expired, err := ts.GenerateToken(domain.Session{ID: "sid", Role: domain.RolePromoter, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = ts.ParseToken(expired)
	assert.Error(t, err)

	other := NewTokenService(config.Config{JWTSecret: "other", JWTExpiresIn: time.Hour})
	foreign, err := other.GenerateToken(domain.Session{ID: "sid", Role: domain.RolePromoter, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	_, err = ts.ParseToken(foreign)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "sid", "role": "promoter", "iss": issuer, "exp": now.Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ts.ParseToken(unsigned)
	assert.Error(t, err)

	_, err = ts.ParseToken("garbage")
	assert.Error(t, err)
}

func TestLoginCreatesSession(t *testing.T) {
	svc, store := newService(t, &fakeBackend{mustReset: true})

	sess, token, err := svc.Login(context.Background(), domain.RolePromoter, "9876543210", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "backend-9876543210", sess.BackendToken)
	assert.True(t, sess.MustResetPassword)

	stored, err := store.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, stored.UserID)
}

func TestLoginPassesBackendErrorThrough(t *testing.T) {
	want := &backend.APIError{Status: http.StatusBadRequest, Message: "Invalid credentials"}
	svc, _ := newService(t, &fakeBackend{loginErr: want})

	_, _, err := svc.Login(context.Background(), domain.RoleCustomer, "9876543210", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", backend.Message(err))
}

func TestAuthenticateWithinTTLSkipsBackend(t *testing.T) {
	fb := &fakeBackend{}
	svc, _ := newService(t, fb)
	_, token, err := svc.Login(context.Background(), domain.RolePromoter, "1", "pw")
	require.NoError(t, err)

	sess, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePromoter, sess.Role)
	assert.Zero(t, fb.verifyCalls)
}

func TestAuthenticateReverifiesAfterTTL(t *testing.T) {
	fb := &fakeBackend{verify: &backend.Verification{Valid: true, MustResetPassword: true}}
	svc, store := newService(t, fb)
	_, token, err := svc.Login(context.Background(), domain.RolePromoter, "1", "pw")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	sess, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.verifyCalls)
	assert.True(t, sess.MustResetPassword)

	stored, err := store.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.MustResetPassword)
}

func TestAuthenticateBackendRejectionDropsSession(t *testing.T) {
	fb := &fakeBackend{verify: &backend.Verification{Valid: false}}
	svc, store := newService(t, fb)
	sess, token, err := svc.Login(context.Background(), domain.RoleCustomer, "1", "pw")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = store.GetSession(context.Background(), sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthenticateBackendOutageIsNotUnauthorized(t *testing.T) {
	fb := &fakeBackend{verifyErr: errors.New("dial tcp: connection refused")}
	svc, _ := newService(t, fb)
	_, token, err := svc.Login(context.Background(), domain.RoleCustomer, "1", "pw")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticateAfterLogout(t *testing.T) {
	svc, _ := newService(t, &fakeBackend{})
	sess, token, err := svc.Login(context.Background(), domain.RolePromoter, "1", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess.ID))
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResetPasswordClearsFlag(t *testing.T) {
	svc, store := newService(t, &fakeBackend{mustReset: true})
	sess, _, err := svc.Login(context.Background(), domain.RolePromoter, "1", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), sess, "pw", "new-password"))
	assert.False(t, sess.MustResetPassword)
	stored, err := store.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.MustResetPassword)
}

func TestResetPasswordBackendFailureKeepsFlag(t *testing.T) {
	svc, _ := newService(t, &fakeBackend{mustReset: true, resetErr: &backend.APIError{Status: 400, Message: "Current password is incorrect"}})
	sess, _, err := svc.Login(context.Background(), domain.RolePromoter, "1", "pw")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), sess, "wrong", "new-password")
	require.Error(t, err)
	assert.True(t, sess.MustResetPassword)
}
