package service

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(store merchantStore) (*AuthService, *auth.TokenIssuer) {
	tokens := auth.NewTokenIssuer("test-secret", 7*24*time.Hour)
	return NewAuthService(store, tokens, bcrypt.MinCost, 6), tokens
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	merchant, err := svc.Register(context.Background(), &RegisterRequest{
		Name:     "Corner Shop",
		Email:    "shop@example.com",
		Phone:    "0555123456",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.NotZero(t, merchant.ID)
	assert.Equal(t, models.MerchantStatusTrial, merchant.Status)
	assert.Equal(t, "basic", merchant.SubscriptionPlan)
	assert.True(t, merchant.TrialEndsAt.After(time.Now()))
	assert.NotEqual(t, "secret1", merchant.PasswordHash)
	assert.NoError(t, auth.VerifyPassword(merchant.PasswordHash, "secret1"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	req := &RegisterRequest{Name: "A", Email: "dup@example.com", Phone: "1", Password: "secret1"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicateEmail, apperr.KindOf(err))
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	_, err := svc.Register(context.Background(), &RegisterRequest{Email: "x@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	assert.Empty(t, store.merchants)
}

func TestLoginUnknownEmail(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "A", Email: "a@example.com", Phone: "1", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidCredential, apperr.KindOf(err))
}

func TestLoginIssuesTokenForMerchant(t *testing.T) {
	store := newFakeStore()
	svc, tokens := newAuthService(store)

	merchant, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "A", Email: "a@example.com", Phone: "1", Password: "secret1",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, merchant.ID, result.Merchant.ID)
	assert.Equal(t, "a@example.com", result.Merchant.Email)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, merchant.ID, claims.MerchantID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestProfileRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	merchant, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Corner Shop", Email: "shop@example.com", Phone: "0555123456", Password: "secret1",
	})
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", profile.Email)
	assert.Equal(t, "Corner Shop", profile.StoreName)

	_, err = svc.Profile(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	merchant, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Corner Shop", Email: "shop@example.com", Phone: "0555123456", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), merchant.ID, &UpdateProfileRequest{
		Phone: "0666000000",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	updated, err := svc.UpdateProfile(context.Background(), merchant.ID, &UpdateProfileRequest{
		Name: "Corner Store", Phone: "0666000000", StoreName: "The Corner",
	})
	require.NoError(t, err)
	assert.Equal(t, "Corner Store", updated.Name)
	assert.Equal(t, "0666000000", updated.Phone)
	assert.Equal(t, "The Corner", updated.StoreName)
	// email is not editable through the profile path
	assert.Equal(t, "shop@example.com", updated.Email)

	_, err = svc.UpdateProfile(context.Background(), 9999, &UpdateProfileRequest{
		Name: "X", Phone: "1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestChangePasswordPolicy(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthService(store)

	merchant, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "A", Email: "a@example.com", Phone: "1", Password: "secret1",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), merchant.ID, "short")
	require.Error(t, err)
	assert.Equal(t, apperr.KindWeakPassword, apperr.KindOf(err))

	err = svc.ChangePassword(context.Background(), merchant.ID, "longer-secret")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@example.com", "secret1")
	assert.Equal(t, apperr.KindInvalidCredential, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "a@example.com", "longer-secret")
	assert.NoError(t, err)
}
