package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

const (
	trialDuration = 48 * time.Hour
	trialPlan     = "basic"
)

type merchantStore interface {
	CreateMerchant(ctx context.Context, merchant *models.Merchant) error
	GetMerchantByEmail(ctx context.Context, email string) (*models.Merchant, error)
	GetMerchantByID(ctx context.Context, id int64) (*models.Merchant, error)
	UpdateMerchantPassword(ctx context.Context, merchantID int64, passwordHash string) error
	UpdateMerchantProfile(ctx context.Context, merchantID int64, name, phone, storeName string) (*models.Merchant, error)
}

// AuthService handles merchant credentials and session issuance
type AuthService struct {
	store          merchantStore
	tokens         *auth.TokenIssuer
	bcryptCost     int
	minPasswordLen int
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store merchantStore, tokens *auth.TokenIssuer, bcryptCost, minPasswordLen int) *AuthService {
	return &AuthService{
		store:          store,
		tokens:         tokens,
		bcryptCost:     bcryptCost,
		minPasswordLen: minPasswordLen,
		logger:         util.GetLogger(),
	}
}

// RegisterRequest represents a merchant registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResult carries a session token plus public merchant fields
type LoginResult struct {
	Token    string                `json:"token"`
	Merchant models.MerchantPublic `json:"merchant"`
}

// UpdateProfileRequest carries the merchant-editable profile fields
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	StoreName string `json:"storeName"`
}

// Register creates a trial merchant account. The raw password is hashed and
// never stored or returned.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.Merchant, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || email == "" || req.Phone == "" || req.Password == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "name, email, phone and password are required")
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	merchant := &models.Merchant{
		Name:             req.Name,
		Email:            email,
		Phone:            req.Phone,
		PasswordHash:     hash,
		Status:           models.MerchantStatusTrial,
		TrialEndsAt:      time.Now().Add(trialDuration),
		SubscriptionPlan: trialPlan,
		StoreName:        req.Name,
	}

	// The unique index on email is the source of truth for duplicates; a
	// read-then-write check would race under concurrent registrations.
	if err := s.store.CreateMerchant(ctx, merchant); err != nil {
		return nil, err
	}

	util.MerchantRegistrationsTotal.Inc()
	s.logger.Info("Merchant registered",
		zap.Int64("merchant_id", merchant.ID),
		zap.String("email", merchant.Email))

	return merchant, nil
}

// Login verifies a merchant's credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	merchant, err := s.store.GetMerchantByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		util.LoginsTotal.WithLabelValues("unknown_email").Inc()
		return nil, err
	}

	if err := auth.VerifyPassword(merchant.PasswordHash, password); err != nil {
		util.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, apperr.New(apperr.KindInvalidCredential, "wrong password")
	}

	token, err := s.tokens.Issue(merchant.ID, merchant.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	util.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Merchant logged in", zap.Int64("merchant_id", merchant.ID))

	return &LoginResult{
		Token:    token,
		Merchant: merchant.Public(),
	}, nil
}

// Profile returns a merchant's account record
func (s *AuthService) Profile(ctx context.Context, merchantID int64) (*models.Merchant, error) {
	return s.store.GetMerchantByID(ctx, merchantID)
}

// UpdateProfile updates mutable merchant profile fields. Email and
// subscription fields are not editable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, merchantID int64, req *UpdateProfileRequest) (*models.Merchant, error) {
	if req.Name == "" || req.Phone == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "name and phone are required")
	}

	merchant, err := s.store.UpdateMerchantProfile(ctx, merchantID, req.Name, req.Phone, req.StoreName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Merchant profile updated", zap.Int64("merchant_id", merchantID))
	return merchant, nil
}

// ChangePassword re-hashes and overwrites a merchant's credential
func (s *AuthService) ChangePassword(ctx context.Context, merchantID int64, newPassword string) error {
	if len(newPassword) < s.minPasswordLen {
		return apperr.New(apperr.KindWeakPassword,
			fmt.Sprintf("password must be at least %d characters", s.minPasswordLen))
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.UpdateMerchantPassword(ctx, merchantID, hash)
}
