package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tripbook/internal/auth"
	"tripbook/internal/domain"
	internalRedis "tripbook/internal/redis"
	"tripbook/internal/repository"
)

// AuthService handles registration, login and credential revocation.
//
// Verification is a stateless signature and expiry check plus one lookup
// in the revocation set. The hybrid is deliberate: revocation takes effect
// immediately without keeping a session row for every login.
type AuthService struct {
	accountRepo repository.AccountRepository
	tokens      *auth.TokenManager
	blacklist   internalRedis.BlacklistStoreInterface
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	accountRepo repository.AccountRepository,
	tokens *auth.TokenManager,
	blacklist internalRedis.BlacklistStoreInterface,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		tokens:      tokens,
		blacklist:   blacklist,
	}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a new account with the starting bonus balance.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.Account, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Balance:      domain.StartingBonus,
		CreatedAt:    time.Now(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Login checks the credentials and issues a bearer token valid for the
// configured window.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(account.ID)
}

// Logout revokes the token. Idempotent: revoking an already revoked or
// even unreadable token succeeds; the blacklist entry decays with the
// token's own validity window.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return s.blacklist.Add(ctx, token, s.tokens.RemainingValidity(token))
}

// Verify returns the account ID bound to the token, ErrTokenMalformed if
// the token cannot be verified or has expired, and ErrTokenRevoked if it
// has been logged out.
func (s *AuthService) Verify(ctx context.Context, token string) (string, error) {
	accountID, err := s.tokens.Verify(token)
	if err != nil {
		return "", ErrTokenMalformed
	}

	revoked, err := s.blacklist.Contains(ctx, token)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	return accountID, nil
}
