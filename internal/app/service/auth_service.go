package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pencraft/internal/common"
	"pencraft/internal/common/security"
	"pencraft/internal/domain/model"
	"pencraft/internal/domain/repository"
)

type AuthService struct {
	store   repository.Store
	tokens  *security.TokenIssuer
	revoker security.TokenRevoker
}

func NewAuthService(store repository.Store, tokens *security.TokenIssuer, revoker security.TokenRevoker) *AuthService {
	return &AuthService{store: store, tokens: tokens, revoker: revoker}
}

type RegisterRequest struct {
	Username     string  `json:"username" validate:"required,min=3,max=50"`
	Password     string  `json:"password" validate:"required,min=6"`
	FullName     string  `json:"fullName" validate:"required,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"` // username or email
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = security.NormalizeEmail(req.Email)
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.Users().FindByUsername(ctx, req.Username); err == nil {
		return nil, common.Errorf("username taken: %w", common.ErrAlreadyExists)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if _, err := s.store.Users().FindByEmail(ctx, req.Email); err == nil {
		return nil, common.Errorf("email registered: %w", common.ErrAlreadyExists)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Password:     hashedPassword,
		FullName:     req.FullName,
		Email:        req.Email,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, alreadyExists(err, "username or email")
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := common.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByUsername(ctx, req.Username)
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.store.Users().FindByEmail(ctx, security.NormalizeEmail(req.Username))
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("invalid username or password: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.Password) {
		return nil, common.Errorf("invalid username or password: %w", common.ErrUnauthorized)
	}
	return s.issue(user)
}

// Logout revokes the token id until the token's own expiry.
func (s *AuthService) Logout(ctx context.Context, jti string, expires time.Time) error {
	if jti == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, jti, expires)
}

func (s *AuthService) issue(user *model.User) (*AuthResponse, error) {
	token, expires, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token, ExpiresAt: expires}, nil
}

// Seed creates the administrator account and the sample challenge on an empty store.
func Seed(ctx context.Context, store repository.Store, adminPassword string) error {
	if _, err := store.Users().FindByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	hashed, err := security.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	bio := "Site administrator"
	wordLimit := "1000-2500"

	return store.WithTx(ctx, func(tx repository.Store) error {
		admin := &model.User{
			Username: "admin",
			Password: hashed,
			FullName: "Admin User",
			Email:    "admin@pencraft.com",
			Bio:      &bio,
			IsAdmin:  true,
		}
		if err := tx.Users().Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		challenge := &model.Challenge{
			Title:       "The Future of Humanity",
			Description: "Write a short story or essay about how you envision the future of humanity in the next 100 years.",
			EndDate:     time.Now().UTC().Add(4 * 24 * time.Hour),
			WordLimit:   &wordLimit,
		}
		if err := tx.Challenges().Create(ctx, challenge); err != nil {
			return fmt.Errorf("failed to seed challenge: %w", err)
		}
		return nil
	})
}
