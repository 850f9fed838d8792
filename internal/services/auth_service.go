package services

import (
	"context"
	"errors"
	"fmt"

	"gopilot/internal/models"
	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
	GetCurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type authService struct {
	userRepo         interfaces.UserRepository
	cache            CacheService
	jwtSecret        string
	maxLoginAttempts int
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,strong_password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
}

func NewAuthService(userRepo interfaces.UserRepository, cache CacheService, jwtSecret string, maxLoginAttempts int) AuthService {
	return &authService{
		userRepo:         userRepo,
		cache:            cache,
		jwtSecret:        jwtSecret,
		maxLoginAttempts: maxLoginAttempts,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, request.Email); err == nil {
		return nil, ErrEmailTaken
	}
	if _, err := s.userRepo.GetByPhone(ctx, request.Phone); err == nil {
		return nil, ErrPhoneTaken
	}

	hash, err := HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     request.Name,
		Email:    request.Email,
		Phone:    request.Phone,
		Password: hash,
		Role:     models.UserRoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkLoginRateLimit(ctx, request.Email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.Password, request.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Re-read the user so a role change or deletion invalidates old tokens.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.Password, request.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.Update(ctx, userID, map[string]interface{}{
		"password": hash,
	})
}

func (s *authService) GetCurrentUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) checkLoginRateLimit(ctx context.Context, email string) error {
	if s.cache == nil {
		return nil
	}

	key := utils.CacheRateLimitPrefix + "login:" + email
	count, err := s.cache.Increment(ctx, key, utils.LoginRateWindow)
	if err != nil {
		// Rate limiting is best effort, a cache outage must not block logins.
		return nil
	}

	limit := int64(s.maxLoginAttempts)
	if limit <= 0 {
		limit = utils.LoginRateLimit
	}
	if count > limit {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *authService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	pair, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
