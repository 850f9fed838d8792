package services

import (
	"context"
	"errors"
	"testing"

	"gopilot/internal/models"
)

const testJWTSecret = "test-secret"

func newAuthFixture(t *testing.T) (*memUserRepo, *memCache, AuthService) {
	t.Helper()
	userRepo := newMemUserRepo()
	cache := newMemCache()
	return userRepo, cache, NewAuthService(userRepo, cache, testJWTSecret, 3)
}

func registerRequest(email, phone string) *RegisterRequest {
	return &RegisterRequest{
		Name:     "Priya Shah",
		Email:    email,
		Phone:    phone,
		Password: "Sup3rSecret",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	userRepo, _, svc := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerRequest("priya@example.com", "+15550001111"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("token pair missing")
	}
	if resp.User.Role != models.UserRoleUser {
		t.Errorf("Role = %q, want user", resp.User.Role)
	}

	stored, err := userRepo.GetByEmail(context.Background(), "priya@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.Password == "Sup3rSecret" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(context.Background(), &LoginRequest{Email: "priya@example.com", Password: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != stored.ID {
		t.Error("login returned a different user")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), registerRequest("sam@example.com", "+15550002222")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "sam@example.com", Password: "WrongPass1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "Whatever1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), registerRequest("dup@example.com", "+15550003333")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(context.Background(), registerRequest("dup@example.com", "+15550004444"))
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), registerRequest("one@example.com", "+15550005555")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(context.Background(), registerRequest("two@example.com", "+15550005555"))
	if !errors.Is(err, ErrPhoneTaken) {
		t.Errorf("err = %v, want ErrPhoneTaken", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	req := registerRequest("weak@example.com", "+15550006666")
	req.Password = "alllowercase"
	if _, err := svc.Register(context.Background(), req); err == nil {
		t.Error("expected validation error for weak password")
	}
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), registerRequest("limited@example.com", "+15550007777")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	bad := &LoginRequest{Email: "limited@example.com", Password: "WrongPass1"}
	for i := 0; i < 3; i++ {
		if _, err := svc.Login(context.Background(), bad); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	// The limit counts attempts, so even the right password is refused now.
	_, err := svc.Login(context.Background(), &LoginRequest{Email: "limited@example.com", Password: "Sup3rSecret"})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Errorf("err = %v, want ErrTooManyAttempts", err)
	}
}

func TestLoginSurvivesCacheOutage(t *testing.T) {
	t.Parallel()
	_, cache, svc := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), registerRequest("resilient@example.com", "+15550008888")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cache.fail = true
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "resilient@example.com", Password: "Sup3rSecret"}); err != nil {
		t.Errorf("login with broken cache: %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerRequest("fresh@example.com", "+15550009999"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.User.ID != resp.User.ID {
		t.Error("refresh returned a different user")
	}
	if refreshed.AccessToken == "" {
		t.Error("no access token after refresh")
	}

	if _, err := svc.RefreshToken(context.Background(), "not-a-token"); err == nil {
		t.Error("expected error for garbage refresh token")
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	_, _, svc := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), registerRequest("rotate@example.com", "+15550010000"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "WrongPass1",
		NewPassword:     "An0therSecret",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	err = svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "Sup3rSecret",
		NewPassword:     "An0therSecret",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "rotate@example.com", Password: "An0therSecret"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
