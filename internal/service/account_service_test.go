package service

import (
	"context"
	"testing"

	"github.com/spec-kit/hr-service/internal/config"
	"github.com/spec-kit/hr-service/internal/domain"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc := NewAccountService(testConfig(), newFakeUserRepo())
	ctx := context.Background()

	user, token, expiresAt, err := svc.Register(ctx, RegisterInput{
		Email:    "Pat@Corp.Test",
		Username: "pat",
		Password: "hunter2!",
		Role:     domain.RoleHR,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "pat@corp.test" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}
	if user.PasswordHash == "hunter2!" || user.PasswordHash == "" {
		t.Error("password stored unhashed")
	}
	if token == "" || expiresAt.IsZero() {
		t.Error("register should issue a token with expiry")
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != domain.RoleHR {
		t.Errorf("token role = %q, want HR", claims.Role)
	}

	loggedIn, token, _, err := svc.Login(ctx, "pat@corp.test", "hunter2!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Fatal("login should return the registered account with a fresh token")
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	svc := NewAccountService(testConfig(), newFakeUserRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "pw", Role: domain.RoleEmployee}},
		{"missing password", RegisterInput{Email: "a@b.test", Role: domain.RoleEmployee}},
		{"bad role", RegisterInput{Email: "a@b.test", Password: "pw", Role: "SUPERVISOR"}},
	}
	for _, tc := range cases {
		_, _, _, err := svc.Register(ctx, tc.input)
		if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
			t.Errorf("%s: code = %s, want VALIDATION_FAILED", tc.name, code)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := NewAccountService(testConfig(), newFakeUserRepo())
	ctx := context.Background()

	input := RegisterInput{Email: "a@b.test", Password: "pw", Role: domain.RoleEmployee}
	if _, _, _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, _, err := svc.Register(ctx, input)
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	svc := NewAccountService(testConfig(), newFakeUserRepo())
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, RegisterInput{
		Email: "a@b.test", Password: "correct", Role: domain.RoleEmployee,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, _, err := svc.Login(ctx, "a@b.test", "wrong")
	if code := domainErrCode(t, err); code != "UNAUTHORIZED" {
		t.Fatalf("wrong password: code = %s, want UNAUTHORIZED", code)
	}

	_, _, _, err = svc.Login(ctx, "nobody@b.test", "correct")
	if code := domainErrCode(t, err); code != "UNAUTHORIZED" {
		t.Fatalf("unknown account: code = %s, want UNAUTHORIZED", code)
	}
}
