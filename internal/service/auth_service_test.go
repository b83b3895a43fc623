package service

import (
	"errors"
	"testing"
	"time"

	"notesmith-server/internal/domain"
)

const testSecret = "test-secret-key"

func newAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, testSecret, time.Hour)
}

func TestRegister(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	auth, err := svc.Register(&domain.RegisterRequest{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if auth.Token == "" {
		t.Error("expected a token")
	}
	if auth.User.Email != "ada@example.com" {
		t.Errorf("email = %q, want normalized lowercase", auth.User.Email)
	}
	if auth.User.Password != "" {
		t.Error("response must not carry the password hash")
	}
	if auth.User.Role != domain.RoleUser {
		t.Errorf("role = %q, want user", auth.User.Role)
	}
	if auth.User.ViewPreference != domain.ViewPreferenceSplit {
		t.Errorf("viewPreference = %q, want split", auth.User.ViewPreference)
	}

	stored, err := repo.FindByID(auth.User.ID)
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.Password == "password123" || stored.Password == "" {
		t.Error("stored password must be hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	req := &domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	if _, err := svc.Register(req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	if _, err := svc.Register(&domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	auth, err := svc.Login(&domain.LoginRequest{Email: "ada@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if auth.Token == "" || auth.User.Password != "" {
		t.Error("login response must carry a token and no password hash")
	}

	if _, err := svc.Login(&domain.LoginRequest{Email: "ada@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(&domain.LoginRequest{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newAuthService(newMockUserRepo())

	auth, err := svc.Register(&domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Authenticate(auth.Token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.ID != auth.User.ID {
		t.Errorf("authenticated user = %q, want %q", user.ID, auth.User.ID)
	}
	if user.Password != "" {
		t.Error("authenticated user must not carry the password hash")
	}

	if _, err := svc.Authenticate("not-a-token"); err == nil {
		t.Error("expected error for a malformed token")
	}
}

func TestAuthenticateRejectsStaleToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	auth, err := svc.Register(&domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Mark the password as changed after the token was issued.
	stored, _ := repo.FindByID(auth.User.ID)
	changedAt := time.Now().Add(time.Minute)
	stored.PasswordChangedAt = &changedAt
	if err := repo.Update(stored); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, err := svc.Authenticate(auth.Token); err == nil {
		t.Error("expected stale token to be rejected")
	}
}

func TestUpdatePassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	auth, err := svc.Register(&domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.UpdatePassword(auth.User.ID, &domain.UpdatePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "newpassword456",
	}); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("wrong current password error = %v, want ErrIncorrectPassword", err)
	}

	fresh, err := svc.UpdatePassword(auth.User.ID, &domain.UpdatePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	if err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	if fresh.Token == "" {
		t.Error("expected a fresh token after a password change")
	}

	// The fresh token postdates the change and must keep working.
	if _, err := svc.Authenticate(fresh.Token); err != nil {
		t.Errorf("Authenticate(fresh token) error = %v", err)
	}

	if _, err := svc.Login(&domain.LoginRequest{Email: "ada@example.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted: error = %v", err)
	}
	if _, err := svc.Login(&domain.LoginRequest{Email: "ada@example.com", Password: "newpassword456"}); err != nil {
		t.Errorf("new password rejected: error = %v", err)
	}

	stored, _ := repo.FindByID(auth.User.ID)
	if stored.PasswordChangedAt == nil {
		t.Error("passwordChangedAt not stamped")
	}
}

func TestUpdateViewPreference(t *testing.T) {
	repo := newMockUserRepo()
	svc := newAuthService(repo)

	auth, err := svc.Register(&domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.UpdateViewPreference(auth.User.ID, domain.ViewPreferenceGrid)
	if err != nil {
		t.Fatalf("UpdateViewPreference() error = %v", err)
	}
	if user.ViewPreference != domain.ViewPreferenceGrid {
		t.Errorf("viewPreference = %q, want grid", user.ViewPreference)
	}
}
