package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"grocery-backend/internal/domain"
	userrepo "grocery-backend/internal/repository/user"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*domain.User{}, byID: map[int64]*domain.User{}}
}

func (s *stubUserRepo) Create(ctx context.Context, in userrepo.CreateUserInput) (*domain.User, error) {
	if _, ok := s.byEmail[in.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	s.nextID++
	u := &domain.User{
		ID:           s.nextID,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		DefaultPhone: in.DefaultPhone,
	}
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
	return u, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func registered(t *testing.T, repo *stubUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u, err := repo.Create(context.Background(), userrepo.CreateUserInput{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestRegisterAssignsUserRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, "secret", time.Hour)

	u, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Dana Levi",
		Email:    "Dana@Example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("role = %s, want user", u.Role)
	}
	if u.Email != "dana@example.com" {
		t.Fatalf("email not normalized: %s", u.Email)
	}
	if u.PasswordHash == "supersecret" {
		t.Fatalf("password stored in plain text")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	registered(t, repo, "dana@example.com", "supersecret")
	svc := New(repo, "secret", time.Hour)

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Dana Levi",
		Email:    "dana@example.com",
		Password: "supersecret",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Fields["email"] == "" {
		t.Fatalf("expected email field error, got %+v", ve.Fields)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	repo := newStubUserRepo()
	svc := New(repo, "secret", time.Hour)

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName: "D",
		Email:    "not-an-email",
		Password: "short",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range []string{"full_name", "email", "password"} {
		if ve.Fields[f] == "" {
			t.Fatalf("missing field error for %s: %+v", f, ve.Fields)
		}
	}
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	u := registered(t, repo, "dana@example.com", "supersecret")
	svc := New(repo, "secret", time.Hour)

	token, got, err := svc.Login(context.Background(), "dana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("user id = %d, want %d", got.ID, u.ID)
	}

	verified, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if verified.ID != u.ID {
		t.Fatalf("verified id = %d, want %d", verified.ID, u.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	registered(t, repo, "dana@example.com", "supersecret")
	svc := New(repo, "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "dana@example.com", "wrong")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	repo := newStubUserRepo()
	registered(t, repo, "dana@example.com", "supersecret")
	svc := New(repo, "secret", time.Hour)

	_, _, errWrongPass := svc.Login(context.Background(), "dana@example.com", "wrong")
	_, _, errNoUser := svc.Login(context.Background(), "nobody@example.com", "wrong")
	if errWrongPass.Error() != errNoUser.Error() {
		t.Fatalf("credential errors differ: %q vs %q", errWrongPass, errNoUser)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	repo := newStubUserRepo()
	registered(t, repo, "dana@example.com", "supersecret")
	svc := New(repo, "secret", time.Hour)

	token, _, err := svc.Login(context.Background(), "dana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := New(repo, "different-secret", time.Hour)
	if _, err := other.Verify(context.Background(), token); err == nil {
		t.Fatalf("token signed with another secret must not verify")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	repo := newStubUserRepo()
	registered(t, repo, "dana@example.com", "supersecret")
	svc := New(repo, "secret", -time.Minute)

	token, _, err := svc.Login(context.Background(), "dana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Verify(context.Background(), token); err == nil {
		t.Fatalf("expired token must not verify")
	}
}

func TestVerifyRejectsDeletedUser(t *testing.T) {
	repo := newStubUserRepo()
	u := registered(t, repo, "dana@example.com", "supersecret")
	svc := New(repo, "secret", time.Hour)

	token, _, err := svc.Login(context.Background(), "dana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	delete(repo.byID, u.ID)
	if _, err := svc.Verify(context.Background(), token); err == nil {
		t.Fatalf("token for removed user must not verify")
	}
}
