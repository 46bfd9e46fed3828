package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"grocery-backend/internal/domain"
	userrepo "grocery-backend/internal/repository/user"
)

var errInvalidToken = errors.New("invalid token")

// Service handles registration, login and access-token verification.
type Service struct {
	users     userRepo
	jwtSecret []byte
	tokenTTL  time.Duration
}

type userRepo interface {
	Create(ctx context.Context, in userrepo.CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

func New(users userRepo, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

type RegisterInput struct {
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	DefaultAddress *string `json:"default_address"`
	DefaultPhone   string  `json:"default_phone"`
}

func (in RegisterInput) validate() error {
	fields := map[string]string{}
	if s := strings.TrimSpace(in.FullName); len(s) < 2 || len(s) > 100 {
		fields["full_name"] = "must be between 2 and 100 characters"
	}
	if !strings.Contains(in.Email, "@") || len(in.Email) > 255 {
		fields["email"] = "must be a valid email address"
	}
	if len(in.Password) < 8 || len(in.Password) > 72 {
		fields["password"] = "must be between 8 and 72 characters"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Register creates a new customer account. New accounts always get the user
// role; admin and delivery accounts are provisioned out of band.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, userrepo.CreateUserInput{
		FullName:       strings.TrimSpace(in.FullName),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:   string(hash),
		Role:           domain.RoleUser,
		DefaultAddress: in.DefaultAddress,
		DefaultPhone:   strings.TrimSpace(in.DefaultPhone),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.FieldError("email", "email is already registered")
		}
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and issues a signed access token. Unknown
// email and wrong password produce the same error so the response does not
// leak which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.FieldError("credentials", "invalid email or password")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.FieldError("credentials", "invalid email or password")
	}

	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, u, nil
}

// Verify parses and validates an access token and loads the current user
// record, so role changes and deletions take effect on the next request.
func (s *Service) Verify(ctx context.Context, token string) (*domain.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, errInvalidToken
	}
	u, err := s.users.GetByID(ctx, int64(sub))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidToken
		}
		return nil, err
	}
	return u, nil
}
