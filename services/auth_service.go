//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"log/slog"

	"chat-api/auth"
	"chat-api/errors"
	"chat-api/repositories"
)

type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// LoginResult carries the authenticated user id together with the
// freshly issued bearer token.
type LoginResult struct {
	UserID string
	Token  string
}

type AuthService struct {
	users  repositories.IUserRepository
	issuer auth.TokenIssuer
	log    *slog.Logger
}

func NewAuthService(users repositories.IUserRepository, issuer auth.TokenIssuer, log *slog.Logger) IAuthService {
	return &AuthService{users: users, issuer: issuer, log: log}
}

// Register validates the payload, hashes the password and persists the
// account. The caller gets the new user id; no token is issued until
// the first login.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	req := auth.RegisterRequest{Name: name, Email: email, Password: password}

	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateRegister(req); err != nil {
		return "", err
	}

	// Hashing happens here so the repository never sees a plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error("password hashing failed", "err", err)
		return "", errors.Internal("hash password", err)
	}

	userID, err := s.users.CreateUser(ctx, name, email, hashedPassword)
	if err != nil {
		if !stderrors.Is(err, errors.ErrEmailTaken) {
			s.log.Error("user creation failed", "email", email, "err", err)
		}
		return "", err
	}

	return userID, nil
}

// Login verifies the credentials and issues a signed token. An unknown
// email and a wrong password fail differently on purpose; the API
// contract reports 404 for the former and 401 for the latter.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return LoginResult{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return LoginResult{}, errors.ErrEmailNotFound
		}
		s.log.Error("user lookup failed", "email", email, "err", err)
		return LoginResult{}, err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil {
		s.log.Error("password verification failed", "user_id", user.ID, "err", err)
		return LoginResult{}, errors.Internal("verify password", err)
	}
	if !match {
		return LoginResult{}, errors.ErrInvalidPassword
	}

	token, err := s.issuer.Generate(user.ID)
	if err != nil {
		s.log.Error("token generation failed", "user_id", user.ID, "err", err)
		return LoginResult{}, err
	}

	return LoginResult{UserID: user.ID, Token: token}, nil
}
