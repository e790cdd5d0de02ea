//go:generate go run go.uber.org/mock/mockgen -source=user_service.go -destination=../mocks/mock_user_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"log/slog"

	"chat-api/domain"
	"chat-api/errors"
	"chat-api/repositories"
)

type IUserService interface {
	Get(ctx context.Context, id string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SearchByName(ctx context.Context, name string) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	users repositories.IUserRepository
	log   *slog.Logger
}

func NewUserService(users repositories.IUserRepository, log *slog.Logger) IUserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return domain.User{}, errors.ErrUserNotFound
		}
		s.log.Error("user lookup failed", "user_id", id, "err", err)
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.log.Error("user listing failed", "err", err)
		return nil, err
	}
	return users, nil
}

func (s *UserService) SearchByName(ctx context.Context, name string) ([]domain.User, error) {
	users, err := s.users.SearchByName(ctx, name)
	if err != nil {
		s.log.Error("user search failed", "name", name, "err", err)
		return nil, err
	}
	return users, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if stderrors.Is(err, errors.ErrDocumentNotFound) {
			return errors.ErrUserNotFound
		}
		s.log.Error("user deletion failed", "user_id", id, "err", err)
		return err
	}
	return nil
}
