package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/validation"
)

type UserService struct {
	userRepository repository.UserRepository
	now            Clock
}

func NewUserService(userRepository repository.UserRepository, now Clock) *UserService {
	if now == nil {
		now = utcNow
	}
	return &UserService{
		userRepository: userRepository,
		now:            now,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) ByEmail(email string) (*model.User, error) {
	return s.userRepository.ByEmail(strings.TrimSpace(email))
}

func (s *UserService) All() ([]*model.User, error) {
	return s.userRepository.All()
}

// Ensure returns the user with email, creating it when missing. An
// existing user's name is left unchanged.
func (s *UserService) Ensure(name, email string) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, false, err
	}

	user, err := s.userRepository.ByEmail(email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	err = validation.ValidateName(name)
	if err != nil {
		return nil, false, err
	}

	user = &model.User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		CreatedAt: s.now(),
	}
	err = s.userRepository.Create(user)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	return user, true, nil
}
