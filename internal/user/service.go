package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}

type service struct {
	repo      Repository
	validator *Validator
}

func NewService(repo Repository) Service {
	return &service{
		repo:      repo,
		validator: NewValidator(),
	}
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list users in repository")
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}

	if users == nil {
		users = []User{}
	}

	return users, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		log.Error().Err(err).Int64("user_id", id).Msg("service: failed to get user by id in repository")
		return nil, fmt.Errorf("service: failed to get user by id %d: %w", id, err)
	}

	return u, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if err := s.validator.ValidateCreate(&input); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, *input.Email, 0)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to check email uniqueness")
		return nil, fmt.Errorf("service: failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	u := &User{
		Name:  *input.Name,
		Email: *input.Email,
		Age:   *input.Age,
	}

	// The unique index still rejects a concurrent writer that passed the check above.
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			log.Warn().Str("email", u.Email).Msg("service: email taken by a concurrent insert")
			return nil, ErrEmailExists
		}

		log.Error().Err(err).Msg("service: failed to create user in repository")
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Msg("service: user created")
	return u, nil
}

func (s *service) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*User, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Int64("user_id", id).Msg("service: user not found, cannot update")
		}
		return nil, err
	}

	if err := s.validator.ValidateUpdate(&input); err != nil {
		return nil, err
	}

	if input.Email != nil {
		exists, err := s.repo.EmailExists(ctx, *input.Email, id)
		if err != nil {
			log.Error().Err(err).Int64("user_id", id).Msg("service: failed to check email uniqueness")
			return nil, fmt.Errorf("service: failed to check email: %w", err)
		}
		if exists {
			return nil, ErrEmailExists
		}
	}

	updated, err := s.repo.Update(ctx, id, UpdateFields{
		Name:  input.Name,
		Email: input.Email,
		Age:   input.Age,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn().Int64("user_id", id).Msg("service: user deleted before update was applied")
			return nil, ErrNotFound
		case errors.Is(err, ErrEmailExists):
			log.Warn().Int64("user_id", id).Msg("service: email taken by a concurrent write")
			return nil, ErrEmailExists
		}

		log.Error().Err(err).Int64("user_id", id).Msg("service: failed to update user in repository")
		return nil, fmt.Errorf("service: failed to update user %d: %w", id, err)
	}

	log.Info().Int64("user_id", id).Msg("service: user updated")
	return updated, nil
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		log.Error().Err(err).Int64("user_id", id).Msg("service: failed to delete user in repository")
		return fmt.Errorf("service: failed to delete user %d: %w", id, err)
	}

	log.Info().Int64("user_id", id).Msg("service: user deleted")
	return nil
}

func (s *service) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	exists, err := s.repo.EmailExists(ctx, NormalizeEmail(email), excludeID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check email: %w", err)
	}

	return exists, nil
}
