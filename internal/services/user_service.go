package services

import (
	"context"
	"fmt"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
	"fbay/internal/repositories"
)

// UserService handles profile reads and edits.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser applies input to the profile of targetID. Only the user
// themselves may edit a profile.
func (s *UserService) UpdateUser(ctx context.Context, actorID, targetID string, input ProfileInput) (*models.User, error) {
	if actorID == "" {
		return nil, auctionerrors.ErrUnauthenticated
	}
	if actorID != targetID {
		return nil, auctionerrors.ErrNotProfileOwner
	}
	input = input.trimmed()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	dob, err := parseDate("dob", input.DOB)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.Email = normalizeEmail(input.Email)
	user.DOB = dob
	if input.Password != "" {
		if user.Password, err = hashPassword(input.Password); err != nil {
			return nil, err
		}
	}
	if input.AvatarPath != nil {
		user.AvatarPath = input.AvatarPath
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", targetID, err)
	}
	return user, nil
}
