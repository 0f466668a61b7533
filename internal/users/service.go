package users

import (
	"context"
	"errors"

	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/logger"
	"bloodconnect_backend/platform/phone"
	"bloodconnect_backend/platform/validator"
)

// Service applies profile business rules over the repository.
type Service struct {
	repo *Repository
	val  *validator.Validator
	log  *logger.Logger
}

// NewService creates a users service.
func NewService(repo *Repository, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, log: log}
}

// List returns all user profiles.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		s.log.DatabaseError("users.List", err)
		return nil, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to list users", Op: "users.List", Err: err}
	}
	return profiles, nil
}

// Get returns one profile by email.
func (s *Service) Get(ctx context.Context, email string) (Profile, error) {
	if err := s.val.Var(email, "required,email"); err != nil {
		return Profile{}, &apperr.Error{Kind: apperr.KindValidation, Message: "invalid email address", Op: "users.Get"}
	}

	p, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, &apperr.Error{Kind: apperr.KindNotFound, Message: "user not found", Op: "users.Get"}
	}
	if err != nil {
		s.log.DatabaseError("users.Get", err)
		return Profile{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to load user", Op: "users.Get", Err: err}
	}
	return p, nil
}

// Update applies profile changes. Phone numbers are normalized to E.164
// when parseable; a lone coordinate component is rejected.
func (s *Service) Update(ctx context.Context, email string, req UpdateProfileRequest) (Profile, error) {
	if err := s.val.Var(email, "required,email"); err != nil {
		return Profile{}, &apperr.Error{Kind: apperr.KindValidation, Message: "invalid email address", Op: "users.Update"}
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return Profile{}, &apperr.Error{Kind: apperr.KindValidation, Message: "lat and lng must be set together", Op: "users.Update"}
	}
	req.Phone = phone.NormalizeE164(req.Phone)

	p, err := s.repo.Update(ctx, email, req)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, &apperr.Error{Kind: apperr.KindNotFound, Message: "user not found", Op: "users.Update"}
	}
	if err != nil {
		s.log.DatabaseError("users.Update", err)
		return Profile{}, &apperr.Error{Kind: apperr.KindInternal, Message: "failed to update user", Op: "users.Update", Err: err}
	}
	return p, nil
}

// RecordDonation bumps the donor's lifetime donation counter and stamps
// the last donation date.
func (s *Service) RecordDonation(ctx context.Context, email string) error {
	if err := s.repo.RecordDonation(ctx, email); err != nil {
		s.log.DatabaseError("users.RecordDonation", err)
		return &apperr.Error{Kind: apperr.KindInternal, Message: "failed to record donation", Op: "users.RecordDonation", Err: err}
	}
	return nil
}
