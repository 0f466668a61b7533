package users

import (
	"context"
	"errors"
	"testing"

	"bloodconnect_backend/platform/apperr"
	"bloodconnect_backend/platform/logger"
	"bloodconnect_backend/platform/validator"
)

func TestUpdateRejectsLoneCoordinateComponent(t *testing.T) {
	svc := NewService(nil, validator.New(), logger.New("test"))

	lat := 23.81
	_, err := svc.Update(context.Background(), "me@example.com", UpdateProfileRequest{Lat: &lat})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error for lone lat, got %v", err)
	}
}

func TestUpdateRejectsLoneLongitude(t *testing.T) {
	svc := NewService(nil, validator.New(), logger.New("test"))

	lng := 90.41
	_, err := svc.Update(context.Background(), "me@example.com", UpdateProfileRequest{Lng: &lng})
	if err == nil {
		t.Fatal("expected validation error for lone lng")
	}
}

func TestUpdateRejectsMalformedEmail(t *testing.T) {
	svc := NewService(nil, validator.New(), logger.New("test"))

	_, err := svc.Update(context.Background(), "not-an-email", UpdateProfileRequest{})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error for malformed email, got %v", err)
	}
}
