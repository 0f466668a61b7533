// Package users provides user profile management: the records the donor
// discovery map draws its pool from.
package users

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a user's editable profile. Blood type and location are
// optional; a profile missing either never reaches the discovery map.
type Profile struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone,omitempty"`
	BloodType        string     `json:"bloodType,omitempty"`
	Address          string     `json:"address,omitempty"`
	Lat              *float64   `json:"lat,omitempty"`
	Lng              *float64   `json:"lng,omitempty"`
	TotalDonations   int        `json:"totalDonations"`
	LastDonationDate *time.Time `json:"lastDonationDate,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// UpdateProfileRequest is the upsert payload for PUT /user/:email.
type UpdateProfileRequest struct {
	Name      string   `json:"name" binding:"omitempty,min=2"`
	Phone     string   `json:"phone"`
	BloodType string   `json:"bloodType" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address   string   `json:"address"`
	Lat       *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng       *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
}
