package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the per-user onboarding record. One row per user, written through
// an upsert keyed by user_id.
type Profile struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`

	// basicContact
	Phone      *string `json:"phone" gorm:"size:30"`
	City       *string `json:"city" gorm:"size:100"`
	State      *string `json:"state" gorm:"size:100"`
	PostalCode *string `json:"postal_code" gorm:"size:20"`
	Country    *string `json:"country" gorm:"size:2"`

	// demographics
	DateOfBirth *datatypes.Date `json:"date_of_birth"`
	Gender      *string         `json:"gender" gorm:"size:30"`

	// emergencyContact
	EmergencyContactName  *string `json:"emergency_contact_name" gorm:"size:100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone" gorm:"size:30"`

	// physicalAttributes
	BloodType *string  `json:"blood_type" gorm:"size:5"`
	ShirtSize *string  `json:"shirt_size" gorm:"size:5"`
	WeightKg  *float64 `json:"weight_kg"`
	HeightCm  *float64 `json:"height_cm"`

	Bio         *string        `json:"bio" gorm:"type:text"`
	Geolocation datatypes.JSON `json:"geolocation" gorm:"type:jsonb"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Profile) TableName() string {
	return "profiles"
}
