package profiles

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/roles"
)

// Field names a single profile field checked for presence.
type Field string

const (
	FieldPhone                 Field = "phone"
	FieldCity                  Field = "city"
	FieldState                 Field = "state"
	FieldPostalCode            Field = "postal_code"
	FieldCountry               Field = "country"
	FieldDateOfBirth           Field = "date_of_birth"
	FieldGender                Field = "gender"
	FieldEmergencyContactName  Field = "emergency_contact_name"
	FieldEmergencyContactPhone Field = "emergency_contact_phone"
	FieldBloodType             Field = "blood_type"
	FieldShirtSize             Field = "shirt_size"
	FieldWeightKg              Field = "weight_kg"
	FieldHeightCm              Field = "height_cm"
)

// categoryFields maps each requirement category to its concrete fields.
var categoryFields = map[roles.RequirementCategory][]Field{
	roles.CategoryBasicContact: {
		FieldPhone, FieldCity, FieldState, FieldPostalCode, FieldCountry,
	},
	roles.CategoryEmergencyContact: {
		FieldEmergencyContactName, FieldEmergencyContactPhone,
	},
	roles.CategoryDemographics: {
		FieldDateOfBirth, FieldGender,
	},
	roles.CategoryPhysicalAttributes: {
		FieldBloodType, FieldShirtSize, FieldWeightKg, FieldHeightCm,
	},
}

// RequiredFields expands requirement categories to the flat, deduplicated
// field list in category order.
func RequiredFields(categories []roles.RequirementCategory) []Field {
	var fields []Field
	seen := make(map[Field]bool)
	for _, cat := range categories {
		for _, f := range categoryFields[cat] {
			if !seen[f] {
				seen[f] = true
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// FieldsFor returns the fields of one category.
func FieldsFor(category roles.RequirementCategory) []Field {
	return categoryFields[category]
}

// fieldPresent reports whether a profile field holds a usable value: non-nil,
// strings non-empty after trimming, dates valid.
func fieldPresent(p *models.Profile, field Field) bool {
	switch field {
	case FieldPhone:
		return stringPresent(p.Phone)
	case FieldCity:
		return stringPresent(p.City)
	case FieldState:
		return stringPresent(p.State)
	case FieldPostalCode:
		return stringPresent(p.PostalCode)
	case FieldCountry:
		return stringPresent(p.Country)
	case FieldDateOfBirth:
		return datePresent(p.DateOfBirth)
	case FieldGender:
		return stringPresent(p.Gender)
	case FieldEmergencyContactName:
		return stringPresent(p.EmergencyContactName)
	case FieldEmergencyContactPhone:
		return stringPresent(p.EmergencyContactPhone)
	case FieldBloodType:
		return stringPresent(p.BloodType)
	case FieldShirtSize:
		return stringPresent(p.ShirtSize)
	case FieldWeightKg:
		return p.WeightKg != nil
	case FieldHeightCm:
		return p.HeightCm != nil
	default:
		return false
	}
}

func stringPresent(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func datePresent(d *datatypes.Date) bool {
	return d != nil && !time.Time(*d).IsZero()
}
