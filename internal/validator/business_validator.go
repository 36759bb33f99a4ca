package validator

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/racedaylabs/platform-service/internal/roles"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// Validator is the name the rest of the codebase uses.
type Validator = BusinessValidator

func New() *Validator {
	return NewBusinessValidator()
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateProfileUpsert validates profile writes, including the cross-field
// postal code check that tag rules cannot express.
func (bv *BusinessValidator) ValidateProfileUpsert(req *ProfileUpsertRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validatePostalCode(req)...)

	return errors
}

// ValidateContactSubmit validates a contact form submission. The honeypot
// field is checked at the service layer so bots get the same response shape.
func (bv *BusinessValidator) ValidateContactSubmit(req *ContactSubmitRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.Message) == "" {
		errors = append(errors, ValidationError{
			Field:   "message",
			Message: "cannot be blank",
			Value:   req.Message,
			Rule:    "message_body",
		})
	}

	return errors
}

// ValidateAdminCreateUser validates user creation from the admin console.
func (bv *BusinessValidator) ValidateAdminCreateUser(req *AdminCreateUserRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	seen := make(map[string]bool)
	for _, name := range req.Roles {
		if seen[name] {
			errors = append(errors, ValidationError{
				Field:   "roles",
				Message: "contains duplicate role " + name,
				Value:   name,
				Rule:    "business_logic",
			})
		}
		seen[name] = true
	}

	return errors
}

// ValidateAssignRoles validates a self-service role selection.
func (bv *BusinessValidator) ValidateAssignRoles(req *AssignRolesRequest) ValidationErrors {
	return append(bv.Validate(req), validateRoleSet(req.Roles)...)
}

// ValidateAdminReplaceRoles validates an admin replacing external roles.
func (bv *BusinessValidator) ValidateAdminReplaceRoles(req *AdminReplaceRolesRequest) ValidationErrors {
	return append(bv.Validate(req), validateRoleSet(req.Roles)...)
}

// ValidateAdminListUsers validates admin user list query parameters.
func (bv *BusinessValidator) ValidateAdminListUsers(req *AdminListUsersRequest) ValidationErrors {
	return bv.Validate(req)
}

func validateRoleSet(names []string) ValidationErrors {
	var errors ValidationErrors

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			errors = append(errors, ValidationError{
				Field:   "roles",
				Message: "contains duplicate role " + name,
				Value:   name,
				Rule:    "business_logic",
			})
		}
		seen[name] = true
	}

	return errors
}

// postalCodeLengths holds expected postal code lengths for countries where the
// format is a fixed-width digit string. Everything else passes the tag rules.
var postalCodeLengths = map[string]int{
	"US": 5,
	"MX": 5,
	"ES": 5,
	"FR": 5,
	"DE": 5,
	"AR": 4,
}

func (bv *BusinessValidator) validatePostalCode(req *ProfileUpsertRequest) ValidationErrors {
	if req.PostalCode == nil || req.Country == nil {
		return nil
	}

	expected, known := postalCodeLengths[*req.Country]
	if !known {
		return nil
	}

	code := strings.TrimSpace(*req.PostalCode)
	valid := len(code) == expected
	for _, r := range code {
		if r < '0' || r > '9' {
			valid = false
			break
		}
	}

	if !valid {
		return ValidationErrors{{
			Field:   "postal_code",
			Message: "does not match the format for country " + *req.Country,
			Value:   *req.PostalCode,
			Rule:    "business_logic",
		}}
	}
	return nil
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Date of birth validation (age 13-99, racing insurance floor)
	bv.validate.RegisterValidation("birth_date", func(fl validator.FieldLevel) bool {
		dob, err := time.Parse("2006-01-02", fl.Field().String())
		if err != nil {
			return false
		}
		age := ageAt(dob, time.Now())
		return age >= 13 && age < 100
	})

	// Weight validation (20-300 kg)
	bv.validate.RegisterValidation("weight_range", func(fl validator.FieldLevel) bool {
		weight := fl.Field().Float()
		return weight >= 20 && weight <= 300
	})

	// Height validation (50-260 cm)
	bv.validate.RegisterValidation("height_range", func(fl validator.FieldLevel) bool {
		height := fl.Field().Float()
		return height >= 50 && height <= 260
	})

	// Blood type validation
	bv.validate.RegisterValidation("blood_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-":
			return true
		}
		return false
	})

	// Shirt size validation
	bv.validate.RegisterValidation("shirt_size", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "XS", "S", "M", "L", "XL", "XXL":
			return true
		}
		return false
	})

	// Role name validation against the known raw names
	bv.validate.RegisterValidation("role_name", func(fl validator.FieldLevel) bool {
		return roles.IsKnownRawName(fl.Field().String())
	})

	// Self-assignable role validation
	bv.validate.RegisterValidation("external_role", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		for _, external := range roles.ExternalRawNames() {
			if name == external {
				return true
			}
		}
		return false
	})

	// Person name validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 1 && len(name) <= 200
	})

	// Message body validation (1-5000 characters)
	bv.validate.RegisterValidation("message_body", func(fl validator.FieldLevel) bool {
		msg := fl.Field().String()
		return len(msg) >= 1 && len(msg) <= 5000
	})
}

// ageAt returns full years elapsed between dob and now.
func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
