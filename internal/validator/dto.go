package validator

// ProfileUpsertRequest represents the request structure for creating or
// replacing the caller's profile. All fields are optional; completeness is
// judged against the caller's roles after the write.
type ProfileUpsertRequest struct {
	Phone                 *string             `json:"phone" validate:"omitempty,min=5,max=30"`
	City                  *string             `json:"city" validate:"omitempty,max=100"`
	State                 *string             `json:"state" validate:"omitempty,max=100"`
	PostalCode            *string             `json:"postal_code" validate:"omitempty,min=3,max=10"`
	Country               *string             `json:"country" validate:"omitempty,len=2,uppercase"`
	DateOfBirth           *string             `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02,birth_date"`
	Gender                *string             `json:"gender" validate:"omitempty,oneof=male female non_binary prefer_not_to_say"`
	EmergencyContactName  *string             `json:"emergency_contact_name" validate:"omitempty,person_name"`
	EmergencyContactPhone *string             `json:"emergency_contact_phone" validate:"omitempty,min=5,max=30"`
	BloodType             *string             `json:"blood_type" validate:"omitempty,blood_type"`
	ShirtSize             *string             `json:"shirt_size" validate:"omitempty,shirt_size"`
	WeightKg              *float64            `json:"weight_kg" validate:"omitempty,weight_range"`
	HeightCm              *float64            `json:"height_cm" validate:"omitempty,height_range"`
	Bio                   *string             `json:"bio" validate:"omitempty,max=2000"`
	Geolocation           *GeolocationRequest `json:"geolocation"`
}

// GeolocationRequest carries a point picked on the map widget.
type GeolocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// ContactSubmitRequest represents a public contact form submission. Website is
// a honeypot field rendered invisibly on the form; any value means a bot.
type ContactSubmitRequest struct {
	Name    *string `json:"name" validate:"omitempty,person_name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Message string  `json:"message" validate:"required,message_body"`
	Origin  string  `json:"origin" validate:"omitempty,max=50"`
	Website string  `json:"website"`
}

// AdminCreateUserRequest represents the request structure for creating users
// from the admin console.
type AdminCreateUserRequest struct {
	ID        string   `json:"id" validate:"omitempty,max=255"`
	FullName  string   `json:"full_name" validate:"required,person_name"`
	Email     string   `json:"email" validate:"required,email"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,url,max=500"`
	Roles     []string `json:"roles" validate:"omitempty,max=5,dive,role_name"`
}

// AssignRolesRequest represents a user's own role selection. Only
// self-assignable roles are accepted; internal roles are granted elsewhere.
type AssignRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,max=3,dive,external_role"`
}

// AdminReplaceRolesRequest represents an admin replacing a user's external
// roles. Internal roles on the target user are never touched.
type AdminReplaceRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,max=3,dive,external_role"`
}

// AdminListUsersRequest carries the query parameters of the admin user list.
type AdminListUsersRequest struct {
	Role      *string `form:"role" validate:"omitempty,role_name"`
	Search    string  `form:"search" validate:"omitempty,max=200"`
	Page      int     `form:"page" validate:"omitempty,min=1"`
	PageSize  int     `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string  `form:"sort_by" validate:"omitempty,oneof=created_at updated_at full_name email id"`
	SortOrder string  `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}
