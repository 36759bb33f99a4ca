package profiles

import (
	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/roles"
)

// Status is the derived profile-completion triple. Not persisted.
type Status struct {
	HasProfile          bool                        `json:"has_profile"`
	IsComplete          bool                        `json:"is_complete"`
	MustCompleteProfile bool                        `json:"must_complete_profile"`
	MissingFields       []Field                     `json:"missing_fields,omitempty"`
	MissingCategories   []roles.RequirementCategory `json:"missing_categories,omitempty"`
}

// ComputeStatus derives the completion state from a profile record (nil when
// none exists), the required categories of the user's role mix, and whether the
// user is internal. Pure and deterministic.
func ComputeStatus(profile *models.Profile, required []roles.RequirementCategory, isInternal bool) Status {
	status := Status{HasProfile: profile != nil}

	complete := status.HasProfile
	for _, cat := range required {
		catMissing := false
		for _, field := range categoryFields[cat] {
			if profile == nil || !fieldPresent(profile, field) {
				complete = false
				catMissing = true
				status.MissingFields = append(status.MissingFields, field)
			}
		}
		if catMissing {
			status.MissingCategories = append(status.MissingCategories, cat)
		}
	}

	status.IsComplete = complete
	status.MustCompleteProfile = !isInternal && !complete
	return status
}
