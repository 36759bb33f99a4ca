package roles

// CanonicalRole is the normalized role vocabulary: "internal.<name>" for staff
// accounts, "external.<name>" for self-signup accounts.
type CanonicalRole string

const (
	InternalAdmin     CanonicalRole = "internal.admin"
	InternalStaff     CanonicalRole = "internal.staff"
	ExternalOrganizer CanonicalRole = "external.organizer"
	ExternalAthlete   CanonicalRole = "external.athlete"
	ExternalVolunteer CanonicalRole = "external.volunteer"
)

// DefaultExternalRole is the fallback for users with no mappable role rows.
const DefaultExternalRole = ExternalVolunteer

const internalPrefix = "internal."

// IsInternal reports whether the canonical role belongs to the internal set.
func (r CanonicalRole) IsInternal() bool {
	return len(r) > len(internalPrefix) && r[:len(internalPrefix)] == internalPrefix
}

// RawName returns the raw role name the canonical role maps back to.
func (r CanonicalRole) RawName() string {
	for raw, canonical := range rawRoleMap {
		if canonical == r {
			return raw
		}
	}
	return ""
}

// AllCanonicalRoles lists every known canonical role, internal first.
var AllCanonicalRoles = []CanonicalRole{
	InternalAdmin,
	InternalStaff,
	ExternalOrganizer,
	ExternalAthlete,
	ExternalVolunteer,
}

// AvailableExternalRoles are the roles offered by the role-assignment gate.
var AvailableExternalRoles = []CanonicalRole{
	ExternalOrganizer,
	ExternalAthlete,
	ExternalVolunteer,
}

// rawRoleMap maps raw role-row names to canonical roles. Names absent from this
// table fall back to DefaultExternalRole during resolution.
var rawRoleMap = map[string]CanonicalRole{
	"admin":     InternalAdmin,
	"staff":     InternalStaff,
	"organizer": ExternalOrganizer,
	"athlete":   ExternalAthlete,
	"volunteer": ExternalVolunteer,
}

// PermissionSet is the fixed-shape boolean record controlling feature access.
// Resolution ORs the entries of every canonical role a user holds.
type PermissionSet struct {
	CanAccessAdminArea         bool `json:"can_access_admin_area"`
	CanManageUsers             bool `json:"can_manage_users"`
	CanManageEvents            bool `json:"can_manage_events"`
	CanViewStaffTools          bool `json:"can_view_staff_tools"`
	CanViewOrganizersDashboard bool `json:"can_view_organizers_dashboard"`
	CanViewAthleteDashboard    bool `json:"can_view_athlete_dashboard"`
	CanAccessUserArea          bool `json:"can_access_user_area"`
}

// Union returns the logical OR of two permission sets.
func (p PermissionSet) Union(other PermissionSet) PermissionSet {
	return PermissionSet{
		CanAccessAdminArea:         p.CanAccessAdminArea || other.CanAccessAdminArea,
		CanManageUsers:             p.CanManageUsers || other.CanManageUsers,
		CanManageEvents:            p.CanManageEvents || other.CanManageEvents,
		CanViewStaffTools:          p.CanViewStaffTools || other.CanViewStaffTools,
		CanViewOrganizersDashboard: p.CanViewOrganizersDashboard || other.CanViewOrganizersDashboard,
		CanViewAthleteDashboard:    p.CanViewAthleteDashboard || other.CanViewAthleteDashboard,
		CanAccessUserArea:          p.CanAccessUserArea || other.CanAccessUserArea,
	}
}

// permissionTable is the static per-role permission map. Kept as one immutable
// table instead of scattered conditionals.
var permissionTable = map[CanonicalRole]PermissionSet{
	InternalAdmin: {
		CanAccessAdminArea: true,
		CanManageUsers:     true,
		CanManageEvents:    true,
		CanViewStaffTools:  true,
		CanAccessUserArea:  true,
	},
	InternalStaff: {
		CanAccessAdminArea: true,
		CanViewStaffTools:  true,
		CanAccessUserArea:  true,
	},
	ExternalOrganizer: {
		CanManageEvents:            true,
		CanViewOrganizersDashboard: true,
		CanAccessUserArea:          true,
	},
	ExternalAthlete: {
		CanViewAthleteDashboard: true,
		CanAccessUserArea:       true,
	},
	ExternalVolunteer: {
		CanAccessUserArea: true,
	},
}

// RequirementCategory names a group of profile fields required for a role.
type RequirementCategory string

const (
	CategoryBasicContact       RequirementCategory = "basicContact"
	CategoryEmergencyContact   RequirementCategory = "emergencyContact"
	CategoryDemographics       RequirementCategory = "demographics"
	CategoryPhysicalAttributes RequirementCategory = "physicalAttributes"
)

// AllRequirementCategories in presentation order.
var AllRequirementCategories = []RequirementCategory{
	CategoryBasicContact,
	CategoryEmergencyContact,
	CategoryDemographics,
	CategoryPhysicalAttributes,
}

// requirementTable lists the profile categories each external role requires.
// Internal roles have no entry: they contribute nothing to profile requirements.
var requirementTable = map[CanonicalRole][]RequirementCategory{
	ExternalOrganizer: {CategoryBasicContact},
	ExternalAthlete: {
		CategoryBasicContact,
		CategoryEmergencyContact,
		CategoryDemographics,
		CategoryPhysicalAttributes,
	},
	ExternalVolunteer: {CategoryBasicContact, CategoryEmergencyContact},
}

// PermissionsFor returns the static permission entry for one canonical role.
func PermissionsFor(role CanonicalRole) PermissionSet {
	return permissionTable[role]
}

// RequirementsFor returns the static requirement entry for one canonical role.
func RequirementsFor(role CanonicalRole) []RequirementCategory {
	return requirementTable[role]
}
