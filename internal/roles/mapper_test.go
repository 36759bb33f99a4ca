package roles

import (
	"reflect"
	"testing"
)

func TestResolve_UnmappedNamesFallBackToVolunteer(t *testing.T) {
	tests := []struct {
		name     string
		rawNames []string
	}{
		{name: "no rows", rawNames: nil},
		{name: "empty slice", rawNames: []string{}},
		{name: "single unmapped", rawNames: []string{"superuser"}},
		{name: "many unmapped", rawNames: []string{"superuser", "root", "wizard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.rawNames)

			want := []CanonicalRole{ExternalVolunteer}
			if !reflect.DeepEqual(res.CanonicalRoles, want) {
				t.Errorf("CanonicalRoles = %v, want %v", res.CanonicalRoles, want)
			}
			if !res.NeedsRoleAssignment {
				t.Error("NeedsRoleAssignment = false, want true")
			}
			if res.IsInternal {
				t.Error("IsInternal = true, want false")
			}
			if len(res.UnmappedNames) != len(tt.rawNames) {
				t.Errorf("UnmappedNames = %v, want all of %v", res.UnmappedNames, tt.rawNames)
			}
		})
	}
}

func TestResolve_AdminIsInternalWithNoRequirements(t *testing.T) {
	tests := []struct {
		name     string
		rawNames []string
	}{
		{name: "admin only", rawNames: []string{"admin"}},
		{name: "admin with staff", rawNames: []string{"admin", "staff"}},
		{name: "admin among unmapped", rawNames: []string{"superuser", "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.rawNames)

			if !res.IsInternal {
				t.Error("IsInternal = false, want true")
			}
			if res.NeedsRoleAssignment {
				t.Error("NeedsRoleAssignment = true, want false")
			}
			if len(res.RequiredCategories) != 0 {
				t.Errorf("RequiredCategories = %v, want empty", res.RequiredCategories)
			}
			if !res.Permissions.CanAccessAdminArea || !res.Permissions.CanManageUsers {
				t.Errorf("admin permissions not granted: %+v", res.Permissions)
			}
		})
	}
}

func TestResolve_MultipleExternalRolesUnion(t *testing.T) {
	res := Resolve([]string{"organizer", "athlete"})

	if res.IsInternal {
		t.Error("IsInternal = true, want false")
	}
	if res.NeedsRoleAssignment {
		t.Error("NeedsRoleAssignment = true, want false")
	}

	// Permission union of both roles.
	if !res.Permissions.CanManageEvents {
		t.Error("expected organizer CanManageEvents in union")
	}
	if !res.Permissions.CanViewOrganizersDashboard {
		t.Error("expected organizer CanViewOrganizersDashboard in union")
	}
	if !res.Permissions.CanViewAthleteDashboard {
		t.Error("expected athlete CanViewAthleteDashboard in union")
	}
	if res.Permissions.CanAccessAdminArea {
		t.Error("external union must not grant CanAccessAdminArea")
	}

	// Category union, deduplicated and in canonical order.
	want := []RequirementCategory{
		CategoryBasicContact,
		CategoryEmergencyContact,
		CategoryDemographics,
		CategoryPhysicalAttributes,
	}
	if !reflect.DeepEqual(res.RequiredCategories, want) {
		t.Errorf("RequiredCategories = %v, want %v", res.RequiredCategories, want)
	}
}

func TestResolve_DuplicateRawNamesDeduplicated(t *testing.T) {
	res := Resolve([]string{"athlete", "athlete", "athlete"})

	if len(res.CanonicalRoles) != 1 {
		t.Errorf("CanonicalRoles = %v, want single athlete", res.CanonicalRoles)
	}
	counts := make(map[RequirementCategory]int)
	for _, cat := range res.RequiredCategories {
		counts[cat]++
		if counts[cat] > 1 {
			t.Errorf("category %s duplicated in %v", cat, res.RequiredCategories)
		}
	}
}

func TestResolve_MixedInternalExternal(t *testing.T) {
	res := Resolve([]string{"admin", "athlete"})

	if !res.IsInternal {
		t.Error("IsInternal = false, want true")
	}
	// Internal roles contribute no categories; athlete still does.
	want := []RequirementCategory{
		CategoryBasicContact,
		CategoryEmergencyContact,
		CategoryDemographics,
		CategoryPhysicalAttributes,
	}
	if !reflect.DeepEqual(res.RequiredCategories, want) {
		t.Errorf("RequiredCategories = %v, want %v", res.RequiredCategories, want)
	}
	if !res.Permissions.CanAccessAdminArea || !res.Permissions.CanViewAthleteDashboard {
		t.Errorf("mixed union missing grants: %+v", res.Permissions)
	}
}

// Every known canonical role must have a permission entry, and external roles a
// requirement entry; the tables are the contract the rest of the app leans on.
func TestStaticTables_Exhaustive(t *testing.T) {
	for _, role := range AllCanonicalRoles {
		t.Run(string(role), func(t *testing.T) {
			perms := PermissionsFor(role)
			if !perms.CanAccessUserArea {
				t.Errorf("every role must grant CanAccessUserArea, %s does not", role)
			}

			if role.IsInternal() {
				if len(RequirementsFor(role)) != 0 {
					t.Errorf("internal role %s must have no requirement entry", role)
				}
				if !perms.CanAccessAdminArea {
					t.Errorf("internal role %s must access the admin area", role)
				}
				return
			}

			if len(RequirementsFor(role)) == 0 {
				t.Errorf("external role %s must require at least one category", role)
			}
			if perms.CanAccessAdminArea || perms.CanManageUsers {
				t.Errorf("external role %s must not hold admin grants: %+v", role, perms)
			}
		})
	}
}

func TestPermissionSet_UnionCommutes(t *testing.T) {
	a := PermissionsFor(ExternalOrganizer)
	b := PermissionsFor(ExternalAthlete)
	if a.Union(b) != b.Union(a) {
		t.Error("Union must be commutative")
	}
	if a.Union(a) != a {
		t.Error("Union must be idempotent")
	}
}

func TestSplitExternal(t *testing.T) {
	external, rest := SplitExternal([]string{"admin", "volunteer", "athlete", "wizard"})

	if !reflect.DeepEqual(external, []string{"volunteer", "athlete"}) {
		t.Errorf("external = %v", external)
	}
	if !reflect.DeepEqual(rest, []string{"admin", "wizard"}) {
		t.Errorf("rest = %v", rest)
	}
}

func TestCanonicalRole_RawNameRoundTrip(t *testing.T) {
	for _, role := range AllCanonicalRoles {
		raw := role.RawName()
		if raw == "" {
			t.Errorf("%s has no raw name", role)
			continue
		}
		res := Resolve([]string{raw})
		if !res.HasRole(role) {
			t.Errorf("Resolve(%q) does not contain %s", raw, role)
		}
	}
}
