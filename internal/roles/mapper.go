package roles

// Resolution is the derived auth state for one user's raw role names. Nothing
// in it is persisted; it is recomputed from role rows and cached per session.
type Resolution struct {
	CanonicalRoles      []CanonicalRole       `json:"canonical_roles"`
	IsInternal          bool                  `json:"is_internal"`
	NeedsRoleAssignment bool                  `json:"needs_role_assignment"`
	Permissions         PermissionSet         `json:"permissions"`
	RequiredCategories  []RequirementCategory `json:"required_categories"`
	UnmappedNames       []string              `json:"-"`
}

// HasRole reports whether the resolution contains the given canonical role.
func (r *Resolution) HasRole(role CanonicalRole) bool {
	for _, cr := range r.CanonicalRoles {
		if cr == role {
			return true
		}
	}
	return false
}

// Resolve maps raw role names to the derived auth state. Unknown names are
// collected in UnmappedNames; an empty mappable set falls back to the default
// external role with NeedsRoleAssignment set. The caller is responsible for
// logging unmapped names (once per call, not once per name).
func Resolve(rawNames []string) Resolution {
	var canonical []CanonicalRole
	var unmapped []string
	seen := make(map[CanonicalRole]bool)

	for _, name := range rawNames {
		role, ok := rawRoleMap[name]
		if !ok {
			unmapped = append(unmapped, name)
			continue
		}
		if !seen[role] {
			seen[role] = true
			canonical = append(canonical, role)
		}
	}

	needsAssignment := false
	if len(canonical) == 0 {
		canonical = []CanonicalRole{DefaultExternalRole}
		needsAssignment = true
	}

	res := Resolution{
		CanonicalRoles:      canonical,
		NeedsRoleAssignment: needsAssignment,
		UnmappedNames:       unmapped,
	}

	catSeen := make(map[RequirementCategory]bool)
	for _, role := range canonical {
		if role.IsInternal() {
			res.IsInternal = true
		}
		res.Permissions = res.Permissions.Union(permissionTable[role])
		if role.IsInternal() {
			continue
		}
		for _, cat := range requirementTable[role] {
			if !catSeen[cat] {
				catSeen[cat] = true
				res.RequiredCategories = append(res.RequiredCategories, cat)
			}
		}
	}

	// Stable category order regardless of role iteration order.
	res.RequiredCategories = sortCategories(res.RequiredCategories)

	return res
}

func sortCategories(cats []RequirementCategory) []RequirementCategory {
	if len(cats) < 2 {
		return cats
	}
	ordered := make([]RequirementCategory, 0, len(cats))
	present := make(map[RequirementCategory]bool, len(cats))
	for _, c := range cats {
		present[c] = true
	}
	for _, c := range AllRequirementCategories {
		if present[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// SplitExternal partitions raw role names into external-mappable names and the
// rest (internal or unmapped). Used by role replacement to leave internal
// assignments untouched.
func SplitExternal(rawNames []string) (external, rest []string) {
	for _, name := range rawNames {
		if role, ok := rawRoleMap[name]; ok && !role.IsInternal() {
			external = append(external, name)
		} else {
			rest = append(rest, name)
		}
	}
	return external, rest
}

// ExternalRawNames returns the raw names of every external canonical role.
func ExternalRawNames() []string {
	names := make([]string, 0, len(AvailableExternalRoles))
	for _, role := range AvailableExternalRoles {
		names = append(names, role.RawName())
	}
	return names
}

// IsKnownRawName reports whether a raw name maps to a canonical role.
func IsKnownRawName(name string) bool {
	_, ok := rawRoleMap[name]
	return ok
}
