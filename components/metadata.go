package components

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// KindNames returns the display names for all agent kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"Player", "Projectile", "Prop", "Weapon"}
}

// ParseKind returns the Kind with the given display name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range KindNames() {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// String returns the display name for a WeaponMode.
func (m WeaponMode) String() string {
	if m == ModePortal {
		return "Portal"
	}
	return "Projectile"
}
