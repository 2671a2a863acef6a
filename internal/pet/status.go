package pet

// Status is a pet's current whereabouts as shown on its public page.
type Status string

const (
	StatusHome  Status = "home"
	StatusLost  Status = "lost"
	StatusFound Status = "found"
)

// InitialStatus is assigned to every newly created pet.
const InitialStatus = StatusHome

// ValidStatus reports whether s is one of the three enumerated statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusHome, StatusLost, StatusFound:
		return true
	}
	return false
}

// Transition applies an owner-issued status command. Every transition is
// total: any status may move to any other (or itself) as a single overwrite,
// so the only failure mode is an unknown target. The lost board is derived
// from status alone — there is no secondary visibility flag to keep in sync.
func Transition(current, target Status) (Status, bool) {
	if !ValidStatus(target) {
		return current, false
	}
	return target, true
}
