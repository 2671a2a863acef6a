package plan

// Plan is the subscription tier attached to a user profile.
type Plan string

const (
	Free Plan = "free"
	Plus Plan = "plus"
)

// Valid reports whether p is a known tier.
func Valid(p Plan) bool {
	return p == Free || p == Plus
}

// Decision is the result of an entitlement check. Callers own any side
// effects; a denied Decision carries a user-facing reason.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanCreatePet decides whether an account may add another pet.
// The free tier is limited to a single pet; plus is unlimited.
func CanCreatePet(p Plan, petCount int) Decision {
	if p != Plus && petCount >= 1 {
		return deny("The Free plan is limited to one pet. Upgrade to Plus to add more pets.")
	}
	return allow()
}

// CanEditContactFields decides whether contact emails and phones may be edited.
func CanEditContactFields(p Plan) Decision {
	if p != Plus {
		return deny("Contact details are a Plus feature.")
	}
	return allow()
}

// CanEditTravelMode decides whether travel mode settings may be edited.
func CanEditTravelMode(p Plan) Decision {
	if p != Plus {
		return deny("Travel mode is a Plus feature.")
	}
	return allow()
}

// CanGeneratePoster decides whether the printable poster may be generated.
func CanGeneratePoster(p Plan) Decision {
	if p != Plus {
		return deny("Posters are a Plus feature.")
	}
	return allow()
}
