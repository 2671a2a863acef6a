package plan

import "testing"

func TestCanCreatePetFree(t *testing.T) {
	if d := CanCreatePet(Free, 0); !d.Allowed {
		t.Errorf("free with 0 pets: denied (%q)", d.Reason)
	}
	for _, count := range []int{1, 2, 10} {
		d := CanCreatePet(Free, count)
		if d.Allowed {
			t.Errorf("free with %d pets: allowed, want deny", count)
		}
		if d.Reason == "" {
			t.Errorf("free with %d pets: deny without reason", count)
		}
	}
}

func TestCanCreatePetPlus(t *testing.T) {
	for _, count := range []int{0, 1, 100} {
		if d := CanCreatePet(Plus, count); !d.Allowed {
			t.Errorf("plus with %d pets: denied (%q)", count, d.Reason)
		}
	}
}

func TestPlusOnlyFeatures(t *testing.T) {
	checks := map[string]func(Plan) Decision{
		"contacts": CanEditContactFields,
		"travel":   CanEditTravelMode,
		"poster":   CanGeneratePoster,
	}
	for name, check := range checks {
		if d := check(Free); d.Allowed {
			t.Errorf("%s: free allowed, want deny", name)
		}
		if d := check(Plus); !d.Allowed {
			t.Errorf("%s: plus denied (%q)", name, d.Reason)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid(Free) || !Valid(Plus) {
		t.Error("expected free and plus to be valid")
	}
	if Valid(Plan("premium")) {
		t.Error("unknown tier reported valid")
	}
}
