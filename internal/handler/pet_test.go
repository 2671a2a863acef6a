package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hartmanbaily-coder/losttofound/internal/auth"
	"github.com/hartmanbaily-coder/losttofound/internal/photo"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
	"github.com/hartmanbaily-coder/losttofound/internal/websocket"
)

type petFixture struct {
	handler  *PetHandler
	pets     *store.PetStore
	profiles *store.ProfileStore
	userID   int64
	otherID  int64
}

func setupPet(t *testing.T) *petFixture {
	t.Helper()
	db := setupTestDB(t)
	logger := testLogger()

	users := store.NewUserStore(db)
	pets := store.NewPetStore(db)
	msgs := store.NewFinderMessageStore(db)
	profiles := store.NewProfileStore(db)

	alice, err := users.Create("alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := users.Create("bob@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	h := NewPetHandler(pets, msgs, profiles, photo.NewStorage(photo.Config{}), websocket.NewHub(logger), logger)
	return &petFixture{handler: h, pets: pets, profiles: profiles, userID: alice.ID, otherID: bob.ID}
}

func authedJSON(t *testing.T, h http.HandlerFunc, method, path, body string, userID int64, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(auth.WithAuth(context.Background(), auth.AuthContext{UserID: userID}))
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCreatePetFreePlanLimit(t *testing.T) {
	f := setupPet(t)

	rec := authedJSON(t, f.handler.Create, "POST", "/api/pets", `{"name":"Biscuit"}`, f.userID, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first pet: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = authedJSON(t, f.handler.Create, "POST", "/api/pets", `{"name":"Mochi"}`, f.userID, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("second pet on free plan: status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Free plan") {
		t.Errorf("rejection body = %s, want plan explanation", rec.Body.String())
	}

	count, err := f.pets.CountByUser(f.userID)
	if err != nil {
		t.Fatalf("count pets: %v", err)
	}
	if count != 1 {
		t.Errorf("pet count = %d, want 1", count)
	}
}

func TestCreatePetPlusPlanUnlimited(t *testing.T) {
	f := setupPet(t)

	if _, err := f.profiles.GetOrCreate(f.userID); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := f.profiles.MarkPlus(f.userID); err != nil {
		t.Fatalf("mark plus: %v", err)
	}

	for _, name := range []string{"Biscuit", "Mochi", "Pepper"} {
		rec := authedJSON(t, f.handler.Create, "POST", "/api/pets", `{"name":"`+name+`"}`, f.userID, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: status = %d, want 201", name, rec.Code)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	f := setupPet(t)

	p, err := f.pets.Create(f.userID, "Biscuit", nil)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	rec := authedJSON(t, f.handler.UpdateStatus, "POST", "/api/pets/"+p.ID+"/status",
		`{"status":"lost"}`, f.userID, map[string]string{"id": p.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	updated, err := f.pets.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if string(updated.Status) != "lost" {
		t.Errorf("status = %s, want lost", updated.Status)
	}

	rec = authedJSON(t, f.handler.UpdateStatus, "POST", "/api/pets/"+p.ID+"/status",
		`{"status":"missing"}`, f.userID, map[string]string{"id": p.ID})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: code = %d, want 400", rec.Code)
	}
}

func TestUpdateStatusAnyToAny(t *testing.T) {
	f := setupPet(t)

	p, err := f.pets.Create(f.userID, "Biscuit", nil)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	// home -> lost -> found -> home: every hop is a single overwrite.
	for _, status := range []string{"lost", "found", "home"} {
		rec := authedJSON(t, f.handler.UpdateStatus, "POST", "/api/pets/"+p.ID+"/status",
			`{"status":"`+status+`"}`, f.userID, map[string]string{"id": p.ID})
		if rec.Code != http.StatusOK {
			t.Fatalf("to %s: status = %d, want 200: %s", status, rec.Code, rec.Body.String())
		}
		got, err := f.pets.GetByID(p.ID)
		if err != nil {
			t.Fatalf("get pet: %v", err)
		}
		if string(got.Status) != status {
			t.Errorf("status = %s, want %s", got.Status, status)
		}
	}
}

func TestUpdateStatusNotOwner(t *testing.T) {
	f := setupPet(t)

	p, err := f.pets.Create(f.userID, "Biscuit", nil)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	rec := authedJSON(t, f.handler.UpdateStatus, "POST", "/api/pets/"+p.ID+"/status",
		`{"status":"lost"}`, f.otherID, map[string]string{"id": p.ID})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("other user's update: status = %d, want 404", rec.Code)
	}

	unchanged, err := f.pets.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if string(unchanged.Status) != "home" {
		t.Errorf("status = %s, want home untouched", unchanged.Status)
	}
}

func TestUpdateContactsRequiresPlus(t *testing.T) {
	f := setupPet(t)

	p, err := f.pets.Create(f.userID, "Biscuit", nil)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	body := `{"contact_email_primary":"me@example.com","contact_phone_primary":"555-0100"}`

	rec := authedJSON(t, f.handler.UpdateContacts, "PUT", "/api/pets/"+p.ID+"/contacts",
		body, f.userID, map[string]string{"id": p.ID})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("free plan contacts: status = %d, want 403", rec.Code)
	}

	if err := f.profiles.MarkPlus(f.userID); err != nil {
		t.Fatalf("mark plus: %v", err)
	}

	rec = authedJSON(t, f.handler.UpdateContacts, "PUT", "/api/pets/"+p.ID+"/contacts",
		body, f.userID, map[string]string{"id": p.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("plus plan contacts: status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	updated, err := f.pets.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if updated.ContactEmailPrimary == nil || *updated.ContactEmailPrimary != "me@example.com" {
		t.Errorf("contact email not saved: %v", updated.ContactEmailPrimary)
	}
}

func TestUploadPhotoUnconfiguredStorage(t *testing.T) {
	f := setupPet(t)

	p, err := f.pets.Create(f.userID, "Biscuit", nil)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	rec := authedJSON(t, f.handler.UploadPhoto, "POST", "/api/pets/"+p.ID+"/photos",
		"", f.userID, map[string]string{"id": p.ID})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when storage is unconfigured", rec.Code)
	}
}
