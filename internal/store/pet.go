package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/pet"
)

// ErrNotOwned is returned by ownership-scoped writes when the pet does not
// exist or belongs to another user. The two cases are deliberately
// indistinguishable.
var ErrNotOwned = errors.New("pet not found or not owned by user")

type PetStore struct {
	db      *sql.DB
	slugify func(string) string
}

func NewPetStore(db *sql.DB) *PetStore {
	return &PetStore{db: db, slugify: pet.Slugify}
}

func scanPet(scanner interface{ Scan(...any) error }) (*model.Pet, error) {
	var p model.Pet
	var desc, notes, photo1, photo2, photo3 sql.NullString
	var email1, email2, phone1, phone2 sql.NullString
	var travelMode int
	var city, region, travelNotes sql.NullString
	var radius sql.NullFloat64
	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Slug, &p.Status,
		&desc, &notes, &photo1, &photo2, &photo3,
		&email1, &email2, &phone1, &phone2,
		&travelMode, &city, &region, &radius, &travelNotes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	assign := func(dst **string, v sql.NullString) {
		if v.Valid {
			s := v.String
			*dst = &s
		}
	}
	assign(&p.Description, desc)
	assign(&p.BehaviorNotes, notes)
	assign(&p.PhotoURL, photo1)
	assign(&p.PhotoURL2, photo2)
	assign(&p.PhotoURL3, photo3)
	assign(&p.ContactEmailPrimary, email1)
	assign(&p.ContactEmailBackup, email2)
	assign(&p.ContactPhonePrimary, phone1)
	assign(&p.ContactPhoneBackup, phone2)
	p.IsTravelMode = travelMode != 0
	assign(&p.TravelCity, city)
	assign(&p.TravelRegion, region)
	assign(&p.TravelNotes, travelNotes)
	if radius.Valid {
		r := radius.Float64
		p.TravelRadiusKm = &r
	}
	return &p, nil
}

const petCols = `id, user_id, name, slug, status,
	description, behavior_notes, photo_url, photo_url_2, photo_url_3,
	contact_email_primary, contact_email_backup, contact_phone_primary, contact_phone_backup,
	is_travel_mode, travel_city, travel_region, travel_radius_km, travel_notes,
	created_at, updated_at`

// Create inserts a new pet with a generated id and slug in the initial
// status. The slug is unique and immutable from here on. Two same-named
// pets can draw the same random suffix, so a collision gets one retry
// with a fresh slug before the error surfaces.
func (s *PetStore) Create(userID int64, name string, description *string) (*model.Pet, error) {
	id := uuid.NewString()

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		_, err = s.db.Exec(
			`INSERT INTO pets (id, user_id, name, slug, status, description) VALUES (?, ?, ?, ?, ?, ?)`,
			id, userID, name, s.slugify(name), pet.InitialStatus, description,
		)
		if err == nil {
			return s.GetByID(id)
		}
		if !isSlugCollision(err) {
			break
		}
	}
	return nil, fmt.Errorf("insert pet: %w", err)
}

func isSlugCollision(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: pets.slug")
}

func (s *PetStore) GetByID(id string) (*model.Pet, error) {
	row := s.db.QueryRow(`SELECT `+petCols+` FROM pets WHERE id = ?`, id)
	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pet: %w", err)
	}
	return p, nil
}

// GetBySlug is the public lookup — anyone holding the slug may read the row.
// Contact fields are filtered at the presentation layer, never here.
func (s *PetStore) GetBySlug(slug string) (*model.Pet, error) {
	row := s.db.QueryRow(`SELECT `+petCols+` FROM pets WHERE slug = ?`, slug)
	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pet by slug: %w", err)
	}
	return p, nil
}

func (s *PetStore) ListByUser(userID int64) ([]model.Pet, error) {
	rows, err := s.db.Query(`SELECT `+petCols+` FROM pets WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list pets by user: %w", err)
	}
	defer rows.Close()
	return collectPets(rows)
}

func (s *PetStore) CountByUser(userID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pets WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pets by user: %w", err)
	}
	return n, nil
}

// ListLost is the lost board: membership is derived purely from status.
func (s *PetStore) ListLost() ([]model.Pet, error) {
	rows, err := s.db.Query(
		`SELECT `+petCols+` FROM pets WHERE status = ? ORDER BY updated_at DESC`,
		pet.StatusLost,
	)
	if err != nil {
		return nil, fmt.Errorf("list lost pets: %w", err)
	}
	defer rows.Close()
	return collectPets(rows)
}

// UpdateProfile overwrites the display fields. The slug is never touched,
// even when the name changes.
func (s *PetStore) UpdateProfile(id string, userID int64, name string, description, behaviorNotes *string) error {
	result, err := s.db.Exec(
		`UPDATE pets SET name = ?, description = ?, behavior_notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		name, description, behaviorNotes, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update pet profile: %w", err)
	}
	return requireOwned(result)
}

// UpdateStatus overwrites the pet's status. The write is scoped to the
// owning user; a miss on either id or ownership yields ErrNotOwned with no
// partial update.
func (s *PetStore) UpdateStatus(id string, userID int64, status pet.Status) error {
	result, err := s.db.Exec(
		`UPDATE pets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		status, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update pet status: %w", err)
	}
	return requireOwned(result)
}

func (s *PetStore) UpdateContacts(id string, userID int64, emailPrimary, emailBackup, phonePrimary, phoneBackup *string) error {
	result, err := s.db.Exec(
		`UPDATE pets SET contact_email_primary = ?, contact_email_backup = ?,
			contact_phone_primary = ?, contact_phone_backup = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		emailPrimary, emailBackup, phonePrimary, phoneBackup, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update pet contacts: %w", err)
	}
	return requireOwned(result)
}

func (s *PetStore) UpdateTravel(id string, userID int64, enabled bool, city, region *string, radiusKm *float64, notes *string) error {
	travelMode := 0
	if enabled {
		travelMode = 1
	}
	result, err := s.db.Exec(
		`UPDATE pets SET is_travel_mode = ?, travel_city = ?, travel_region = ?,
			travel_radius_km = ?, travel_notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		travelMode, city, region, radiusKm, notes, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update pet travel settings: %w", err)
	}
	return requireOwned(result)
}

// SetPhotoURL writes one of the three photo slots. A nil url clears the slot.
func (s *PetStore) SetPhotoURL(id string, userID int64, slot int, url *string) error {
	col, ok := photoColumn(slot)
	if !ok {
		return fmt.Errorf("photo slot %d out of range", slot)
	}
	result, err := s.db.Exec(
		`UPDATE pets SET `+col+` = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		url, id, userID,
	)
	if err != nil {
		return fmt.Errorf("set pet photo: %w", err)
	}
	return requireOwned(result)
}

func photoColumn(slot int) (string, bool) {
	switch slot {
	case 1:
		return "photo_url", true
	case 2:
		return "photo_url_2", true
	case 3:
		return "photo_url_3", true
	}
	return "", false
}

func requireOwned(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotOwned
	}
	return nil
}

func collectPets(rows *sql.Rows) ([]model.Pet, error) {
	var pets []model.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		pets = append(pets, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pets: %w", err)
	}
	return pets, nil
}
