package model

import (
	"strings"
	"time"

	"github.com/hartmanbaily-coder/losttofound/internal/pet"
)

// MaxPhotoSlots is the number of photo references a pet profile can hold.
const MaxPhotoSlots = 3

// Pet is one profile per physical animal. The slug is generated at creation
// and immutable; contact fields are only ever rendered to the owning user.
type Pet struct {
	ID     string     `json:"id"`
	UserID int64      `json:"user_id"`
	Name   string     `json:"name"`
	Slug   string     `json:"slug"`
	Status pet.Status `json:"status"`

	Description   *string `json:"description"`
	BehaviorNotes *string `json:"behavior_notes"`

	PhotoURL  *string `json:"photo_url"`
	PhotoURL2 *string `json:"photo_url_2"`
	PhotoURL3 *string `json:"photo_url_3"`

	ContactEmailPrimary *string `json:"contact_email_primary"`
	ContactEmailBackup  *string `json:"contact_email_backup"`
	ContactPhonePrimary *string `json:"contact_phone_primary"`
	ContactPhoneBackup  *string `json:"contact_phone_backup"`

	IsTravelMode   bool     `json:"is_travel_mode"`
	TravelCity     *string  `json:"travel_city"`
	TravelRegion   *string  `json:"travel_region"`
	TravelRadiusKm *float64 `json:"travel_radius_km"`
	TravelNotes    *string  `json:"travel_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Photos returns the populated photo URLs in slot order.
func (p *Pet) Photos() []string {
	var urls []string
	for _, u := range []*string{p.PhotoURL, p.PhotoURL2, p.PhotoURL3} {
		if u != nil && *u != "" {
			urls = append(urls, *u)
		}
	}
	return urls
}

// TravelLocation joins the travel city and region for display, or returns
// "" when neither is set.
func (p *Pet) TravelLocation() string {
	var parts []string
	for _, f := range []*string{p.TravelCity, p.TravelRegion} {
		if f != nil && strings.TrimSpace(*f) != "" {
			parts = append(parts, strings.TrimSpace(*f))
		}
	}
	return strings.Join(parts, ", ")
}
