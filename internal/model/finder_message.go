package model

import (
	"time"

	"github.com/hartmanbaily-coder/losttofound/internal/report"
)

// FinderMessage is one sighting report submitted through a pet's public
// page. Rows are immutable once inserted.
type FinderMessage struct {
	ID              string      `json:"id"`
	PetID           string      `json:"pet_id"`
	ReportType      report.Kind `json:"report_type"`
	Message         string      `json:"message"`
	GeneralLocation *string     `json:"general_location"`
	CreatedAt       time.Time   `json:"created_at"`
}
