package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/report"
)

// FinderMessageStore is insert-and-select only. Reports have no update or
// delete path anywhere in the application.
type FinderMessageStore struct {
	db *sql.DB
}

func NewFinderMessageStore(db *sql.DB) *FinderMessageStore {
	return &FinderMessageStore{db: db}
}

func scanFinderMessage(scanner interface{ Scan(...any) error }) (*model.FinderMessage, error) {
	var m model.FinderMessage
	var location sql.NullString
	err := scanner.Scan(&m.ID, &m.PetID, &m.ReportType, &m.Message, &location, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if location.Valid {
		m.GeneralLocation = &location.String
	}
	return &m, nil
}

const finderMessageCols = `id, pet_id, report_type, message, general_location, created_at`

// Create inserts a report with a generated id and server-assigned timestamp.
func (s *FinderMessageStore) Create(petID string, kind report.Kind, message string, generalLocation *string) (*model.FinderMessage, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO finder_messages (id, pet_id, report_type, message, general_location) VALUES (?, ?, ?, ?, ?)`,
		id, petID, kind, message, generalLocation,
	)
	if err != nil {
		return nil, fmt.Errorf("insert finder message: %w", err)
	}
	return s.GetByID(id)
}

func (s *FinderMessageStore) GetByID(id string) (*model.FinderMessage, error) {
	row := s.db.QueryRow(`SELECT `+finderMessageCols+` FROM finder_messages WHERE id = ?`, id)
	m, err := scanFinderMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get finder message: %w", err)
	}
	return m, nil
}

// ListForOwner returns all reports across the user's pets, newest first.
// The join scopes reads to the owning account.
func (s *FinderMessageStore) ListForOwner(userID int64) ([]model.FinderMessage, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.pet_id, m.report_type, m.message, m.general_location, m.created_at
		 FROM finder_messages m JOIN pets p ON p.id = m.pet_id
		 WHERE p.user_id = ? ORDER BY m.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list finder messages for owner: %w", err)
	}
	defer rows.Close()
	return collectFinderMessages(rows)
}

func (s *FinderMessageStore) ListByPet(petID string, userID int64) ([]model.FinderMessage, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.pet_id, m.report_type, m.message, m.general_location, m.created_at
		 FROM finder_messages m JOIN pets p ON p.id = m.pet_id
		 WHERE m.pet_id = ? AND p.user_id = ? ORDER BY m.created_at DESC`,
		petID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list finder messages by pet: %w", err)
	}
	defer rows.Close()
	return collectFinderMessages(rows)
}

func collectFinderMessages(rows *sql.Rows) ([]model.FinderMessage, error) {
	var msgs []model.FinderMessage
	for rows.Next() {
		m, err := scanFinderMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finder message: %w", err)
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finder messages: %w", err)
	}
	return msgs, nil
}
