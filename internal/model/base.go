package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Decision is the recurring choice a reviewing actor makes on a pending record
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// Valid reports whether the decision is one of the allowed values
func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// StartOfDay returns midnight of t's calendar day in t's location. Date
// cutoffs (camp suggestions, upcoming checks) all derive from it so a camp
// is never suggested one side of midnight and rejected on the other.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BloodGroups lists every supported blood group code
var BloodGroups = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}

// ValidBloodGroup reports whether g is a known blood group code
func ValidBloodGroup(g string) bool {
	for _, bg := range BloodGroups {
		if bg == g {
			return true
		}
	}
	return false
}
