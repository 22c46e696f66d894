package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock status bands derived from units available
const (
	StockGood     = "GOOD"
	StockLow      = "LOW"
	StockCritical = "CRITICAL"
)

// BloodStock is a hospital's ledger row for one blood group,
// unique per (hospital, blood_group)
type BloodStock struct {
	ID             uuid.UUID `json:"id" db:"id"`
	HospitalID     uuid.UUID `json:"hospital_id" db:"hospital_id"`
	BloodGroup     string    `json:"blood_group" db:"blood_group"`
	UnitsAvailable int       `json:"units_available" db:"units_available"`
	UnitsReserved  int       `json:"units_reserved" db:"units_reserved"`
	LastUpdated    time.Time `json:"last_updated" db:"last_updated"`
}

// Status returns the stock band: GOOD >= 10 units, LOW >= 5, else CRITICAL
func (s *BloodStock) Status() string {
	switch {
	case s.UnitsAvailable >= 10:
		return StockGood
	case s.UnitsAvailable >= 5:
		return StockLow
	default:
		return StockCritical
	}
}

// Stock update operations
const (
	StockOpSet      = "set"
	StockOpAdd      = "add"
	StockOpSubtract = "subtract"
)

type UpdateStockRequest struct {
	BloodGroup string `json:"blood_group" binding:"required,bloodgroup"`
	Units      int    `json:"units" binding:"min=0"`
	Operation  string `json:"operation" binding:"omitempty,oneof=set add subtract"`
}

// StockEntry is the API shape of one ledger row
type StockEntry struct {
	BloodGroup     string    `json:"blood_group"`
	UnitsAvailable int       `json:"units_available"`
	UnitsReserved  int       `json:"units_reserved"`
	Status         string    `json:"status"`
	LastUpdated    time.Time `json:"last_updated"`
}
