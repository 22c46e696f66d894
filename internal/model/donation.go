package model

import (
	"time"

	"github.com/google/uuid"
)

// DonationRecord is one entry in a donor's donation history
type DonationRecord struct {
	ID              uuid.UUID `json:"id" db:"id"`
	DonorID         uuid.UUID `json:"donor_id" db:"donor_id"`
	DonationDate    time.Time `json:"donation_date" db:"donation_date"`
	Location        string    `json:"location" db:"location"`
	UnitsDonated    int       `json:"units_donated" db:"units_donated"`
	BloodGroup      string    `json:"blood_group" db:"blood_group"`
	HemoglobinLevel float64   `json:"hemoglobin_level" db:"hemoglobin_level"`
	Notes           string    `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// donationCooldown is the minimum gap between whole-blood donations
const donationCooldown = 56 * 24 * time.Hour

// NextEligibleDate returns the earliest date a donor may donate again
// after the given donation date
func NextEligibleDate(lastDonation time.Time) time.Time {
	return lastDonation.Add(donationCooldown)
}
