package model

import (
	"time"

	"github.com/google/uuid"
)

// AlertStatus tracks a hospital's broadcast blood alert
type AlertStatus string

const (
	AlertActive    AlertStatus = "ACTIVE"
	AlertFulfilled AlertStatus = "FULFILLED"
	AlertExpired   AlertStatus = "EXPIRED"
	AlertCancelled AlertStatus = "CANCELLED"
)

// DonorAlert is a hospital-broadcast blood need visible to matching donors
type DonorAlert struct {
	Base
	HospitalID  uuid.UUID   `json:"hospital_id" db:"hospital_id"`
	BloodGroup  string      `json:"blood_group" db:"blood_group"`
	UnitsNeeded int         `json:"units_needed" db:"units_needed"`
	Urgency     Urgency     `json:"urgency" db:"urgency"`
	Reason      string      `json:"reason" db:"reason"`
	Location    string      `json:"location" db:"location"`
	RequiredBy  time.Time   `json:"required_by" db:"required_by"`
	Status      AlertStatus `json:"status" db:"status"`

	// Joined hospital name for donor listings
	HospitalName string `json:"hospital_name,omitempty" db:"hospital_name"`
}

// ResponseStatus tracks a donor's response to a hospital alert
type ResponseStatus string

const (
	ResponsePending   ResponseStatus = "PENDING"
	ResponseApproved  ResponseStatus = "APPROVED"
	ResponseRejected  ResponseStatus = "REJECTED"
	ResponseCompleted ResponseStatus = "COMPLETED"
)

// AlertResponse is a donor's offer against an alert, unique per (alert, donor)
type AlertResponse struct {
	Base
	AlertID uuid.UUID `json:"alert_id" db:"alert_id"`
	DonorID uuid.UUID `json:"donor_id" db:"donor_id"`

	Age              int          `json:"age" db:"age"`
	Weight           float64      `json:"weight" db:"weight"`
	LastDonationDate *time.Time   `json:"last_donation_date,omitempty" db:"last_donation_date"`
	HealthStatus     HealthStatus `json:"health_status" db:"health_status"`
	HealthIssues     string       `json:"health_issues" db:"health_issues"`
	Medications      string       `json:"medications" db:"medications"`
	AvailableDate    time.Time    `json:"available_date" db:"available_date"`
	AvailableTime    string       `json:"available_time" db:"available_time"`
	ConsentGiven     bool         `json:"consent_given" db:"consent_given"`

	Status          ResponseStatus `json:"status" db:"status"`
	RespondedAt     time.Time      `json:"responded_at" db:"responded_at"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy      *uuid.UUID     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	RejectionReason string         `json:"rejection_reason" db:"rejection_reason"`

	// Joined display fields for hospital listings
	DonorName       string    `json:"donor_name,omitempty" db:"donor_name"`
	DonorPhone      string    `json:"donor_phone,omitempty" db:"donor_phone"`
	DonorBloodGroup string    `json:"donor_blood_group,omitempty" db:"donor_blood_group"`
	DonorUserID     uuid.UUID `json:"-" db:"donor_user_id"`
	AlertBloodGroup string    `json:"alert_blood_group,omitempty" db:"alert_blood_group"`
}

type CreateAlertRequest struct {
	BloodGroup  string    `json:"blood_group" binding:"required,bloodgroup"`
	UnitsNeeded int       `json:"units_needed" binding:"required,min=1"`
	Urgency     Urgency   `json:"urgency" binding:"omitempty,oneof=LOW EMERGENCY DISASTER"`
	Reason      string    `json:"reason" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	RequiredBy  time.Time `json:"required_by" binding:"required"`
}

type RespondToAlertRequest struct {
	AlertID          uuid.UUID `json:"alert_id" binding:"required"`
	Age              int       `json:"age" binding:"required,min=18,max=65"`
	Weight           float64   `json:"weight" binding:"required"`
	LastDonationDate string    `json:"last_donation_date"`
	HealthStatus     string    `json:"health_status" binding:"omitempty,oneof=GOOD MINOR"`
	HealthIssues     string    `json:"health_issues"`
	Medications      string    `json:"medications"`
	AvailableDate    string    `json:"available_date" binding:"required"`
	AvailableTime    string    `json:"available_time" binding:"required"`
	Consent          bool      `json:"consent"`
}
