package model

import (
	"time"

	"github.com/google/uuid"
)

// ExchangeStatus tracks an inter-hospital exchange request
type ExchangeStatus string

const (
	ExchangePending   ExchangeStatus = "PENDING"
	ExchangeApproved  ExchangeStatus = "APPROVED"
	ExchangeRejected  ExchangeStatus = "REJECTED"
	ExchangeCompleted ExchangeStatus = "COMPLETED"
	ExchangeCancelled ExchangeStatus = "CANCELLED"
)

// Urgency grades exchange requests and donor alerts
type Urgency string

const (
	UrgencyLow       Urgency = "LOW"
	UrgencyEmergency Urgency = "EMERGENCY"
	UrgencyDisaster  Urgency = "DISASTER"
)

// Exchange is a directed blood transfer request between two hospitals
type Exchange struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	RequestingHospitalID uuid.UUID `json:"requesting_hospital_id" db:"requesting_hospital_id"`
	ProvidingHospitalID  uuid.UUID `json:"providing_hospital_id" db:"providing_hospital_id"`

	BloodGroup     string `json:"blood_group" db:"blood_group"`
	UnitsRequested int    `json:"units_requested" db:"units_requested"`
	UnitsApproved  int    `json:"units_approved" db:"units_approved"`

	Reason     string    `json:"reason" db:"reason"`
	Urgency    Urgency   `json:"urgency" db:"urgency"`
	RequiredBy time.Time `json:"required_by" db:"required_by"`

	Status      ExchangeStatus `json:"status" db:"status"`
	RequestedAt time.Time      `json:"requested_at" db:"requested_at"`
	RequestedBy uuid.UUID      `json:"requested_by" db:"requested_by"`
	RespondedAt *time.Time     `json:"responded_at,omitempty" db:"responded_at"`
	RespondedBy *uuid.UUID     `json:"responded_by,omitempty" db:"responded_by"`

	ResponseNotes   string     `json:"response_notes" db:"response_notes"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CompletionNotes string     `json:"completion_notes" db:"completion_notes"`

	// Joined counterparty name for listings
	HospitalName string `json:"hospital_name,omitempty" db:"hospital_name"`
}

type CreateExchangeRequest struct {
	ProvidingHospitalID uuid.UUID `json:"providing_hospital_id" binding:"required"`
	BloodGroup          string    `json:"blood_group" binding:"required,bloodgroup"`
	UnitsRequested      int       `json:"units_requested" binding:"required,min=1"`
	Reason              string    `json:"reason" binding:"required"`
	Urgency             Urgency   `json:"urgency" binding:"omitempty,oneof=LOW EMERGENCY DISASTER"`
	RequiredBy          time.Time `json:"required_by" binding:"required"`
}

type RespondExchangeRequest struct {
	RequestID     uuid.UUID `json:"request_id" binding:"required"`
	Decision      Decision  `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	UnitsApproved int       `json:"units_approved" binding:"min=0"`
	ResponseNotes string    `json:"response_notes"`
}

// ExchangePartner is a hospital available for exchange with its stock snapshot
type ExchangePartner struct {
	ID            uuid.UUID    `json:"id"`
	HospitalName  string       `json:"hospital_name"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	ContactPerson string       `json:"contact_person"`
	ContactPhone  string       `json:"contact_phone"`
	TotalStock    int          `json:"total_stock"`
	BloodStock    []StockEntry `json:"blood_stock"`
}
