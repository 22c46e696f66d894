package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestType classifies patient blood requests; EMERGENCY and DISASTER
// additionally require admin sign-off before hospital processing
type RequestType string

const (
	RequestNormal    RequestType = "NORMAL"
	RequestEmergency RequestType = "EMERGENCY"
	RequestDisaster  RequestType = "DISASTER"
)

// RequestStatus tracks the hospital-side lifecycle of a blood request
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestFulfilled RequestStatus = "FULFILLED"
	RequestCancelled RequestStatus = "CANCELLED"
)

// minJustificationLen is the minimum trimmed justification length for
// emergency and disaster requests
const minJustificationLen = 50

// BloodRequest is a patient's blood need addressed to one hospital.
// AdminApproved and Status are deliberately independent: admin approval
// flips AdminApproved only, admin rejection flips Status only. Dashboards
// read the two fields separately.
type BloodRequest struct {
	Base
	PatientID  uuid.UUID `json:"patient_id" db:"patient_id"`
	HospitalID uuid.UUID `json:"hospital_id" db:"hospital_id"`

	BloodGroup  string      `json:"blood_group" db:"blood_group"`
	UnitsNeeded int         `json:"units_needed" db:"units_needed"`
	RequestType RequestType `json:"request_type" db:"request_type"`

	EmergencyReason        string    `json:"emergency_reason" db:"emergency_reason"`
	EmergencyJustification string    `json:"emergency_justification" db:"emergency_justification"`
	RequiredBy             time.Time `json:"required_by" db:"required_by"`

	DoctorName       string `json:"doctor_name" db:"doctor_name"`
	DoctorContact    string `json:"doctor_contact" db:"doctor_contact"`
	MedicalCondition string `json:"medical_condition" db:"medical_condition"`

	Status          RequestStatus `json:"status" db:"status"`
	ReviewedBy      *uuid.UUID    `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty" db:"reviewed_at"`
	RejectionReason string        `json:"rejection_reason" db:"rejection_reason"`

	AdminApproved   bool       `json:"admin_approved" db:"admin_approved"`
	AdminApprovedBy *uuid.UUID `json:"admin_approved_by,omitempty" db:"admin_approved_by"`
	AdminApprovedAt *time.Time `json:"admin_approved_at,omitempty" db:"admin_approved_at"`
	AdminNotes      string     `json:"admin_notes" db:"admin_notes"`

	// Joined display fields for admin listings
	PatientName     string    `json:"patient_name,omitempty" db:"patient_name"`
	PatientPhone    string    `json:"patient_phone,omitempty" db:"patient_phone"`
	PatientUserID   uuid.UUID `json:"-" db:"patient_user_id"`
	HospitalName    string    `json:"hospital_name,omitempty" db:"hospital_name"`
	HospitalCity    string    `json:"hospital_city,omitempty" db:"hospital_city"`
	HospitalState   string    `json:"hospital_state,omitempty" db:"hospital_state"`
	HospitalContact string    `json:"hospital_contact,omitempty" db:"hospital_contact"`
}

// RequiresAdminApproval reports whether the request type needs admin sign-off
func (r *BloodRequest) RequiresAdminApproval() bool {
	return r.RequestType == RequestEmergency || r.RequestType == RequestDisaster
}

type CreateBloodRequestRequest struct {
	HospitalID             uuid.UUID   `json:"hospital_id" binding:"required"`
	BloodGroup             string      `json:"blood_group" binding:"required,bloodgroup"`
	UnitsNeeded            int         `json:"units_needed" binding:"required,min=1"`
	RequestType            RequestType `json:"request_type" binding:"omitempty,oneof=NORMAL EMERGENCY DISASTER"`
	EmergencyReason        string      `json:"emergency_reason"`
	EmergencyJustification string      `json:"emergency_justification"`
	RequiredBy             time.Time   `json:"required_by" binding:"required"`
	DoctorName             string      `json:"doctor_name"`
	DoctorContact          string      `json:"doctor_contact"`
	MedicalCondition       string      `json:"medical_condition"`
}

// NeedsJustification reports whether the trimmed justification is too short
// for an emergency or disaster request. NORMAL requests never need one.
func (r *CreateBloodRequestRequest) NeedsJustification() bool {
	if r.RequestType != RequestEmergency && r.RequestType != RequestDisaster {
		return false
	}
	return len(strings.TrimSpace(r.EmergencyJustification)) < minJustificationLen
}

type CancelBloodRequestRequest struct {
	RequestID uuid.UUID `json:"request_id" binding:"required"`
}
