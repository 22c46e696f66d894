package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CampStatus tracks the lifecycle of a donation camp
type CampStatus string

const (
	CampDraft     CampStatus = "DRAFT"
	CampActive    CampStatus = "ACTIVE"
	CampCompleted CampStatus = "COMPLETED"
	CampCancelled CampStatus = "CANCELLED"
)

// Camp is a blood donation camp owned by a camp organizer
type Camp struct {
	Base
	OrganizerID uuid.UUID `json:"organizer_id" db:"organizer_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`

	Location string `json:"location" db:"location"`
	Address  string `json:"address" db:"address"`
	City     string `json:"city" db:"city"`
	State    string `json:"state" db:"state"`
	Pincode  string `json:"pincode" db:"pincode"`

	Date      time.Time `json:"date" db:"date"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`

	// Stored as a jsonb column
	BloodGroupsNeeded json.RawMessage `json:"blood_groups_needed" db:"blood_groups_needed"`
	ExpectedDonors    int             `json:"expected_donors" db:"expected_donors"`

	Status CampStatus `json:"status" db:"status"`

	ContactPerson string `json:"contact_person" db:"contact_person"`
	ContactPhone  string `json:"contact_phone" db:"contact_phone"`
	ContactEmail  string `json:"contact_email" db:"contact_email"`

	// Populated by listing queries, not a column
	ApplicationsCount         int `json:"applications_count" db:"applications_count"`
	ApprovedApplicationsCount int `json:"approved_applications_count" db:"approved_applications_count"`
}

// IsUpcoming reports whether the camp date is today or later
func (c *Camp) IsUpcoming(now time.Time) bool {
	return !c.Date.Before(StartOfDay(now))
}

// ApplicationStatus tracks a donor's application to a camp
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
	ApplicationAttended ApplicationStatus = "ATTENDED"
	ApplicationNoShow   ApplicationStatus = "NO_SHOW"
)

// HealthStatus is the self-reported condition on applications and responses
type HealthStatus string

const (
	HealthGood  HealthStatus = "GOOD"
	HealthMinor HealthStatus = "MINOR"
)

// CampApplication is a donor application to a camp, unique per (donor, camp)
type CampApplication struct {
	Base
	DonorID uuid.UUID `json:"donor_id" db:"donor_id"`
	CampID  uuid.UUID `json:"camp_id" db:"camp_id"`

	Age              int          `json:"age" db:"age"`
	Weight           float64      `json:"weight" db:"weight"`
	LastDonationDate *time.Time   `json:"last_donation_date,omitempty" db:"last_donation_date"`
	HealthStatus     HealthStatus `json:"health_status" db:"health_status"`
	HealthIssues     string       `json:"health_issues" db:"health_issues"`
	Medications      string       `json:"medications" db:"medications"`
	ConsentGiven     bool         `json:"consent_given" db:"consent_given"`

	Status          ApplicationStatus `json:"status" db:"status"`
	AppliedAt       time.Time         `json:"applied_at" db:"applied_at"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy      *uuid.UUID        `json:"reviewed_by,omitempty" db:"reviewed_by"`
	RejectionReason string            `json:"rejection_reason" db:"rejection_reason"`

	// Joined donor/camp display fields for listings
	DonorName       string    `json:"donor_name,omitempty" db:"donor_name"`
	DonorPhone      string    `json:"donor_phone,omitempty" db:"donor_phone"`
	DonorBloodGroup string    `json:"donor_blood_group,omitempty" db:"donor_blood_group"`
	DonorUserID     uuid.UUID `json:"-" db:"donor_user_id"`
	CampName        string    `json:"camp_name,omitempty" db:"camp_name"`
	CampDate        time.Time `json:"camp_date,omitempty" db:"camp_date"`
}

// AttendanceStatus tracks a donor's day-of progress at a camp
type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "REGISTERED"
	AttendanceCheckedIn  AttendanceStatus = "CHECKED_IN"
	AttendanceDonated    AttendanceStatus = "DONATED"
	AttendanceDeferred   AttendanceStatus = "DEFERRED"
	AttendanceNoShow     AttendanceStatus = "NO_SHOW"
)

// CampAttendance is the check-in/donation record, unique per (camp, donor)
type CampAttendance struct {
	Base
	CampID  uuid.UUID `json:"camp_id" db:"camp_id"`
	DonorID uuid.UUID `json:"donor_id" db:"donor_id"`

	Status       AttendanceStatus `json:"status" db:"status"`
	CheckInTime  *time.Time       `json:"check_in_time,omitempty" db:"check_in_time"`
	DonationTime *time.Time       `json:"donation_time,omitempty" db:"donation_time"`
	UnitsDonated int              `json:"units_donated" db:"units_donated"`

	HemoglobinLevel float64 `json:"hemoglobin_level" db:"hemoglobin_level"`
	BloodPressure   string  `json:"blood_pressure" db:"blood_pressure"`
	Notes           string  `json:"notes" db:"notes"`

	CheckedInBy        *uuid.UUID `json:"checked_in_by,omitempty" db:"checked_in_by"`
	DonationRecordedBy *uuid.UUID `json:"donation_recorded_by,omitempty" db:"donation_recorded_by"`
}

type CreateCampRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Location       string   `json:"location" binding:"required"`
	Address        string   `json:"address" binding:"required"`
	City           string   `json:"city" binding:"required"`
	State          string   `json:"state" binding:"required"`
	Pincode        string   `json:"pincode" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	StartTime      string   `json:"start_time" binding:"required"`
	EndTime        string   `json:"end_time" binding:"required"`
	BloodGroups    []string `json:"blood_groups_needed" binding:"omitempty,dive,bloodgroup"`
	ExpectedDonors int      `json:"expected_donors"`
	ContactPerson  string   `json:"contact_person" binding:"required"`
	ContactPhone   string   `json:"contact_phone" binding:"required"`
	ContactEmail   string   `json:"contact_email" binding:"required,email"`
}

type ApplyToCampRequest struct {
	CampID           uuid.UUID `json:"camp_id" binding:"required"`
	Age              int       `json:"age" binding:"required,min=18,max=65"`
	Weight           float64   `json:"weight" binding:"required"`
	LastDonationDate string    `json:"last_donation_date"`
	HealthStatus     string    `json:"health_status" binding:"omitempty,oneof=GOOD MINOR"`
	HealthIssues     string    `json:"health_issues"`
	Medications      string    `json:"medications"`
	Consent          bool      `json:"consent"`
}

// ReviewRequest is the shared approve/reject body used by every reviewer
type ReviewRequest struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Decision Decision  `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Notes    string    `json:"notes"`
}

type MarkAttendanceRequest struct {
	CampID       uuid.UUID        `json:"camp_id" binding:"required"`
	DonorID      uuid.UUID        `json:"donor_id" binding:"required"`
	Status       AttendanceStatus `json:"status" binding:"required,oneof=REGISTERED CHECKED_IN DONATED DEFERRED NO_SHOW"`
	UnitsDonated int              `json:"units_donated"`
}
