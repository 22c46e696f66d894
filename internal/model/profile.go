package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the admin-controlled gate for organizational accounts
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "PENDING"
	VerificationApproved  VerificationStatus = "APPROVED"
	VerificationRejected  VerificationStatus = "REJECTED"
	VerificationSuspended VerificationStatus = "SUSPENDED"
)

// DonorProfile extends a DONOR user
type DonorProfile struct {
	Base
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	BloodGroup        string     `json:"blood_group" db:"blood_group"`
	City              string     `json:"city" db:"city"`
	State             string     `json:"state" db:"state"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Weight            float64    `json:"weight" db:"weight"`
	Gender            string     `json:"gender" db:"gender"`
	LastDonationDate  *time.Time `json:"last_donation_date,omitempty" db:"last_donation_date"`
	TotalDonations    int        `json:"total_donations" db:"total_donations"`
	IsEligible        bool       `json:"is_eligible" db:"is_eligible"`
	MedicalConditions string     `json:"medical_conditions" db:"medical_conditions"`
	Medications       string     `json:"medications" db:"medications"`
	EmergencyContact  string     `json:"emergency_contact" db:"emergency_contact"`
}

// HospitalProfile extends a HOSPITAL user; transacting requires APPROVED status
type HospitalProfile struct {
	Base
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	HospitalName       string    `json:"hospital_name" db:"hospital_name"`
	RegistrationNumber string    `json:"registration_number" db:"registration_number"`
	IssuingAuthority   string    `json:"issuing_authority" db:"issuing_authority"`
	YearOfRegistration int       `json:"year_of_registration" db:"year_of_registration"`

	AddressLine string `json:"address_line" db:"address_line"`
	Area        string `json:"area" db:"area"`
	City        string `json:"city" db:"city"`
	District    string `json:"district" db:"district"`
	State       string `json:"state" db:"state"`
	Pincode     string `json:"pincode" db:"pincode"`

	AuthorizedPersonName        string `json:"authorized_person_name" db:"authorized_person_name"`
	AuthorizedPersonDesignation string `json:"authorized_person_designation" db:"authorized_person_designation"`
	AuthorizedPersonMobile      string `json:"authorized_person_mobile" db:"authorized_person_mobile"`
	AuthorizedPersonEmail       string `json:"authorized_person_email" db:"authorized_person_email"`

	HasBloodBank     bool   `json:"has_blood_bank" db:"has_blood_bank"`
	BloodBankLicense string `json:"blood_bank_license" db:"blood_bank_license"`
	StorageCapacity  int    `json:"storage_capacity" db:"storage_capacity"`

	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	VerifiedBy         *uuid.UUID         `json:"verified_by,omitempty" db:"verified_by"`
	VerificationDate   *time.Time         `json:"verification_date,omitempty" db:"verification_date"`
	RejectionReason    string             `json:"rejection_reason" db:"rejection_reason"`
}

// OrganizationType classifies camp organizers
type OrganizationType string

const (
	OrgTypeHospital   OrganizationType = "HOSPITAL"
	OrgTypeNGO        OrganizationType = "NGO"
	OrgTypeGovernment OrganizationType = "GOVERNMENT"
	OrgTypeCorporate  OrganizationType = "CORPORATE"
)

// CampProfile extends a CAMP user; transacting requires APPROVED status
type CampProfile struct {
	Base
	UserID             uuid.UUID        `json:"user_id" db:"user_id"`
	OrganizationName   string           `json:"organization_name" db:"organization_name"`
	OrganizationType   OrganizationType `json:"organization_type" db:"organization_type"`
	RegistrationNumber string           `json:"registration_number" db:"registration_number"`

	ContactPersonName        string `json:"contact_person_name" db:"contact_person_name"`
	ContactPersonDesignation string `json:"contact_person_designation" db:"contact_person_designation"`
	ContactPersonMobile      string `json:"contact_person_mobile" db:"contact_person_mobile"`

	AddressLine string `json:"address_line" db:"address_line"`
	City        string `json:"city" db:"city"`
	State       string `json:"state" db:"state"`
	Pincode     string `json:"pincode" db:"pincode"`

	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	VerifiedBy         *uuid.UUID         `json:"verified_by,omitempty" db:"verified_by"`
	VerificationDate   *time.Time         `json:"verification_date,omitempty" db:"verification_date"`
	RejectionReason    string             `json:"rejection_reason" db:"rejection_reason"`
}

// PatientProfile extends a PATIENT user
type PatientProfile struct {
	Base
	UserID                   uuid.UUID  `json:"user_id" db:"user_id"`
	DateOfBirth              *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender                   string     `json:"gender" db:"gender"`
	City                     string     `json:"city" db:"city"`
	State                    string     `json:"state" db:"state"`
	BloodGroup               string     `json:"blood_group" db:"blood_group"`
	EmergencyContact         string     `json:"emergency_contact" db:"emergency_contact"`
	EmergencyContactName     string     `json:"emergency_contact_name" db:"emergency_contact_name"`
	EmergencyContactRelation string     `json:"emergency_contact_relation" db:"emergency_contact_relation"`
	MedicalConditions        string     `json:"medical_conditions" db:"medical_conditions"`
}

type RegisterUserFields struct {
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type RegisterDonorRequest struct {
	RegisterUserFields
	BloodGroup       string  `json:"blood_group" binding:"required,bloodgroup"`
	City             string  `json:"city" binding:"required"`
	State            string  `json:"state" binding:"required"`
	Gender           string  `json:"gender" binding:"required,oneof=M F O"`
	Weight           float64 `json:"weight"`
	DateOfBirth      string  `json:"date_of_birth"`
	EmergencyContact string  `json:"emergency_contact"`
}

type RegisterHospitalRequest struct {
	RegisterUserFields
	HospitalName       string `json:"hospital_name" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	IssuingAuthority   string `json:"issuing_authority" binding:"required"`
	YearOfRegistration int    `json:"year_of_registration" binding:"required"`

	AddressLine string `json:"address_line" binding:"required"`
	Area        string `json:"area"`
	City        string `json:"city" binding:"required"`
	District    string `json:"district"`
	State       string `json:"state" binding:"required"`
	Pincode     string `json:"pincode" binding:"required"`

	AuthorizedPersonName        string `json:"authorized_person_name" binding:"required"`
	AuthorizedPersonDesignation string `json:"authorized_person_designation"`
	AuthorizedPersonMobile      string `json:"authorized_person_mobile" binding:"required"`
	AuthorizedPersonEmail       string `json:"authorized_person_email" binding:"required,email"`

	HasBloodBank     bool   `json:"has_blood_bank"`
	BloodBankLicense string `json:"blood_bank_license"`
	StorageCapacity  int    `json:"storage_capacity"`
}

type RegisterCampRequest struct {
	RegisterUserFields
	OrganizationName   string           `json:"organization_name" binding:"required"`
	OrganizationType   OrganizationType `json:"organization_type" binding:"required,oneof=HOSPITAL NGO GOVERNMENT CORPORATE"`
	RegistrationNumber string           `json:"registration_number" binding:"required"`

	ContactPersonName        string `json:"contact_person_name" binding:"required"`
	ContactPersonDesignation string `json:"contact_person_designation"`
	ContactPersonMobile      string `json:"contact_person_mobile" binding:"required"`

	AddressLine string `json:"address_line" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Pincode     string `json:"pincode" binding:"required"`
}

type RegisterPatientRequest struct {
	RegisterUserFields
	Gender                   string `json:"gender" binding:"required,oneof=M F O"`
	City                     string `json:"city" binding:"required"`
	State                    string `json:"state" binding:"required"`
	BloodGroup               string `json:"blood_group" binding:"omitempty,bloodgroup"`
	DateOfBirth              string `json:"date_of_birth"`
	EmergencyContact         string `json:"emergency_contact" binding:"required"`
	EmergencyContactName     string `json:"emergency_contact_name" binding:"required"`
	EmergencyContactRelation string `json:"emergency_contact_relation"`
	MedicalConditions        string `json:"medical_conditions"`
}

type UpdateDonorProfileRequest struct {
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	Phone      *string  `json:"phone"`
	BloodGroup *string  `json:"blood_group" binding:"omitempty,bloodgroup"`
	City       *string  `json:"city"`
	State      *string  `json:"state"`
	Weight     *float64 `json:"weight"`
	Gender     *string  `json:"gender" binding:"omitempty,oneof=M F O"`
}
