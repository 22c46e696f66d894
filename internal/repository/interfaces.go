package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/redconnect/redconnect-api/internal/model"
)

// Sentinel errors translated by implementations so services can map them
// onto the API error taxonomy without importing database/sql or pq.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrAlreadyDecided    = errors.New("decision already recorded")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	CountByRole(ctx context.Context) (map[model.Role]int, error)
	ListRecent(ctx context.Context, limit int) ([]*model.User, error)
}

type DonorRepository interface {
	// Create inserts the user and donor profile in one transaction
	Create(ctx context.Context, user *model.User, profile *model.DonorProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DonorProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.DonorProfile, error)
	Update(ctx context.Context, profile *model.DonorProfile) error
	// RecordDonation bumps total_donations and last_donation_date
	RecordDonation(ctx context.Context, donorID uuid.UUID, units int, donatedAt time.Time) error
}

type HospitalRepository interface {
	Create(ctx context.Context, user *model.User, profile *model.HospitalProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.HospitalProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.HospitalProfile, error)
	ListPending(ctx context.Context) ([]*model.HospitalProfile, error)
	// ListApproved returns verified hospitals, optionally scoped to a city
	// and excluding one hospital id
	ListApproved(ctx context.Context, city string, exclude uuid.UUID, bloodBankOnly bool) ([]*model.HospitalProfile, error)
	ListRecentlyVerified(ctx context.Context, limit int) ([]*model.HospitalProfile, error)
	// RecordVerification applies a decision to a PENDING profile; returns
	// ErrAlreadyDecided when the profile is no longer pending
	RecordVerification(ctx context.Context, id uuid.UUID, decision model.Decision, verifiedBy uuid.UUID, reason string) error
	CountByVerification(ctx context.Context) (map[model.VerificationStatus]int, error)
}

type CampProfileRepository interface {
	Create(ctx context.Context, user *model.User, profile *model.CampProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CampProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CampProfile, error)
	ListPending(ctx context.Context) ([]*model.CampProfile, error)
	RecordVerification(ctx context.Context, id uuid.UUID, decision model.Decision, verifiedBy uuid.UUID, reason string) error
	CountByVerification(ctx context.Context) (map[model.VerificationStatus]int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, user *model.User, profile *model.PatientProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
}

type CampRepository interface {
	Create(ctx context.Context, camp *model.Camp) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Camp, error)
	// GetByIDAndOrganizer scopes the lookup so a foreign id reads as not found
	GetByIDAndOrganizer(ctx context.Context, id, organizerID uuid.UUID) (*model.Camp, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Camp, error)
	CountByOrganizer(ctx context.Context, organizerID uuid.UUID) (total, active int, err error)
	// ListSuggestions returns active future camps in the donor's city the
	// donor has not applied to yet
	ListSuggestions(ctx context.Context, city string, donorID uuid.UUID, now time.Time, limit int) ([]*model.Camp, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.CampApplication) error
	GetByIDAndOrganizer(ctx context.Context, id, organizerID uuid.UUID) (*model.CampApplication, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID, campID *uuid.UUID, limit int) ([]*model.CampApplication, error)
	CountPendingByOrganizer(ctx context.Context, organizerID uuid.UUID) (int, error)
	// RecordDecision applies a review to a PENDING application; returns
	// ErrAlreadyDecided otherwise
	RecordDecision(ctx context.Context, id uuid.UUID, decision model.Decision, reviewedBy uuid.UUID, reason string) error
}

type AttendanceRepository interface {
	Get(ctx context.Context, campID, donorID uuid.UUID) (*model.CampAttendance, error)
	Create(ctx context.Context, att *model.CampAttendance) error
	Update(ctx context.Context, att *model.CampAttendance) error
}

type StockRepository interface {
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BloodStock, error)
	// GetOrCreate returns the (hospital, blood group) row, inserting a zero
	// row when absent
	GetOrCreate(ctx context.Context, hospitalID uuid.UUID, bloodGroup string) (*model.BloodStock, error)
	Update(ctx context.Context, stock *model.BloodStock) error
	TotalByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error)
	// GroupTotals sums units available per blood group across all hospitals
	GroupTotals(ctx context.Context) (map[string]int, error)
}

type ExchangeRepository interface {
	Create(ctx context.Context, ex *model.Exchange) error
	GetByIDAndProvider(ctx context.Context, id, providerID uuid.UUID) (*model.Exchange, error)
	ListSent(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.Exchange, error)
	ListReceived(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.Exchange, error)
	// Reject records a rejection on a PENDING exchange
	Reject(ctx context.Context, id uuid.UUID, respondedBy uuid.UUID, notes string) error
	// ApproveAndTransfer records the approval and moves units between the
	// two hospitals' stock rows in one transaction, locking both rows.
	// Returns ErrInsufficientStock when the provider cannot cover the units,
	// ErrAlreadyDecided when the exchange is no longer pending.
	ApproveAndTransfer(ctx context.Context, ex *model.Exchange, unitsApproved int, respondedBy uuid.UUID, notes string) error
}

type BloodRequestRepository interface {
	Create(ctx context.Context, req *model.BloodRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.BloodRequest, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.BloodRequest, error)
	ListPendingEmergencies(ctx context.Context) ([]*model.BloodRequest, error)
	ListRecentEmergencies(ctx context.Context, limit int) ([]*model.BloodRequest, error)
	// ApproveByAdmin sets admin approval fields only; the request status is
	// left untouched. Returns ErrAlreadyDecided when already approved or
	// already rejected.
	ApproveByAdmin(ctx context.Context, id, adminID uuid.UUID, notes string) error
	// RejectByAdmin sets status=REJECTED and review fields only; the
	// admin_approved flag is left untouched.
	RejectByAdmin(ctx context.Context, id, adminID uuid.UUID, notes string) error
	// Cancel cancels a patient's own PENDING or APPROVED request
	Cancel(ctx context.Context, id, patientID uuid.UUID) error
	CountByPatient(ctx context.Context, patientID uuid.UUID) (total, active, emergency int, err error)
	CountActiveByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error)
	CountPendingEmergencies(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[model.RequestStatus]int, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *model.DonorAlert) error
	GetActiveByID(ctx context.Context, id uuid.UUID) (*model.DonorAlert, error)
	// ListMatching returns active, unexpired alerts in the donor's city for
	// the donor's blood group (or O-) the donor has not responded to
	ListMatching(ctx context.Context, city, bloodGroup string, donorID uuid.UUID, now time.Time, limit int) ([]*model.DonorAlert, error)
}

type AlertResponseRepository interface {
	Create(ctx context.Context, resp *model.AlertResponse) error
	GetByIDAndHospital(ctx context.Context, id, hospitalID uuid.UUID) (*model.AlertResponse, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.AlertResponse, error)
	CountPendingByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error)
	RecordDecision(ctx context.Context, id uuid.UUID, decision model.Decision, reviewedBy uuid.UUID, reason string) error
}

type DonationRepository interface {
	Create(ctx context.Context, rec *model.DonationRecord) error
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.DonationRecord, error)
	CountAll(ctx context.Context) (int, error)
	LatestByDonor(ctx context.Context, donorID uuid.UUID) (*model.DonationRecord, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// TokenStore is the revocation list for refresh tokens
type TokenStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
