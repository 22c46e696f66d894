package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
	"github.com/redconnect/redconnect-api/internal/service/notification"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(context.Context, *model.User) error { return nil }

func (f *fakeUserRepo) CountByRole(context.Context) (map[model.Role]int, error) {
	return nil, nil
}

func (f *fakeUserRepo) ListRecent(context.Context, int) ([]*model.User, error) {
	return nil, nil
}

// fakeEmergencyRepo applies admin decisions with the same write-once guard
// and field split as the SQL: approval touches the admin_approved fields
// only, rejection touches status and review fields only.
type fakeEmergencyRepo struct {
	requests map[uuid.UUID]*model.BloodRequest
}

func (f *fakeEmergencyRepo) Create(context.Context, *model.BloodRequest) error { return nil }

func (f *fakeEmergencyRepo) GetByID(_ context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	if r, ok := f.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEmergencyRepo) ListByPatient(context.Context, uuid.UUID) ([]*model.BloodRequest, error) {
	return nil, nil
}

func (f *fakeEmergencyRepo) ListByHospital(context.Context, uuid.UUID, int) ([]*model.BloodRequest, error) {
	return nil, nil
}

func (f *fakeEmergencyRepo) ListPendingEmergencies(context.Context) ([]*model.BloodRequest, error) {
	var out []*model.BloodRequest
	for _, r := range f.requests {
		if r.RequiresAdminApproval() && !r.AdminApproved && r.Status != model.RequestRejected {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEmergencyRepo) ListRecentEmergencies(context.Context, int) ([]*model.BloodRequest, error) {
	return nil, nil
}

func (f *fakeEmergencyRepo) ApproveByAdmin(_ context.Context, id, adminID uuid.UUID, notes string) error {
	r, ok := f.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.AdminApproved || r.Status == model.RequestRejected {
		return repository.ErrAlreadyDecided
	}
	now := time.Now()
	r.AdminApproved = true
	r.AdminApprovedBy = &adminID
	r.AdminApprovedAt = &now
	r.AdminNotes = notes
	return nil
}

func (f *fakeEmergencyRepo) RejectByAdmin(_ context.Context, id, adminID uuid.UUID, notes string) error {
	r, ok := f.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.AdminApproved || r.Status == model.RequestRejected {
		return repository.ErrAlreadyDecided
	}
	now := time.Now()
	r.Status = model.RequestRejected
	r.RejectionReason = notes
	r.ReviewedBy = &adminID
	r.ReviewedAt = &now
	return nil
}

func (f *fakeEmergencyRepo) Cancel(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (f *fakeEmergencyRepo) CountByPatient(context.Context, uuid.UUID) (int, int, int, error) {
	return 0, 0, 0, nil
}

func (f *fakeEmergencyRepo) CountActiveByHospital(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeEmergencyRepo) CountPendingEmergencies(context.Context) (int, error) {
	return 0, nil
}

func (f *fakeEmergencyRepo) CountByStatus(context.Context) (map[model.RequestStatus]int, error) {
	return nil, nil
}

type stubHospitalRepo struct{}

func (stubHospitalRepo) Create(context.Context, *model.User, *model.HospitalProfile) error {
	return nil
}
func (stubHospitalRepo) GetByID(context.Context, uuid.UUID) (*model.HospitalProfile, error) {
	return nil, repository.ErrNotFound
}
func (stubHospitalRepo) GetByUserID(context.Context, uuid.UUID) (*model.HospitalProfile, error) {
	return nil, repository.ErrNotFound
}
func (stubHospitalRepo) ListPending(context.Context) ([]*model.HospitalProfile, error) {
	return nil, nil
}
func (stubHospitalRepo) ListApproved(context.Context, string, uuid.UUID, bool) ([]*model.HospitalProfile, error) {
	return nil, nil
}
func (stubHospitalRepo) ListRecentlyVerified(context.Context, int) ([]*model.HospitalProfile, error) {
	return nil, nil
}
func (stubHospitalRepo) RecordVerification(context.Context, uuid.UUID, model.Decision, uuid.UUID, string) error {
	return nil
}
func (stubHospitalRepo) CountByVerification(context.Context) (map[model.VerificationStatus]int, error) {
	return nil, nil
}

type stubCampProfileRepo struct{}

func (stubCampProfileRepo) Create(context.Context, *model.User, *model.CampProfile) error {
	return nil
}
func (stubCampProfileRepo) GetByID(context.Context, uuid.UUID) (*model.CampProfile, error) {
	return nil, repository.ErrNotFound
}
func (stubCampProfileRepo) GetByUserID(context.Context, uuid.UUID) (*model.CampProfile, error) {
	return nil, repository.ErrNotFound
}
func (stubCampProfileRepo) ListPending(context.Context) ([]*model.CampProfile, error) {
	return nil, nil
}
func (stubCampProfileRepo) RecordVerification(context.Context, uuid.UUID, model.Decision, uuid.UUID, string) error {
	return nil
}
func (stubCampProfileRepo) CountByVerification(context.Context) (map[model.VerificationStatus]int, error) {
	return nil, nil
}

type stubStockRepo struct{}

func (stubStockRepo) ListByHospital(context.Context, uuid.UUID) ([]*model.BloodStock, error) {
	return nil, nil
}
func (stubStockRepo) GetOrCreate(context.Context, uuid.UUID, string) (*model.BloodStock, error) {
	return nil, repository.ErrNotFound
}
func (stubStockRepo) Update(context.Context, *model.BloodStock) error { return nil }
func (stubStockRepo) TotalByHospital(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}
func (stubStockRepo) GroupTotals(context.Context) (map[string]int, error) { return nil, nil }

type stubDonationRepo struct{}

func (stubDonationRepo) Create(context.Context, *model.DonationRecord) error { return nil }
func (stubDonationRepo) ListByDonor(context.Context, uuid.UUID) ([]*model.DonationRecord, error) {
	return nil, nil
}
func (stubDonationRepo) CountAll(context.Context) (int, error) { return 0, nil }
func (stubDonationRepo) LatestByDonor(context.Context, uuid.UUID) (*model.DonationRecord, error) {
	return nil, repository.ErrNotFound
}

type noopNotificationRepo struct{}

func (noopNotificationRepo) Create(context.Context, *model.Notification) error { return nil }
func (noopNotificationRepo) ListByRecipient(context.Context, uuid.UUID, int) ([]*model.Notification, error) {
	return nil, nil
}
func (noopNotificationRepo) CountUnread(context.Context, uuid.UUID) (int, error) { return 0, nil }
func (noopNotificationRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (noopNotificationRepo) MarkAllRead(context.Context, uuid.UUID) (int, error) { return 0, nil }

type noopEmailService struct{}

func (noopEmailService) SendVerificationDecision(string, string, string, bool, string) error {
	return nil
}
func (noopEmailService) SendEmergencyDecision(string, string, bool, string) error {
	return nil
}

type fixture struct {
	svc         *Service
	admin       *model.TokenClaims
	patientUser *model.User
	requests    *fakeEmergencyRepo
}

func newFixture() *fixture {
	patientUser := &model.User{
		Base:      model.Base{ID: uuid.New()},
		Email:     "patient@example.com",
		FirstName: "Asha",
		LastName:  "Rao",
		Role:      model.RolePatient,
		IsActive:  true,
	}
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{patientUser.ID: patientUser}}
	requests := &fakeEmergencyRepo{requests: map[uuid.UUID]*model.BloodRequest{}}
	notifier := notification.NewService(noopNotificationRepo{}, logger.NewLogger(nil))

	svc := NewService(users, stubHospitalRepo{}, stubCampProfileRepo{}, requests,
		stubStockRepo{}, stubDonationRepo{}, notifier, noopEmailService{},
		logger.NewLogger(nil))

	return &fixture{
		svc:         svc,
		admin:       &model.TokenClaims{UserID: uuid.New(), Role: model.RoleAdmin},
		patientUser: patientUser,
		requests:    requests,
	}
}

func (f *fixture) seedRequest(requestType model.RequestType) *model.BloodRequest {
	req := &model.BloodRequest{
		Base:          model.Base{ID: uuid.New()},
		PatientID:     uuid.New(),
		HospitalID:    uuid.New(),
		BloodGroup:    "B-",
		UnitsNeeded:   3,
		RequestType:   requestType,
		Status:        model.RequestPending,
		RequiredBy:    time.Now().Add(24 * time.Hour),
		PatientUserID: f.patientUser.ID,
	}
	f.requests.requests[req.ID] = req
	return req
}

func TestReviewEmergencyApprovalLeavesStatusPending(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(model.RequestEmergency)

	err := f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionApproved,
		Notes:    "verified with the attending doctor",
	})
	require.NoError(t, err)

	stored := f.requests.requests[req.ID]
	assert.True(t, stored.AdminApproved)
	require.NotNil(t, stored.AdminApprovedBy)
	assert.Equal(t, f.admin.UserID, *stored.AdminApprovedBy)
	assert.Equal(t, "verified with the attending doctor", stored.AdminNotes)

	// The hospital-side lifecycle is untouched by admin approval
	assert.Equal(t, model.RequestPending, stored.Status)
	assert.Nil(t, stored.ReviewedBy)
	assert.Empty(t, stored.RejectionReason)
}

func TestReviewEmergencyRejectionLeavesAdminApprovedUnset(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(model.RequestDisaster)

	err := f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionRejected,
		Notes:    "justification does not match hospital records",
	})
	require.NoError(t, err)

	stored := f.requests.requests[req.ID]
	assert.Equal(t, model.RequestRejected, stored.Status)
	assert.Equal(t, "justification does not match hospital records", stored.RejectionReason)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, f.admin.UserID, *stored.ReviewedBy)

	// The approval flag and its audit trail stay unset on rejection
	assert.False(t, stored.AdminApproved)
	assert.Nil(t, stored.AdminApprovedBy)
	assert.Empty(t, stored.AdminNotes)
}

func TestReviewEmergencyConflictAfterApproval(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(model.RequestEmergency)

	require.NoError(t, f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionApproved,
	}))

	err := f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionRejected,
		Notes:    "second thoughts",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	stored := f.requests.requests[req.ID]
	assert.True(t, stored.AdminApproved)
	assert.Equal(t, model.RequestPending, stored.Status)
}

func TestReviewEmergencyConflictAfterRejection(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(model.RequestEmergency)

	require.NoError(t, f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionRejected,
		Notes:    "incomplete paperwork",
	}))

	err := f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionApproved,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	stored := f.requests.requests[req.ID]
	assert.False(t, stored.AdminApproved)
	assert.Equal(t, model.RequestRejected, stored.Status)
}

func TestReviewEmergencyNormalRequestNotEligible(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(model.RequestNormal)

	err := f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionApproved,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.False(t, f.requests.requests[req.ID].AdminApproved)
}

func TestReviewEmergencyRejectionRequiresNotes(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(model.RequestEmergency)

	err := f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       req.ID,
		Decision: model.DecisionRejected,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, model.RequestPending, f.requests.requests[req.ID].Status)
}

func TestReviewEmergencyUnknownRequest(t *testing.T) {
	f := newFixture()

	err := f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       uuid.New(),
		Decision: model.DecisionApproved,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestEmergencyDetailsHidesNormalRequests(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(model.RequestNormal)

	_, err := f.svc.EmergencyDetails(context.Background(), req.ID.String())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestPendingEmergenciesExcludesDecided(t *testing.T) {
	f := newFixture()
	open := f.seedRequest(model.RequestEmergency)
	approved := f.seedRequest(model.RequestEmergency)
	rejected := f.seedRequest(model.RequestDisaster)

	require.NoError(t, f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       approved.ID,
		Decision: model.DecisionApproved,
	}))
	require.NoError(t, f.svc.ReviewEmergency(context.Background(), f.admin, &model.ReviewRequest{
		ID:       rejected.ID,
		Decision: model.DecisionRejected,
		Notes:    "duplicate of an earlier request",
	}))

	pending, err := f.svc.PendingEmergencies(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)
}
