package patient

import (
	"context"
	"strings"
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

type fakePatientRepo struct {
	profile *model.PatientProfile
}

func (f *fakePatientRepo) Create(context.Context, *model.User, *model.PatientProfile) error {
	return nil
}

func (f *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	if f.profile != nil && f.profile.UserID == userID {
		return f.profile, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	if f.profile != nil && f.profile.ID == id {
		return f.profile, nil
	}
	return nil, repository.ErrNotFound
}

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*model.HospitalProfile
}

func (f *fakeHospitalRepo) Create(context.Context, *model.User, *model.HospitalProfile) error {
	return nil
}

func (f *fakeHospitalRepo) GetByID(_ context.Context, id uuid.UUID) (*model.HospitalProfile, error) {
	if h, ok := f.hospitals[id]; ok {
		return h, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHospitalRepo) GetByUserID(context.Context, uuid.UUID) (*model.HospitalProfile, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeHospitalRepo) ListPending(context.Context) ([]*model.HospitalProfile, error) {
	return nil, nil
}

func (f *fakeHospitalRepo) ListApproved(_ context.Context, city string, exclude uuid.UUID, _ bool) ([]*model.HospitalProfile, error) {
	var out []*model.HospitalProfile
	for _, h := range f.hospitals {
		if h.VerificationStatus != model.VerificationApproved || h.ID == exclude {
			continue
		}
		if city != "" && !strings.EqualFold(h.City, city) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHospitalRepo) ListRecentlyVerified(context.Context, int) ([]*model.HospitalProfile, error) {
	return nil, nil
}

func (f *fakeHospitalRepo) RecordVerification(context.Context, uuid.UUID, model.Decision, uuid.UUID, string) error {
	return nil
}

func (f *fakeHospitalRepo) CountByVerification(context.Context) (map[model.VerificationStatus]int, error) {
	return nil, nil
}

type fakeRequestRepo struct {
	requests map[uuid.UUID]*model.BloodRequest
}

func (f *fakeRequestRepo) Create(_ context.Context, req *model.BloodRequest) error {
	req.ID = uuid.New()
	req.Status = model.RequestPending
	if f.requests == nil {
		f.requests = map[uuid.UUID]*model.BloodRequest{}
	}
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	if r, ok := f.requests[id]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRequestRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.BloodRequest, error) {
	var out []*model.BloodRequest
	for _, r := range f.requests {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByHospital(context.Context, uuid.UUID, int) ([]*model.BloodRequest, error) {
	return nil, nil
}

func (f *fakeRequestRepo) ListPendingEmergencies(context.Context) ([]*model.BloodRequest, error) {
	return nil, nil
}

func (f *fakeRequestRepo) ListRecentEmergencies(context.Context, int) ([]*model.BloodRequest, error) {
	return nil, nil
}

func (f *fakeRequestRepo) ApproveByAdmin(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}

func (f *fakeRequestRepo) RejectByAdmin(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}

func (f *fakeRequestRepo) Cancel(_ context.Context, id, patientID uuid.UUID) error {
	r, ok := f.requests[id]
	if !ok || r.PatientID != patientID {
		return repository.ErrNotFound
	}
	if r.Status != model.RequestPending && r.Status != model.RequestApproved {
		return repository.ErrAlreadyDecided
	}
	r.Status = model.RequestCancelled
	return nil
}

func (f *fakeRequestRepo) CountByPatient(_ context.Context, patientID uuid.UUID) (total, active, emergency int, err error) {
	for _, r := range f.requests {
		if r.PatientID != patientID {
			continue
		}
		total++
		if r.Status == model.RequestPending || r.Status == model.RequestApproved {
			active++
		}
		if r.RequestType != model.RequestNormal {
			emergency++
		}
	}
	return total, active, emergency, nil
}

func (f *fakeRequestRepo) CountActiveByHospital(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeRequestRepo) CountPendingEmergencies(context.Context) (int, error) {
	return 0, nil
}

func (f *fakeRequestRepo) CountByStatus(context.Context) (map[model.RequestStatus]int, error) {
	return nil, nil
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

type fixture struct {
	svc       *Service
	userID    uuid.UUID
	profile   *model.PatientProfile
	hospital  *model.HospitalProfile
	requests  *fakeRequestRepo
	hospitals *fakeHospitalRepo
}

func newFixture() *fixture {
	userID := uuid.New()
	profile := &model.PatientProfile{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
		City:   "Pune",
	}
	hospital := &model.HospitalProfile{
		Base:               model.Base{ID: uuid.New()},
		UserID:             uuid.New(),
		HospitalName:       "City General",
		City:               "Pune",
		VerificationStatus: model.VerificationApproved,
	}

	hospitals := &fakeHospitalRepo{hospitals: map[uuid.UUID]*model.HospitalProfile{hospital.ID: hospital}}
	requests := &fakeRequestRepo{}
	notifier := notification.NewService(noopNotificationRepo{}, logger.NewLogger(nil))

	return &fixture{
		svc:       NewService(&fakePatientRepo{profile: profile}, hospitals, requests, notifier, logger.NewLogger(nil)),
		userID:    userID,
		profile:   profile,
		hospital:  hospital,
		requests:  requests,
		hospitals: hospitals,
	}
}

func validRequest(f *fixture) *model.CreateBloodRequestRequest {
	return &model.CreateBloodRequestRequest{
		HospitalID:  f.hospital.ID,
		BloodGroup:  "O+",
		UnitsNeeded: 2,
		RequiredBy:  time.Now().Add(48 * time.Hour),
	}
}

func TestCreateRequestDefaultsToNormal(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateRequest(context.Background(), f.userID, validRequest(f))
	require.NoError(t, err)
	assert.Equal(t, model.RequestNormal, created.RequestType)
	assert.Equal(t, model.RequestPending, created.Status)
	assert.False(t, created.AdminApproved)
	assert.Equal(t, f.profile.ID, created.PatientID)
}

func TestCreateRequestEmergencyNeedsJustification(t *testing.T) {
	f := newFixture()

	req := validRequest(f)
	req.RequestType = model.RequestEmergency
	req.EmergencyJustification = "too short"

	_, err := f.svc.CreateRequest(context.Background(), f.userID, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	req.EmergencyJustification = strings.Repeat("patient needs surgery ", 5)
	created, err := f.svc.CreateRequest(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, model.RequestEmergency, created.RequestType)
}

func TestCreateRequestRejectsPastDeadline(t *testing.T) {
	f := newFixture()

	req := validRequest(f)
	req.RequiredBy = time.Now().Add(-time.Hour)

	_, err := f.svc.CreateRequest(context.Background(), f.userID, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateRequestRejectsUnverifiedHospital(t *testing.T) {
	f := newFixture()
	f.hospital.VerificationStatus = model.VerificationPending

	_, err := f.svc.CreateRequest(context.Background(), f.userID, validRequest(f))
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateRequestUnknownHospital(t *testing.T) {
	f := newFixture()

	req := validRequest(f)
	req.HospitalID = uuid.New()

	_, err := f.svc.CreateRequest(context.Background(), f.userID, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCreateRequestUnknownPatient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateRequest(context.Background(), uuid.New(), validRequest(f))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCancelRequest(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateRequest(context.Background(), f.userID, validRequest(f))
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelRequest(context.Background(), f.userID, created.ID))
	assert.Equal(t, model.RequestCancelled, created.Status)

	// A decided request cannot be cancelled again
	err = f.svc.CancelRequest(context.Background(), f.userID, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestCancelRequestUnknownID(t *testing.T) {
	f := newFixture()

	err := f.svc.CancelRequest(context.Background(), f.userID, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDashboardCounts(t *testing.T) {
	f := newFixture()

	emergency := validRequest(f)
	emergency.RequestType = model.RequestEmergency
	emergency.EmergencyJustification = strings.Repeat("massive blood loss after accident ", 3)

	_, err := f.svc.CreateRequest(context.Background(), f.userID, validRequest(f))
	require.NoError(t, err)
	_, err = f.svc.CreateRequest(context.Background(), f.userID, emergency)
	require.NoError(t, err)

	dash, err := f.svc.Dashboard(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalRequests)
	assert.Equal(t, 2, dash.ActiveRequests)
	assert.Equal(t, 1, dash.EmergencyRequests)
	assert.Len(t, dash.Requests, 2)
}

func TestNearbyHospitalsFallsBackToAllCities(t *testing.T) {
	f := newFixture()
	f.profile.City = "Nagpur"

	hospitals, err := f.svc.NearbyHospitals(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "City General", hospitals[0].HospitalName)
}
