package hospital

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

func (f *fakeHospitalRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.HospitalProfile, error) {
	for _, h := range f.hospitals {
		if h.UserID == userID {
			return h, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHospitalRepo) ListPending(context.Context) ([]*model.HospitalProfile, error) {
	return nil, nil
}

func (f *fakeHospitalRepo) ListApproved(context.Context, string, uuid.UUID, bool) ([]*model.HospitalProfile, error) {
	return nil, nil
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

type fakeStockRepo struct {
	rows map[uuid.UUID]map[string]*model.BloodStock
}

func (f *fakeStockRepo) get(hospitalID uuid.UUID, bloodGroup string) *model.BloodStock {
	if f.rows == nil {
		f.rows = map[uuid.UUID]map[string]*model.BloodStock{}
	}
	if f.rows[hospitalID] == nil {
		f.rows[hospitalID] = map[string]*model.BloodStock{}
	}
	st, ok := f.rows[hospitalID][bloodGroup]
	if !ok {
		st = &model.BloodStock{
			ID:         uuid.New(),
			HospitalID: hospitalID,
			BloodGroup: bloodGroup,
		}
		f.rows[hospitalID][bloodGroup] = st
	}
	return st
}

func (f *fakeStockRepo) units(hospitalID uuid.UUID, bloodGroup string) int {
	return f.get(hospitalID, bloodGroup).UnitsAvailable
}

func (f *fakeStockRepo) ListByHospital(_ context.Context, hospitalID uuid.UUID) ([]*model.BloodStock, error) {
	var out []*model.BloodStock
	for _, st := range f.rows[hospitalID] {
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeStockRepo) GetOrCreate(_ context.Context, hospitalID uuid.UUID, bloodGroup string) (*model.BloodStock, error) {
	return f.get(hospitalID, bloodGroup), nil
}

func (f *fakeStockRepo) Update(context.Context, *model.BloodStock) error { return nil }

func (f *fakeStockRepo) TotalByHospital(_ context.Context, hospitalID uuid.UUID) (int, error) {
	total := 0
	for _, st := range f.rows[hospitalID] {
		total += st.UnitsAvailable
	}
	return total, nil
}

func (f *fakeStockRepo) GroupTotals(context.Context) (map[string]int, error) {
	return nil, nil
}

// fakeExchangeRepo mirrors the postgres transfer semantics over the in-memory
// stock rows: pending-only decisions and a balance check that rejects rather
// than clamps.
type fakeExchangeRepo struct {
	exchanges map[uuid.UUID]*model.Exchange
	stocks    *fakeStockRepo
}

func (f *fakeExchangeRepo) Create(_ context.Context, ex *model.Exchange) error {
	ex.ID = uuid.New()
	ex.Status = model.ExchangePending
	if f.exchanges == nil {
		f.exchanges = map[uuid.UUID]*model.Exchange{}
	}
	f.exchanges[ex.ID] = ex
	return nil
}

func (f *fakeExchangeRepo) GetByIDAndProvider(_ context.Context, id, providerID uuid.UUID) (*model.Exchange, error) {
	ex, ok := f.exchanges[id]
	if !ok || ex.ProvidingHospitalID != providerID {
		return nil, repository.ErrNotFound
	}
	copied := *ex
	return &copied, nil
}

func (f *fakeExchangeRepo) ListSent(context.Context, uuid.UUID, int) ([]*model.Exchange, error) {
	return nil, nil
}

func (f *fakeExchangeRepo) ListReceived(context.Context, uuid.UUID, int) ([]*model.Exchange, error) {
	return nil, nil
}

func (f *fakeExchangeRepo) Reject(_ context.Context, id uuid.UUID, respondedBy uuid.UUID, notes string) error {
	ex, ok := f.exchanges[id]
	if !ok {
		return repository.ErrNotFound
	}
	if ex.Status != model.ExchangePending {
		return repository.ErrAlreadyDecided
	}
	ex.Status = model.ExchangeRejected
	ex.RespondedBy = &respondedBy
	ex.ResponseNotes = notes
	return nil
}

func (f *fakeExchangeRepo) ApproveAndTransfer(_ context.Context, ex *model.Exchange, unitsApproved int, respondedBy uuid.UUID, notes string) error {
	stored, ok := f.exchanges[ex.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != model.ExchangePending {
		return repository.ErrAlreadyDecided
	}

	provider := f.stocks.get(stored.ProvidingHospitalID, stored.BloodGroup)
	if provider.UnitsAvailable < unitsApproved {
		return repository.ErrInsufficientStock
	}
	requester := f.stocks.get(stored.RequestingHospitalID, stored.BloodGroup)
	provider.UnitsAvailable -= unitsApproved
	requester.UnitsAvailable += unitsApproved

	stored.Status = model.ExchangeCompleted
	stored.UnitsApproved = unitsApproved
	stored.RespondedBy = &respondedBy
	stored.ResponseNotes = notes
	return nil
}

type stubRequestRepo struct{}

func (stubRequestRepo) Create(context.Context, *model.BloodRequest) error { return nil }
func (stubRequestRepo) GetByID(context.Context, uuid.UUID) (*model.BloodRequest, error) {
	return nil, repository.ErrNotFound
}
func (stubRequestRepo) ListByPatient(context.Context, uuid.UUID) ([]*model.BloodRequest, error) {
	return nil, nil
}
func (stubRequestRepo) ListByHospital(context.Context, uuid.UUID, int) ([]*model.BloodRequest, error) {
	return nil, nil
}
func (stubRequestRepo) ListPendingEmergencies(context.Context) ([]*model.BloodRequest, error) {
	return nil, nil
}
func (stubRequestRepo) ListRecentEmergencies(context.Context, int) ([]*model.BloodRequest, error) {
	return nil, nil
}
func (stubRequestRepo) ApproveByAdmin(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}
func (stubRequestRepo) RejectByAdmin(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}
func (stubRequestRepo) Cancel(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (stubRequestRepo) CountByPatient(context.Context, uuid.UUID) (int, int, int, error) {
	return 0, 0, 0, nil
}
func (stubRequestRepo) CountActiveByHospital(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}
func (stubRequestRepo) CountPendingEmergencies(context.Context) (int, error) { return 0, nil }
func (stubRequestRepo) CountByStatus(context.Context) (map[model.RequestStatus]int, error) {
	return nil, nil
}

type stubAlertRepo struct{}

func (stubAlertRepo) Create(context.Context, *model.DonorAlert) error { return nil }
func (stubAlertRepo) GetActiveByID(context.Context, uuid.UUID) (*model.DonorAlert, error) {
	return nil, repository.ErrNotFound
}
func (stubAlertRepo) ListMatching(context.Context, string, string, uuid.UUID, time.Time, int) ([]*model.DonorAlert, error) {
	return nil, nil
}

type stubResponseRepo struct{}

func (stubResponseRepo) Create(context.Context, *model.AlertResponse) error { return nil }
func (stubResponseRepo) GetByIDAndHospital(context.Context, uuid.UUID, uuid.UUID) (*model.AlertResponse, error) {
	return nil, repository.ErrNotFound
}
func (stubResponseRepo) ListByHospital(context.Context, uuid.UUID, int) ([]*model.AlertResponse, error) {
	return nil, nil
}
func (stubResponseRepo) CountPendingByHospital(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}
func (stubResponseRepo) RecordDecision(context.Context, uuid.UUID, model.Decision, uuid.UUID, string) error {
	return nil
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
	provider  *model.HospitalProfile
	requester *model.HospitalProfile
	stocks    *fakeStockRepo
	exchanges *fakeExchangeRepo
}

func newFixture() *fixture {
	provider := &model.HospitalProfile{
		Base:               model.Base{ID: uuid.New()},
		UserID:             uuid.New(),
		HospitalName:       "City General",
		City:               "Pune",
		VerificationStatus: model.VerificationApproved,
	}
	requester := &model.HospitalProfile{
		Base:               model.Base{ID: uuid.New()},
		UserID:             uuid.New(),
		HospitalName:       "District Medical",
		City:               "Pune",
		VerificationStatus: model.VerificationApproved,
	}

	hospitals := &fakeHospitalRepo{hospitals: map[uuid.UUID]*model.HospitalProfile{
		provider.ID:  provider,
		requester.ID: requester,
	}}
	stocks := &fakeStockRepo{}
	exchanges := &fakeExchangeRepo{stocks: stocks}
	notifier := notification.NewService(noopNotificationRepo{}, logger.NewLogger(nil))

	return &fixture{
		svc: NewService(hospitals, stocks, stubRequestRepo{}, stubAlertRepo{},
			stubResponseRepo{}, exchanges, notifier, logger.NewLogger(nil)),
		provider:  provider,
		requester: requester,
		stocks:    stocks,
		exchanges: exchanges,
	}
}

// pendingExchange seeds stock for both hospitals and a PENDING request from
// the requester to the provider.
func (f *fixture) pendingExchange(t *testing.T, providerUnits, requesterUnits, unitsRequested int) *model.Exchange {
	t.Helper()
	f.stocks.get(f.provider.ID, "O+").UnitsAvailable = providerUnits
	f.stocks.get(f.requester.ID, "O+").UnitsAvailable = requesterUnits

	ex := &model.Exchange{
		RequestingHospitalID: f.requester.ID,
		ProvidingHospitalID:  f.provider.ID,
		BloodGroup:           "O+",
		UnitsRequested:       unitsRequested,
		Reason:               "post-surgical shortfall",
		Urgency:              model.UrgencyLow,
		RequiredBy:           time.Now().Add(48 * time.Hour),
		RequestedBy:          f.requester.UserID,
	}
	require.NoError(t, f.exchanges.Create(context.Background(), ex))
	return ex
}

func TestRespondExchangeTransfersStock(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 10, 2, 10)

	updated, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.stocks.units(f.provider.ID, "O+"))
	assert.Equal(t, 12, f.stocks.units(f.requester.ID, "O+"))
	assert.Equal(t, model.ExchangeCompleted, updated.Status)
	assert.Equal(t, 10, updated.UnitsApproved)

	// Units are moved, never created or destroyed
	assert.Equal(t, 12, f.stocks.units(f.provider.ID, "O+")+f.stocks.units(f.requester.ID, "O+"))
}

func TestRespondExchangeZeroDefaultsToRequested(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 10, 2, 4)

	updated, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID: ex.ID,
		Decision:  model.DecisionApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.UnitsApproved)
	assert.Equal(t, 6, f.stocks.units(f.provider.ID, "O+"))
	assert.Equal(t, 6, f.stocks.units(f.requester.ID, "O+"))
}

func TestRespondExchangeRejectsOverApproval(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 20, 2, 8)

	_, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: 9,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, 20, f.stocks.units(f.provider.ID, "O+"))
	assert.Equal(t, 2, f.stocks.units(f.requester.ID, "O+"))
}

func TestRespondExchangeRejectsNegativeUnits(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 20, 2, 8)

	_, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: -3,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRespondExchangeInsufficientStockNotClamped(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 5, 2, 8)

	_, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: 8,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	// The short balance is a hard failure, not a partial transfer
	assert.Equal(t, 5, f.stocks.units(f.provider.ID, "O+"))
	assert.Equal(t, 2, f.stocks.units(f.requester.ID, "O+"))
	assert.Equal(t, model.ExchangePending, f.exchanges.exchanges[ex.ID].Status)
}

func TestRespondExchangeConflictWhenDecided(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 10, 2, 4)

	_, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: 4,
	})
	require.NoError(t, err)

	_, err = f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: 4,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	// The ledger reflects exactly one transfer
	assert.Equal(t, 6, f.stocks.units(f.provider.ID, "O+"))
	assert.Equal(t, 6, f.stocks.units(f.requester.ID, "O+"))
}

func TestRespondExchangeRejectionLeavesStock(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 10, 2, 4)

	updated, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionRejected,
		ResponseNotes: "reserved for scheduled surgeries",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExchangeRejected, updated.Status)
	assert.Equal(t, 10, f.stocks.units(f.provider.ID, "O+"))
	assert.Equal(t, 2, f.stocks.units(f.requester.ID, "O+"))
}

func TestRespondExchangeRejectionRequiresNotes(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 10, 2, 4)

	_, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID: ex.ID,
		Decision:  model.DecisionRejected,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, model.ExchangePending, f.exchanges.exchanges[ex.ID].Status)
}

func TestRespondExchangeScopedToProvider(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 10, 2, 4)

	// The requesting hospital cannot answer its own request
	_, err := f.svc.RespondExchange(context.Background(), f.requester.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: 4,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestRespondExchangeUnverifiedProviderForbidden(t *testing.T) {
	f := newFixture()
	ex := f.pendingExchange(t, 10, 2, 4)
	f.provider.VerificationStatus = model.VerificationSuspended

	_, err := f.svc.RespondExchange(context.Background(), f.provider.UserID, &model.RespondExchangeRequest{
		RequestID:     ex.ID,
		Decision:      model.DecisionApproved,
		UnitsApproved: 4,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCreateExchangeRejectsSelf(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateExchange(context.Background(), f.provider.UserID, &model.CreateExchangeRequest{
		ProvidingHospitalID: f.provider.ID,
		BloodGroup:          "O+",
		UnitsRequested:      2,
		Reason:              "shortfall",
		RequiredBy:          time.Now().Add(24 * time.Hour),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
