package hospital

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
	"github.com/redconnect/redconnect-api/internal/service/notification"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

const listLimit = 50

type Service struct {
	hospitalRepo repository.HospitalRepository
	stockRepo    repository.StockRepository
	requestRepo  repository.BloodRequestRepository
	alertRepo    repository.AlertRepository
	responseRepo repository.AlertResponseRepository
	exchangeRepo repository.ExchangeRepository
	notifier     *notification.Service
	logger       *logger.Logger
}

func NewService(
	hospitalRepo repository.HospitalRepository,
	stockRepo repository.StockRepository,
	requestRepo repository.BloodRequestRepository,
	alertRepo repository.AlertRepository,
	responseRepo repository.AlertResponseRepository,
	exchangeRepo repository.ExchangeRepository,
	notifier *notification.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		hospitalRepo: hospitalRepo,
		stockRepo:    stockRepo,
		requestRepo:  requestRepo,
		alertRepo:    alertRepo,
		responseRepo: responseRepo,
		exchangeRepo: exchangeRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// profileByUser resolves the hospital profile behind an authenticated user.
// Every hospital operation goes through it so an unapproved hospital can
// never transact even with a valid token.
func (s *Service) profileByUser(ctx context.Context, userID uuid.UUID) (*model.HospitalProfile, error) {
	profile, err := s.hospitalRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("hospital profile", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load hospital profile", err)
	}
	if profile.VerificationStatus != model.VerificationApproved {
		return nil, apperrors.Forbidden("hospital is not verified", nil)
	}
	return profile, nil
}

// Dashboard is the hospital landing page payload
type Dashboard struct {
	Hospital         *model.HospitalProfile `json:"hospital"`
	TotalStock       int                    `json:"total_stock"`
	Stock            []model.StockEntry     `json:"stock"`
	ActiveRequests   int                    `json:"active_requests"`
	PendingResponses int                    `json:"pending_responses"`
}

func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.stockEntries(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	var total int
	for _, e := range entries {
		total += e.UnitsAvailable
	}

	activeRequests, err := s.requestRepo.CountActiveByHospital(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to count requests", err)
	}
	pendingResponses, err := s.responseRepo.CountPendingByHospital(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to count responses", err)
	}

	return &Dashboard{
		Hospital:         profile,
		TotalStock:       total,
		Stock:            entries,
		ActiveRequests:   activeRequests,
		PendingResponses: pendingResponses,
	}, nil
}

// Stock returns the full eight-group ledger, creating zero rows as needed so
// the client always sees every blood group.
func (s *Service) Stock(ctx context.Context, userID uuid.UUID) ([]model.StockEntry, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.stockEntries(ctx, profile.ID)
}

func (s *Service) stockEntries(ctx context.Context, hospitalID uuid.UUID) ([]model.StockEntry, error) {
	stocks, err := s.stockRepo.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, apperrors.Internal("failed to list stock", err)
	}

	byGroup := make(map[string]*model.BloodStock, len(stocks))
	for _, st := range stocks {
		byGroup[st.BloodGroup] = st
	}

	entries := make([]model.StockEntry, 0, len(model.BloodGroups))
	for _, bg := range model.BloodGroups {
		st, ok := byGroup[bg]
		if !ok {
			st, err = s.stockRepo.GetOrCreate(ctx, hospitalID, bg)
			if err != nil {
				return nil, apperrors.Internal("failed to seed stock row", err)
			}
		}
		entries = append(entries, model.StockEntry{
			BloodGroup:     st.BloodGroup,
			UnitsAvailable: st.UnitsAvailable,
			UnitsReserved:  st.UnitsReserved,
			Status:         st.Status(),
			LastUpdated:    st.LastUpdated,
		})
	}
	return entries, nil
}

func (s *Service) UpdateStock(ctx context.Context, userID uuid.UUID, req *model.UpdateStockRequest) (*model.StockEntry, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stock, err := s.stockRepo.GetOrCreate(ctx, profile.ID, req.BloodGroup)
	if err != nil {
		return nil, apperrors.Internal("failed to load stock row", err)
	}

	switch req.Operation {
	case model.StockOpAdd:
		stock.UnitsAvailable += req.Units
	case model.StockOpSubtract:
		stock.UnitsAvailable -= req.Units
		if stock.UnitsAvailable < 0 {
			stock.UnitsAvailable = 0
		}
	default:
		stock.UnitsAvailable = req.Units
	}

	if err := s.stockRepo.Update(ctx, stock); err != nil {
		return nil, apperrors.Internal("failed to update stock", err)
	}

	s.logger.Info("stock updated",
		"hospital_id", profile.ID.String(), "blood_group", req.BloodGroup,
		"operation", req.Operation, "units", stock.UnitsAvailable)

	return &model.StockEntry{
		BloodGroup:     stock.BloodGroup,
		UnitsAvailable: stock.UnitsAvailable,
		UnitsReserved:  stock.UnitsReserved,
		Status:         stock.Status(),
		LastUpdated:    stock.LastUpdated,
	}, nil
}

func (s *Service) PatientRequests(ctx context.Context, userID uuid.UUID) ([]*model.BloodRequest, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListByHospital(ctx, profile.ID, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list requests", err)
	}
	if requests == nil {
		requests = []*model.BloodRequest{}
	}
	return requests, nil
}

func (s *Service) CreateAlert(ctx context.Context, userID uuid.UUID, req *model.CreateAlertRequest) (*model.DonorAlert, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.RequiredBy.Before(time.Now()) {
		return nil, apperrors.Validation("required_by must be in the future", nil)
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = model.UrgencyLow
	}

	alert := &model.DonorAlert{
		HospitalID:  profile.ID,
		BloodGroup:  req.BloodGroup,
		UnitsNeeded: req.UnitsNeeded,
		Urgency:     urgency,
		Reason:      req.Reason,
		Location:    req.Location,
		RequiredBy:  req.RequiredBy,
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, apperrors.Internal("failed to create alert", err)
	}

	s.logger.Info("donor alert created",
		"hospital_id", profile.ID.String(), "blood_group", req.BloodGroup,
		"urgency", string(urgency))
	return alert, nil
}

func (s *Service) AlertResponses(ctx context.Context, userID uuid.UUID) ([]*model.AlertResponse, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.ListByHospital(ctx, profile.ID, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list responses", err)
	}
	if responses == nil {
		responses = []*model.AlertResponse{}
	}
	return responses, nil
}

func (s *Service) ReviewAlertResponse(ctx context.Context, userID uuid.UUID, req *model.ReviewRequest) error {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return err
	}
	if req.Decision == model.DecisionRejected && req.Notes == "" {
		return apperrors.Validation("rejection requires a reason", nil)
	}

	resp, err := s.responseRepo.GetByIDAndHospital(ctx, req.ID, profile.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("alert response", err)
	}
	if err != nil {
		return apperrors.Internal("failed to load response", err)
	}

	err = s.responseRepo.RecordDecision(ctx, req.ID, req.Decision, userID, req.Notes)
	if errors.Is(err, repository.ErrAlreadyDecided) {
		return apperrors.Conflict("response already reviewed", err)
	}
	if err != nil {
		return apperrors.Internal("failed to record decision", err)
	}

	if req.Decision == model.DecisionApproved {
		s.notifier.Notify(ctx, resp.DonorUserID, model.NotifyBloodRequest,
			"Donation offer accepted",
			fmt.Sprintf("%s accepted your donation offer. Please arrive on %s.",
				profile.HospitalName, resp.AvailableDate.Format("2006-01-02")))
	} else {
		s.notifier.Notify(ctx, resp.DonorUserID, model.NotifyBloodRequest,
			"Donation offer declined",
			fmt.Sprintf("%s declined your donation offer: %s", profile.HospitalName, req.Notes))
	}
	return nil
}

// Network lists other verified hospitals for the exchange picker
func (s *Service) Network(ctx context.Context, userID uuid.UUID) ([]*model.HospitalProfile, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	hospitals, err := s.hospitalRepo.ListApproved(ctx, "", profile.ID, false)
	if err != nil {
		return nil, apperrors.Internal("failed to list hospitals", err)
	}
	if hospitals == nil {
		hospitals = []*model.HospitalProfile{}
	}
	return hospitals, nil
}

// Partners lists blood-bank hospitals with their stock snapshots
func (s *Service) Partners(ctx context.Context, userID uuid.UUID) ([]*model.ExchangePartner, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	hospitals, err := s.hospitalRepo.ListApproved(ctx, "", profile.ID, true)
	if err != nil {
		return nil, apperrors.Internal("failed to list partners", err)
	}

	partners := make([]*model.ExchangePartner, 0, len(hospitals))
	for _, h := range hospitals {
		stocks, err := s.stockRepo.ListByHospital(ctx, h.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to list partner stock", err)
		}
		partner := &model.ExchangePartner{
			ID:            h.ID,
			HospitalName:  h.HospitalName,
			City:          h.City,
			State:         h.State,
			ContactPerson: h.AuthorizedPersonName,
			ContactPhone:  h.AuthorizedPersonMobile,
		}
		for _, st := range stocks {
			partner.TotalStock += st.UnitsAvailable
			partner.BloodStock = append(partner.BloodStock, model.StockEntry{
				BloodGroup:     st.BloodGroup,
				UnitsAvailable: st.UnitsAvailable,
				UnitsReserved:  st.UnitsReserved,
				Status:         st.Status(),
				LastUpdated:    st.LastUpdated,
			})
		}
		partners = append(partners, partner)
	}
	return partners, nil
}

// Exchanges bundles both directions of a hospital's exchange history
type Exchanges struct {
	Sent     []*model.Exchange `json:"sent"`
	Received []*model.Exchange `json:"received"`
}

func (s *Service) Exchanges(ctx context.Context, userID uuid.UUID) (*Exchanges, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.exchangeRepo.ListSent(ctx, profile.ID, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list sent exchanges", err)
	}
	received, err := s.exchangeRepo.ListReceived(ctx, profile.ID, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list received exchanges", err)
	}
	if sent == nil {
		sent = []*model.Exchange{}
	}
	if received == nil {
		received = []*model.Exchange{}
	}
	return &Exchanges{Sent: sent, Received: received}, nil
}

func (s *Service) CreateExchange(ctx context.Context, userID uuid.UUID, req *model.CreateExchangeRequest) (*model.Exchange, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.ProvidingHospitalID == profile.ID {
		return nil, apperrors.Validation("cannot request blood from yourself", nil)
	}

	provider, err := s.hospitalRepo.GetByID(ctx, req.ProvidingHospitalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("providing hospital", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load providing hospital", err)
	}
	if provider.VerificationStatus != model.VerificationApproved {
		return nil, apperrors.Validation("providing hospital is not verified", nil)
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = model.UrgencyLow
	}

	ex := &model.Exchange{
		RequestingHospitalID: profile.ID,
		ProvidingHospitalID:  provider.ID,
		BloodGroup:           req.BloodGroup,
		UnitsRequested:       req.UnitsRequested,
		Reason:               req.Reason,
		Urgency:              urgency,
		RequiredBy:           req.RequiredBy,
		RequestedBy:          userID,
	}
	if err := s.exchangeRepo.Create(ctx, ex); err != nil {
		return nil, apperrors.Internal("failed to create exchange", err)
	}

	s.notifier.Notify(ctx, provider.UserID, model.NotifyBloodRequest,
		"Blood exchange request",
		fmt.Sprintf("%s requested %d units of %s (%s urgency).",
			profile.HospitalName, req.UnitsRequested, req.BloodGroup, urgency))

	s.logger.Info("exchange created",
		"exchange_id", ex.ID.String(),
		"from", profile.ID.String(), "to", provider.ID.String())
	return ex, nil
}

// RespondExchange applies the providing hospital's decision. Approval moves
// the units between the two stock ledgers in one transaction; an approval the
// provider cannot cover is rejected outright rather than clamped.
func (s *Service) RespondExchange(ctx context.Context, userID uuid.UUID, req *model.RespondExchangeRequest) (*model.Exchange, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ex, err := s.exchangeRepo.GetByIDAndProvider(ctx, req.RequestID, profile.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("exchange request", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load exchange", err)
	}
	if ex.Status != model.ExchangePending {
		return nil, apperrors.Conflict(
			fmt.Sprintf("exchange already decided (%s)", ex.Status), nil)
	}

	if req.Decision == model.DecisionRejected {
		if req.ResponseNotes == "" {
			return nil, apperrors.Validation("rejection requires response notes", nil)
		}
		err = s.exchangeRepo.Reject(ctx, ex.ID, userID, req.ResponseNotes)
		if errors.Is(err, repository.ErrAlreadyDecided) {
			return nil, apperrors.Conflict("exchange already decided", err)
		}
		if err != nil {
			return nil, apperrors.Internal("failed to reject exchange", err)
		}
		s.notifyRequester(ctx, ex, "Exchange request rejected",
			fmt.Sprintf("%s rejected your request for %d units of %s: %s",
				profile.HospitalName, ex.UnitsRequested, ex.BloodGroup, req.ResponseNotes))
		ex.Status = model.ExchangeRejected
		return ex, nil
	}

	units := req.UnitsApproved
	if units == 0 {
		units = ex.UnitsRequested
	}
	if units < 1 {
		return nil, apperrors.Validation("units_approved must be positive", nil)
	}
	if units > ex.UnitsRequested {
		return nil, apperrors.Validation("units_approved exceeds units requested", nil)
	}

	err = s.exchangeRepo.ApproveAndTransfer(ctx, ex, units, userID, req.ResponseNotes)
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, apperrors.Validation(
			fmt.Sprintf("insufficient %s stock to approve %d units", ex.BloodGroup, units), err)
	}
	if errors.Is(err, repository.ErrAlreadyDecided) {
		return nil, apperrors.Conflict("exchange already decided", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to approve exchange", err)
	}

	s.notifyRequester(ctx, ex, "Exchange request approved",
		fmt.Sprintf("%s approved %d units of %s. Stock has been transferred.",
			profile.HospitalName, units, ex.BloodGroup))

	s.logger.Info("exchange completed",
		"exchange_id", ex.ID.String(), "units", units)

	ex.Status = model.ExchangeCompleted
	ex.UnitsApproved = units
	return ex, nil
}

func (s *Service) notifyRequester(ctx context.Context, ex *model.Exchange, title, message string) {
	requester, err := s.hospitalRepo.GetByID(ctx, ex.RequestingHospitalID)
	if err != nil {
		s.logger.Error(err, "failed to load requesting hospital for notification")
		return
	}
	s.notifier.Notify(ctx, requester.UserID, model.NotifyBloodRequest, title, message)
}
