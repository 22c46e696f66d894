package donor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

const (
	listLimit  = 20
	dateLayout = "2006-01-02"
)

type Service struct {
	donorRepo    repository.DonorRepository
	userRepo     repository.UserRepository
	campRepo     repository.CampRepository
	appRepo      repository.ApplicationRepository
	alertRepo    repository.AlertRepository
	responseRepo repository.AlertResponseRepository
	donationRepo repository.DonationRepository
	logger       *logger.Logger
}

func NewService(
	donorRepo repository.DonorRepository,
	userRepo repository.UserRepository,
	campRepo repository.CampRepository,
	appRepo repository.ApplicationRepository,
	alertRepo repository.AlertRepository,
	responseRepo repository.AlertResponseRepository,
	donationRepo repository.DonationRepository,
	logger *logger.Logger,
) *Service {
	return &Service{
		donorRepo:    donorRepo,
		userRepo:     userRepo,
		campRepo:     campRepo,
		appRepo:      appRepo,
		alertRepo:    alertRepo,
		responseRepo: responseRepo,
		donationRepo: donationRepo,
		logger:       logger,
	}
}

func (s *Service) profileByUser(ctx context.Context, userID uuid.UUID) (*model.DonorProfile, error) {
	profile, err := s.donorRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("donor profile", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load donor profile", err)
	}
	return profile, nil
}

// Stats is the donor's eligibility and history summary
type Stats struct {
	TotalDonations   int        `json:"total_donations"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	IsEligible       bool       `json:"is_eligible"`
	NextEligibleDate *time.Time `json:"next_eligible_date,omitempty"`
}

// Dashboard is the donor landing page payload
type Dashboard struct {
	Donor          *model.DonorProfile `json:"donor"`
	Stats          *Stats              `json:"stats"`
	SuggestedCamps []*model.Camp       `json:"suggested_camps"`
	MatchingAlerts []*model.DonorAlert `json:"matching_alerts"`
}

func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := s.buildStats(profile)
	now := time.Now()

	camps, err := s.campRepo.ListSuggestions(ctx, profile.City, profile.ID, now, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list camp suggestions", err)
	}
	alerts, err := s.alertRepo.ListMatching(ctx, profile.City, profile.BloodGroup, profile.ID, now, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list matching alerts", err)
	}
	if camps == nil {
		camps = []*model.Camp{}
	}
	if alerts == nil {
		alerts = []*model.DonorAlert{}
	}

	return &Dashboard{
		Donor:          profile,
		Stats:          stats,
		SuggestedCamps: camps,
		MatchingAlerts: alerts,
	}, nil
}

func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildStats(profile), nil
}

// buildStats derives eligibility from the whole-blood donation cooldown
func (s *Service) buildStats(profile *model.DonorProfile) *Stats {
	stats := &Stats{
		TotalDonations:   profile.TotalDonations,
		LastDonationDate: profile.LastDonationDate,
		IsEligible:       profile.IsEligible,
	}
	if profile.LastDonationDate != nil {
		next := model.NextEligibleDate(*profile.LastDonationDate)
		if next.After(time.Now()) {
			stats.IsEligible = false
			stats.NextEligibleDate = &next
		}
	}
	return stats
}

func (s *Service) CampSuggestions(ctx context.Context, userID uuid.UUID) ([]*model.Camp, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	camps, err := s.campRepo.ListSuggestions(ctx, profile.City, profile.ID, time.Now(), listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list camp suggestions", err)
	}
	if camps == nil {
		camps = []*model.Camp{}
	}
	return camps, nil
}

func (s *Service) ApplyToCamp(ctx context.Context, userID uuid.UUID, req *model.ApplyToCampRequest) (*model.CampApplication, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !req.Consent {
		return nil, apperrors.Validation("consent is required to apply", nil)
	}

	camp, err := s.campRepo.GetByID(ctx, req.CampID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("camp", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load camp", err)
	}
	if camp.Status != model.CampActive || !camp.IsUpcoming(time.Now()) {
		return nil, apperrors.Validation("camp is not accepting applications", nil)
	}

	health := model.HealthStatus(req.HealthStatus)
	if health == "" {
		health = model.HealthGood
	}

	app := &model.CampApplication{
		DonorID:      profile.ID,
		CampID:       camp.ID,
		Age:          req.Age,
		Weight:       req.Weight,
		HealthStatus: health,
		HealthIssues: req.HealthIssues,
		Medications:  req.Medications,
		ConsentGiven: req.Consent,
	}
	if req.LastDonationDate != "" {
		last, err := time.Parse(dateLayout, req.LastDonationDate)
		if err != nil {
			return nil, apperrors.Validation("invalid last_donation_date, expected YYYY-MM-DD", err)
		}
		app.LastDonationDate = &last
	}

	err = s.appRepo.Create(ctx, app)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Conflict("already applied to this camp", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to create application", err)
	}

	s.logger.Info("camp application submitted",
		"camp_id", camp.ID.String(), "donor_id", profile.ID.String())
	return app, nil
}

func (s *Service) Alerts(ctx context.Context, userID uuid.UUID) ([]*model.DonorAlert, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	alerts, err := s.alertRepo.ListMatching(ctx, profile.City, profile.BloodGroup, profile.ID, time.Now(), listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list alerts", err)
	}
	if alerts == nil {
		alerts = []*model.DonorAlert{}
	}
	return alerts, nil
}

func (s *Service) RespondToAlert(ctx context.Context, userID uuid.UUID, req *model.RespondToAlertRequest) (*model.AlertResponse, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !req.Consent {
		return nil, apperrors.Validation("consent is required to respond", nil)
	}

	alert, err := s.alertRepo.GetActiveByID(ctx, req.AlertID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("alert", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load alert", err)
	}
	if alert.RequiredBy.Before(time.Now()) {
		return nil, apperrors.Validation("alert has expired", nil)
	}

	availableDate, err := time.Parse(dateLayout, req.AvailableDate)
	if err != nil {
		return nil, apperrors.Validation("invalid available_date, expected YYYY-MM-DD", err)
	}

	health := model.HealthStatus(req.HealthStatus)
	if health == "" {
		health = model.HealthGood
	}

	resp := &model.AlertResponse{
		AlertID:       alert.ID,
		DonorID:       profile.ID,
		Age:           req.Age,
		Weight:        req.Weight,
		HealthStatus:  health,
		HealthIssues:  req.HealthIssues,
		Medications:   req.Medications,
		AvailableDate: availableDate,
		AvailableTime: req.AvailableTime,
		ConsentGiven:  req.Consent,
	}
	if req.LastDonationDate != "" {
		last, err := time.Parse(dateLayout, req.LastDonationDate)
		if err != nil {
			return nil, apperrors.Validation("invalid last_donation_date, expected YYYY-MM-DD", err)
		}
		resp.LastDonationDate = &last
	}

	err = s.responseRepo.Create(ctx, resp)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Conflict("already responded to this alert", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to create response", err)
	}

	s.logger.Info("alert response submitted",
		"alert_id", alert.ID.String(), "donor_id", profile.ID.String())
	return resp, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*model.DonationRecord, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.donationRepo.ListByDonor(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list donation history", err)
	}
	if records == nil {
		records = []*model.DonationRecord{}
	}
	return records, nil
}

// UpdateProfile applies the provided fields only; absent fields keep their
// current values
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateDonorProfileRequest) (*model.DonorProfile, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil || req.Phone != nil {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, apperrors.Internal("failed to load user", err)
		}
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, apperrors.Internal("failed to update user", err)
		}
	}

	if req.BloodGroup != nil {
		profile.BloodGroup = *req.BloodGroup
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.State != nil {
		profile.State = *req.State
	}
	if req.Weight != nil {
		profile.Weight = *req.Weight
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}

	if err := s.donorRepo.Update(ctx, profile); err != nil {
		return nil, apperrors.Internal("failed to update profile", err)
	}
	return profile, nil
}
