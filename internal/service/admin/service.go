package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/redconnect/redconnect-api/internal/email"
	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
	"github.com/redconnect/redconnect-api/internal/service/notification"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

const (
	statsCacheKey    = "admin:stats"
	overviewCacheKey = "admin:stock_overview"
	cacheTTL         = time.Minute

	recentLimit = 10
)

type Service struct {
	userRepo     repository.UserRepository
	hospitalRepo repository.HospitalRepository
	campRepo     repository.CampProfileRepository
	requestRepo  repository.BloodRequestRepository
	stockRepo    repository.StockRepository
	donationRepo repository.DonationRepository
	notifier     *notification.Service
	emailSvc     email.Service
	cache        *gocache.Cache
	logger       *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	hospitalRepo repository.HospitalRepository,
	campRepo repository.CampProfileRepository,
	requestRepo repository.BloodRequestRepository,
	stockRepo repository.StockRepository,
	donationRepo repository.DonationRepository,
	notifier *notification.Service,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		hospitalRepo: hospitalRepo,
		campRepo:     campRepo,
		requestRepo:  requestRepo,
		stockRepo:    stockRepo,
		donationRepo: donationRepo,
		notifier:     notifier,
		emailSvc:     emailSvc,
		cache:        gocache.New(cacheTTL, 5*time.Minute),
		logger:       logger,
	}
}

// PendingVerifications bundles the two admin review queues
type PendingVerifications struct {
	Hospitals []*model.HospitalProfile `json:"hospitals"`
	Camps     []*model.CampProfile     `json:"camps"`
}

func (s *Service) PendingVerifications(ctx context.Context) (*PendingVerifications, error) {
	hospitals, err := s.hospitalRepo.ListPending(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list pending hospitals", err)
	}
	camps, err := s.campRepo.ListPending(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list pending organizers", err)
	}
	if hospitals == nil {
		hospitals = []*model.HospitalProfile{}
	}
	if camps == nil {
		camps = []*model.CampProfile{}
	}
	return &PendingVerifications{Hospitals: hospitals, Camps: camps}, nil
}

func (s *Service) HospitalDetails(ctx context.Context, id string) (*model.HospitalProfile, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	profile, err := s.hospitalRepo.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load hospital", err)
	}
	return profile, nil
}

func (s *Service) CampDetails(ctx context.Context, id string) (*model.CampProfile, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	profile, err := s.campRepo.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("camp organizer", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load organizer", err)
	}
	return profile, nil
}

func (s *Service) VerifyHospital(ctx context.Context, admin *model.TokenClaims, req *model.ReviewRequest) error {
	if req.Decision == model.DecisionRejected && req.Notes == "" {
		return apperrors.Validation("rejection requires a reason", nil)
	}

	profile, err := s.hospitalRepo.GetByID(ctx, req.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return apperrors.Internal("failed to load hospital", err)
	}

	err = s.hospitalRepo.RecordVerification(ctx, req.ID, req.Decision, admin.UserID, req.Notes)
	if errors.Is(err, repository.ErrAlreadyDecided) {
		return apperrors.Conflict(
			fmt.Sprintf("hospital verification already decided (%s)", profile.VerificationStatus), err)
	}
	if err != nil {
		return apperrors.Internal("failed to record verification", err)
	}

	user, err := s.userRepo.GetByID(ctx, profile.UserID)
	if err != nil {
		s.logger.Error(err, "failed to load hospital user after verification")
		return nil
	}

	if req.Decision == model.DecisionApproved {
		user.IsVerified = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error(err, "failed to flag hospital user verified")
		}
		s.notifier.Notify(ctx, user.ID, model.NotifyHospitalApproval,
			"Hospital verified",
			fmt.Sprintf("%s has been verified. You can now log in and manage blood stock.", profile.HospitalName))
	} else {
		s.notifier.Notify(ctx, user.ID, model.NotifyHospitalRejection,
			"Hospital verification rejected",
			fmt.Sprintf("The verification request for %s was rejected: %s", profile.HospitalName, req.Notes))
	}

	if err := s.emailSvc.SendVerificationDecision(user.Email, user.FullName(),
		profile.HospitalName, req.Decision == model.DecisionApproved, req.Notes); err != nil {
		s.logger.Error(err, "failed to send verification email", "user_id", user.ID.String())
	}

	s.logger.Info("hospital verification recorded",
		"hospital_id", req.ID.String(), "decision", string(req.Decision))
	return nil
}

func (s *Service) VerifyCamp(ctx context.Context, admin *model.TokenClaims, req *model.ReviewRequest) error {
	if req.Decision == model.DecisionRejected && req.Notes == "" {
		return apperrors.Validation("rejection requires a reason", nil)
	}

	profile, err := s.campRepo.GetByID(ctx, req.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("camp organizer", err)
	}
	if err != nil {
		return apperrors.Internal("failed to load organizer", err)
	}

	err = s.campRepo.RecordVerification(ctx, req.ID, req.Decision, admin.UserID, req.Notes)
	if errors.Is(err, repository.ErrAlreadyDecided) {
		return apperrors.Conflict(
			fmt.Sprintf("organizer verification already decided (%s)", profile.VerificationStatus), err)
	}
	if err != nil {
		return apperrors.Internal("failed to record verification", err)
	}

	user, err := s.userRepo.GetByID(ctx, profile.UserID)
	if err != nil {
		s.logger.Error(err, "failed to load organizer user after verification")
		return nil
	}

	if req.Decision == model.DecisionApproved {
		user.IsVerified = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error(err, "failed to flag organizer user verified")
		}
		s.notifier.Notify(ctx, user.ID, model.NotifyCampApproval,
			"Organization verified",
			fmt.Sprintf("%s has been verified. You can now organize donation camps.", profile.OrganizationName))
	} else {
		s.notifier.Notify(ctx, user.ID, model.NotifyCampRejection,
			"Organization verification rejected",
			fmt.Sprintf("The verification request for %s was rejected: %s", profile.OrganizationName, req.Notes))
	}

	if err := s.emailSvc.SendVerificationDecision(user.Email, user.FullName(),
		profile.OrganizationName, req.Decision == model.DecisionApproved, req.Notes); err != nil {
		s.logger.Error(err, "failed to send verification email", "user_id", user.ID.String())
	}

	s.logger.Info("organizer verification recorded",
		"organizer_id", req.ID.String(), "decision", string(req.Decision))
	return nil
}

// Dashboard is the admin landing page payload
type Dashboard struct {
	UserCounts         map[model.Role]int       `json:"user_counts"`
	PendingHospitals   int                      `json:"pending_hospitals"`
	PendingCamps       int                      `json:"pending_camps"`
	PendingEmergencies int                      `json:"pending_emergencies"`
	TotalDonations     int                      `json:"total_donations"`
	RecentUsers        []*model.User            `json:"recent_users"`
	RecentHospitals    []*model.HospitalProfile `json:"recently_verified_hospitals"`
	RecentEmergencies  []*model.BloodRequest    `json:"recent_emergencies"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	userCounts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count users", err)
	}
	hospitalCounts, err := s.hospitalRepo.CountByVerification(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count hospitals", err)
	}
	campCounts, err := s.campRepo.CountByVerification(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count organizers", err)
	}
	pendingEmergencies, err := s.requestRepo.CountPendingEmergencies(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count emergencies", err)
	}
	totalDonations, err := s.donationRepo.CountAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count donations", err)
	}
	recentUsers, err := s.userRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list recent users", err)
	}
	recentHospitals, err := s.hospitalRepo.ListRecentlyVerified(ctx, recentLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list recent hospitals", err)
	}
	recentEmergencies, err := s.requestRepo.ListRecentEmergencies(ctx, recentLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list recent emergencies", err)
	}

	return &Dashboard{
		UserCounts:         userCounts,
		PendingHospitals:   hospitalCounts[model.VerificationPending],
		PendingCamps:       campCounts[model.VerificationPending],
		PendingEmergencies: pendingEmergencies,
		TotalDonations:     totalDonations,
		RecentUsers:        recentUsers,
		RecentHospitals:    recentHospitals,
		RecentEmergencies:  recentEmergencies,
	}, nil
}

// Stats is the aggregate counters payload, cached for a minute
type Stats struct {
	UserCounts     map[model.Role]int               `json:"user_counts"`
	HospitalCounts map[model.VerificationStatus]int `json:"hospital_verification_counts"`
	CampCounts     map[model.VerificationStatus]int `json:"camp_verification_counts"`
	RequestCounts  map[model.RequestStatus]int      `json:"request_status_counts"`
	TotalDonations int                              `json:"total_donations"`
	GeneratedAt    time.Time                        `json:"generated_at"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(*Stats), nil
	}

	userCounts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count users", err)
	}
	hospitalCounts, err := s.hospitalRepo.CountByVerification(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count hospitals", err)
	}
	campCounts, err := s.campRepo.CountByVerification(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count organizers", err)
	}
	requestCounts, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count requests", err)
	}
	totalDonations, err := s.donationRepo.CountAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count donations", err)
	}

	stats := &Stats{
		UserCounts:     userCounts,
		HospitalCounts: hospitalCounts,
		CampCounts:     campCounts,
		RequestCounts:  requestCounts,
		TotalDonations: totalDonations,
		GeneratedAt:    time.Now(),
	}
	s.cache.Set(statsCacheKey, stats, cacheTTL)
	return stats, nil
}

// StockOverview is the nationwide per-group stock picture, cached for a minute
type StockOverview struct {
	Groups      []GroupStock `json:"groups"`
	TotalUnits  int          `json:"total_units"`
	GeneratedAt time.Time    `json:"generated_at"`
}

type GroupStock struct {
	BloodGroup string `json:"blood_group"`
	TotalUnits int    `json:"total_units"`
	Status     string `json:"status"`
}

func (s *Service) StockOverview(ctx context.Context) (*StockOverview, error) {
	if cached, ok := s.cache.Get(overviewCacheKey); ok {
		return cached.(*StockOverview), nil
	}

	totals, err := s.stockRepo.GroupTotals(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to total stock", err)
	}

	overview := &StockOverview{GeneratedAt: time.Now()}
	for _, bg := range model.BloodGroups {
		units := totals[bg]
		stock := model.BloodStock{UnitsAvailable: units}
		overview.Groups = append(overview.Groups, GroupStock{
			BloodGroup: bg,
			TotalUnits: units,
			Status:     stock.Status(),
		})
		overview.TotalUnits += units
	}
	s.cache.Set(overviewCacheKey, overview, cacheTTL)
	return overview, nil
}

func (s *Service) PendingEmergencies(ctx context.Context) ([]*model.BloodRequest, error) {
	requests, err := s.requestRepo.ListPendingEmergencies(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list emergencies", err)
	}
	if requests == nil {
		requests = []*model.BloodRequest{}
	}
	return requests, nil
}

func (s *Service) EmergencyDetails(ctx context.Context, id string) (*model.BloodRequest, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	req, err := s.requestRepo.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("blood request", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load blood request", err)
	}
	if !req.RequiresAdminApproval() {
		return nil, apperrors.NotFound("blood request", nil)
	}
	return req, nil
}

// ReviewEmergency applies the admin decision to an emergency or disaster
// request. Approval touches the admin_approved fields only; rejection touches
// status and review fields only. The asymmetry is what the dashboards expect.
func (s *Service) ReviewEmergency(ctx context.Context, admin *model.TokenClaims, req *model.ReviewRequest) error {
	if req.Decision == model.DecisionRejected && req.Notes == "" {
		return apperrors.Validation("rejection requires a reason", nil)
	}

	request, err := s.requestRepo.GetByID(ctx, req.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("blood request", err)
	}
	if err != nil {
		return apperrors.Internal("failed to load blood request", err)
	}
	if !request.RequiresAdminApproval() {
		return apperrors.Validation("request does not need admin approval", nil)
	}

	if req.Decision == model.DecisionApproved {
		err = s.requestRepo.ApproveByAdmin(ctx, req.ID, admin.UserID, req.Notes)
	} else {
		err = s.requestRepo.RejectByAdmin(ctx, req.ID, admin.UserID, req.Notes)
	}
	if errors.Is(err, repository.ErrAlreadyDecided) {
		return apperrors.Conflict("emergency request already decided", err)
	}
	if err != nil {
		return apperrors.Internal("failed to record decision", err)
	}

	title := "Emergency request approved"
	message := fmt.Sprintf("Your %s blood request (%d units of %s) was approved by the admin team.",
		request.RequestType, request.UnitsNeeded, request.BloodGroup)
	if req.Decision == model.DecisionRejected {
		title = "Emergency request rejected"
		message = fmt.Sprintf("Your %s blood request was rejected: %s", request.RequestType, req.Notes)
	}
	s.notifier.Notify(ctx, request.PatientUserID, model.NotifyBloodRequest, title, message)

	if user, err := s.userRepo.GetByID(ctx, request.PatientUserID); err == nil {
		if err := s.emailSvc.SendEmergencyDecision(user.Email, user.FullName(),
			req.Decision == model.DecisionApproved, req.Notes); err != nil {
			s.logger.Error(err, "failed to send emergency decision email", "user_id", user.ID.String())
		}
	}

	s.logger.Info("emergency decision recorded",
		"request_id", req.ID.String(), "decision", string(req.Decision))
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid id", err)
	}
	return uid, nil
}
