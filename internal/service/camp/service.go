package camp

import (
	"context"
	"encoding/json"
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

const (
	listLimit  = 50
	dateLayout = "2006-01-02"
)

type Service struct {
	profileRepo    repository.CampProfileRepository
	campRepo       repository.CampRepository
	appRepo        repository.ApplicationRepository
	attendanceRepo repository.AttendanceRepository
	donorRepo      repository.DonorRepository
	donationRepo   repository.DonationRepository
	notifier       *notification.Service
	logger         *logger.Logger
}

func NewService(
	profileRepo repository.CampProfileRepository,
	campRepo repository.CampRepository,
	appRepo repository.ApplicationRepository,
	attendanceRepo repository.AttendanceRepository,
	donorRepo repository.DonorRepository,
	donationRepo repository.DonationRepository,
	notifier *notification.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		profileRepo:    profileRepo,
		campRepo:       campRepo,
		appRepo:        appRepo,
		attendanceRepo: attendanceRepo,
		donorRepo:      donorRepo,
		donationRepo:   donationRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

// profileByUser resolves the organizer profile and enforces the verification
// gate on every camp operation.
func (s *Service) profileByUser(ctx context.Context, userID uuid.UUID) (*model.CampProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("organizer profile", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load organizer profile", err)
	}
	if profile.VerificationStatus != model.VerificationApproved {
		return nil, apperrors.Forbidden("organization is not verified", nil)
	}
	return profile, nil
}

// Dashboard is the organizer landing page payload
type Dashboard struct {
	Organizer           *model.CampProfile `json:"organizer"`
	TotalCamps          int                `json:"total_camps"`
	ActiveCamps         int                `json:"active_camps"`
	PendingApplications int                `json:"pending_applications"`
	UpcomingCamps       []*model.Camp      `json:"upcoming_camps"`
}

func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, active, err := s.campRepo.CountByOrganizer(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to count camps", err)
	}
	pending, err := s.appRepo.CountPendingByOrganizer(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to count applications", err)
	}

	camps, err := s.campRepo.ListByOrganizer(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list camps", err)
	}
	now := time.Now()
	upcoming := make([]*model.Camp, 0)
	for _, c := range camps {
		if c.Status == model.CampActive && c.IsUpcoming(now) {
			upcoming = append(upcoming, c)
		}
	}

	return &Dashboard{
		Organizer:           profile,
		TotalCamps:          total,
		ActiveCamps:         active,
		PendingApplications: pending,
		UpcomingCamps:       upcoming,
	}, nil
}

func (s *Service) Camps(ctx context.Context, userID uuid.UUID) ([]*model.Camp, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	camps, err := s.campRepo.ListByOrganizer(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list camps", err)
	}
	if camps == nil {
		camps = []*model.Camp{}
	}
	return camps, nil
}

func (s *Service) CreateCamp(ctx context.Context, userID uuid.UUID, req *model.CreateCampRequest) (*model.Camp, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date, expected YYYY-MM-DD", err)
	}
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, apperrors.Validation("camp date cannot be in the past", nil)
	}

	groups := req.BloodGroups
	if len(groups) == 0 {
		groups = model.BloodGroups
	}
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return nil, apperrors.Internal("failed to encode blood groups", err)
	}

	camp := &model.Camp{
		OrganizerID:       profile.ID,
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		Pincode:           req.Pincode,
		Date:              date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		BloodGroupsNeeded: groupsJSON,
		ExpectedDonors:    req.ExpectedDonors,
		Status:            model.CampActive,
		ContactPerson:     req.ContactPerson,
		ContactPhone:      req.ContactPhone,
		ContactEmail:      req.ContactEmail,
	}
	if err := s.campRepo.Create(ctx, camp); err != nil {
		return nil, apperrors.Internal("failed to create camp", err)
	}

	s.logger.Info("camp created",
		"camp_id", camp.ID.String(), "organizer_id", profile.ID.String(),
		"date", req.Date)
	return camp, nil
}

// Applications lists applications across the organizer's camps, optionally
// narrowed to one camp
func (s *Service) Applications(ctx context.Context, userID uuid.UUID, campID string) ([]*model.CampApplication, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var filter *uuid.UUID
	if campID != "" {
		id, err := uuid.Parse(campID)
		if err != nil {
			return nil, apperrors.Validation("invalid camp_id", err)
		}
		if _, err := s.campRepo.GetByIDAndOrganizer(ctx, id, profile.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("camp", err)
			}
			return nil, apperrors.Internal("failed to load camp", err)
		}
		filter = &id
	}

	apps, err := s.appRepo.ListByOrganizer(ctx, profile.ID, filter, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	if apps == nil {
		apps = []*model.CampApplication{}
	}
	return apps, nil
}

func (s *Service) ReviewApplication(ctx context.Context, userID uuid.UUID, req *model.ReviewRequest) error {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return err
	}
	if req.Decision == model.DecisionRejected && req.Notes == "" {
		return apperrors.Validation("rejection requires a reason", nil)
	}

	app, err := s.appRepo.GetByIDAndOrganizer(ctx, req.ID, profile.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("application", err)
	}
	if err != nil {
		return apperrors.Internal("failed to load application", err)
	}

	err = s.appRepo.RecordDecision(ctx, req.ID, req.Decision, userID, req.Notes)
	if errors.Is(err, repository.ErrAlreadyDecided) {
		return apperrors.Conflict(
			fmt.Sprintf("application already decided (%s)", app.Status), err)
	}
	if err != nil {
		return apperrors.Internal("failed to record decision", err)
	}

	campDate := app.CampDate.Format(dateLayout)
	if req.Decision == model.DecisionApproved {
		s.notifier.Notify(ctx, app.DonorUserID, model.NotifyCampApproval,
			"Camp application approved",
			fmt.Sprintf("Your application for %s on %s was approved. See you there!",
				app.CampName, campDate))
	} else {
		s.notifier.Notify(ctx, app.DonorUserID, model.NotifyCampRejection,
			"Camp application rejected",
			fmt.Sprintf("Your application for %s was rejected: %s", app.CampName, req.Notes))
	}

	s.logger.Info("application reviewed",
		"application_id", req.ID.String(), "decision", string(req.Decision))
	return nil
}

// MarkAttendance records day-of progress for an approved applicant. A DONATED
// status also appends to the donor's donation history and bumps their totals.
func (s *Service) MarkAttendance(ctx context.Context, userID uuid.UUID, req *model.MarkAttendanceRequest) (*model.CampAttendance, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	camp, err := s.campRepo.GetByIDAndOrganizer(ctx, req.CampID, profile.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("camp", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load camp", err)
	}

	donor, err := s.donorRepo.GetByID(ctx, req.DonorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("donor", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load donor", err)
	}

	if req.Status == model.AttendanceDonated && req.UnitsDonated < 1 {
		return nil, apperrors.Validation("units_donated must be positive for a donation", nil)
	}

	now := time.Now()
	att, err := s.attendanceRepo.Get(ctx, camp.ID, donor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		att = &model.CampAttendance{CampID: camp.ID, DonorID: donor.ID}
		err = nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load attendance", err)
	}

	alreadyDonated := att.Status == model.AttendanceDonated
	att.Status = req.Status

	switch req.Status {
	case model.AttendanceCheckedIn:
		if att.CheckInTime == nil {
			att.CheckInTime = &now
			att.CheckedInBy = &userID
		}
	case model.AttendanceDonated:
		if att.CheckInTime == nil {
			att.CheckInTime = &now
			att.CheckedInBy = &userID
		}
		att.DonationTime = &now
		att.UnitsDonated = req.UnitsDonated
		att.DonationRecordedBy = &userID
	}

	if att.ID == uuid.Nil {
		err = s.attendanceRepo.Create(ctx, att)
	} else {
		err = s.attendanceRepo.Update(ctx, att)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to save attendance", err)
	}

	// Record the donation once even if the status is re-sent
	if req.Status == model.AttendanceDonated && !alreadyDonated {
		record := &model.DonationRecord{
			DonorID:      donor.ID,
			DonationDate: now,
			Location:     fmt.Sprintf("%s, %s", camp.Name, camp.City),
			UnitsDonated: req.UnitsDonated,
			BloodGroup:   donor.BloodGroup,
		}
		if err := s.donationRepo.Create(ctx, record); err != nil {
			s.logger.Error(err, "failed to append donation record",
				"donor_id", donor.ID.String())
		}
		if err := s.donorRepo.RecordDonation(ctx, donor.ID, req.UnitsDonated, now); err != nil {
			s.logger.Error(err, "failed to bump donor totals",
				"donor_id", donor.ID.String())
		}
		s.notifier.Notify(ctx, donor.UserID, model.NotifyAttendanceMarked,
			"Thank you for donating",
			fmt.Sprintf("Your donation of %d unit(s) at %s has been recorded.",
				req.UnitsDonated, camp.Name))
	}

	s.logger.Info("attendance marked",
		"camp_id", camp.ID.String(), "donor_id", donor.ID.String(),
		"status", string(req.Status))
	return att, nil
}
