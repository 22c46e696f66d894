package patient

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

type Service struct {
	patientRepo  repository.PatientRepository
	hospitalRepo repository.HospitalRepository
	requestRepo  repository.BloodRequestRepository
	notifier     *notification.Service
	logger       *logger.Logger
}

func NewService(
	patientRepo repository.PatientRepository,
	hospitalRepo repository.HospitalRepository,
	requestRepo repository.BloodRequestRepository,
	notifier *notification.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		patientRepo:  patientRepo,
		hospitalRepo: hospitalRepo,
		requestRepo:  requestRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *Service) profileByUser(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	profile, err := s.patientRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient profile", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load patient profile", err)
	}
	return profile, nil
}

// Dashboard is the patient landing page payload
type Dashboard struct {
	Patient           *model.PatientProfile `json:"patient"`
	TotalRequests     int                   `json:"total_requests"`
	ActiveRequests    int                   `json:"active_requests"`
	EmergencyRequests int                   `json:"emergency_requests"`
	Requests          []*model.BloodRequest `json:"requests"`
}

func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, active, emergency, err := s.requestRepo.CountByPatient(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to count requests", err)
	}
	requests, err := s.requestRepo.ListByPatient(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list requests", err)
	}
	if requests == nil {
		requests = []*model.BloodRequest{}
	}

	return &Dashboard{
		Patient:           profile,
		TotalRequests:     total,
		ActiveRequests:    active,
		EmergencyRequests: emergency,
		Requests:          requests,
	}, nil
}

func (s *Service) Requests(ctx context.Context, userID uuid.UUID) ([]*model.BloodRequest, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListByPatient(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list requests", err)
	}
	if requests == nil {
		requests = []*model.BloodRequest{}
	}
	return requests, nil
}

// CreateRequest files a blood request against a verified hospital. Emergency
// and disaster requests need a substantive justification and start life
// awaiting admin approval.
func (s *Service) CreateRequest(ctx context.Context, userID uuid.UUID, req *model.CreateBloodRequestRequest) (*model.BloodRequest, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	requestType := req.RequestType
	if requestType == "" {
		requestType = model.RequestNormal
		req.RequestType = requestType
	}
	if req.NeedsJustification() {
		return nil, apperrors.Validation(
			"emergency requests need a justification of at least 50 characters", nil)
	}
	if req.RequiredBy.Before(time.Now()) {
		return nil, apperrors.Validation("required_by must be in the future", nil)
	}

	hospital, err := s.hospitalRepo.GetByID(ctx, req.HospitalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load hospital", err)
	}
	if hospital.VerificationStatus != model.VerificationApproved {
		return nil, apperrors.Validation("hospital is not verified", nil)
	}

	request := &model.BloodRequest{
		PatientID:              profile.ID,
		HospitalID:             hospital.ID,
		BloodGroup:             req.BloodGroup,
		UnitsNeeded:            req.UnitsNeeded,
		RequestType:            requestType,
		EmergencyReason:        req.EmergencyReason,
		EmergencyJustification: req.EmergencyJustification,
		RequiredBy:             req.RequiredBy,
		DoctorName:             req.DoctorName,
		DoctorContact:          req.DoctorContact,
		MedicalCondition:       req.MedicalCondition,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, apperrors.Internal("failed to create request", err)
	}

	notifType := model.NotifyBloodRequest
	if requestType == model.RequestEmergency {
		notifType = model.NotifyEmergencyAlert
	} else if requestType == model.RequestDisaster {
		notifType = model.NotifyDisasterAlert
	}
	s.notifier.Notify(ctx, hospital.UserID, notifType,
		fmt.Sprintf("New %s blood request", requestType),
		fmt.Sprintf("A patient requested %d units of %s, needed by %s.",
			req.UnitsNeeded, req.BloodGroup, req.RequiredBy.Format("2006-01-02")))

	s.logger.Info("blood request created",
		"request_id", request.ID.String(), "type", string(requestType),
		"hospital_id", hospital.ID.String())
	return request, nil
}

func (s *Service) CancelRequest(ctx context.Context, userID uuid.UUID, requestID uuid.UUID) error {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return err
	}

	err = s.requestRepo.Cancel(ctx, requestID, profile.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("blood request", err)
	}
	if errors.Is(err, repository.ErrAlreadyDecided) {
		return apperrors.Conflict("request can no longer be cancelled", err)
	}
	if err != nil {
		return apperrors.Internal("failed to cancel request", err)
	}

	s.logger.Info("blood request cancelled", "request_id", requestID.String())
	return nil
}

// NearbyHospitals lists verified hospitals in the patient's city, falling
// back to all verified hospitals when the city has none
func (s *Service) NearbyHospitals(ctx context.Context, userID uuid.UUID) ([]*model.HospitalProfile, error) {
	profile, err := s.profileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	hospitals, err := s.hospitalRepo.ListApproved(ctx, profile.City, uuid.Nil, false)
	if err != nil {
		return nil, apperrors.Internal("failed to list hospitals", err)
	}
	if len(hospitals) == 0 {
		hospitals, err = s.hospitalRepo.ListApproved(ctx, "", uuid.Nil, false)
		if err != nil {
			return nil, apperrors.Internal("failed to list hospitals", err)
		}
	}
	if hospitals == nil {
		hospitals = []*model.HospitalProfile{}
	}
	return hospitals, nil
}
