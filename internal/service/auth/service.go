package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
	"github.com/redconnect/redconnect-api/pkg/auth"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

const bcryptCost = 12

// dateLayout is the wire format for plain dates in request bodies
const dateLayout = "2006-01-02"

type Service struct {
	userRepo     repository.UserRepository
	donorRepo    repository.DonorRepository
	hospitalRepo repository.HospitalRepository
	campRepo     repository.CampProfileRepository
	patientRepo  repository.PatientRepository
	tokenStore   repository.TokenStore
	jwtSvc       auth.JWTService
	logger       *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	donorRepo repository.DonorRepository,
	hospitalRepo repository.HospitalRepository,
	campRepo repository.CampProfileRepository,
	patientRepo repository.PatientRepository,
	tokenStore repository.TokenStore,
	jwtSvc auth.JWTService,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		donorRepo:    donorRepo,
		hospitalRepo: hospitalRepo,
		campRepo:     campRepo,
		patientRepo:  patientRepo,
		tokenStore:   tokenStore,
		jwtSvc:       jwtSvc,
		logger:       logger,
	}
}

func (s *Service) RegisterDonor(ctx context.Context, req *model.RegisterDonorRequest) (*model.User, error) {
	user, err := s.newUser(ctx, &req.RegisterUserFields, model.RoleDonor, true)
	if err != nil {
		return nil, err
	}

	profile := &model.DonorProfile{
		BloodGroup:       req.BloodGroup,
		City:             req.City,
		State:            req.State,
		Gender:           req.Gender,
		Weight:           req.Weight,
		EmergencyContact: req.EmergencyContact,
		IsEligible:       true,
	}
	if dob, err := parseDate(req.DateOfBirth); err != nil {
		return nil, apperrors.Validation("invalid date_of_birth, expected YYYY-MM-DD", err)
	} else if dob != nil {
		profile.DateOfBirth = dob
	}

	if err := s.donorRepo.Create(ctx, user, profile); err != nil {
		return nil, s.mapCreateErr(err)
	}

	s.logger.Info("donor registered", "user_id", user.ID.String())
	return user, nil
}

func (s *Service) RegisterHospital(ctx context.Context, req *model.RegisterHospitalRequest) (*model.User, error) {
	// Organizational accounts stay unverified until an admin approves them
	user, err := s.newUser(ctx, &req.RegisterUserFields, model.RoleHospital, false)
	if err != nil {
		return nil, err
	}

	profile := &model.HospitalProfile{
		HospitalName:                req.HospitalName,
		RegistrationNumber:          req.RegistrationNumber,
		IssuingAuthority:            req.IssuingAuthority,
		YearOfRegistration:          req.YearOfRegistration,
		AddressLine:                 req.AddressLine,
		Area:                        req.Area,
		City:                        req.City,
		District:                    req.District,
		State:                       req.State,
		Pincode:                     req.Pincode,
		AuthorizedPersonName:        req.AuthorizedPersonName,
		AuthorizedPersonDesignation: req.AuthorizedPersonDesignation,
		AuthorizedPersonMobile:      req.AuthorizedPersonMobile,
		AuthorizedPersonEmail:       req.AuthorizedPersonEmail,
		HasBloodBank:                req.HasBloodBank,
		BloodBankLicense:            req.BloodBankLicense,
		StorageCapacity:             req.StorageCapacity,
	}

	if err := s.hospitalRepo.Create(ctx, user, profile); err != nil {
		return nil, s.mapCreateErr(err)
	}

	s.logger.Info("hospital registered", "user_id", user.ID.String())
	return user, nil
}

func (s *Service) RegisterCamp(ctx context.Context, req *model.RegisterCampRequest) (*model.User, error) {
	user, err := s.newUser(ctx, &req.RegisterUserFields, model.RoleCamp, false)
	if err != nil {
		return nil, err
	}

	profile := &model.CampProfile{
		OrganizationName:         req.OrganizationName,
		OrganizationType:         req.OrganizationType,
		RegistrationNumber:       req.RegistrationNumber,
		ContactPersonName:        req.ContactPersonName,
		ContactPersonDesignation: req.ContactPersonDesignation,
		ContactPersonMobile:      req.ContactPersonMobile,
		AddressLine:              req.AddressLine,
		City:                     req.City,
		State:                    req.State,
		Pincode:                  req.Pincode,
	}

	if err := s.campRepo.Create(ctx, user, profile); err != nil {
		return nil, s.mapCreateErr(err)
	}

	s.logger.Info("camp organizer registered", "user_id", user.ID.String())
	return user, nil
}

func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) (*model.User, error) {
	user, err := s.newUser(ctx, &req.RegisterUserFields, model.RolePatient, true)
	if err != nil {
		return nil, err
	}

	profile := &model.PatientProfile{
		Gender:                   req.Gender,
		City:                     req.City,
		State:                    req.State,
		BloodGroup:               req.BloodGroup,
		EmergencyContact:         req.EmergencyContact,
		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactRelation: req.EmergencyContactRelation,
		MedicalConditions:        req.MedicalConditions,
	}
	if dob, err := parseDate(req.DateOfBirth); err != nil {
		return nil, apperrors.Validation("invalid date_of_birth, expected YYYY-MM-DD", err)
	} else if dob != nil {
		profile.DateOfBirth = dob
	}

	if err := s.patientRepo.Create(ctx, user, profile); err != nil {
		return nil, s.mapCreateErr(err)
	}

	s.logger.Info("patient registered", "user_id", user.ID.String())
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled", nil)
	}

	// Hospitals and camp organizers cannot log in until approved
	if err := s.checkOrganizationApproved(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.jwtSvc.GenerateTokenPair(user)
	if err != nil {
		return nil, apperrors.Internal("failed to generate tokens", err)
	}
	return tokens, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.Internal("failed to check token", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("refresh token revoked", nil)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled", nil)
	}

	tokens, err := s.jwtSvc.GenerateTokenPair(user)
	if err != nil {
		return nil, apperrors.Internal("failed to generate tokens", err)
	}
	return tokens, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.jwtSvc.ValidateRefreshToken(refreshToken); err != nil {
		return apperrors.Unauthorized("invalid refresh token", err)
	}
	if err := s.tokenStore.Revoke(ctx, refreshToken, s.jwtSvc.RefreshTTL(refreshToken)); err != nil {
		return apperrors.Internal("failed to revoke token", err)
	}
	return nil
}

// ProfileResponse bundles the account row with its role-specific profile
type ProfileResponse struct {
	User    *model.User `json:"user"`
	Profile interface{} `json:"profile,omitempty"`
}

func (s *Service) Profile(ctx context.Context, claims *model.TokenClaims) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.NotFound("user", err)
	}

	resp := &ProfileResponse{User: user}
	switch user.Role {
	case model.RoleDonor:
		resp.Profile, err = s.donorRepo.GetByUserID(ctx, user.ID)
	case model.RoleHospital:
		resp.Profile, err = s.hospitalRepo.GetByUserID(ctx, user.ID)
	case model.RoleCamp:
		resp.Profile, err = s.campRepo.GetByUserID(ctx, user.ID)
	case model.RolePatient:
		resp.Profile, err = s.patientRepo.GetByUserID(ctx, user.ID)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("failed to load profile", err)
	}
	return resp, nil
}

func (s *Service) newUser(ctx context.Context, fields *model.RegisterUserFields, role model.Role, verified bool) (*model.User, error) {
	if existing, _ := s.userRepo.GetByEmail(ctx, fields.Email); existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	return &model.User{
		Email:        fields.Email,
		Phone:        fields.Phone,
		PasswordHash: string(hash),
		FirstName:    fields.FirstName,
		LastName:     fields.LastName,
		Role:         role,
		IsVerified:   verified,
		IsActive:     true,
	}, nil
}

func (s *Service) checkOrganizationApproved(ctx context.Context, user *model.User) error {
	var status model.VerificationStatus
	switch user.Role {
	case model.RoleHospital:
		profile, err := s.hospitalRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return apperrors.Internal("failed to load hospital profile", err)
		}
		status = profile.VerificationStatus
	case model.RoleCamp:
		profile, err := s.campRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return apperrors.Internal("failed to load organizer profile", err)
		}
		status = profile.VerificationStatus
	default:
		return nil
	}

	switch status {
	case model.VerificationApproved:
		return nil
	case model.VerificationRejected:
		return apperrors.Forbidden("account verification was rejected", nil)
	case model.VerificationSuspended:
		return apperrors.Forbidden("account is suspended", nil)
	default:
		return apperrors.Forbidden("account is pending admin verification", nil)
	}
}

func (s *Service) mapCreateErr(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.Conflict("email or phone already registered", err)
	}
	return apperrors.Internal("failed to register account", err)
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
