package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
)

type campProfileRepository struct {
	BaseRepository
}

func NewCampProfileRepository(db *sqlx.DB) repository.CampProfileRepository {
	return &campProfileRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *campProfileRepository) Create(ctx context.Context, user *model.User, profile *model.CampProfile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := createUserTx(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO camp_profiles (id, user_id, organization_name,
				organization_type, registration_number, contact_person_name,
				contact_person_designation, contact_person_mobile,
				address_line, city, state, pincode,
				verification_status, rejection_reason, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		profile.UserID = user.ID
		profile.VerificationStatus = model.VerificationPending
		profile.CreatedAt = time.Now()
		profile.UpdatedAt = profile.CreatedAt

		_, err := tx.ExecContext(ctx, query,
			profile.ID,
			profile.UserID,
			profile.OrganizationName,
			profile.OrganizationType,
			profile.RegistrationNumber,
			profile.ContactPersonName,
			profile.ContactPersonDesignation,
			profile.ContactPersonMobile,
			profile.AddressLine,
			profile.City,
			profile.State,
			profile.Pincode,
			profile.VerificationStatus,
			profile.RejectionReason,
			profile.CreatedAt,
			profile.UpdatedAt,
		)
		return translateErr(err)
	})
}

func (r *campProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CampProfile, error) {
	query := `SELECT * FROM camp_profiles WHERE id = $1`
	var profile model.CampProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}

func (r *campProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CampProfile, error) {
	query := `SELECT * FROM camp_profiles WHERE user_id = $1`
	var profile model.CampProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}

func (r *campProfileRepository) ListPending(ctx context.Context) ([]*model.CampProfile, error) {
	query := `SELECT * FROM camp_profiles WHERE verification_status = $1 ORDER BY created_at ASC`
	var profiles []*model.CampProfile
	if err := r.db.SelectContext(ctx, &profiles, query, model.VerificationPending); err != nil {
		return nil, fmt.Errorf("failed to list pending camp organizers: %w", err)
	}
	return profiles, nil
}

func (r *campProfileRepository) RecordVerification(ctx context.Context, id uuid.UUID, decision model.Decision, verifiedBy uuid.UUID, reason string) error {
	return recordProfileVerification(ctx, r.db, "camp_profiles", id, decision, verifiedBy, reason)
}

func (r *campProfileRepository) CountByVerification(ctx context.Context) (map[model.VerificationStatus]int, error) {
	return countProfileVerification(ctx, r.db, "camp_profiles")
}
