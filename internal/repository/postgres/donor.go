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

type donorRepository struct {
	BaseRepository
}

func NewDonorRepository(db *sqlx.DB) repository.DonorRepository {
	return &donorRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *donorRepository) Create(ctx context.Context, user *model.User, profile *model.DonorProfile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := createUserTx(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO donor_profiles (id, user_id, blood_group, city, state,
				date_of_birth, weight, gender, last_donation_date, total_donations,
				is_eligible, medical_conditions, medications, emergency_contact,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		profile.UserID = user.ID
		profile.CreatedAt = time.Now()
		profile.UpdatedAt = profile.CreatedAt

		_, err := tx.ExecContext(ctx, query,
			profile.ID,
			profile.UserID,
			profile.BloodGroup,
			profile.City,
			profile.State,
			profile.DateOfBirth,
			profile.Weight,
			profile.Gender,
			profile.LastDonationDate,
			profile.TotalDonations,
			profile.IsEligible,
			profile.MedicalConditions,
			profile.Medications,
			profile.EmergencyContact,
			profile.CreatedAt,
			profile.UpdatedAt,
		)
		return translateErr(err)
	})
}

func (r *donorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DonorProfile, error) {
	query := `SELECT * FROM donor_profiles WHERE user_id = $1`
	var profile model.DonorProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}

func (r *donorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DonorProfile, error) {
	query := `SELECT * FROM donor_profiles WHERE id = $1`
	var profile model.DonorProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}

func (r *donorRepository) Update(ctx context.Context, profile *model.DonorProfile) error {
	query := `
		UPDATE donor_profiles
		SET blood_group = $1, city = $2, state = $3, date_of_birth = $4,
			weight = $5, gender = $6, last_donation_date = $7, total_donations = $8,
			is_eligible = $9, medical_conditions = $10, medications = $11,
			emergency_contact = $12, updated_at = $13
		WHERE id = $14
	`
	profile.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		profile.BloodGroup,
		profile.City,
		profile.State,
		profile.DateOfBirth,
		profile.Weight,
		profile.Gender,
		profile.LastDonationDate,
		profile.TotalDonations,
		profile.IsEligible,
		profile.MedicalConditions,
		profile.Medications,
		profile.EmergencyContact,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update donor profile: %w", err)
	}
	return nil
}

func (r *donorRepository) RecordDonation(ctx context.Context, donorID uuid.UUID, units int, donatedAt time.Time) error {
	query := `
		UPDATE donor_profiles
		SET total_donations = total_donations + $1, last_donation_date = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, units, donatedAt, time.Now(), donorID)
	if err != nil {
		return fmt.Errorf("failed to record donation: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
