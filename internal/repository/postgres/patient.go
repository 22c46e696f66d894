package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, user *model.User, profile *model.PatientProfile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := createUserTx(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO patient_profiles (id, user_id, date_of_birth, gender,
				city, state, blood_group, emergency_contact, emergency_contact_name,
				emergency_contact_relation, medical_conditions, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
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
			profile.DateOfBirth,
			profile.Gender,
			profile.City,
			profile.State,
			profile.BloodGroup,
			profile.EmergencyContact,
			profile.EmergencyContactName,
			profile.EmergencyContactRelation,
			profile.MedicalConditions,
			profile.CreatedAt,
			profile.UpdatedAt,
		)
		return translateErr(err)
	})
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	query := `SELECT * FROM patient_profiles WHERE user_id = $1`
	var profile model.PatientProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	query := `SELECT * FROM patient_profiles WHERE id = $1`
	var profile model.PatientProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}
