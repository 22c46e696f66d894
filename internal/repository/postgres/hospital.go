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

type hospitalRepository struct {
	BaseRepository
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *hospitalRepository) Create(ctx context.Context, user *model.User, profile *model.HospitalProfile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := createUserTx(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO hospital_profiles (id, user_id, hospital_name,
				registration_number, issuing_authority, year_of_registration,
				address_line, area, city, district, state, pincode,
				authorized_person_name, authorized_person_designation,
				authorized_person_mobile, authorized_person_email,
				has_blood_bank, blood_bank_license, storage_capacity,
				verification_status, rejection_reason, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23)
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
			profile.HospitalName,
			profile.RegistrationNumber,
			profile.IssuingAuthority,
			profile.YearOfRegistration,
			profile.AddressLine,
			profile.Area,
			profile.City,
			profile.District,
			profile.State,
			profile.Pincode,
			profile.AuthorizedPersonName,
			profile.AuthorizedPersonDesignation,
			profile.AuthorizedPersonMobile,
			profile.AuthorizedPersonEmail,
			profile.HasBloodBank,
			profile.BloodBankLicense,
			profile.StorageCapacity,
			profile.VerificationStatus,
			profile.RejectionReason,
			profile.CreatedAt,
			profile.UpdatedAt,
		)
		return translateErr(err)
	})
}

func (r *hospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.HospitalProfile, error) {
	query := `SELECT * FROM hospital_profiles WHERE id = $1`
	var profile model.HospitalProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}

func (r *hospitalRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.HospitalProfile, error) {
	query := `SELECT * FROM hospital_profiles WHERE user_id = $1`
	var profile model.HospitalProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, translateErr(err)
	}
	return &profile, nil
}

func (r *hospitalRepository) ListPending(ctx context.Context) ([]*model.HospitalProfile, error) {
	query := `SELECT * FROM hospital_profiles WHERE verification_status = $1 ORDER BY created_at ASC`
	var profiles []*model.HospitalProfile
	if err := r.db.SelectContext(ctx, &profiles, query, model.VerificationPending); err != nil {
		return nil, fmt.Errorf("failed to list pending hospitals: %w", err)
	}
	return profiles, nil
}

func (r *hospitalRepository) ListApproved(ctx context.Context, city string, exclude uuid.UUID, bloodBankOnly bool) ([]*model.HospitalProfile, error) {
	query := `SELECT * FROM hospital_profiles WHERE verification_status = $1`
	args := []interface{}{model.VerificationApproved}

	if city != "" {
		args = append(args, city)
		query += fmt.Sprintf(" AND lower(city) = lower($%d)", len(args))
	}
	if exclude != uuid.Nil {
		args = append(args, exclude)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	if bloodBankOnly {
		query += " AND has_blood_bank = TRUE"
	}
	query += " ORDER BY hospital_name ASC"

	var profiles []*model.HospitalProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list approved hospitals: %w", err)
	}
	return profiles, nil
}

func (r *hospitalRepository) ListRecentlyVerified(ctx context.Context, limit int) ([]*model.HospitalProfile, error) {
	query := `
		SELECT * FROM hospital_profiles
		WHERE verification_status = $1 AND verification_date IS NOT NULL
		ORDER BY verification_date DESC
		LIMIT $2
	`
	var profiles []*model.HospitalProfile
	if err := r.db.SelectContext(ctx, &profiles, query, model.VerificationApproved, limit); err != nil {
		return nil, fmt.Errorf("failed to list recently verified hospitals: %w", err)
	}
	return profiles, nil
}

func (r *hospitalRepository) RecordVerification(ctx context.Context, id uuid.UUID, decision model.Decision, verifiedBy uuid.UUID, reason string) error {
	return recordProfileVerification(ctx, r.db, "hospital_profiles", id, decision, verifiedBy, reason)
}

func (r *hospitalRepository) CountByVerification(ctx context.Context) (map[model.VerificationStatus]int, error) {
	return countProfileVerification(ctx, r.db, "hospital_profiles")
}

// recordProfileVerification applies a decision to a PENDING organizational
// profile. The WHERE clause keeps decided rows untouched so a second decision
// surfaces as ErrAlreadyDecided instead of silently overwriting the first.
func recordProfileVerification(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID, decision model.Decision, verifiedBy uuid.UUID, reason string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET verification_status = $1, verified_by = $2, verification_date = $3,
			rejection_reason = $4, updated_at = $3
		WHERE id = $5 AND verification_status = $6
	`, table)

	res, err := db.ExecContext(ctx, query,
		model.VerificationStatus(decision),
		verifiedBy,
		time.Now(),
		reason,
		id,
		model.VerificationPending,
	)
	if err != nil {
		return fmt.Errorf("failed to record verification: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists bool
		check := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
		if err := db.GetContext(ctx, &exists, check, id); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrAlreadyDecided
	}
	return nil
}

func countProfileVerification(ctx context.Context, db *sqlx.DB, table string) (map[model.VerificationStatus]int, error) {
	query := fmt.Sprintf(`SELECT verification_status, COUNT(*) AS count FROM %s GROUP BY verification_status`, table)
	rows := []struct {
		Status model.VerificationStatus `db:"verification_status"`
		Count  int                      `db:"count"`
	}{}
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count verification statuses: %w", err)
	}
	counts := make(map[model.VerificationStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
