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

type donationRepository struct {
	BaseRepository
}

func NewDonationRepository(db *sqlx.DB) repository.DonationRepository {
	return &donationRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *donationRepository) Create(ctx context.Context, rec *model.DonationRecord) error {
	query := `
		INSERT INTO donation_records (id, donor_id, donation_date, location,
			units_donated, blood_group, hemoglobin_level, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.DonorID,
		rec.DonationDate,
		rec.Location,
		rec.UnitsDonated,
		rec.BloodGroup,
		rec.HemoglobinLevel,
		rec.Notes,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create donation record: %w", err)
	}
	return nil
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.DonationRecord, error) {
	query := `SELECT * FROM donation_records WHERE donor_id = $1 ORDER BY donation_date DESC`
	var records []*model.DonationRecord
	if err := r.db.SelectContext(ctx, &records, query, donorID); err != nil {
		return nil, fmt.Errorf("failed to list donation records: %w", err)
	}
	return records, nil
}

func (r *donationRepository) CountAll(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM donation_records`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count donations: %w", err)
	}
	return count, nil
}

func (r *donationRepository) LatestByDonor(ctx context.Context, donorID uuid.UUID) (*model.DonationRecord, error) {
	query := `SELECT * FROM donation_records WHERE donor_id = $1 ORDER BY donation_date DESC LIMIT 1`
	var rec model.DonationRecord
	if err := r.db.GetContext(ctx, &rec, query, donorID); err != nil {
		return nil, translateErr(err)
	}
	return &rec, nil
}
