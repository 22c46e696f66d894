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

type attendanceRepository struct {
	BaseRepository
}

func NewAttendanceRepository(db *sqlx.DB) repository.AttendanceRepository {
	return &attendanceRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *attendanceRepository) Get(ctx context.Context, campID, donorID uuid.UUID) (*model.CampAttendance, error) {
	query := `SELECT * FROM camp_attendances WHERE camp_id = $1 AND donor_id = $2`
	var att model.CampAttendance
	if err := r.db.GetContext(ctx, &att, query, campID, donorID); err != nil {
		return nil, translateErr(err)
	}
	return &att, nil
}

func (r *attendanceRepository) Create(ctx context.Context, att *model.CampAttendance) error {
	query := `
		INSERT INTO camp_attendances (id, camp_id, donor_id, status,
			check_in_time, donation_time, units_donated, hemoglobin_level,
			blood_pressure, notes, checked_in_by, donation_recorded_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if att.ID == uuid.Nil {
		att.ID = uuid.New()
	}
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		att.ID,
		att.CampID,
		att.DonorID,
		att.Status,
		att.CheckInTime,
		att.DonationTime,
		att.UnitsDonated,
		att.HemoglobinLevel,
		att.BloodPressure,
		att.Notes,
		att.CheckedInBy,
		att.DonationRecordedBy,
		att.CreatedAt,
		att.UpdatedAt,
	)
	return translateErr(err)
}

func (r *attendanceRepository) Update(ctx context.Context, att *model.CampAttendance) error {
	query := `
		UPDATE camp_attendances
		SET status = $1, check_in_time = $2, donation_time = $3,
			units_donated = $4, hemoglobin_level = $5, blood_pressure = $6,
			notes = $7, checked_in_by = $8, donation_recorded_by = $9,
			updated_at = $10
		WHERE id = $11
	`
	att.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		att.Status,
		att.CheckInTime,
		att.DonationTime,
		att.UnitsDonated,
		att.HemoglobinLevel,
		att.BloodPressure,
		att.Notes,
		att.CheckedInBy,
		att.DonationRecordedBy,
		att.UpdatedAt,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	return nil
}
