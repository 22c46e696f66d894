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

type campRepository struct {
	BaseRepository
}

func NewCampRepository(db *sqlx.DB) repository.CampRepository {
	return &campRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *campRepository) Create(ctx context.Context, camp *model.Camp) error {
	query := `
		INSERT INTO camps (id, organizer_id, name, description, location, address,
			city, state, pincode, date, start_time, end_time, blood_groups_needed,
			expected_donors, status, contact_person, contact_phone, contact_email,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20)
	`
	if camp.ID == uuid.Nil {
		camp.ID = uuid.New()
	}
	camp.CreatedAt = time.Now()
	camp.UpdatedAt = camp.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		camp.ID,
		camp.OrganizerID,
		camp.Name,
		camp.Description,
		camp.Location,
		camp.Address,
		camp.City,
		camp.State,
		camp.Pincode,
		camp.Date,
		camp.StartTime,
		camp.EndTime,
		camp.BloodGroupsNeeded,
		camp.ExpectedDonors,
		camp.Status,
		camp.ContactPerson,
		camp.ContactPhone,
		camp.ContactEmail,
		camp.CreatedAt,
		camp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create camp: %w", translateErr(err))
	}
	return nil
}

func (r *campRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Camp, error) {
	query := `SELECT * FROM camps WHERE id = $1`
	var camp model.Camp
	if err := r.db.GetContext(ctx, &camp, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &camp, nil
}

func (r *campRepository) GetByIDAndOrganizer(ctx context.Context, id, organizerID uuid.UUID) (*model.Camp, error) {
	query := `SELECT * FROM camps WHERE id = $1 AND organizer_id = $2`
	var camp model.Camp
	if err := r.db.GetContext(ctx, &camp, query, id, organizerID); err != nil {
		return nil, translateErr(err)
	}
	return &camp, nil
}

func (r *campRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Camp, error) {
	query := `
		SELECT c.*,
			(SELECT COUNT(*) FROM camp_applications a
				WHERE a.camp_id = c.id) AS applications_count,
			(SELECT COUNT(*) FROM camp_applications a
				WHERE a.camp_id = c.id AND a.status = 'APPROVED') AS approved_applications_count
		FROM camps c
		WHERE c.organizer_id = $1
		ORDER BY c.date DESC
	`
	var camps []*model.Camp
	if err := r.db.SelectContext(ctx, &camps, query, organizerID); err != nil {
		return nil, fmt.Errorf("failed to list camps: %w", err)
	}
	return camps, nil
}

func (r *campRepository) CountByOrganizer(ctx context.Context, organizerID uuid.UUID) (total, active int, err error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'ACTIVE') AS active
		FROM camps
		WHERE organizer_id = $1
	`
	row := struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}{}
	if err = r.db.GetContext(ctx, &row, query, organizerID); err != nil {
		return 0, 0, fmt.Errorf("failed to count camps: %w", err)
	}
	return row.Total, row.Active, nil
}

func (r *campRepository) ListSuggestions(ctx context.Context, city string, donorID uuid.UUID, now time.Time, limit int) ([]*model.Camp, error) {
	query := `
		SELECT c.*
		FROM camps c
		WHERE c.status = $1
			AND lower(c.city) = lower($2)
			AND c.date >= $3
			AND NOT EXISTS (
				SELECT 1 FROM camp_applications a
				WHERE a.camp_id = c.id AND a.donor_id = $4
			)
		ORDER BY c.date ASC
		LIMIT $5
	`
	today := model.StartOfDay(now)
	var camps []*model.Camp
	if err := r.db.SelectContext(ctx, &camps, query, model.CampActive, city, today, donorID, limit); err != nil {
		return nil, fmt.Errorf("failed to list camp suggestions: %w", err)
	}
	return camps, nil
}
