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

type applicationRepository struct {
	BaseRepository
}

func NewApplicationRepository(db *sqlx.DB) repository.ApplicationRepository {
	return &applicationRepository{BaseRepository: NewBaseRepository(db)}
}

// applicationColumns joins donor and camp display fields onto each row
const applicationColumns = `
	a.id, a.donor_id, a.camp_id, a.age, a.weight, a.last_donation_date,
	a.health_status, a.health_issues, a.medications, a.consent_given,
	a.status, a.applied_at, a.reviewed_at, a.reviewed_by, a.rejection_reason,
	a.created_at, a.updated_at,
	u.first_name || ' ' || u.last_name AS donor_name,
	u.phone AS donor_phone,
	u.id AS donor_user_id,
	dp.blood_group AS donor_blood_group,
	c.name AS camp_name,
	c.date AS camp_date
`

const applicationJoins = `
	FROM camp_applications a
	JOIN donor_profiles dp ON dp.id = a.donor_id
	JOIN users u ON u.id = dp.user_id
	JOIN camps c ON c.id = a.camp_id
`

func (r *applicationRepository) Create(ctx context.Context, app *model.CampApplication) error {
	query := `
		INSERT INTO camp_applications (id, donor_id, camp_id, age, weight,
			last_donation_date, health_status, health_issues, medications,
			consent_given, status, applied_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	app.Status = model.ApplicationPending
	app.AppliedAt = time.Now()
	app.CreatedAt = app.AppliedAt
	app.UpdatedAt = app.AppliedAt

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.DonorID,
		app.CampID,
		app.Age,
		app.Weight,
		app.LastDonationDate,
		app.HealthStatus,
		app.HealthIssues,
		app.Medications,
		app.ConsentGiven,
		app.Status,
		app.AppliedAt,
		app.CreatedAt,
		app.UpdatedAt,
	)
	return translateErr(err)
}

func (r *applicationRepository) GetByIDAndOrganizer(ctx context.Context, id, organizerID uuid.UUID) (*model.CampApplication, error) {
	query := `SELECT ` + applicationColumns + applicationJoins + `
		WHERE a.id = $1 AND c.organizer_id = $2`
	var app model.CampApplication
	if err := r.db.GetContext(ctx, &app, query, id, organizerID); err != nil {
		return nil, translateErr(err)
	}
	return &app, nil
}

func (r *applicationRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID, campID *uuid.UUID, limit int) ([]*model.CampApplication, error) {
	query := `SELECT ` + applicationColumns + applicationJoins + `
		WHERE c.organizer_id = $1`
	args := []interface{}{organizerID}

	if campID != nil {
		args = append(args, *campID)
		query += fmt.Sprintf(" AND a.camp_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY a.applied_at DESC LIMIT $%d", len(args))

	var apps []*model.CampApplication
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) CountPendingByOrganizer(ctx context.Context, organizerID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM camp_applications a
		JOIN camps c ON c.id = a.camp_id
		WHERE c.organizer_id = $1 AND a.status = $2
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, organizerID, model.ApplicationPending); err != nil {
		return 0, fmt.Errorf("failed to count pending applications: %w", err)
	}
	return count, nil
}

func (r *applicationRepository) RecordDecision(ctx context.Context, id uuid.UUID, decision model.Decision, reviewedBy uuid.UUID, reason string) error {
	query := `
		UPDATE camp_applications
		SET status = $1, reviewed_by = $2, reviewed_at = $3,
			rejection_reason = $4, updated_at = $3
		WHERE id = $5 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		model.ApplicationStatus(decision),
		reviewedBy,
		time.Now(),
		reason,
		id,
		model.ApplicationPending,
	)
	if err != nil {
		return fmt.Errorf("failed to record application decision: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM camp_applications WHERE id = $1)`
		if err := r.db.GetContext(ctx, &exists, check, id); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrAlreadyDecided
	}
	return nil
}
