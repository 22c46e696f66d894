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

type alertRepository struct {
	BaseRepository
}

func NewAlertRepository(db *sqlx.DB) repository.AlertRepository {
	return &alertRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *alertRepository) Create(ctx context.Context, alert *model.DonorAlert) error {
	query := `
		INSERT INTO donor_alerts (id, hospital_id, blood_group, units_needed,
			urgency, reason, location, required_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	alert.Status = model.AlertActive
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = alert.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.HospitalID,
		alert.BloodGroup,
		alert.UnitsNeeded,
		alert.Urgency,
		alert.Reason,
		alert.Location,
		alert.RequiredBy,
		alert.Status,
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create donor alert: %w", translateErr(err))
	}
	return nil
}

func (r *alertRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*model.DonorAlert, error) {
	query := `SELECT * FROM donor_alerts WHERE id = $1 AND status = $2`
	var alert model.DonorAlert
	if err := r.db.GetContext(ctx, &alert, query, id, model.AlertActive); err != nil {
		return nil, translateErr(err)
	}
	return &alert, nil
}

func (r *alertRepository) ListMatching(ctx context.Context, city, bloodGroup string, donorID uuid.UUID, now time.Time, limit int) ([]*model.DonorAlert, error) {
	// O- donors are universal, so O- alerts reach everyone in the city
	query := `
		SELECT a.*, h.hospital_name
		FROM donor_alerts a
		JOIN hospital_profiles h ON h.id = a.hospital_id
		WHERE a.status = $1
			AND a.required_by >= $2
			AND lower(h.city) = lower($3)
			AND a.blood_group IN ($4, 'O-')
			AND NOT EXISTS (
				SELECT 1 FROM alert_responses r
				WHERE r.alert_id = a.id AND r.donor_id = $5
			)
		ORDER BY a.required_by ASC
		LIMIT $6
	`
	var alerts []*model.DonorAlert
	err := r.db.SelectContext(ctx, &alerts, query,
		model.AlertActive, now, city, bloodGroup, donorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matching alerts: %w", err)
	}
	return alerts, nil
}

type alertResponseRepository struct {
	BaseRepository
}

func NewAlertResponseRepository(db *sqlx.DB) repository.AlertResponseRepository {
	return &alertResponseRepository{BaseRepository: NewBaseRepository(db)}
}

const alertResponseColumns = `
	r.id, r.alert_id, r.donor_id, r.age, r.weight, r.last_donation_date,
	r.health_status, r.health_issues, r.medications, r.available_date,
	r.available_time, r.consent_given, r.status, r.responded_at,
	r.reviewed_at, r.reviewed_by, r.rejection_reason, r.created_at, r.updated_at,
	u.first_name || ' ' || u.last_name AS donor_name,
	u.phone AS donor_phone,
	u.id AS donor_user_id,
	dp.blood_group AS donor_blood_group,
	a.blood_group AS alert_blood_group
`

const alertResponseJoins = `
	FROM alert_responses r
	JOIN donor_profiles dp ON dp.id = r.donor_id
	JOIN users u ON u.id = dp.user_id
	JOIN donor_alerts a ON a.id = r.alert_id
`

func (r *alertResponseRepository) Create(ctx context.Context, resp *model.AlertResponse) error {
	query := `
		INSERT INTO alert_responses (id, alert_id, donor_id, age, weight,
			last_donation_date, health_status, health_issues, medications,
			available_date, available_time, consent_given, status, responded_at,
			rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17)
	`
	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}
	resp.Status = model.ResponsePending
	resp.RespondedAt = time.Now()
	resp.CreatedAt = resp.RespondedAt
	resp.UpdatedAt = resp.RespondedAt

	_, err := r.db.ExecContext(ctx, query,
		resp.ID,
		resp.AlertID,
		resp.DonorID,
		resp.Age,
		resp.Weight,
		resp.LastDonationDate,
		resp.HealthStatus,
		resp.HealthIssues,
		resp.Medications,
		resp.AvailableDate,
		resp.AvailableTime,
		resp.ConsentGiven,
		resp.Status,
		resp.RespondedAt,
		resp.RejectionReason,
		resp.CreatedAt,
		resp.UpdatedAt,
	)
	return translateErr(err)
}

func (r *alertResponseRepository) GetByIDAndHospital(ctx context.Context, id, hospitalID uuid.UUID) (*model.AlertResponse, error) {
	query := `SELECT ` + alertResponseColumns + alertResponseJoins + `
		WHERE r.id = $1 AND a.hospital_id = $2`
	var resp model.AlertResponse
	if err := r.db.GetContext(ctx, &resp, query, id, hospitalID); err != nil {
		return nil, translateErr(err)
	}
	return &resp, nil
}

func (r *alertResponseRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.AlertResponse, error) {
	query := `SELECT ` + alertResponseColumns + alertResponseJoins + `
		WHERE a.hospital_id = $1
		ORDER BY r.responded_at DESC
		LIMIT $2`
	var resps []*model.AlertResponse
	if err := r.db.SelectContext(ctx, &resps, query, hospitalID, limit); err != nil {
		return nil, fmt.Errorf("failed to list alert responses: %w", err)
	}
	return resps, nil
}

func (r *alertResponseRepository) CountPendingByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM alert_responses r
		JOIN donor_alerts a ON a.id = r.alert_id
		WHERE a.hospital_id = $1 AND r.status = $2
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, hospitalID, model.ResponsePending); err != nil {
		return 0, fmt.Errorf("failed to count pending responses: %w", err)
	}
	return count, nil
}

func (r *alertResponseRepository) RecordDecision(ctx context.Context, id uuid.UUID, decision model.Decision, reviewedBy uuid.UUID, reason string) error {
	query := `
		UPDATE alert_responses
		SET status = $1, reviewed_by = $2, reviewed_at = $3,
			rejection_reason = $4, updated_at = $3
		WHERE id = $5 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		model.ResponseStatus(decision),
		reviewedBy,
		time.Now(),
		reason,
		id,
		model.ResponsePending,
	)
	if err != nil {
		return fmt.Errorf("failed to record response decision: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM alert_responses WHERE id = $1)`
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
