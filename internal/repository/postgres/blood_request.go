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

type bloodRequestRepository struct {
	BaseRepository
}

func NewBloodRequestRepository(db *sqlx.DB) repository.BloodRequestRepository {
	return &bloodRequestRepository{BaseRepository: NewBaseRepository(db)}
}

const bloodRequestColumns = `
	r.id, r.patient_id, r.hospital_id, r.blood_group, r.units_needed,
	r.request_type, r.emergency_reason, r.emergency_justification, r.required_by,
	r.doctor_name, r.doctor_contact, r.medical_condition,
	r.status, r.reviewed_by, r.reviewed_at, r.rejection_reason,
	r.admin_approved, r.admin_approved_by, r.admin_approved_at, r.admin_notes,
	r.created_at, r.updated_at,
	u.first_name || ' ' || u.last_name AS patient_name,
	u.phone AS patient_phone,
	u.id AS patient_user_id,
	h.hospital_name,
	h.city AS hospital_city,
	h.state AS hospital_state,
	h.authorized_person_mobile AS hospital_contact
`

const bloodRequestJoins = `
	FROM blood_requests r
	JOIN patient_profiles pp ON pp.id = r.patient_id
	JOIN users u ON u.id = pp.user_id
	JOIN hospital_profiles h ON h.id = r.hospital_id
`

func (r *bloodRequestRepository) Create(ctx context.Context, req *model.BloodRequest) error {
	query := `
		INSERT INTO blood_requests (id, patient_id, hospital_id, blood_group,
			units_needed, request_type, emergency_reason, emergency_justification,
			required_by, doctor_name, doctor_contact, medical_condition, status,
			rejection_reason, admin_approved, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18)
	`
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = model.RequestPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.PatientID,
		req.HospitalID,
		req.BloodGroup,
		req.UnitsNeeded,
		req.RequestType,
		req.EmergencyReason,
		req.EmergencyJustification,
		req.RequiredBy,
		req.DoctorName,
		req.DoctorContact,
		req.MedicalCondition,
		req.Status,
		req.RejectionReason,
		req.AdminApproved,
		req.AdminNotes,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blood request: %w", translateErr(err))
	}
	return nil
}

func (r *bloodRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	query := `SELECT ` + bloodRequestColumns + bloodRequestJoins + ` WHERE r.id = $1`
	var req model.BloodRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &req, nil
}

func (r *bloodRequestRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.BloodRequest, error) {
	query := `SELECT ` + bloodRequestColumns + bloodRequestJoins + `
		WHERE r.patient_id = $1
		ORDER BY r.created_at DESC`
	var reqs []*model.BloodRequest
	if err := r.db.SelectContext(ctx, &reqs, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient requests: %w", err)
	}
	return reqs, nil
}

func (r *bloodRequestRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.BloodRequest, error) {
	query := `SELECT ` + bloodRequestColumns + bloodRequestJoins + `
		WHERE r.hospital_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2`
	var reqs []*model.BloodRequest
	if err := r.db.SelectContext(ctx, &reqs, query, hospitalID, limit); err != nil {
		return nil, fmt.Errorf("failed to list hospital requests: %w", err)
	}
	return reqs, nil
}

func (r *bloodRequestRepository) ListPendingEmergencies(ctx context.Context) ([]*model.BloodRequest, error) {
	query := `SELECT ` + bloodRequestColumns + bloodRequestJoins + `
		WHERE r.request_type IN ($1, $2)
			AND r.admin_approved = FALSE
			AND r.status <> $3
		ORDER BY r.created_at ASC`
	var reqs []*model.BloodRequest
	err := r.db.SelectContext(ctx, &reqs, query,
		model.RequestEmergency, model.RequestDisaster, model.RequestRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending emergencies: %w", err)
	}
	return reqs, nil
}

func (r *bloodRequestRepository) ListRecentEmergencies(ctx context.Context, limit int) ([]*model.BloodRequest, error) {
	query := `SELECT ` + bloodRequestColumns + bloodRequestJoins + `
		WHERE r.request_type IN ($1, $2)
		ORDER BY r.created_at DESC
		LIMIT $3`
	var reqs []*model.BloodRequest
	err := r.db.SelectContext(ctx, &reqs, query,
		model.RequestEmergency, model.RequestDisaster, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent emergencies: %w", err)
	}
	return reqs, nil
}

// ApproveByAdmin flips admin_approved and its audit fields. The request
// status column is deliberately not touched here.
func (r *bloodRequestRepository) ApproveByAdmin(ctx context.Context, id, adminID uuid.UUID, notes string) error {
	query := `
		UPDATE blood_requests
		SET admin_approved = TRUE, admin_approved_by = $1, admin_approved_at = $2,
			admin_notes = $3, updated_at = $2
		WHERE id = $4 AND admin_approved = FALSE AND status <> $5
	`
	res, err := r.db.ExecContext(ctx, query, adminID, time.Now(), notes, id, model.RequestRejected)
	if err != nil {
		return fmt.Errorf("failed to approve blood request: %w", err)
	}
	return r.decisionOutcome(ctx, res, id)
}

// RejectByAdmin sets status and review fields. The admin_approved flag is
// deliberately not touched here.
func (r *bloodRequestRepository) RejectByAdmin(ctx context.Context, id, adminID uuid.UUID, notes string) error {
	query := `
		UPDATE blood_requests
		SET status = $1, rejection_reason = $2, reviewed_by = $3,
			reviewed_at = $4, updated_at = $4
		WHERE id = $5 AND admin_approved = FALSE AND status <> $1
	`
	res, err := r.db.ExecContext(ctx, query,
		model.RequestRejected, notes, adminID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to reject blood request: %w", err)
	}
	return r.decisionOutcome(ctx, res, id)
}

func (r *bloodRequestRepository) decisionOutcome(ctx context.Context, res interface{ RowsAffected() (int64, error) }, id uuid.UUID) error {
	if affected, _ := res.RowsAffected(); affected > 0 {
		return nil
	}
	var exists bool
	check := `SELECT EXISTS (SELECT 1 FROM blood_requests WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, check, id); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrAlreadyDecided
}

func (r *bloodRequestRepository) Cancel(ctx context.Context, id, patientID uuid.UUID) error {
	query := `
		UPDATE blood_requests
		SET status = $1, updated_at = $2
		WHERE id = $3 AND patient_id = $4 AND status IN ($5, $6)
	`
	res, err := r.db.ExecContext(ctx, query,
		model.RequestCancelled, time.Now(), id, patientID,
		model.RequestPending, model.RequestApproved)
	if err != nil {
		return fmt.Errorf("failed to cancel blood request: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM blood_requests WHERE id = $1 AND patient_id = $2)`
		if err := r.db.GetContext(ctx, &exists, check, id, patientID); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrAlreadyDecided
	}
	return nil
}

func (r *bloodRequestRepository) CountByPatient(ctx context.Context, patientID uuid.UUID) (total, active, emergency int, err error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status IN ('PENDING', 'APPROVED')) AS active,
			COUNT(*) FILTER (WHERE request_type IN ('EMERGENCY', 'DISASTER')) AS emergency
		FROM blood_requests
		WHERE patient_id = $1
	`
	row := struct {
		Total     int `db:"total"`
		Active    int `db:"active"`
		Emergency int `db:"emergency"`
	}{}
	if err = r.db.GetContext(ctx, &row, query, patientID); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count patient requests: %w", err)
	}
	return row.Total, row.Active, row.Emergency, nil
}

func (r *bloodRequestRepository) CountActiveByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM blood_requests
		WHERE hospital_id = $1 AND status IN ($2, $3)
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, hospitalID, model.RequestPending, model.RequestApproved); err != nil {
		return 0, fmt.Errorf("failed to count hospital requests: %w", err)
	}
	return count, nil
}

func (r *bloodRequestRepository) CountPendingEmergencies(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM blood_requests
		WHERE request_type IN ($1, $2) AND admin_approved = FALSE AND status <> $3
	`
	var count int
	err := r.db.GetContext(ctx, &count, query,
		model.RequestEmergency, model.RequestDisaster, model.RequestRejected)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending emergencies: %w", err)
	}
	return count, nil
}

func (r *bloodRequestRepository) CountByStatus(ctx context.Context) (map[model.RequestStatus]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM blood_requests GROUP BY status`
	rows := []struct {
		Status model.RequestStatus `db:"status"`
		Count  int                 `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	counts := make(map[model.RequestStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
