package postgres

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
)

type exchangeRepository struct {
	BaseRepository
}

func NewExchangeRepository(db *sqlx.DB) repository.ExchangeRepository {
	return &exchangeRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *exchangeRepository) Create(ctx context.Context, ex *model.Exchange) error {
	query := `
		INSERT INTO blood_exchanges (id, requesting_hospital_id, providing_hospital_id,
			blood_group, units_requested, units_approved, reason, urgency, required_by,
			status, requested_at, requested_by, response_notes, completion_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	ex.Status = model.ExchangePending
	ex.RequestedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		ex.ID,
		ex.RequestingHospitalID,
		ex.ProvidingHospitalID,
		ex.BloodGroup,
		ex.UnitsRequested,
		ex.UnitsApproved,
		ex.Reason,
		ex.Urgency,
		ex.RequiredBy,
		ex.Status,
		ex.RequestedAt,
		ex.RequestedBy,
		ex.ResponseNotes,
		ex.CompletionNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to create exchange: %w", translateErr(err))
	}
	return nil
}

func (r *exchangeRepository) GetByIDAndProvider(ctx context.Context, id, providerID uuid.UUID) (*model.Exchange, error) {
	query := `SELECT * FROM blood_exchanges WHERE id = $1 AND providing_hospital_id = $2`
	var ex model.Exchange
	if err := r.db.GetContext(ctx, &ex, query, id, providerID); err != nil {
		return nil, translateErr(err)
	}
	return &ex, nil
}

func (r *exchangeRepository) ListSent(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.Exchange, error) {
	query := `
		SELECT e.*, h.hospital_name
		FROM blood_exchanges e
		JOIN hospital_profiles h ON h.id = e.providing_hospital_id
		WHERE e.requesting_hospital_id = $1
		ORDER BY e.requested_at DESC
		LIMIT $2
	`
	var exchanges []*model.Exchange
	if err := r.db.SelectContext(ctx, &exchanges, query, hospitalID, limit); err != nil {
		return nil, fmt.Errorf("failed to list sent exchanges: %w", err)
	}
	return exchanges, nil
}

func (r *exchangeRepository) ListReceived(ctx context.Context, hospitalID uuid.UUID, limit int) ([]*model.Exchange, error) {
	query := `
		SELECT e.*, h.hospital_name
		FROM blood_exchanges e
		JOIN hospital_profiles h ON h.id = e.requesting_hospital_id
		WHERE e.providing_hospital_id = $1
		ORDER BY e.requested_at DESC
		LIMIT $2
	`
	var exchanges []*model.Exchange
	if err := r.db.SelectContext(ctx, &exchanges, query, hospitalID, limit); err != nil {
		return nil, fmt.Errorf("failed to list received exchanges: %w", err)
	}
	return exchanges, nil
}

func (r *exchangeRepository) Reject(ctx context.Context, id uuid.UUID, respondedBy uuid.UUID, notes string) error {
	query := `
		UPDATE blood_exchanges
		SET status = $1, responded_by = $2, responded_at = $3, response_notes = $4
		WHERE id = $5 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		model.ExchangeRejected,
		respondedBy,
		time.Now(),
		notes,
		id,
		model.ExchangePending,
	)
	if err != nil {
		return fmt.Errorf("failed to reject exchange: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrAlreadyDecided
	}
	return nil
}

func (r *exchangeRepository) ApproveAndTransfer(ctx context.Context, ex *model.Exchange, unitsApproved int, respondedBy uuid.UUID, notes string) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()

		// Claim the pending exchange first so concurrent responders settle on
		// one winner before any stock rows are locked.
		claim := `
			UPDATE blood_exchanges
			SET status = $1, units_approved = $2, responded_by = $3,
				responded_at = $4, response_notes = $5
			WHERE id = $6 AND status = $7
		`
		res, err := tx.ExecContext(ctx, claim,
			model.ExchangeApproved,
			unitsApproved,
			respondedBy,
			now,
			notes,
			ex.ID,
			model.ExchangePending,
		)
		if err != nil {
			return fmt.Errorf("failed to approve exchange: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return repository.ErrAlreadyDecided
		}

		provider, requester, err := lockStockPair(ctx, tx,
			ex.ProvidingHospitalID, ex.RequestingHospitalID, ex.BloodGroup)
		if err != nil {
			return err
		}

		if provider.UnitsAvailable < unitsApproved {
			return repository.ErrInsufficientStock
		}

		move := `UPDATE blood_stocks SET units_available = units_available + $1, last_updated = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, move, -unitsApproved, now, provider.ID); err != nil {
			return fmt.Errorf("failed to debit provider stock: %w", err)
		}
		if _, err := tx.ExecContext(ctx, move, unitsApproved, now, requester.ID); err != nil {
			return fmt.Errorf("failed to credit requester stock: %w", err)
		}

		complete := `
			UPDATE blood_exchanges
			SET status = $1, completed_at = $2, completion_notes = $3
			WHERE id = $4
		`
		completionNote := fmt.Sprintf("%d units of %s transferred", unitsApproved, ex.BloodGroup)
		if _, err := tx.ExecContext(ctx, complete, model.ExchangeCompleted, now, completionNote, ex.ID); err != nil {
			return fmt.Errorf("failed to complete exchange: %w", err)
		}
		return nil
	})
}

// lockStockPair locks both hospitals' rows for one blood group, creating
// missing rows first. Rows are locked in hospital id order so two transfers
// between the same pair cannot deadlock.
func lockStockPair(ctx context.Context, tx *sqlx.Tx, providerID, requesterID uuid.UUID, bloodGroup string) (provider, requester *model.BloodStock, err error) {
	first, second := providerID, requesterID
	if bytes.Compare(requesterID[:], providerID[:]) < 0 {
		first, second = requesterID, providerID
	}

	a, err := lockStockRow(ctx, tx, first, bloodGroup)
	if err != nil {
		return nil, nil, err
	}
	b, err := lockStockRow(ctx, tx, second, bloodGroup)
	if err != nil {
		return nil, nil, err
	}

	if a.HospitalID == providerID {
		return a, b, nil
	}
	return b, a, nil
}

func lockStockRow(ctx context.Context, tx *sqlx.Tx, hospitalID uuid.UUID, bloodGroup string) (*model.BloodStock, error) {
	insert := `
		INSERT INTO blood_stocks (id, hospital_id, blood_group, units_available,
			units_reserved, last_updated)
		VALUES ($1, $2, $3, 0, 0, $4)
		ON CONFLICT (hospital_id, blood_group) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, insert, uuid.New(), hospitalID, bloodGroup, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to seed stock row: %w", err)
	}

	query := `SELECT * FROM blood_stocks WHERE hospital_id = $1 AND blood_group = $2 FOR UPDATE`
	var stock model.BloodStock
	if err := tx.GetContext(ctx, &stock, query, hospitalID, bloodGroup); err != nil {
		return nil, fmt.Errorf("failed to lock stock row: %w", translateErr(err))
	}
	return &stock, nil
}
