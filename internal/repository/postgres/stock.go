package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
)

type stockRepository struct {
	BaseRepository
}

func NewStockRepository(db *sqlx.DB) repository.StockRepository {
	return &stockRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *stockRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.BloodStock, error) {
	query := `SELECT * FROM blood_stocks WHERE hospital_id = $1 ORDER BY blood_group ASC`
	var stocks []*model.BloodStock
	if err := r.db.SelectContext(ctx, &stocks, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list blood stock: %w", err)
	}
	return stocks, nil
}

func (r *stockRepository) GetOrCreate(ctx context.Context, hospitalID uuid.UUID, bloodGroup string) (*model.BloodStock, error) {
	query := `SELECT * FROM blood_stocks WHERE hospital_id = $1 AND blood_group = $2`
	var stock model.BloodStock
	err := r.db.GetContext(ctx, &stock, query, hospitalID, bloodGroup)
	if err == nil {
		return &stock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	insert := `
		INSERT INTO blood_stocks (id, hospital_id, blood_group, units_available,
			units_reserved, last_updated)
		VALUES ($1, $2, $3, 0, 0, $4)
		ON CONFLICT (hospital_id, blood_group) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, uuid.New(), hospitalID, bloodGroup, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to create stock row: %w", err)
	}
	if err := r.db.GetContext(ctx, &stock, query, hospitalID, bloodGroup); err != nil {
		return nil, translateErr(err)
	}
	return &stock, nil
}

func (r *stockRepository) Update(ctx context.Context, stock *model.BloodStock) error {
	query := `
		UPDATE blood_stocks
		SET units_available = $1, units_reserved = $2, last_updated = $3
		WHERE id = $4
	`
	stock.LastUpdated = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		stock.UnitsAvailable,
		stock.UnitsReserved,
		stock.LastUpdated,
		stock.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update blood stock: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *stockRepository) TotalByHospital(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(SUM(units_available), 0) FROM blood_stocks WHERE hospital_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, hospitalID); err != nil {
		return 0, fmt.Errorf("failed to total blood stock: %w", err)
	}
	return total, nil
}

func (r *stockRepository) GroupTotals(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT blood_group, COALESCE(SUM(units_available), 0) AS total
		FROM blood_stocks
		GROUP BY blood_group
	`
	rows := []struct {
		BloodGroup string `db:"blood_group"`
		Total      int    `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to total blood groups: %w", err)
	}
	totals := make(map[string]int, len(model.BloodGroups))
	for _, bg := range model.BloodGroups {
		totals[bg] = 0
	}
	for _, row := range rows {
		totals[row.BloodGroup] = row.Total
	}
	return totals, nil
}
