package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/repository"
)

// TariffRepository is a PostgreSQL implementation of
// repository.TariffRepository. Tier tables are stored as JSONB; the
// schedule is read and written as a unit.
type TariffRepository struct {
	q Querier
}

// NewTariffRepository creates a new PostgreSQL tariff repository.
func NewTariffRepository(db *sql.DB) *TariffRepository {
	return &TariffRepository{q: db}
}

// NewTariffRepositoryWithTx creates a tariff repository using a
// transaction.
func NewTariffRepositoryWithTx(tx *sql.Tx) *TariffRepository {
	return &TariffRepository{q: tx}
}

// GetByCode retrieves the schedule for a fare-region code.
func (r *TariffRepository) GetByCode(ctx context.Context, code domain.RegionCode) (*domain.RegionFare, error) {
	query := `
		SELECT code, display_name, tiers, surcharge_amount, is_user_created
		FROM region_fares WHERE code = $1
	`

	var (
		fare     domain.RegionFare
		codeStr  string
		tiersRaw []byte
	)
	err := r.q.QueryRowContext(ctx, query, string(code)).Scan(
		&codeStr,
		&fare.DisplayName,
		&tiersRaw,
		&fare.SurchargeAmount,
		&fare.IsUserCreated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	fare.Code = domain.RegionCode(codeStr)
	if err := json.Unmarshal(tiersRaw, &fare.Tiers); err != nil {
		return nil, err
	}
	return &fare, nil
}

// List retrieves every configured schedule.
func (r *TariffRepository) List(ctx context.Context) ([]*domain.RegionFare, error) {
	query := `
		SELECT code, display_name, tiers, surcharge_amount, is_user_created
		FROM region_fares ORDER BY code
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fares []*domain.RegionFare
	for rows.Next() {
		var (
			fare     domain.RegionFare
			codeStr  string
			tiersRaw []byte
		)
		if err := rows.Scan(&codeStr, &fare.DisplayName, &tiersRaw, &fare.SurchargeAmount, &fare.IsUserCreated); err != nil {
			return nil, err
		}
		fare.Code = domain.RegionCode(codeStr)
		if err := json.Unmarshal(tiersRaw, &fare.Tiers); err != nil {
			return nil, err
		}
		fares = append(fares, &fare)
	}
	return fares, rows.Err()
}

// Upsert creates or replaces a schedule.
func (r *TariffRepository) Upsert(ctx context.Context, fare *domain.RegionFare) error {
	tiers, err := json.Marshal(fare.Tiers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO region_fares (code, display_name, tiers, surcharge_amount, is_user_created)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			tiers = EXCLUDED.tiers,
			surcharge_amount = EXCLUDED.surcharge_amount,
			is_user_created = EXCLUDED.is_user_created
	`
	_, err = r.q.ExecContext(ctx, query,
		string(fare.Code),
		fare.DisplayName,
		tiers,
		fare.SurchargeAmount,
		fare.IsUserCreated,
	)
	return err
}

// Delete removes a schedule.
func (r *TariffRepository) Delete(ctx context.Context, code domain.RegionCode) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM region_fares WHERE code = $1`, string(code))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
