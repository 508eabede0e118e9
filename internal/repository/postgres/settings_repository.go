package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

func (s *Store) GetSettings(ctx context.Context, organizationID string) (*domain.Settings, error) {
	query := `
		SELECT organization_id, lead_time_days, moq,
			safety_stock_multiplier, stockout_warning_days, updated_at
		FROM settings
		WHERE organization_id = $1
	`

	var settings domain.Settings
	if err := s.db.GetContext(ctx, &settings, query, organizationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &settings, nil
}

func (s *Store) UpsertSettings(ctx context.Context, settings *domain.Settings) error {
	settings.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO settings (
			organization_id, lead_time_days, moq,
			safety_stock_multiplier, stockout_warning_days, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (organization_id)
		DO UPDATE SET
			lead_time_days = EXCLUDED.lead_time_days,
			moq = EXCLUDED.moq,
			safety_stock_multiplier = EXCLUDED.safety_stock_multiplier,
			stockout_warning_days = EXCLUDED.stockout_warning_days,
			updated_at = EXCLUDED.updated_at
	`

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureOrganization(ctx, tx, settings.OrganizationID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			settings.OrganizationID, settings.LeadTimeDays, settings.MOQ,
			settings.SafetyStockMultiplier, settings.StockoutWarningDays, settings.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert settings: %w", err)
		}
		return nil
	})
}
