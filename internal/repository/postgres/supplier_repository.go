package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

func (s *Store) FindOrCreateSupplier(ctx context.Context, organizationID, name string) (*domain.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	query := `
		INSERT INTO suppliers (id, organization_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (organization_id, name) DO UPDATE
		SET name = EXCLUDED.name
		RETURNING id, organization_id, name, lead_time_days, moq, created_at
	`

	var supplier domain.Supplier
	if err := s.db.GetContext(ctx, &supplier, query, uuid.NewString(), organizationID, name); err != nil {
		return nil, fmt.Errorf("failed to upsert supplier %q: %w", name, err)
	}

	return &supplier, nil
}

func (s *Store) ListSuppliers(ctx context.Context, organizationID string) ([]domain.Supplier, error) {
	query := `
		SELECT id, organization_id, name, lead_time_days, moq, created_at
		FROM suppliers
		WHERE organization_id = $1
		ORDER BY name
	`

	suppliers := make([]domain.Supplier, 0)
	if err := s.db.SelectContext(ctx, &suppliers, query, organizationID); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}
