package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository"
)

func (s *Store) SaveSales(ctx context.Context, analysisID string, rows []domain.CanonicalSalesRow, products []domain.Product) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		// 1. Replace any previous import of the same analysis
		if _, err := tx.ExecContext(ctx, `DELETE FROM sales_history WHERE analysis_id = $1`, analysisID); err != nil {
			return fmt.Errorf("failed to clear sales history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE analysis_id = $1`, analysisID); err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}

		// 2. Products
		productStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (
				id, analysis_id, name, sku, category, supplier_id,
				current_stock, avg_daily_demand
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare product statement: %w", err)
		}
		defer productStmt.Close()

		for _, p := range products {
			if _, err := productStmt.ExecContext(ctx,
				p.ID, analysisID, p.Name, p.SKU, p.Category, p.SupplierID,
				p.CurrentStock, p.AvgDailyDemand,
			); err != nil {
				return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
			}
		}

		// 3. Sales rows
		salesStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales_history (
				analysis_id, sale_date, product, quantity, price,
				category, sku, supplier, stock
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare sales statement: %w", err)
		}
		defer salesStmt.Close()

		for i, r := range rows {
			if _, err := salesStmt.ExecContext(ctx,
				analysisID, r.Date, r.Product, r.Quantity, r.Price,
				r.Category, r.SKU, r.Supplier, r.Stock,
			); err != nil {
				return fmt.Errorf("failed to insert sales row %d: %w", i+1, err)
			}
		}

		return nil
	})
}

func (s *Store) ListDemand(ctx context.Context, analysisID string, limit int) ([]domain.ProductDemand, error) {
	if limit <= 0 {
		limit = 500
	}

	query := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			sup.name AS supplier_name,
			p.avg_daily_demand,
			p.current_stock,
			sup.lead_time_days AS supplier_lead_time_days,
			sup.moq AS supplier_moq
		FROM products p
		LEFT JOIN suppliers sup ON sup.id = p.supplier_id
		WHERE p.analysis_id = $1
		ORDER BY p.name
		LIMIT $2
	`

	demand := make([]domain.ProductDemand, 0)
	if err := s.db.SelectContext(ctx, &demand, query, analysisID, limit); err != nil {
		return nil, fmt.Errorf("failed to list product demand: %w", err)
	}

	return demand, nil
}

func (s *Store) UpdateDemand(ctx context.Context, updates []repository.DemandUpdate, forecastedAt time.Time) error {
	if len(updates) == 0 {
		return nil
	}

	ids := make([]string, len(updates))
	values := make([]float64, len(updates))
	for i, u := range updates {
		ids[i] = u.ProductID
		values[i] = u.AvgDailyDemand
	}

	query := `
		UPDATE products p
		SET avg_daily_demand = u.avg_daily_demand, forecasted_at = $3
		FROM unnest($1::uuid[], $2::float8[]) AS u(id, avg_daily_demand)
		WHERE p.id = u.id
	`

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, pq.Array(ids), pq.Array(values), forecastedAt); err != nil {
			return fmt.Errorf("failed to update product demand: %w", err)
		}
		return nil
	})
}
