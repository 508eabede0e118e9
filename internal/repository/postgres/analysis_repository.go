package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository"
)

// Store implements repository.Store on Postgres. Methods are grouped by
// table across this package.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) CreateAnalysis(ctx context.Context, a *domain.Analysis) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = domain.AnalysisPending
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	query := `
		INSERT INTO analyses (
			id, organization_id, file_name, format, status,
			total_rows, total_products, error_message, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := ensureOrganization(ctx, tx, a.OrganizationID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			a.ID, a.OrganizationID, a.FileName, a.Format, a.Status,
			a.TotalRows, a.TotalProducts, a.ErrorMessage, a.CreatedAt, a.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create analysis: %w", err)
		}
		return nil
	})
}

// ensureOrganization creates a placeholder organization the first time an id
// is seen. Organizations are owned by the auth layer, not by this service.
func ensureOrganization(ctx context.Context, tx *sql.Tx, id string) error {
	query := `
		INSERT INTO organizations (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, id, "organization "+id); err != nil {
		return fmt.Errorf("failed to ensure organization %s: %w", id, err)
	}
	return nil
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error) {
	query := `
		SELECT id, organization_id, file_name, format, status,
			total_rows, total_products, error_message, created_at, updated_at
		FROM analyses
		WHERE id = $1
	`

	var a domain.Analysis
	if err := s.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}

	return &a, nil
}

func (s *Store) UpdateAnalysisStatus(ctx context.Context, id string, status domain.AnalysisStatus, totalRows, totalProducts int, errMsg *string) error {
	query := `
		UPDATE analyses
		SET status = $2, total_rows = $3, total_products = $4,
			error_message = $5, updated_at = NOW()
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, id, status, totalRows, totalProducts, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update analysis %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}

	return nil
}
