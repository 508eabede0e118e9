package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

// ErrNotFound is returned when a lookup by id matches nothing
var ErrNotFound = errors.New("not found")

type AnalysisRepository interface {
	CreateAnalysis(ctx context.Context, a *domain.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error)
	UpdateAnalysisStatus(ctx context.Context, id string, status domain.AnalysisStatus, totalRows, totalProducts int, errMsg *string) error
}

type SalesRepository interface {
	// SaveSales stores the canonical rows and the products derived from them
	// in one transaction
	SaveSales(ctx context.Context, analysisID string, rows []domain.CanonicalSalesRow, products []domain.Product) error
}

type ProductRepository interface {
	ListDemand(ctx context.Context, analysisID string, limit int) ([]domain.ProductDemand, error)
	UpdateDemand(ctx context.Context, updates []DemandUpdate, forecastedAt time.Time) error
}

// DemandUpdate replaces the demand signal of one product
type DemandUpdate struct {
	ProductID      string
	AvgDailyDemand float64
}

type SettingsRepository interface {
	// GetSettings returns nil, nil when the organization has no settings row
	GetSettings(ctx context.Context, organizationID string) (*domain.Settings, error)
	UpsertSettings(ctx context.Context, s *domain.Settings) error
}

type SupplierRepository interface {
	FindOrCreateSupplier(ctx context.Context, organizationID, name string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, organizationID string) ([]domain.Supplier, error)
}

// Store bundles every repository the services need
type Store interface {
	AnalysisRepository
	SalesRepository
	ProductRepository
	SettingsRepository
	SupplierRepository
}
