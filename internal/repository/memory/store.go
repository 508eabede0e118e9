package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository"
)

// Store is an in-process repository.Store. It backs offline CLI runs and tests.
type Store struct {
	mu        sync.RWMutex
	analyses  map[string]domain.Analysis
	products  map[string][]domain.Product
	sales     map[string][]domain.CanonicalSalesRow
	settings  map[string]domain.Settings
	suppliers map[string]domain.Supplier
}

func NewStore() *Store {
	return &Store{
		analyses:  make(map[string]domain.Analysis),
		products:  make(map[string][]domain.Product),
		sales:     make(map[string][]domain.CanonicalSalesRow),
		settings:  make(map[string]domain.Settings),
		suppliers: make(map[string]domain.Supplier),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) CreateAnalysis(ctx context.Context, a *domain.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = domain.AnalysisPending
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	s.analyses[a.ID] = *a

	return nil
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (s *Store) UpdateAnalysisStatus(ctx context.Context, id string, status domain.AnalysisStatus, totalRows, totalProducts int, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.analyses[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.TotalRows = totalRows
	a.TotalProducts = totalProducts
	a.ErrorMessage = errMsg
	a.UpdatedAt = time.Now().UTC()
	s.analyses[id] = a

	return nil
}

// Analyses returns every analysis, oldest first
func (s *Store) Analyses() []domain.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out
}

func (s *Store) SaveSales(ctx context.Context, analysisID string, rows []domain.CanonicalSalesRow, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sales[analysisID] = append([]domain.CanonicalSalesRow(nil), rows...)

	stored := make([]domain.Product, len(products))
	for i, p := range products {
		p.AnalysisID = analysisID
		stored[i] = p
	}
	s.products[analysisID] = stored

	return nil
}

// Sales returns the rows saved for an analysis
func (s *Store) Sales(analysisID string) []domain.CanonicalSalesRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sales[analysisID]
}

func (s *Store) ListDemand(ctx context.Context, analysisID string, limit int) ([]domain.ProductDemand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := append([]domain.Product(nil), s.products[analysisID]...)
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}

	out := make([]domain.ProductDemand, 0, len(products))
	for _, p := range products {
		d := domain.ProductDemand{
			ProductID:      p.ID,
			ProductName:    p.Name,
			AvgDailyDemand: p.AvgDailyDemand,
			CurrentStock:   p.CurrentStock,
		}
		if p.SupplierID != nil {
			if sup, ok := s.suppliers[*p.SupplierID]; ok {
				name := sup.Name
				d.SupplierName = &name
				d.SupplierLeadTimeDays = sup.LeadTimeDays
				d.SupplierMOQ = sup.MOQ
			}
		}
		out = append(out, d)
	}

	return out, nil
}

func (s *Store) UpdateDemand(ctx context.Context, updates []repository.DemandUpdate, forecastedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]float64, len(updates))
	for _, u := range updates {
		byID[u.ProductID] = u.AvgDailyDemand
	}

	for analysisID, products := range s.products {
		for i := range products {
			avg, ok := byID[products[i].ID]
			if !ok {
				continue
			}
			at := forecastedAt
			products[i].AvgDailyDemand = &avg
			products[i].ForecastedAt = &at
		}
		s.products[analysisID] = products
	}

	return nil
}

func (s *Store) GetSettings(ctx context.Context, organizationID string) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.settings[organizationID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (s *Store) UpsertSettings(ctx context.Context, settings *domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.UpdatedAt = time.Now().UTC()
	s.settings[settings.OrganizationID] = *settings

	return nil
}

func (s *Store) FindOrCreateSupplier(ctx context.Context, organizationID, name string) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	for _, sup := range s.suppliers {
		if sup.OrganizationID == organizationID && sup.Name == name {
			return &sup, nil
		}
	}

	sup := domain.Supplier{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
	}
	s.suppliers[sup.ID] = sup

	return &sup, nil
}

func (s *Store) ListSuppliers(ctx context.Context, organizationID string) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Supplier, 0)
	for _, sup := range s.suppliers {
		if sup.OrganizationID == organizationID {
			out = append(out, sup)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// SetSupplierTerms sets the lead time and MOQ overrides of a supplier
func (s *Store) SetSupplierTerms(id string, leadTimeDays, moq *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return false
	}
	sup.LeadTimeDays = leadTimeDays
	sup.MOQ = moq
	s.suppliers[id] = sup

	return true
}
