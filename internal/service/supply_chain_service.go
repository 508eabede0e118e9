package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Adriano-luizello/Profeta-sub001/internal/cache"
	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/recommendation"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

type supplyChainRepository interface {
	repository.AnalysisRepository
	repository.ProductRepository
	repository.SettingsRepository
}

type SupplyChainService struct {
	repo         supplyChainRepository
	cache        cache.SupplyChainCache
	defaults     supplychain.Params
	productLimit int
	now          func() time.Time
}

// NewSupplyChainService builds the supply-chain view. defaults is the policy
// of organizations without settings; now anchors stockout dates.
func NewSupplyChainService(repo supplyChainRepository, cacheImpl cache.SupplyChainCache, defaults supplychain.Params, productLimit int, now func() time.Time) *SupplyChainService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSupplyChainCache()
	}
	if now == nil {
		now = time.Now
	}
	return &SupplyChainService{
		repo:         repo,
		cache:        cacheImpl,
		defaults:     defaults.WithDefaults(),
		productLimit: productLimit,
		now:          now,
	}
}

// Params returns the effective policy of an organization
func (s *SupplyChainService) Params(ctx context.Context, organizationID string) (supplychain.Params, error) {
	settings, err := s.repo.GetSettings(ctx, organizationID)
	if err != nil {
		return supplychain.Params{}, err
	}
	return s.defaults.Overlay(settings), nil
}

func (s *SupplyChainService) Metrics(ctx context.Context, analysisID string) ([]supplychain.Metrics, error) {
	metrics, _, err := s.metrics(ctx, analysisID)
	return metrics, err
}

func (s *SupplyChainService) Summary(ctx context.Context, analysisID string) (*domain.SupplyChainSummary, error) {
	metrics, _, err := s.metrics(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	summary := supplychain.Summarize(analysisID, metrics)
	return &summary, nil
}

func (s *SupplyChainService) Recommendations(ctx context.Context, analysisID string) ([]recommendation.GeneratedRecommendation, error) {
	metrics, p, err := s.metrics(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	return recommendation.Generate(recommendation.FromMetrics(metrics), p), nil
}

func (s *SupplyChainService) metrics(ctx context.Context, analysisID string) ([]supplychain.Metrics, supplychain.Params, error) {
	analysis, err := s.repo.GetAnalysis(ctx, analysisID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, supplychain.Params{}, ErrAnalysisNotFound
		}
		return nil, supplychain.Params{}, err
	}

	p, err := s.Params(ctx, analysis.OrganizationID)
	if err != nil {
		return nil, supplychain.Params{}, err
	}

	now := s.now()
	if metrics, ok, err := s.cache.GetMetrics(ctx, analysisID, p, now); err == nil && ok {
		return metrics, p, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("supply chain: cache get metrics failed")
	}

	products, err := s.repo.ListDemand(ctx, analysisID, s.productLimit)
	if err != nil {
		return nil, supplychain.Params{}, err
	}

	metrics := supplychain.BuildMetrics(analysisID, products, p, now)

	if err := s.cache.SetMetrics(ctx, analysisID, p, now, metrics); err != nil {
		log.Warn().Err(err).Msg("supply chain: cache set metrics failed")
	}

	return metrics, p, nil
}
