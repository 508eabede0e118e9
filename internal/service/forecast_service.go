package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Adriano-luizello/Profeta-sub001/internal/cache"
	"github.com/Adriano-luizello/Profeta-sub001/internal/forecast"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository"
)

type forecastRepository interface {
	repository.AnalysisRepository
	repository.ProductRepository
}

// ForecastService replaces the historical demand rate of an analysis with
// the forecast-based one
type ForecastService struct {
	repo       forecastRepository
	forecaster forecast.Forecaster
	cache      cache.SupplyChainCache
	now        func() time.Time
}

func NewForecastService(repo forecastRepository, forecaster forecast.Forecaster, cacheImpl cache.SupplyChainCache, now func() time.Time) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSupplyChainCache()
	}
	if now == nil {
		now = time.Now
	}
	return &ForecastService{repo: repo, forecaster: forecaster, cache: cacheImpl, now: now}
}

// RefreshResult reports how many products got a new demand signal
type RefreshResult struct {
	AnalysisID      string `json:"analysis_id"`
	Forecasted      int    `json:"forecasted"`
	WithoutForecast int    `json:"without_forecast"`
}

// Refresh generates a forecast for the analysis, or reuses a stored one when
// reuse is set, and writes the per-product demand rates back
func (s *ForecastService) Refresh(ctx context.Context, analysisID string, reuse bool) (*RefreshResult, error) {
	if _, err := s.repo.GetAnalysis(ctx, analysisID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}

	var resp *forecast.Response
	var err error
	if reuse {
		resp, err = s.forecaster.Get(ctx, analysisID)
	}
	if err == nil && resp == nil {
		if !s.forecaster.Health(ctx) {
			return nil, ErrForecastUnavailable
		}
		resp, err = s.forecaster.Generate(ctx, forecast.Request{
			AnalysisID: analysisID,
			ByProduct:  true,
			ByCategory: true,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: forecast for %s: %w", ErrForecastUnavailable, analysisID, err)
	}

	result := &RefreshResult{AnalysisID: analysisID}
	updates := make([]repository.DemandUpdate, 0, len(resp.ProductForecasts))
	for _, pf := range resp.ProductForecasts {
		avg := pf.AverageDailyDemand()
		if avg == nil {
			result.WithoutForecast++
			continue
		}
		updates = append(updates, repository.DemandUpdate{ProductID: pf.ProductID, AvgDailyDemand: *avg})
	}
	result.Forecasted = len(updates)

	if err := s.repo.UpdateDemand(ctx, updates, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateAnalysis(ctx, analysisID); err != nil {
		log.Warn().Err(err).Str("analysis_id", analysisID).Msg("forecast: cache invalidation failed")
	}

	log.Info().
		Str("analysis_id", analysisID).
		Int("forecasted", result.Forecasted).
		Int("without_forecast", result.WithoutForecast).
		Msg("forecast: demand refreshed")

	return result, nil
}
