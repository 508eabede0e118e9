package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Adriano-luizello/Profeta-sub001/internal/cache"
	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

type SettingsService struct {
	repo     repository.SettingsRepository
	cache    cache.SupplyChainCache
	defaults supplychain.Params
}

func NewSettingsService(repo repository.SettingsRepository, cacheImpl cache.SupplyChainCache, defaults supplychain.Params) *SettingsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSupplyChainCache()
	}
	return &SettingsService{repo: repo, cache: cacheImpl, defaults: defaults.WithDefaults()}
}

// SettingsView is what the settings screen shows: the stored overrides and
// the policy actually applied
type SettingsView struct {
	Stored    *domain.Settings   `json:"stored"`
	Effective supplychain.Params `json:"effective"`
}

func (s *SettingsService) Get(ctx context.Context, organizationID string) (*SettingsView, error) {
	stored, err := s.repo.GetSettings(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	return &SettingsView{Stored: stored, Effective: s.defaults.Overlay(stored)}, nil
}

// Update stores the policy of an organization. Cached metrics of every
// analysis are dropped.
func (s *SettingsService) Update(ctx context.Context, organizationID string, update domain.Settings) (*SettingsView, error) {
	if err := validateSettings(update); err != nil {
		return nil, err
	}

	update.OrganizationID = organizationID
	if err := s.repo.UpsertSettings(ctx, &update); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Str("organization_id", organizationID).Msg("settings: cache invalidation failed")
	}

	return &SettingsView{Stored: &update, Effective: s.defaults.Overlay(&update)}, nil
}

var settingsValidator = validator.New()

func validateSettings(s domain.Settings) error {
	err := settingsValidator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s must not be negative", fe.Field()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(fields, ", "))
}
