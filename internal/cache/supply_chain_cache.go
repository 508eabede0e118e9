package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
)

const supplyChainKeyPrefix = "supply_chain:metrics"

// SupplyChainCache stores the computed metrics view of an analysis. Entries
// are keyed by the policy and the calendar day, since both change the output.
type SupplyChainCache interface {
	GetMetrics(ctx context.Context, analysisID string, p supplychain.Params, day time.Time) ([]supplychain.Metrics, bool, error)
	SetMetrics(ctx context.Context, analysisID string, p supplychain.Params, day time.Time, metrics []supplychain.Metrics) error
	InvalidateAnalysis(ctx context.Context, analysisID string) error
	InvalidateAll(ctx context.Context) error
}

type redisSupplyChainCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSupplyChainCache struct{}

func NewSupplyChainCache(cfg config.CacheConfig) (SupplyChainCache, error) {
	if !cfg.Enabled {
		return &noopSupplyChainCache{}, nil
	}

	client, err := connectRedis(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return &redisSupplyChainCache{
		client: client,
		ttl:    metricsTTL(cfg),
	}, nil
}

func NewNoopSupplyChainCache() SupplyChainCache {
	return &noopSupplyChainCache{}
}

func (c *redisSupplyChainCache) GetMetrics(ctx context.Context, analysisID string, p supplychain.Params, day time.Time) ([]supplychain.Metrics, bool, error) {
	key := buildSupplyChainKey(analysisID, p, day)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var metrics []supplychain.Metrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		return nil, false, fmt.Errorf("decode supply chain cache: %w", err)
	}

	return metrics, true, nil
}

func (c *redisSupplyChainCache) SetMetrics(ctx context.Context, analysisID string, p supplychain.Params, day time.Time, metrics []supplychain.Metrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode supply chain cache: %w", err)
	}

	key := buildSupplyChainKey(analysisID, p, day)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisSupplyChainCache) InvalidateAnalysis(ctx context.Context, analysisID string) error {
	return unlinkPrefix(ctx, c.client, analysisKeyPrefix(analysisID))
}

func (c *redisSupplyChainCache) InvalidateAll(ctx context.Context) error {
	return unlinkPrefix(ctx, c.client, supplyChainKeyPrefix)
}

func (n *noopSupplyChainCache) GetMetrics(ctx context.Context, analysisID string, p supplychain.Params, day time.Time) ([]supplychain.Metrics, bool, error) {
	return nil, false, nil
}

func (n *noopSupplyChainCache) SetMetrics(ctx context.Context, analysisID string, p supplychain.Params, day time.Time, metrics []supplychain.Metrics) error {
	return nil
}

func (n *noopSupplyChainCache) InvalidateAnalysis(ctx context.Context, analysisID string) error {
	return nil
}

func (n *noopSupplyChainCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func analysisKeyPrefix(analysisID string) string {
	return fmt.Sprintf("%s:%s:", supplyChainKeyPrefix, analysisID)
}

func buildSupplyChainKey(analysisID string, p supplychain.Params, day time.Time) string {
	return analysisKeyPrefix(analysisID) + paramsHash(p) + ":" + day.Format("2006-01-02")
}

func paramsHash(p supplychain.Params) string {
	raw := fmt.Sprintf("lt=%d|moq=%d|ssm=%g|warn=%d",
		p.LeadTimeDays, p.MOQ, p.SafetyStockMultiplier, p.StockoutWarningDays)

	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}
