package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/providers"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/observability"
)

// Default TTL (in seconds) for cached collections. Writes bump the collection
// version, so the TTL only bounds how long orphaned versions linger.
const defaultCollectionTTL = 300

const allUsersScope = "all"

// collectionCache keys list results by (kind, user, version, params). A write
// increments the version before it returns, so a list read that started before
// the write can only populate a key no later reader will ask for.
type collectionCache struct {
	kind    string
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
}

func (c collectionCache) versionKey(scope string) string {
	return fmt.Sprintf("cache:%s:%s:version", c.kind, scope)
}

func (c collectionCache) version(ctx context.Context, scope string) string {
	data, err := c.cache.Get(ctx, c.versionKey(scope))
	if err != nil {
		return "0"
	}
	return string(data)
}

func (c collectionCache) dataKey(scope, version, params string) string {
	return fmt.Sprintf("cache:%s:%s:v%s:%s", c.kind, scope, version, params)
}

// invalidate bumps the version of every scope the write touches and drops
// the superseded entries.
func (c collectionCache) invalidate(ctx context.Context, scopes ...string) {
	for _, scope := range scopes {
		version, err := c.cache.Increment(ctx, c.versionKey(scope))
		if err != nil {
			log.Warn().Err(err).Str("kind", c.kind).Str("scope", scope).Msg("Failed to bump cache version")
			// Without a new version the old entries must go now.
			if err := c.cache.DeletePattern(ctx, fmt.Sprintf("cache:%s:%s:v*", c.kind, scope)); err != nil {
				log.Error().Err(err).Str("kind", c.kind).Str("scope", scope).Msg("Failed to invalidate cached collection")
			}
			continue
		}
		stale := strconv.FormatInt(version-1, 10)
		if err := c.cache.DeletePattern(ctx, fmt.Sprintf("cache:%s:%s:v%s:*", c.kind, scope, stale)); err != nil {
			log.Warn().Err(err).Str("kind", c.kind).Str("scope", scope).Msg("Failed to delete superseded cache entries")
		}
	}
}

func readThrough[T any](ctx context.Context, c collectionCache, scope, params string, load func() ([]T, error)) ([]T, error) {
	key := c.dataKey(scope, c.version(ctx, scope), params)

	if cached, err := c.cache.Get(ctx, key); err == nil {
		var items []T
		if err := json.Unmarshal(cached, &items); err == nil {
			observability.RecordCacheHit(ctx, c.metrics, c.kind)
			return items, nil
		}
		log.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached collection")
	}

	observability.RecordCacheMiss(ctx, c.metrics, c.kind)
	items, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache collection")
		}
	}
	return items, nil
}

func newCollectionCache(kind string, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) collectionCache {
	if ttlSeconds <= 0 {
		ttlSeconds = defaultCollectionTTL
	}
	return collectionCache{kind: kind, cache: cache, ttl: ttlSeconds, metrics: metrics}
}

func userScope(userID *int64) string {
	if userID == nil {
		return allUsersScope
	}
	return strconv.FormatInt(*userID, 10)
}

// CachedVitalSignAdapter wraps a VitalSignRepository with a Redis list cache
type CachedVitalSignAdapter struct {
	adapter repositories.VitalSignRepository
	cache   collectionCache
}

// NewCachedVitalSignAdapter creates a new cached vital sign adapter
func NewCachedVitalSignAdapter(adapter repositories.VitalSignRepository, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) repositories.VitalSignRepository {
	return &CachedVitalSignAdapter{
		adapter: adapter,
		cache:   newCollectionCache(repositories.CollectionVitalSigns, cache, ttlSeconds, metrics),
	}
}

// Create writes through and invalidates the user's and the unscoped listings
func (a *CachedVitalSignAdapter) Create(ctx context.Context, vital *entities.VitalSign) error {
	if err := a.adapter.Create(ctx, vital); err != nil {
		return err
	}
	a.cache.invalidate(ctx, userScope(&vital.UserID), allUsersScope)
	return nil
}

// List retrieves vital signs, from cache when possible
func (a *CachedVitalSignAdapter) List(ctx context.Context, filter repositories.VitalSignFilter) ([]*entities.VitalSign, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repositories.DefaultVitalSignLimit
	}
	return readThrough(ctx, a.cache, userScope(filter.UserID), fmt.Sprintf("limit=%d", limit), func() ([]*entities.VitalSign, error) {
		return a.adapter.List(ctx, filter)
	})
}

// CachedMedicationAdapter wraps a MedicationRepository with a Redis list cache
type CachedMedicationAdapter struct {
	adapter repositories.MedicationRepository
	cache   collectionCache
}

// NewCachedMedicationAdapter creates a new cached medication adapter
func NewCachedMedicationAdapter(adapter repositories.MedicationRepository, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) repositories.MedicationRepository {
	return &CachedMedicationAdapter{
		adapter: adapter,
		cache:   newCollectionCache(repositories.CollectionMedications, cache, ttlSeconds, metrics),
	}
}

// Create writes through and invalidates the user's and the unscoped listings
func (a *CachedMedicationAdapter) Create(ctx context.Context, medication *entities.Medication) error {
	if err := a.adapter.Create(ctx, medication); err != nil {
		return err
	}
	a.cache.invalidate(ctx, userScope(&medication.UserID), allUsersScope)
	return nil
}

// List retrieves medications, from cache when possible
func (a *CachedMedicationAdapter) List(ctx context.Context, filter repositories.MedicationFilter) ([]*entities.Medication, error) {
	active := "any"
	if filter.IsActive != nil {
		active = strconv.FormatBool(*filter.IsActive)
	}
	return readThrough(ctx, a.cache, userScope(filter.UserID), "active="+active, func() ([]*entities.Medication, error) {
		return a.adapter.List(ctx, filter)
	})
}

// CachedConsultationAdapter wraps a ConsultationRepository with a Redis list cache
type CachedConsultationAdapter struct {
	adapter repositories.ConsultationRepository
	cache   collectionCache
}

// NewCachedConsultationAdapter creates a new cached consultation adapter
func NewCachedConsultationAdapter(adapter repositories.ConsultationRepository, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) repositories.ConsultationRepository {
	return &CachedConsultationAdapter{
		adapter: adapter,
		cache:   newCollectionCache(repositories.CollectionConsultations, cache, ttlSeconds, metrics),
	}
}

// Create writes through and invalidates the user's listings
func (a *CachedConsultationAdapter) Create(ctx context.Context, consultation *entities.Consultation) error {
	if err := a.adapter.Create(ctx, consultation); err != nil {
		return err
	}
	a.cache.invalidate(ctx, userScope(&consultation.UserID))
	return nil
}

// List retrieves consultations, from cache when possible
func (a *CachedConsultationAdapter) List(ctx context.Context, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = repositories.DefaultConsultationLimit
	}
	return readThrough(ctx, a.cache, userScope(&filter.UserID), fmt.Sprintf("limit=%d", limit), func() ([]*entities.Consultation, error) {
		return a.adapter.List(ctx, filter)
	})
}
