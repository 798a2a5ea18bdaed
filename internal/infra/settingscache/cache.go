package settingscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crmd/internal/domain"
)

const DefaultTTL = time.Hour

// Client is the minimal cache transport: redis in production, Memory in
// tests and cache-less deployments.
type Client interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store is the authoritative settings store the cache reads through to.
type Store interface {
	Get(ctx context.Context, tenantID string) (*domain.GeneralSettings, error)
	Upsert(ctx context.Context, tenantID string, patch domain.SettingsPatch) (*domain.GeneralSettings, error)
}

// Cache is a read-through, invalidate-on-write cache of tenant settings
// snapshots. It never caches "no row yet": a tenant without settings is read
// from the store every time, so a first write from another path is observed
// promptly and negative entries cannot accumulate.
type Cache struct {
	store  Store
	client Client
	ttl    time.Duration
}

func New(store Store, client Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, client: client, ttl: ttl}
}

func cacheKey(tenantID string) string {
	return "general_settings:" + tenantID
}

func (c *Cache) Get(ctx context.Context, tenantID string) (*domain.GeneralSettings, error) {
	key := cacheKey(tenantID)
	raw, ok, err := c.client.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: settings cache get: %v", domain.ErrTransient, err)
	}
	if ok {
		var snap snapshot
		if unmarshalErr := json.Unmarshal([]byte(raw), &snap); unmarshalErr == nil {
			rec := snap.toDomain()
			return &rec, nil
		}
		// Undecodable entry: drop it and fall through to the store.
		if delErr := c.client.Del(ctx, key); delErr != nil {
			return nil, fmt.Errorf("%w: settings cache del: %v", domain.ErrTransient, delErr)
		}
	}

	// ErrNotFound passes through uncached so the tenant's first write from
	// any path is observed on the next read.
	rec, err := c.store.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(newSnapshot(*rec))
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, string(encoded), c.ttl); err != nil {
		return nil, fmt.Errorf("%w: settings cache set: %v", domain.ErrTransient, err)
	}
	return rec, nil
}

// evictAttempts bounds the post-write eviction retries. Past the committed
// store write the pre-write snapshot must not stay readable, so a failed Del
// is retried before the failure is surfaced.
const evictAttempts = 3

// Upsert writes through to the store, then evicts the tenant's entry before
// returning. Eviction is synchronous: once Upsert returns, no later Get can
// serve the pre-write snapshot. Invalidate-on-write is deliberate over
// update-in-place, which could publish a value computed from a pre-merge
// view racing a concurrent writer.
func (c *Cache) Upsert(ctx context.Context, tenantID string, patch domain.SettingsPatch) (*domain.GeneralSettings, error) {
	rec, err := c.store.Upsert(ctx, tenantID, patch)
	if err != nil {
		return nil, err
	}
	var delErr error
	for attempt := 0; attempt < evictAttempts; attempt++ {
		if delErr = c.client.Del(ctx, cacheKey(tenantID)); delErr == nil {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: settings cache invalidate: %v", domain.ErrTransient, delErr)
}

type snapshot struct {
	TenantID         string    `json:"tenant_id"`
	Name             string    `json:"name"`
	LogoURL          *string   `json:"logo_url"`
	WebsiteURL       *string   `json:"website_url"`
	ShortDescription *string   `json:"short_description"`
	Mission          *string   `json:"mission"`
	Vision           *string   `json:"vision"`
	Purpose          *string   `json:"purpose"`
	CustomerProblems *string   `json:"customer_problems"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newSnapshot(s domain.GeneralSettings) snapshot {
	return snapshot{
		TenantID:         s.TenantID,
		Name:             s.Name,
		LogoURL:          s.LogoURL,
		WebsiteURL:       s.WebsiteURL,
		ShortDescription: s.ShortDescription,
		Mission:          s.Mission,
		Vision:           s.Vision,
		Purpose:          s.Purpose,
		CustomerProblems: s.CustomerProblems,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (s snapshot) toDomain() domain.GeneralSettings {
	return domain.GeneralSettings{
		TenantID:         s.TenantID,
		Name:             s.Name,
		LogoURL:          s.LogoURL,
		WebsiteURL:       s.WebsiteURL,
		ShortDescription: s.ShortDescription,
		Mission:          s.Mission,
		Vision:           s.Vision,
		Purpose:          s.Purpose,
		CustomerProblems: s.CustomerProblems,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
