// Package cache memoizes solve Results behind a deterministic hash of the
// Snapshot that produced them, using the same Redis wiring pattern as the
// rest of this module (redis.ParseURL + redis.NewClient + a ping-gated
// connect). Re-
// solving an unchanged snapshot is an allowed idempotent no-op per spec.md
// §8, so a cache hit here saves a full backend invocation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// DefaultTTL bounds how long a cached Result survives before the next solve
// for that snapshot falls through to the backend again.
const DefaultTTL = 24 * time.Hour

// ResultCache memoizes domain.Result values keyed by snapshot content hash.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache wraps an existing redis client. Pass ttl <= 0 to use
// DefaultTTL.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Connect parses a redis URL and pings it, a connect-with-fallback shape
// used throughout this module. Callers in non-development
// environments should treat a non-nil error as fatal; in development, a
// caller may choose to run without a cache instead.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Key computes the deterministic cache key for a Snapshot: a sha256 hash of
// every field the solver actually reads, independent of slice order so that
// two snapshots built from the same rows in a different order hash equal.
func Key(snap domain.Snapshot) string {
	h := sha256.New()
	enc := json.NewEncoder(h)

	sortedStaff := append([]domain.Staff(nil), snap.Staff...)
	sort.Slice(sortedStaff, func(i, j int) bool { return sortedStaff[i].ID.String() < sortedStaff[j].ID.String() })

	sortedSlots := append([]domain.ShiftSlot(nil), snap.ShiftSlots...)
	sort.Slice(sortedSlots, func(i, j int) bool { return sortedSlots[i].ID.String() < sortedSlots[j].ID.String() })

	sortedReqs := append([]domain.StaffingRequirement(nil), snap.StaffingRequirements...)
	sort.Slice(sortedReqs, func(i, j int) bool { return sortedReqs[i].ID.String() < sortedReqs[j].ID.String() })

	sortedRoleReqs := append([]domain.RoleStaffingRequirement(nil), snap.RoleStaffingRequirements...)
	sort.Slice(sortedRoleReqs, func(i, j int) bool { return sortedRoleReqs[i].ID.String() < sortedRoleReqs[j].ID.String() })

	sortedRequests := append([]domain.StaffRequest(nil), snap.StaffRequests...)
	sort.Slice(sortedRequests, func(i, j int) bool { return sortedRequests[i].ID.String() < sortedRequests[j].ID.String() })

	_ = enc.Encode(snap.Period)
	_ = enc.Encode(snap.Config)
	_ = enc.Encode(sortedStaff)
	_ = enc.Encode(sortedSlots)
	_ = enc.Encode(sortedReqs)
	_ = enc.Encode(sortedRoleReqs)
	_ = enc.Encode(sortedRequests)

	return "shiftsched:result:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached Result for snap, or false if absent.
func (c *ResultCache) Get(ctx context.Context, snap domain.Snapshot) (domain.Result, bool, error) {
	raw, err := c.client.Get(ctx, Key(snap)).Bytes()
	if err == redis.Nil {
		return domain.Result{}, false, nil
	}
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("get cached result: %w", err)
	}
	var result domain.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.Result{}, false, fmt.Errorf("unmarshal cached result: %w", err)
	}
	return result, true, nil
}

// Set stores result under snap's content hash.
func (c *ResultCache) Set(ctx context.Context, snap domain.Snapshot, result domain.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := c.client.Set(ctx, Key(snap), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached result: %w", err)
	}
	return nil
}
