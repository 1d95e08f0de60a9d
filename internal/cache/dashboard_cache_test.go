package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedDashboard struct {
	LabID    uint  `json:"lab_id"`
	Students int64 `json:"students"`
}

func newTestCache(t *testing.T) (*DashboardCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewDashboardCache(client), mr
}

func TestDashboardCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := cachedDashboard{LabID: 3, Students: 42}
	if err := c.Set(ctx, LabKey(3), in, DashboardTTL); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var out cachedDashboard
	if err := c.Get(ctx, LabKey(3), &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if out != in {
		t.Errorf("Get() = %+v, want %+v", out, in)
	}
}

func TestDashboardCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	var out cachedDashboard
	err := c.Get(context.Background(), LabKey(99), &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestDashboardCache_InvalidateLab(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, LabKey(3), cachedDashboard{LabID: 3}, DashboardTTL); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Set(ctx, ProjectsKey, cachedDashboard{}, DashboardTTL); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := c.InvalidateLab(ctx, 3); err != nil {
		t.Fatalf("InvalidateLab() error = %v", err)
	}

	var out cachedDashboard
	if err := c.Get(ctx, LabKey(3), &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("lab key still cached after invalidation, err = %v", err)
	}
	if err := c.Get(ctx, ProjectsKey, &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("projects key still cached after invalidation, err = %v", err)
	}
}

func TestDashboardCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, LabKey(1), cachedDashboard{LabID: 1}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	var out cachedDashboard
	if err := c.Get(ctx, LabKey(1), &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestDashboardCache_NilClient(t *testing.T) {
	c := NewDashboardCache(nil)
	ctx := context.Background()

	if err := c.Set(ctx, LabKey(1), cachedDashboard{}, DashboardTTL); err != nil {
		t.Errorf("Set() with nil client error = %v, want nil", err)
	}

	var out cachedDashboard
	if err := c.Get(ctx, LabKey(1), &out); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() with nil client error = %v, want ErrCacheNotAvailable", err)
	}

	if err := c.InvalidateLab(ctx, 1); err != nil {
		t.Errorf("InvalidateLab() with nil client error = %v, want nil", err)
	}
}
