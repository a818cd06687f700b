package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "leasehold/pkg/domain"
)

const balanceKeyPrefix = "leasehold:balance:"

// RedisBalanceMirror keeps a copy of tenant running balances in Redis so
// dashboards and peer services can read them without hitting the payment
// store. The payment store stays authoritative; the mirror is best-effort
// and rebuilt by replaying adjustments.
type RedisBalanceMirror struct {
	client *redis.Client
}

func NewRedisBalanceMirror(client *redis.Client) *RedisBalanceMirror {
	return &RedisBalanceMirror{client: client}
}

// Adjust applies a balance delta for the tenant.
func (m *RedisBalanceMirror) Adjust(ctx context.Context, tenantID id.TenantID, delta float64) error {
	if err := m.client.IncrByFloat(ctx, balanceKey(tenantID), delta).Err(); err != nil {
		return fmt.Errorf("adjust mirrored balance: %w", err)
	}
	return nil
}

// Balance reads the mirrored balance, zero for unknown tenants.
func (m *RedisBalanceMirror) Balance(ctx context.Context, tenantID id.TenantID) (float64, error) {
	value, err := m.client.Get(ctx, balanceKey(tenantID)).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("read mirrored balance: %w", err)
	}
	return value, nil
}

func balanceKey(tenantID id.TenantID) string {
	return balanceKeyPrefix + tenantID.String()
}
