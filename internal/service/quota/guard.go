// Package quota pre-flights ticket creation against the tenant's monthly
// plan. When the quota service itself is unreachable the guard fails open:
// availability of ticket creation wins over strict enforcement.
package quota

import (
	"context"
	"encoding/json"
	"log/slog"

	"desksync/internal/model"
	"desksync/internal/remote"
)

const rpcMonthQuota = "get_my_company_month_quota"

// Guard checks the acting user's company quota before any insert is issued.
type Guard struct {
	store remote.Store
	log   *slog.Logger
}

func New(store remote.Store, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{store: store, log: log}
}

// Check returns the tenant's current month quota. On any RPC failure the
// tenant is treated as unrestricted (fail open) and the failure is logged.
func (g *Guard) Check(ctx context.Context) model.CompanyQuota {
	raw, err := g.store.RPC(ctx, rpcMonthQuota, nil)
	if err != nil {
		g.log.Warn("quota check unavailable, failing open", "error", err)
		return model.CompanyQuota{Unlimited: true}
	}

	var q model.CompanyQuota
	if err := json.Unmarshal(raw, &q); err != nil {
		g.log.Warn("quota response malformed, failing open", "error", err)
		return model.CompanyQuota{Unlimited: true}
	}
	return q
}

// Allow reports whether ticket creation may proceed under the given quota.
func (g *Guard) Allow(q model.CompanyQuota) bool {
	if q.Unlimited || q.Limit == nil {
		return true
	}
	return q.Used < *q.Limit
}
