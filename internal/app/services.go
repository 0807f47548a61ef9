package app

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"desksync/config"
	"desksync/internal/capability"
	"desksync/internal/remote"
	"desksync/internal/service/chat"
	"desksync/internal/service/quota"
	"desksync/internal/service/ticket"
	"desksync/internal/session"
	redispkg "desksync/pkg/redis"
)

// ServiceModule provides all sync-layer service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideSessionProvider,
		ProvideProber,
		ProvideChatAdapter,
		ProvideQuotaGuard,
		ProvideSyncStore,
	),
)

func ProvideSessionProvider(cfg *config.Config) session.Provider {
	return &session.StaticProvider{Current: session.Session{
		UserID:      cfg.Session.UserID,
		AgentID:     cfg.Session.AgentID,
		Role:        session.Role(cfg.Session.Role),
		AccessToken: cfg.Session.Token,
	}}
}

func ProvideProber(store remote.Store, rdb *redis.Client, cfg *config.Config) *capability.Prober {
	opts := []capability.Option{capability.WithLogger(slog.Default())}
	if rdb != nil {
		cacheCfg := cfg.Sync.CapabilityCache
		opts = append(opts, capability.WithCache(capability.NewRedisCache(
			rdb, cacheCfg.KeyPrefix, redispkg.TTLMinutes(cacheCfg.TTLMinutes), slog.Default(),
		)))
	}
	return capability.NewProber(store, opts...)
}

func ProvideChatAdapter(store remote.Store, prober *capability.Prober) *chat.Adapter {
	return chat.New(store, prober.Capabilities(), slog.Default())
}

func ProvideQuotaGuard(store remote.Store) *quota.Guard {
	return quota.New(store, slog.Default())
}

func ProvideSyncStore(
	store remote.Store,
	prober *capability.Prober,
	adapter *chat.Adapter,
	guard *quota.Guard,
	sessions session.Provider,
	nc *nats.Conn,
	cfg *config.Config,
) *ticket.SyncStore {
	opts := []ticket.Option{
		ticket.WithLogger(slog.Default()),
		ticket.WithLocale(cfg.Sync.Locale),
	}
	if nc != nil {
		opts = append(opts, ticket.WithNATS(nc))
	}
	return ticket.New(store, prober.Capabilities(), adapter, guard, sessions, opts...)
}
