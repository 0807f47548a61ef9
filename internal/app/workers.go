package app

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"desksync/config"
	"desksync/internal/capability"
	"desksync/internal/service/ticket"
	"desksync/internal/session"
	"desksync/pkg/observability"
)

// WorkerModule runs the sync lifecycle: capability negotiation and the
// initial load on start, plus the background refresh loop.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterSyncWorker),
)

type SyncWorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	Prober   *capability.Prober
	Store    *ticket.SyncStore
	Sessions session.Provider

	// Depending on the provider here forces telemetry setup before the
	// first remote call; fx constructors only run for consumed types.
	OTel *observability.Provider `optional:"true"`
}

func RegisterSyncWorker(p SyncWorkerParams) {
	ctx, cancel := context.WithCancel(context.Background())

	p.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			// Negotiation must complete before any ticket operation so that
			// every collaborator sees the same resolved capabilities.
			caps := p.Prober.Resolve(startCtx)
			slog.Info("sync worker starting", "chat_mode", caps.ChatMode)

			if err := p.Store.LoadTickets(startCtx); err != nil {
				return err
			}

			// A session switch replaces the visible collection.
			p.Sessions.OnChange(func(sess session.Session) {
				if err := p.Store.LoadTickets(ctx); err != nil {
					slog.Warn("reload after session change failed", "err", err)
				}
			})

			if p.Cfg.Sync.RefreshSeconds > 0 {
				go refreshLoop(ctx, p.Store, time.Duration(p.Cfg.Sync.RefreshSeconds)*time.Second)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return nil
		},
	})
}

func refreshLoop(ctx context.Context, store *ticket.SyncStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("background refresh started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.LoadTickets(ctx); err != nil {
				slog.Warn("background refresh failed", "err", err)
			}
		}
	}
}
