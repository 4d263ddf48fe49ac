package commands

// Shared wiring between the subcommands: upstream client, snapshot store,
// series loader and the balance cache.

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/clients_api/zcashdata"
	"zpool-charts/internal/export"
	"zpool-charts/internal/infra/config"
	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/infra/store"
)

func newClient(cfg *config.Config) *zcashdata.Client {
	return zcashdata.NewClient(zcashdata.Options{
		SupplyURL:       cfg.Upstream.SupplyURL,
		BalancesURL:     cfg.Upstream.BalancesURL,
		RequestTimeout:  time.Duration(cfg.Upstream.RequestTimeout) * time.Second,
		MaxRetries:      cfg.Upstream.MaxRetries,
		MaxResponseSize: cfg.Upstream.MaxResponseSize,
	})
}

// newLoader builds the session loader. A successful fetch refreshes the
// snapshot store; a failed fetch falls back to the last stored series so
// the session can still come up during an upstream outage.
func newLoader(client *zcashdata.Client, st *store.Store) *series.Loader {
	return series.NewLoader(func(ctx context.Context) ([]series.Point, error) {
		data, err := client.FetchShieldedSupply(ctx)
		if err != nil {
			if st != nil {
				stored, fetchedAt, loadErr := st.LoadSeries(ctx)
				if loadErr == nil && len(stored) > 0 {
					logging.LogWarn("Upstream fetch failed, serving stored series",
						zap.Error(err), zap.Time("fetchedAt", fetchedAt))
					return series.ParsePoints(stored), nil
				}
			}
			return nil, err
		}

		if st != nil {
			if saveErr := st.SaveSeries(ctx, data); saveErr != nil {
				logging.LogWarn("Failed to store fetched series", zap.Error(saveErr))
			}
		}
		return series.ParsePoints(data), nil
	})
}

// balanceCache holds the latest known pool balances for the overlay label.
type balanceCache struct {
	mu       sync.Mutex
	balances export.BalanceSnapshot
}

func (b *balanceCache) Get() export.BalanceSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances
}

func (b *balanceCache) Set(s export.BalanceSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances = s
}

// refreshBalances fetches the balance snapshot, falling back to the store.
func refreshBalances(ctx context.Context, client *zcashdata.Client, st *store.Store, cache *balanceCache) {
	balances, err := client.FetchPoolBalances(ctx)
	if err == nil {
		cache.Set(balances)
		if st != nil {
			if saveErr := st.SaveBalances(ctx, balances); saveErr != nil {
				logging.LogWarn("Failed to store pool balances", zap.Error(saveErr))
			}
		}
		return
	}

	logging.LogWarn("Failed to fetch pool balances", zap.Error(err))
	if st != nil {
		if stored, _, loadErr := st.LoadBalances(ctx); loadErr == nil {
			cache.Set(stored)
		}
	}
}
