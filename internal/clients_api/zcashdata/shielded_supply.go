package zcashdata

// Typed fetchers over the base client.

import (
	"context"
	"encoding/json"
	"fmt"

	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/export"
)

// FetchShieldedSupply downloads the full historical series wholesale. The
// upstream document is a JSON array of {"close": string, "supply": number}.
func (c *Client) FetchShieldedSupply(ctx context.Context) ([]series.Datum, error) {
	body, err := c.get(ctx, c.supplyURL)
	if err != nil {
		return nil, err
	}

	var data []series.Datum
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse shielded supply document: %w", err)
	}
	return data, nil
}

// FetchSupplyPoints is FetchShieldedSupply with dates parsed and the
// series sorted chronologically.
func (c *Client) FetchSupplyPoints(ctx context.Context) ([]series.Point, error) {
	data, err := c.FetchShieldedSupply(ctx)
	if err != nil {
		return nil, err
	}
	return series.ParsePoints(data), nil
}

// FetchPoolBalances downloads the latest per-pool balance snapshot.
func (c *Client) FetchPoolBalances(ctx context.Context) (export.BalanceSnapshot, error) {
	var snapshot export.BalanceSnapshot

	body, err := c.get(ctx, c.balancesURL)
	if err != nil {
		return snapshot, err
	}
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to parse pool balances document: %w", err)
	}
	return snapshot, nil
}
