package stda

import (
	"context"
	"fmt"
	"time"
)

// fetchSnapshot retrieves and normalises the current status of a device.
// Transport failures surface as the st taxonomy (remote unavailable, auth
// expired); retry and re-auth are the caller's concern, never this layer's.
func (g *Gateway) fetchSnapshot(ctx context.Context, d *device) (snapshot, error) {
	status, err := g.cloud.FetchStatus(ctx, d.id)
	if err != nil {
		return snapshot{}, fmt.Errorf("fetch status %s: %w", d.id, err)
	}

	return newSnapshot(status, time.Now()), nil
}
