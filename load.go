package stda

import (
	"context"

	"github.com/shimmeringbee/logwrap"
)

// load restores devices added in previous sessions from the cached describe
// data. Bindings rebuild deterministically, so entity identifiers survive
// restarts; cached entity state is served until the first poll completes.
func (g *Gateway) load() {
	ctx, end := g.logger.Segment(g.ctx, "Loading persistence.")
	defer end()

	for _, deviceID := range g.deviceListFromPersistence() {
		g.loadDevice(ctx, deviceID)
	}
}

func (g *Gateway) loadDevice(pctx context.Context, deviceID string) {
	ctx, end := g.logger.Segment(pctx, "Loading device data.", logwrap.Datum("device", deviceID))
	defer end()

	desc, ok := g.describeFromPersistence(deviceID)
	if !ok {
		g.logger.LogWarn(ctx, "Persisted device has no describe data, skipping.")
		return
	}

	d, created := g.createDevice(desc)
	if !created {
		return
	}

	g.attachDevice(ctx, d, desc)
}
