package stda

import (
	"context"
)

func (g *Gateway) sendEvent(e any) {
	g.events <- e
}

// ReadEvent blocks until an event is available or the context ends. Events
// are the entities package structs: device and entity announcements, state
// and availability updates, command outcomes.
func (g *Gateway) ReadEvent(ctx context.Context) (any, error) {
	select {
	case e := <-g.events:
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
