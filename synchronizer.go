package stda

import (
	"context"
	"fmt"
	"reflect"

	"github.com/stda-home/stda/entities"
)

// reconcile computes the next cached state for one binding given the prior
// state and the snapshot's value for it. Pure: all decisions follow from the
// two inputs.
//
//   - present: the value is taken and the entity becomes available, unless
//     the report is older than what we already hold (a concurrent command's
//     optimistic update must not be clobbered by a stale snapshot).
//   - null: the entity becomes unavailable; the last value is retained. The
//     same staleness guard applies: an old null must not mark an entity
//     unavailable over a newer write.
//   - absent: nothing changes. Partial responses are stale data, not faults.
func reconcile(prior entityState, v snapshotValue) (next entityState, stateChanged bool, availabilityChanged bool) {
	switch v.state {
	case valuePresent:
		if !prior.updatedAt.IsZero() && v.at.Before(prior.updatedAt) {
			return prior, false, false
		}

		next = entityState{
			value:        v.data,
			unit:         v.unit,
			availability: entities.Available,
			updatedAt:    v.at,
			changedAt:    prior.changedAt,
		}

		stateChanged = !reflect.DeepEqual(prior.value, v.data)
		if stateChanged {
			next.changedAt = v.at
		}

		availabilityChanged = prior.availability != entities.Available

		return next, stateChanged, availabilityChanged

	case valueNull:
		if !prior.updatedAt.IsZero() && v.at.Before(prior.updatedAt) {
			return prior, false, false
		}

		next = prior
		next.availability = entities.Unavailable
		next.updatedAt = v.at

		return next, false, prior.availability != entities.Unavailable

	default:
		return prior, false, false
	}
}

// applySnapshot reconciles a snapshot against every binding of a device and
// publishes the resulting transitions. Applications for the same device are
// serialised; re-applying an identical snapshot publishes nothing.
func (g *Gateway) applySnapshot(ctx context.Context, d *device, snap snapshot) error {
	if err := d.applySem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("apply %s: %w", d.id, err)
	}
	defer d.applySem.Release(1)

	for _, b := range d.getBindings() {
		g.applyBinding(b, snap.get(b.ref()))
	}

	return nil
}

func (g *Gateway) applyBinding(b *binding, v snapshotValue) {
	b.m.Lock()

	prior := b.loadState()
	next, stateChanged, availabilityChanged := reconcile(prior, v)

	// LastUpdated advances on any fresh report, changed or not.
	if stateChanged || availabilityChanged || !next.updatedAt.Equal(prior.updatedAt) {
		b.storeState(next)
	}

	b.m.Unlock()

	if stateChanged {
		g.sendEvent(entities.StateUpdate{
			Entity: b.entity(),
			Value:  entities.Value{Data: next.value, Unit: next.unit, At: next.updatedAt},
		})
	}

	if availabilityChanged {
		g.sendEvent(entities.AvailabilityUpdate{
			Entity:       b.entity(),
			Availability: next.availability,
		})
	}
}
