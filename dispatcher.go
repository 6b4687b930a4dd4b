package stda

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shimmeringbee/logwrap"
	"github.com/stda-home/stda/entities"
	"github.com/stda-home/stda/registry"
	"github.com/stda-home/stda/st"
)

// sendCommand validates a desired value against the registry's declared
// constraints, translates it into a capability command and issues it.
// Validation failures never reach the remote. Accepted commands update the
// cached state optimistically, stamped with the command time; the next
// snapshot confirms or corrects (last writer by timestamp wins).
func (g *Gateway) sendCommand(pctx context.Context, b *binding, desired any) error {
	correlation := uuid.NewString()

	ctx, end := g.logger.Segment(pctx, "Sending command.",
		logwrap.Datum("entity", b.id), logwrap.Datum("correlation", correlation))
	defer end()

	cmd, optimistic, err := commandFor(b, desired)
	if err != nil {
		g.logger.LogWarn(ctx, "Command value rejected locally.", logwrap.Err(err))
		g.sendEvent(entities.CommandFailed{Entity: b.entity(), CorrelationID: correlation, Reason: err.Error()})
		return err
	}

	result, err := g.cloud.IssueCommand(ctx, b.dev.id, cmd)
	if err != nil {
		g.logger.LogWarn(ctx, "Command refused by remote.", logwrap.Err(err))
		g.sendEvent(entities.CommandFailed{Entity: b.entity(), CorrelationID: correlation, Reason: err.Error()})
		return fmt.Errorf("command %s: %w", b.id, err)
	}

	if result.ID != "" {
		correlation = result.ID
	}

	g.applyOptimistic(b, optimistic, time.Now())
	g.sendEvent(entities.CommandAccepted{Entity: b.entity(), CorrelationID: correlation})

	return nil
}

// commandFor shapes the desired value into a command and the value to cache
// optimistically.
func commandFor(b *binding, desired any) (st.Command, any, error) {
	w := b.mapping.Write
	if w == nil {
		return st.Command{}, nil, fmt.Errorf("%w: entity %s is read only", st.ErrInvalidValue, b.id)
	}

	cmd := st.Command{
		Component:  b.component,
		Capability: b.capability,
	}

	switch w.Style {
	case registry.WriteOnOff:
		on, err := onOffValue(w, desired)
		if err != nil {
			return st.Command{}, nil, err
		}

		if on {
			cmd.Command = w.OnCommand
			return cmd, w.OnValue, nil
		}

		cmd.Command = w.OffCommand
		return cmd, w.OffValue, nil

	case registry.WriteSetterOnOff:
		on, err := onOffValue(w, desired)
		if err != nil {
			return st.Command{}, nil, err
		}

		value := w.OffValue
		if on {
			value = w.OnValue
		}

		cmd.Command = w.Command
		cmd.Arguments = []any{value}
		return cmd, value, nil

	default:
		if err := registry.Validate(b.mapping.Constraints, desired); err != nil {
			return st.Command{}, nil, fmt.Errorf("%w: %s: %s", st.ErrInvalidValue, b.id, err.Error())
		}

		cmd.Command = w.Command
		cmd.Arguments = []any{desired}
		return cmd, desired, nil
	}
}

func onOffValue(w *registry.Write, desired any) (bool, error) {
	switch v := desired.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case w.OnValue:
			return true, nil
		case w.OffValue:
			return false, nil
		}
	}

	return false, fmt.Errorf("%w: expected %q, %q or a boolean, got %v", st.ErrInvalidValue, w.OnValue, w.OffValue, desired)
}

// applyOptimistic caches an accepted command's value as the entity state,
// stamped with the command time so an older concurrent snapshot cannot
// overwrite it.
func (g *Gateway) applyOptimistic(b *binding, value any, at time.Time) {
	b.m.Lock()

	prior := b.loadState()

	next := prior
	next.value = value
	next.availability = entities.Available
	next.updatedAt = at

	changed := !reflect.DeepEqual(prior.value, value)
	if changed {
		next.changedAt = at
	}

	b.storeState(next)

	b.m.Unlock()

	if changed {
		g.sendEvent(entities.StateUpdate{
			Entity: b.entity(),
			Value:  entities.Value{Data: next.value, Unit: next.unit, At: next.updatedAt},
		})
	}

	if prior.availability != entities.Available {
		g.sendEvent(entities.AvailabilityUpdate{Entity: b.entity(), Availability: entities.Available})
	}
}
