package stda

import (
	"context"
	"sync"

	"github.com/shimmeringbee/logwrap"
	"github.com/stda-home/stda/rules"
	"github.com/stda-home/stda/st"
)

// buildBindings determines the entity set for a device. It runs once per
// device at setup and is deterministic: the same describe result always
// yields the same binding identifiers, keeping entities stable across
// restarts.
//
// Walk order is declaration order: components as described, capabilities as
// listed per component, mappings as declared in the registry. Quirk-added
// capabilities are appended after the device's own, in rule order.
func (g *Gateway) buildBindings(pctx context.Context, d *device, desc st.Device) []*binding {
	ctx, end := g.logger.Segment(pctx, "Building entity bindings.", logwrap.Datum("device", d.id))
	defer end()

	quirks, err := g.rules.Execute(rules.Input{
		Manufacturer: desc.ManufacturerName,
		Model:        desc.Model,
		Label:        desc.Label,
		DeviceType:   desc.Type,
		Capabilities: capabilityList(desc),
	})
	if err != nil {
		// A broken quirk rule must not take device setup down with it.
		g.logger.LogError(ctx, "Quirk rule execution failed, continuing without quirks.", logwrap.Err(err))
		quirks = rules.Output{Remove: map[string]bool{}}
	}

	var bindings []*binding
	seen := map[string]string{}

	for _, component := range desc.Components {
		disabled := map[string]bool{}
		for _, c := range component.DisabledCapabilities {
			disabled[c] = true
		}

		for _, ref := range component.Capabilities {
			bindings = append(bindings, g.bindCapability(ctx, d, component.ID, ref.ID, disabled, quirks, seen)...)
		}
	}

	// Quirk additions attach to the main component.
	for _, capabilityID := range quirks.Add {
		bindings = append(bindings, g.bindCapability(ctx, d, "main", capabilityID, nil, quirks, seen)...)
	}

	return bindings
}

func (g *Gateway) bindCapability(ctx context.Context, d *device, componentID string, capabilityID string, disabled map[string]bool, quirks rules.Output, seen map[string]string) []*binding {
	if disabled[capabilityID] {
		g.logger.LogInfo(ctx, "Skipping disabled capability.", logwrap.Datum("capability", capabilityID))
		return nil
	}

	if quirks.Remove[capabilityID] {
		g.logger.LogInfo(ctx, "Skipping capability removed by quirk rule.", logwrap.Datum("capability", capabilityID))
		return nil
	}

	if g.registry.Ignored(capabilityID) {
		return nil
	}

	def, ok := g.registry.Lookup(capabilityID)
	if !ok {
		g.logger.LogDebug(ctx, "Skipping unmapped capability.", logwrap.Datum("capability", capabilityID))
		return nil
	}

	var bindings []*binding

	for _, mapping := range def.Mappings {
		id := d.id + "-" + mapping.Key

		if winner, collided := seen[id]; collided {
			// First declared capability wins; a collision must never take
			// setup down.
			g.logger.LogWarn(ctx, "Entity identifier collision, keeping first declared capability.",
				logwrap.Datum("identifier", id), logwrap.Datum("kept", winner), logwrap.Datum("skipped", capabilityID))
			continue
		}

		seen[id] = capabilityID

		bindings = append(bindings, &binding{
			id:         id,
			name:       mapping.Name,
			kind:       mapping.Kind,
			dev:        d,
			component:  componentID,
			capability: capabilityID,
			attribute:  mapping.Attribute,
			mapping:    mapping,
			s:          g.sectionForBinding(d.id, id),
			m:          &sync.RWMutex{},
		})
	}

	return bindings
}

func capabilityList(desc st.Device) []string {
	var capabilities []string

	for _, component := range desc.Components {
		for _, ref := range component.Capabilities {
			capabilities = append(capabilities, ref.ID)
		}
	}

	return capabilities
}
