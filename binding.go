package stda

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/persistence/converter"
	"github.com/stda-home/stda/entities"
	"github.com/stda-home/stda/registry"
)

const valueKey = "Value"
const unitKey = "Unit"
const availabilityKey = "Availability"
const lastUpdatedKey = "LastUpdated"
const lastChangedKey = "LastChanged"

// binding ties one (device, capability, attribute) triple to exactly one
// local entity. Created once when the mapper first processes a device and
// immutable for the device's lifetime; only its cached state changes.
type binding struct {
	id   string
	name string
	kind entities.Kind

	dev        *device
	component  string
	capability string
	attribute  string
	mapping    registry.Mapping

	s persistence.Section
	m *sync.RWMutex
}

func (b *binding) ref() attributeRef {
	return attributeRef{
		component:  b.component,
		capability: b.capability,
		attribute:  b.attribute,
	}
}

func (b *binding) ID() string {
	return b.id
}

func (b *binding) DeviceID() string {
	return b.dev.id
}

func (b *binding) Kind() entities.Kind {
	return b.kind
}

func (b *binding) Name() string {
	return b.name
}

func (b *binding) State(_ context.Context) (entities.Value, entities.Availability, error) {
	b.m.RLock()
	defer b.m.RUnlock()

	s := b.loadState()

	return entities.Value{Data: s.value, Unit: s.unit, At: s.updatedAt}, s.availability, nil
}

// entity returns the outward surface of the binding: writable bindings are
// wrapped so an entities.Writable type assertion only succeeds where a write
// command actually exists.
func (b *binding) entity() entities.Entity {
	if b.mapping.Write != nil {
		return writableBinding{b}
	}

	return b
}

type writableBinding struct {
	*binding
}

func (w writableBinding) Constraints() entities.Constraints {
	return w.mapping.Constraints
}

func (w writableBinding) Set(ctx context.Context, desired any) error {
	return w.dev.gw.sendCommand(ctx, w.binding, desired)
}

// entityState is the cached local state of one binding.
type entityState struct {
	value        any
	unit         string
	availability entities.Availability
	updatedAt    time.Time
	changedAt    time.Time
}

// loadState reads the cached state from persistence. Callers hold b.m.
func (b *binding) loadState() entityState {
	var s entityState

	if raw, ok := b.s.String(valueKey); ok {
		_ = json.Unmarshal([]byte(raw), &s.value)
	}

	s.unit, _ = b.s.String(unitKey)

	if v, ok := b.s.Int(availabilityKey); ok {
		s.availability = entities.Availability(v)
	}

	s.updatedAt, _ = converter.Retrieve(b.s, lastUpdatedKey, converter.TimeDecoder)
	s.changedAt, _ = converter.Retrieve(b.s, lastChangedKey, converter.TimeDecoder)

	return s
}

// storeState writes the cached state to persistence. Callers hold b.m.
func (b *binding) storeState(s entityState) {
	if raw, err := json.Marshal(s.value); err == nil {
		b.s.Set(valueKey, string(raw))
	}

	b.s.Set(unitKey, s.unit)
	b.s.Set(availabilityKey, int(s.availability))
	converter.Store(b.s, lastUpdatedKey, s.updatedAt, converter.TimeEncoder)
	converter.Store(b.s, lastChangedKey, s.changedAt, converter.TimeEncoder)
}

var _ entities.Entity = (*binding)(nil)
var _ entities.Writable = (*writableBinding)(nil)
