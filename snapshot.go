package stda

import (
	"time"

	"github.com/stda-home/stda/st"
)

type attributeRef struct {
	component  string
	capability string
	attribute  string
}

type valueState int

const (
	// valueAbsent means the attribute was not reported at all in this poll.
	// Prior state is left untouched; partial responses must not flap
	// entities to unavailable.
	valueAbsent valueState = iota
	// valuePresent carries a typed value.
	valuePresent
	// valueNull means the remote explicitly reported no value. The entity
	// becomes unavailable.
	valueNull
)

type snapshotValue struct {
	state valueState
	data  any
	unit  string
	at    time.Time
}

// snapshot is the full set of attribute values known for one device at one
// point in time. It is replaced wholesale on each poll or push.
type snapshot struct {
	values map[attributeRef]snapshotValue
	taken  time.Time
}

// get returns the value for a reference; references the remote did not
// report resolve to absent, never to a fabricated value.
func (s snapshot) get(ref attributeRef) snapshotValue {
	if v, ok := s.values[ref]; ok {
		return v
	}

	return snapshotValue{state: valueAbsent}
}

// newSnapshot normalises a raw status payload. A JSON null value becomes an
// explicit null; report timestamps the remote omits or mangles fall back to
// the fetch time.
func newSnapshot(status st.DeviceStatus, taken time.Time) snapshot {
	s := snapshot{
		values: map[attributeRef]snapshotValue{},
		taken:  taken,
	}

	for componentID, component := range status {
		for capabilityID, capability := range component {
			for attributeName, attr := range capability {
				ref := attributeRef{
					component:  componentID,
					capability: capabilityID,
					attribute:  attributeName,
				}

				at := taken
				if t, err := time.Parse(time.RFC3339, attr.Timestamp); err == nil {
					at = t
				}

				if attr.Value == nil {
					s.values[ref] = snapshotValue{state: valueNull, at: at}
				} else {
					s.values[ref] = snapshotValue{
						state: valuePresent,
						data:  attr.Value,
						unit:  attr.Unit,
						at:    at,
					}
				}
			}
		}
	}

	return s
}
