// Package entities defines the outward facing surface of stda: the kinds of
// local entity a remote capability can materialise as, the tri-state
// availability model, and the read/write interfaces the host platform
// consumes.
package entities

import (
	"context"
	"time"
)

// Kind is the class of local entity a capability attribute materialises as.
type Kind int

const (
	Sensor Kind = iota
	BinarySensor
	Switch
	Select
	Number
	ClimateMode
)

// StandardNames maps each entity kind to its stable textual name. These names
// appear in entity identifiers and persistence keys and must not change.
var StandardNames = map[Kind]string{
	Sensor:       "Sensor",
	BinarySensor: "BinarySensor",
	Switch:       "Switch",
	Select:       "Select",
	Number:       "Number",
	ClimateMode:  "ClimateMode",
}

func (k Kind) String() string {
	if n, ok := StandardNames[k]; ok {
		return n
	}

	return "Unknown"
}

// Availability is the reporting state of an entity.
//
// Unknown means the attribute has never been reported; Unavailable means the
// remote explicitly reported a null value. The two are distinct: a host
// platform renders Unknown as "no data yet" and Unavailable as a fault.
type Availability int

const (
	Unknown Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "Available"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// Constraints declares the values a writable entity accepts, for the host
// platform to render pickers and sliders from. Nil numeric bounds and an
// empty enum mean unconstrained.
type Constraints struct {
	Minimum *float64
	Maximum *float64
	Step    *float64
	Enum    []string
}

// Value is a reported attribute value with its unit and report time.
type Value struct {
	Data any
	Unit string
	At   time.Time
}

// Entity is the read surface of one bound capability attribute.
type Entity interface {
	// ID returns the stable identifier of the entity, constant for the same
	// device capability set across restarts.
	ID() string
	// DeviceID returns the identifier of the remote device this entity
	// belongs to.
	DeviceID() string
	Kind() Kind
	// Name returns the human readable label, e.g. "Volume".
	Name() string
	// State returns the last known value and the current availability.
	State(context.Context) (Value, Availability, error)
}

// Writable is the optional write surface of an entity. Values are validated
// against the declared constraints before any remote call is made.
type Writable interface {
	Entity
	// Constraints returns the values Set accepts.
	Constraints() Constraints
	Set(context.Context, any) error
}
