package entities

// Events published through the gateway's event stream. Consumers read them
// with Gateway.ReadEvent and type switch.

// DeviceAdded announces a device whose entity set has been built.
type DeviceAdded struct {
	DeviceID string
	Label    string
}

// DeviceRemoved announces a device leaving, along with all its entities.
type DeviceRemoved struct {
	DeviceID string
}

// EntityAdded announces one entity produced by the mapper.
type EntityAdded struct {
	Entity Entity
}

// StateUpdate announces a changed entity value.
type StateUpdate struct {
	Entity Entity
	Value  Value
}

// AvailabilityUpdate announces a changed entity availability.
type AvailabilityUpdate struct {
	Entity       Entity
	Availability Availability
}

// CommandAccepted announces that the remote accepted a write. Acceptance is
// not confirmation; the entity's state is reconciled by the next snapshot.
type CommandAccepted struct {
	Entity        Entity
	CorrelationID string
}

// CommandFailed announces a write the remote refused or that never reached
// the remote.
type CommandFailed struct {
	Entity        Entity
	CorrelationID string
	Reason        string
}
