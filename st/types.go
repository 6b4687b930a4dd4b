// Package st holds the SmartThings cloud facing types, error taxonomy and a
// minimal HTTP client. The core consumes this package through the Cloud
// interface defined in the root package; everything beyond describe, status
// and command (OAuth flows, subscriptions, pagination) is out of scope.
package st

// Device is the result of describing a device: identity, product data and
// the ordered capability set per component.
type Device struct {
	DeviceID         string      `json:"deviceId"`
	Name             string      `json:"name"`
	Label            string      `json:"label"`
	ManufacturerName string      `json:"manufacturerName,omitempty"`
	Model            string      `json:"model,omitempty"`
	Type             string      `json:"type,omitempty"`
	Components       []Component `json:"components,omitempty"`
}

// Component is one addressable part of a device. The capability list order is
// significant: it is the declaration order used for entity identifier
// tie-breaking.
type Component struct {
	ID           string                `json:"id"`
	Capabilities []CapabilityReference `json:"capabilities,omitempty"`

	// DisabledCapabilities lists capabilities the device exposes but marks
	// non-functional, as reported by custom.disabledCapabilities.
	DisabledCapabilities []string `json:"disabledCapabilities,omitempty"`
}

// CapabilityReference identifies one capability on a component.
type CapabilityReference struct {
	ID      string `json:"id"`
	Version int    `json:"version,omitempty"`
}

// AttributeState is the reported state of a single attribute. A JSON null
// value decodes to a nil Value, which the snapshot layer translates to an
// explicit null (entity unavailable), distinct from the attribute being
// omitted entirely.
type AttributeState struct {
	Value     any    `json:"value"`
	Unit      string `json:"unit,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// CapabilityStatus maps attribute name to state.
type CapabilityStatus map[string]AttributeState

// ComponentStatus maps capability id to its attributes.
type ComponentStatus map[string]CapabilityStatus

// DeviceStatus maps component id to its capability statuses. It is the raw
// payload of one status poll or push, before snapshot normalisation.
type DeviceStatus map[string]ComponentStatus

// Command is one capability command to execute on a device.
type Command struct {
	Component  string `json:"component,omitempty"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
	Arguments  []any  `json:"arguments,omitempty"`
}

// CommandRequest is the request body for executing commands.
type CommandRequest struct {
	Commands []Command `json:"commands"`
}

// Command result statuses reported by the cloud.
const (
	CommandStatusAccepted  = "ACCEPTED"
	CommandStatusCompleted = "COMPLETED"
	CommandStatusFailed    = "FAILED"
)

// CommandResult is the per-command outcome of a command request.
type CommandResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CommandResponse is the response body for executing commands.
type CommandResponse struct {
	Results []CommandResult `json:"results"`
}
