package stda

import (
	"context"

	"github.com/stda-home/stda/st"
)

// Cloud is the surface of the SmartThings API this layer consumes. st.Client
// implements it; tests substitute a mock.
type Cloud interface {
	// DescribeDevice returns the device's identity, product data and ordered
	// capability set. Called once per device at setup.
	DescribeDevice(ctx context.Context, deviceID string) (st.Device, error)

	// FetchStatus returns the raw status of all of the device's components.
	FetchStatus(ctx context.Context, deviceID string) (st.DeviceStatus, error)

	// IssueCommand executes a single capability command. The result reports
	// acceptance, not resulting state.
	IssueCommand(ctx context.Context, deviceID string, cmd st.Command) (st.CommandResult, error)
}

type eventSender interface {
	sendEvent(event any)
}

type deviceStore interface {
	getDevice(deviceID string) *device
}
