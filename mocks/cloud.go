package mocks

import (
	"context"

	"github.com/stda-home/stda/st"
	"github.com/stretchr/testify/mock"
)

type MockCloud struct {
	mock.Mock
}

func (m *MockCloud) DescribeDevice(ctx context.Context, deviceID string) (st.Device, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(st.Device), args.Error(1)
}

func (m *MockCloud) FetchStatus(ctx context.Context, deviceID string) (st.DeviceStatus, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(st.DeviceStatus), args.Error(1)
}

func (m *MockCloud) IssueCommand(ctx context.Context, deviceID string, cmd st.Command) (st.CommandResult, error) {
	args := m.Called(ctx, deviceID, cmd)
	return args.Get(0).(st.CommandResult), args.Error(1)
}
