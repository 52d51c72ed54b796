package scan

import (
	"context"

	"github.com/shimmeringbee/zigbee"
	"github.com/stretchr/testify/mock"

	"github.com/supby/gigbeescan/internal/zcldef"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) DiscoverAttributesExtended(ctx context.Context, addr ClusterAddress, startId uint16, maxRecords uint8) (AttributePage, error) {
	args := m.Called(ctx, addr, startId, maxRecords)
	return args.Get(0).(AttributePage), args.Error(1)
}

func (m *mockTransport) DiscoverCommandsReceived(ctx context.Context, addr ClusterAddress, startId uint8, maxRecords uint8) (CommandPage, error) {
	args := m.Called(ctx, addr, startId, maxRecords)
	return args.Get(0).(CommandPage), args.Error(1)
}

func (m *mockTransport) DiscoverCommandsGenerated(ctx context.Context, addr ClusterAddress, startId uint8, maxRecords uint8) (CommandPage, error) {
	args := m.Called(ctx, addr, startId, maxRecords)
	return args.Get(0).(CommandPage), args.Error(1)
}

func (m *mockTransport) ReadAttributes(ctx context.Context, addr ClusterAddress, ids []uint16) (ReadResult, error) {
	args := m.Called(ctx, addr, ids)
	return args.Get(0).(ReadResult), args.Error(1)
}

type mockBrowser struct {
	mock.Mock
}

func (m *mockBrowser) QueryNodeEndpoints(ctx context.Context, ieeeAddress zigbee.IEEEAddress) ([]zigbee.Endpoint, error) {
	args := m.Called(ctx, ieeeAddress)
	return args.Get(0).([]zigbee.Endpoint), args.Error(1)
}

func (m *mockBrowser) QueryNodeEndpointDescription(ctx context.Context, ieeeAddress zigbee.IEEEAddress, endpoint zigbee.Endpoint) (zigbee.EndpointDescription, error) {
	args := m.Called(ctx, ieeeAddress, endpoint)
	return args.Get(0).(zigbee.EndpointDescription), args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveNodeNWKAddress(ctx context.Context, ieeeAddress zigbee.IEEEAddress) (zigbee.NetworkAddress, error) {
	args := m.Called(ctx, ieeeAddress)
	return args.Get(0).(zigbee.NetworkAddress), args.Error(1)
}

type stubDefs struct {
	defs map[uint16]zcldef.ClusterDefinition
}

func (s stubDefs) GetById(clusterId uint16) (zcldef.ClusterDefinition, bool) {
	def, ok := s.defs[clusterId]
	return def, ok
}

func onOffDefs() stubDefs {
	return stubDefs{defs: map[uint16]zcldef.ClusterDefinition{
		0x0006: {
			ID:   0x0006,
			Name: "genOnOff",
			Attributes: map[uint16]zcldef.AttributeDefinition{
				0x0000: {ID: 0x0000, Name: "onOff", Type: 0x10},
			},
			Commands: map[uint16]zcldef.CommandDefinition{
				0x0000: {ID: 0x0000, Name: "off"},
				0x0002: {ID: 0x0002, Name: "toggle"},
				0x0042: {ID: 0x0042, Name: "onWithTimedOff", Parameters: [][]string{{"ctrlbits", "uint8"}, {"ontime", "uint16"}, {"offwaittime", "uint16"}}},
			},
			CommandsResponse: map[uint16]zcldef.CommandsResponseDefinition{},
		},
	}}
}
