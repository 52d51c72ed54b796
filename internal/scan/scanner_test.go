package scan

import (
	"context"
	"testing"

	"github.com/shimmeringbee/zigbee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/supby/gigbeescan/internal/logger"
)

func TestScanClusterEndToEnd(t *testing.T) {
	transport := &mockTransport{}
	addr := testAddr()

	transport.On("DiscoverAttributesExtended", mock.Anything, addr, uint16(0), uint8(16)).
		Return(AttributePage{
			DiscoveryComplete: false,
			Records: []AttributeInfo{
				{Identifier: 0, DataType: 0x10, Access: 0x01},
				{Identifier: 1, DataType: 0x20, Access: 0x01},
				{Identifier: 2, DataType: 0x21, Access: 0x01},
				{Identifier: 3, DataType: 0x30, Access: 0x03},
			},
		}, nil).Once()
	transport.On("DiscoverAttributesExtended", mock.Anything, addr, uint16(4), uint8(16)).
		Return(AttributePage{
			DiscoveryComplete: true,
			Records: []AttributeInfo{
				{Identifier: 4, DataType: 0x42, Access: 0x01},
			},
		}, nil).Once()

	transport.On("ReadAttributes", mock.Anything, addr, []uint16{0, 1, 2, 3}).
		Return(ReadResult{
			Succeeded: map[uint16]AttributeValue{
				0: {DataType: 0x10, Value: true},
				1: {DataType: 0x20, Value: uint8(1)},
				2: {DataType: 0x21, Value: uint16(512)},
				3: {DataType: 0x30, Value: uint8(2)},
			},
		}, nil).Once()
	transport.On("ReadAttributes", mock.Anything, addr, []uint16{4}).
		Return(ReadResult{
			Failed: map[uint16]uint8{4: 0x86},
		}, nil).Once()

	transport.On("DiscoverCommandsReceived", mock.Anything, addr, uint8(0), uint8(16)).
		Return(CommandPage{
			DiscoveryComplete: true,
			Identifiers:       []uint8{0x00, 0x02},
		}, nil).Once()
	transport.On("DiscoverCommandsGenerated", mock.Anything, addr, uint8(0), uint8(16)).
		Return(CommandPage{DiscoveryComplete: true}, nil).Once()

	s := newTestScanner(transport)

	cs := s.scanCluster(context.Background(), addr, true)

	require.Equal(t, 5, len(cs.Attributes))

	withValue := 0
	for _, rec := range cs.Attributes {
		if rec.HasValue {
			withValue++
		}
	}
	assert.Equal(t, 4, withValue)
	assert.False(t, cs.Attributes[4].HasValue)

	assert.Equal(t, 2, len(cs.CommandsReceived))
	assert.Equal(t, "off", cs.CommandsReceived[0x00].Name)
	assert.Equal(t, "toggle", cs.CommandsReceived[0x02].Name)
	assert.Empty(t, cs.CommandsGenerated)

	transport.AssertExpectations(t)
}

func TestScanClusterClientRoleFlipsCommandDirections(t *testing.T) {
	transport := &mockTransport{}
	addr := testAddr()

	transport.On("DiscoverAttributesExtended", mock.Anything, addr, uint16(0), uint8(16)).
		Return(AttributePage{DiscoveryComplete: true}, nil).Once()
	transport.On("DiscoverCommandsReceived", mock.Anything, addr, uint8(0), uint8(16)).
		Return(CommandPage{
			DiscoveryComplete: true,
			Identifiers:       []uint8{0x00},
		}, nil).Once()
	transport.On("DiscoverCommandsGenerated", mock.Anything, addr, uint8(0), uint8(16)).
		Return(CommandPage{DiscoveryComplete: true}, nil).Once()

	s := newTestScanner(transport)

	cs := s.scanCluster(context.Background(), addr, false)

	// Scanned as client, the set discovered via "received" lands in the
	// generated map of the report.
	assert.Equal(t, 1, len(cs.CommandsGenerated))
	assert.Empty(t, cs.CommandsReceived)
}

func TestScanDeviceSkipsEndpointZero(t *testing.T) {
	transport := &mockTransport{}
	browser := &mockBrowser{}
	resolver := &mockResolver{}

	ieee := zigbee.IEEEAddress(0x00124b000724ae04)

	resolver.On("ResolveNodeNWKAddress", mock.Anything, ieee).
		Return(zigbee.NetworkAddress(0x79eb), nil)
	browser.On("QueryNodeEndpoints", mock.Anything, ieee).
		Return([]zigbee.Endpoint{0, 1}, nil)
	browser.On("QueryNodeEndpointDescription", mock.Anything, ieee, zigbee.Endpoint(1)).
		Return(zigbee.EndpointDescription{
			Endpoint:       zigbee.Endpoint(1),
			ProfileID:      zigbee.ProfileHomeAutomation,
			DeviceID:       0x5f01,
			InClusterList:  []zigbee.ClusterID{0x0006},
			OutClusterList: []zigbee.ClusterID{},
		}, nil)

	basicAddr := ClusterAddress{IEEEAddress: ieee, Endpoint: 1, ClusterID: basicClusterID}
	transport.On("ReadAttributes", mock.Anything, basicAddr, []uint16{4, 5, 7}).
		Return(ReadResult{
			Succeeded: map[uint16]AttributeValue{
				4: {DataType: 0x42, Value: []byte("LUMI\x00")},
				5: {DataType: 0x42, Value: []byte("lumi.sensor_magnet\x00")},
				7: {DataType: 0x30, Value: uint8(3)},
			},
		}, nil).Once()

	onOffAddr := ClusterAddress{IEEEAddress: ieee, Endpoint: 1, ClusterID: 0x0006}
	transport.On("DiscoverAttributesExtended", mock.Anything, onOffAddr, uint16(0), uint8(16)).
		Return(AttributePage{DiscoveryComplete: true}, nil)
	transport.On("DiscoverCommandsReceived", mock.Anything, onOffAddr, uint8(0), uint8(16)).
		Return(CommandPage{DiscoveryComplete: true}, nil)
	transport.On("DiscoverCommandsGenerated", mock.Anything, onOffAddr, uint8(0), uint8(16)).
		Return(CommandPage{DiscoveryComplete: true}, nil)

	s := NewScanner(transport, browser, resolver, onOffDefs(), logger.GetNopLogger(), testOptions())

	result, err := s.ScanDevice(context.Background(), ieee, nil)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x79eb), result.NWKAddress)
	assert.Equal(t, "lumi.sensor_magnet", result.Model)
	assert.Equal(t, "LUMI", result.Manufacturer)
	assert.Equal(t, "battery", result.PowerSource)

	require.Equal(t, 1, len(result.Endpoints))
	assert.Equal(t, uint8(1), result.Endpoints[0].ID)
	assert.Equal(t, 1, len(result.Endpoints[0].InClusters))

	// Endpoint 0 (ZDO) never gets a description query.
	browser.AssertNotCalled(t, "QueryNodeEndpointDescription", mock.Anything, ieee, zigbee.Endpoint(0))
}

func TestScanDeviceEndpointFilter(t *testing.T) {
	transport := &mockTransport{}
	browser := &mockBrowser{}
	resolver := &mockResolver{}

	ieee := zigbee.IEEEAddress(0x00124b000724ae04)

	resolver.On("ResolveNodeNWKAddress", mock.Anything, ieee).
		Return(zigbee.NetworkAddress(0x79eb), nil)
	browser.On("QueryNodeEndpoints", mock.Anything, ieee).
		Return([]zigbee.Endpoint{1, 2}, nil)
	browser.On("QueryNodeEndpointDescription", mock.Anything, ieee, zigbee.Endpoint(2)).
		Return(zigbee.EndpointDescription{
			Endpoint:       zigbee.Endpoint(2),
			ProfileID:      zigbee.ProfileHomeAutomation,
			InClusterList:  []zigbee.ClusterID{},
			OutClusterList: []zigbee.ClusterID{},
		}, nil)

	basicAddr := ClusterAddress{IEEEAddress: ieee, Endpoint: 2, ClusterID: basicClusterID}
	transport.On("ReadAttributes", mock.Anything, basicAddr, []uint16{4, 5, 7}).
		Return(ReadResult{}, nil).Once()

	s := NewScanner(transport, browser, resolver, onOffDefs(), logger.GetNopLogger(), testOptions())

	result, err := s.ScanDevice(context.Background(), ieee, []uint8{2})
	require.NoError(t, err)

	require.Equal(t, 1, len(result.Endpoints))
	assert.Equal(t, uint8(2), result.Endpoints[0].ID)
	browser.AssertNotCalled(t, "QueryNodeEndpointDescription", mock.Anything, ieee, zigbee.Endpoint(1))
}
