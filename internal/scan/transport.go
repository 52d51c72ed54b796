package scan

import (
	"context"
	"fmt"

	"github.com/shimmeringbee/zigbee"
)

// ClusterAddress identifies one cluster instance on one device endpoint.
type ClusterAddress struct {
	IEEEAddress zigbee.IEEEAddress
	Endpoint    zigbee.Endpoint
	ClusterID   zigbee.ClusterID
}

// AttributeInfo is one record from extended attribute discovery.
type AttributeInfo struct {
	Identifier uint16
	DataType   byte
	Access     byte
}

type AttributePage struct {
	DiscoveryComplete bool
	Records           []AttributeInfo
}

type CommandPage struct {
	DiscoveryComplete bool
	Identifiers       []uint8
}

type AttributeValue struct {
	DataType byte
	Value    interface{}
}

// ReadResult carries per attribute outcomes of one batch read. Failed maps
// attribute id to the ZCL status the peer returned for it.
type ReadResult struct {
	Succeeded map[uint16]AttributeValue
	Failed    map[uint16]uint8
}

// Transport is the cluster request surface of the Zigbee stack. Every error it
// returns is a delivery or timeout fault and may be retried; a peer refusing a
// discovery is reported as *StatusError and must not be retried. Reads always
// bypass any attribute cache.
type Transport interface {
	DiscoverAttributesExtended(ctx context.Context, addr ClusterAddress, startId uint16, maxRecords uint8) (AttributePage, error)
	DiscoverCommandsReceived(ctx context.Context, addr ClusterAddress, startId uint8, maxRecords uint8) (CommandPage, error)
	DiscoverCommandsGenerated(ctx context.Context, addr ClusterAddress, startId uint8, maxRecords uint8) (CommandPage, error)
	ReadAttributes(ctx context.Context, addr ClusterAddress, ids []uint16) (ReadResult, error)
}

// DeviceBrowser exposes the node topology queries of the stack.
type DeviceBrowser interface {
	QueryNodeEndpoints(ctx context.Context, ieeeAddress zigbee.IEEEAddress) ([]zigbee.Endpoint, error)
	QueryNodeEndpointDescription(ctx context.Context, ieeeAddress zigbee.IEEEAddress, endpoint zigbee.Endpoint) (zigbee.EndpointDescription, error)
}

type AddressResolver interface {
	ResolveNodeNWKAddress(ctx context.Context, ieeeAddress zigbee.IEEEAddress) (zigbee.NetworkAddress, error)
}

// StatusError is a non-record response, the peer rejected or cannot continue a
// discovery. Terminates that discovery with whatever was accumulated.
type StatusError struct {
	Status uint8
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("peer returned status 0x%02x", e.Status)
}
