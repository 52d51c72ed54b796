package controller

import (
	"context"
	"errors"

	"github.com/shimmeringbee/zigbee"
)

// ErrNotSupported marks a management operation the underlying adapter cannot
// perform. CC253X firmware has no transient key or channel change surface.
var ErrNotSupported = errors.New("operation is not supported by the adapter")

type transientKeyProvider interface {
	AddTransientLinkKey(ctx context.Context, ieeeAddress zigbee.IEEEAddress, key zigbee.NetworkKey) error
}

type networkParametersProvider interface {
	UpdateNetworkParameters(ctx context.Context, channel uint8, updateId uint8) error
}

func (c *Controller) RequestNodeLeave(ctx context.Context, ieeeAddress zigbee.IEEEAddress) error {
	return c.zstack.RequestNodeLeave(ctx, ieeeAddress)
}

func (c *Controller) ResolveNodeNWKAddress(ctx context.Context, ieeeAddress zigbee.IEEEAddress) (zigbee.NetworkAddress, error) {
	return c.zstack.ResolveNodeNWKAddress(ctx, ieeeAddress)
}

func (c *Controller) PermitJoin(ctx context.Context, allRouters bool) error {
	return c.zstack.PermitJoin(ctx, allRouters)
}

func (c *Controller) DenyJoin(ctx context.Context) error {
	return c.zstack.DenyJoin(ctx)
}

// AddTransientLinkKey installs an install code derived link key for one
// joining device, when the adapter supports it.
func (c *Controller) AddTransientLinkKey(ctx context.Context, ieeeAddress zigbee.IEEEAddress, key zigbee.NetworkKey) error {
	if keyer, ok := interface{}(c.zstack).(transientKeyProvider); ok {
		return keyer.AddTransientLinkKey(ctx, ieeeAddress, key)
	}

	return ErrNotSupported
}

// UpdateNetworkParameters broadcasts a channel change to the network, when
// the adapter supports it.
func (c *Controller) UpdateNetworkParameters(ctx context.Context, channel uint8, updateId uint8) error {
	if updater, ok := interface{}(c.zstack).(networkParametersProvider); ok {
		return updater.UpdateNetworkParameters(ctx, channel, updateId)
	}

	return ErrNotSupported
}

func (c *Controller) QueryNodeEndpoints(ctx context.Context, ieeeAddress zigbee.IEEEAddress) ([]zigbee.Endpoint, error) {
	return c.zstack.QueryNodeEndpoints(ctx, ieeeAddress)
}

func (c *Controller) QueryNodeEndpointDescription(ctx context.Context, ieeeAddress zigbee.IEEEAddress, endpoint zigbee.Endpoint) (zigbee.EndpointDescription, error) {
	return c.zstack.QueryNodeEndpointDescription(ctx, ieeeAddress, endpoint)
}
