package admin

import (
	"context"
	"errors"

	"github.com/shimmeringbee/zigbee"

	"github.com/supby/gigbeescan/internal/logger"
)

var (
	ErrMissingAddress = errors.New("missing ieee address")
	ErrInvalidKey     = errors.New("link key must be 16 bytes")
	ErrInvalidChannel = errors.New("channel must be in range 11..26")
)

type NodeRemover interface {
	RequestNodeLeave(ctx context.Context, ieeeAddress zigbee.IEEEAddress) error
}

type AddressResolver interface {
	ResolveNodeNWKAddress(ctx context.Context, ieeeAddress zigbee.IEEEAddress) (zigbee.NetworkAddress, error)
}

type Joiner interface {
	PermitJoin(ctx context.Context, allRouters bool) error
}

type TransientKeyer interface {
	AddTransientLinkKey(ctx context.Context, ieeeAddress zigbee.IEEEAddress, key zigbee.NetworkKey) error
}

type NetworkUpdater interface {
	UpdateNetworkParameters(ctx context.Context, channel uint8, updateId uint8) error
}

// Controller is the network management surface the admin commands run
// against, the zstack controller implements all of it.
type Controller interface {
	NodeRemover
	AddressResolver
	Joiner
	TransientKeyer
	NetworkUpdater
}

// Service exposes the four ZDO administration commands. They are stateless
// pass-throughs: validate input, call the stack once, log the raw response.
type Service struct {
	controller Controller
	logger     logger.Logger
}

func NewService(controller Controller, log logger.Logger) *Service {
	return &Service{
		controller: controller,
		logger:     log,
	}
}

// Leave tells the network to remove a device.
func (s *Service) Leave(ctx context.Context, ieeeAddress uint64) error {
	if ieeeAddress == 0 {
		s.logger.Warn("incorrect parameters for 'leave' command, ieee address is required")
		return ErrMissingAddress
	}

	s.logger.Debug("running 'leave' command for 0x%016x", ieeeAddress)

	err := s.controller.RequestNodeLeave(ctx, zigbee.IEEEAddress(ieeeAddress))
	if err != nil {
		s.logger.Error("leave request for 0x%016x failed: %v", ieeeAddress, err)
		return err
	}

	s.logger.Info("leave request sent for 0x%016x", ieeeAddress)
	return nil
}

// IEEEPing resolves the device's current network address, an address
// resolution round trip over the air.
func (s *Service) IEEEPing(ctx context.Context, ieeeAddress uint64) (uint16, error) {
	if ieeeAddress == 0 {
		s.logger.Warn("incorrect parameters for 'ieee_ping' command, ieee address is required")
		return 0, ErrMissingAddress
	}

	s.logger.Debug("running 'ieee_ping' command for 0x%016x", ieeeAddress)

	nwk, err := s.controller.ResolveNodeNWKAddress(ctx, zigbee.IEEEAddress(ieeeAddress))
	if err != nil {
		s.logger.Error("ieee_ping of 0x%016x failed: %v", ieeeAddress, err)
		return 0, err
	}

	s.logger.Info("ieee_ping: 0x%016x answered as 0x%04x", ieeeAddress, uint16(nwk))
	return uint16(nwk), nil
}

// JoinWithCode registers a transient link key for a joining node and opens
// the network.
func (s *Service) JoinWithCode(ctx context.Context, ieeeAddress uint64, key []byte) error {
	if ieeeAddress == 0 {
		s.logger.Warn("incorrect parameters for 'join_with_code' command, ieee address is required")
		return ErrMissingAddress
	}
	if len(key) != 16 {
		s.logger.Warn("incorrect parameters for 'join_with_code' command, got %d key bytes", len(key))
		return ErrInvalidKey
	}

	var linkKey zigbee.NetworkKey
	copy(linkKey[:], key)

	if err := s.controller.AddTransientLinkKey(ctx, zigbee.IEEEAddress(ieeeAddress), linkKey); err != nil {
		s.logger.Error("adding transient link key for 0x%016x failed: %v", ieeeAddress, err)
		return err
	}

	if err := s.controller.PermitJoin(ctx, true); err != nil {
		s.logger.Error("permit join failed: %v", err)
		return err
	}

	s.logger.Info("transient link key registered for 0x%016x, joining permitted", ieeeAddress)
	return nil
}

// UpdateNetwork broadcasts a network channel / update id change.
func (s *Service) UpdateNetwork(ctx context.Context, channel uint8, updateId uint8) error {
	if channel < 11 || channel > 26 {
		s.logger.Warn("incorrect parameters for 'update_network' command, channel %d out of range", channel)
		return ErrInvalidChannel
	}

	s.logger.Debug("running 'update_network' command, channel %d update id %d", channel, updateId)

	if err := s.controller.UpdateNetworkParameters(ctx, channel, updateId); err != nil {
		s.logger.Error("network update to channel %d failed: %v", channel, err)
		return err
	}

	s.logger.Info("network update broadcast sent, channel %d update id %d", channel, updateId)
	return nil
}
