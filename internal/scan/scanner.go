package scan

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shimmeringbee/zigbee"

	"github.com/supby/gigbeescan/internal/logger"
	"github.com/supby/gigbeescan/internal/zcldef"
)

const (
	basicClusterID        = 0x0000
	basicAttrManufacturer = 0x0004
	basicAttrModelId      = 0x0005
	basicAttrPowerSource  = 0x0007
)

type Options struct {
	PageSize       uint8
	ReadBatchSize  int
	Attempts       int
	RequestTimeout time.Duration
	PageDelay      time.Duration
	ReadDelay      time.Duration
}

func DefaultOptions() Options {
	return Options{
		PageSize:       16,
		ReadBatchSize:  4,
		Attempts:       5,
		RequestTimeout: 5 * time.Second,
		PageDelay:      300 * time.Millisecond,
		ReadDelay:      300 * time.Millisecond,
	}
}

// Scanner walks a device's endpoints and clusters and produces a DeviceScan
// report. All requests are issued strictly sequentially, one scan at a time,
// the single radio link must not see overlapping traffic.
type Scanner struct {
	transport Transport
	browser   DeviceBrowser
	resolver  AddressResolver
	defs      zcldef.ZCLDefService
	logger    logger.Logger
	opts      Options
	mtx       sync.Mutex
}

func NewScanner(
	transport Transport,
	browser DeviceBrowser,
	resolver AddressResolver,
	defs zcldef.ZCLDefService,
	log logger.Logger,
	opts Options) *Scanner {

	if opts.PageSize == 0 {
		opts = DefaultOptions()
	}

	return &Scanner{
		transport: transport,
		browser:   browser,
		resolver:  resolver,
		defs:      defs,
		logger:    log,
		opts:      opts,
	}
}

// ScanDevice runs a full capability scan of one device. A non-empty
// endpoints list restricts the scan to those endpoints. Failures inside one
// cluster never abort sibling clusters or endpoints, the report is always
// best effort.
func (s *Scanner) ScanDevice(ctx context.Context, ieeeAddress zigbee.IEEEAddress, onlyEndpoints []uint8) (*DeviceScan, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	wanted := make(map[uint8]bool, len(onlyEndpoints))
	for _, endpoint := range onlyEndpoints {
		wanted[endpoint] = true
	}

	result := &DeviceScan{IEEEAddress: ieeeAddress}

	nwk, err := s.resolver.ResolveNodeNWKAddress(ctx, ieeeAddress)
	if err != nil {
		s.logger.Warn("failed to resolve network address of 0x%016x: %v", uint64(ieeeAddress), err)
	} else {
		result.NWKAddress = uint16(nwk)
	}

	s.logger.Debug("scanning device 0x%04x", result.NWKAddress)

	endpoints, err := s.browser.QueryNodeEndpoints(ctx, ieeeAddress)
	if err != nil {
		return nil, fmt.Errorf("query node endpoints: %w", err)
	}

	for _, endpoint := range endpoints {
		if endpoint == 0 {
			continue
		}
		if len(wanted) > 0 && !wanted[uint8(endpoint)] {
			continue
		}

		s.logger.Debug("scanning endpoint #%d", endpoint)

		endpointDes, err := s.browser.QueryNodeEndpointDescription(ctx, ieeeAddress, endpoint)
		if err != nil {
			s.logger.Error("failed to get endpoint description %d: %v", endpoint, err)
			continue
		}

		if result.Model == "" {
			s.readDeviceIdentity(ctx, result, endpoint)
		}

		epScan := &EndpointScan{
			ID:          uint8(endpointDes.Endpoint),
			DeviceType:  endpointDes.DeviceID,
			ProfileID:   uint16(endpointDes.ProfileID),
			InClusters:  make(map[uint16]*ClusterScan, len(endpointDes.InClusterList)),
			OutClusters: make(map[uint16]*ClusterScan, len(endpointDes.OutClusterList)),
		}

		for _, clusterID := range endpointDes.InClusterList {
			addr := ClusterAddress{IEEEAddress: ieeeAddress, Endpoint: endpoint, ClusterID: clusterID}
			s.logger.Debug("scanning cluster 0x%04x as input cluster", clusterID)
			epScan.InClusters[uint16(clusterID)] = s.scanCluster(ctx, addr, true)
		}

		for _, clusterID := range endpointDes.OutClusterList {
			addr := ClusterAddress{IEEEAddress: ieeeAddress, Endpoint: endpoint, ClusterID: clusterID}
			s.logger.Debug("scanning cluster 0x%04x as output cluster", clusterID)
			epScan.OutClusters[uint16(clusterID)] = s.scanCluster(ctx, addr, false)
		}

		result.Endpoints = append(result.Endpoints, epScan)
	}

	return result, nil
}

// scanCluster discovers attributes, reads their values and discovers both
// command directions. When the cluster is scanned in its client role the
// received and generated sets swap places in the report.
func (s *Scanner) scanCluster(ctx context.Context, addr ClusterAddress, server bool) *ClusterScan {
	def, known := s.defs.GetById(uint16(addr.ClusterID))

	name := def.Name
	if !known {
		name = strconv.FormatUint(uint64(addr.ClusterID), 10)
	}

	cs := &ClusterScan{
		ClusterID: uint16(addr.ClusterID),
		Name:      name,
	}

	cs.Attributes = s.discoverAttributes(ctx, addr, def)
	s.readAttributeValues(ctx, addr, cs.Attributes)

	received := s.discoverCommands(ctx, addr, def, commandsReceived)
	generated := s.discoverCommands(ctx, addr, def, commandsGenerated)

	if server {
		cs.CommandsReceived = received
		cs.CommandsGenerated = generated
	} else {
		cs.CommandsReceived = generated
		cs.CommandsGenerated = received
	}

	return cs
}

// readDeviceIdentity reads manufacturer, model and power source from the
// Basic cluster. Best effort, an unreachable Basic cluster only costs the
// report its friendly names.
func (s *Scanner) readDeviceIdentity(ctx context.Context, result *DeviceScan, endpoint zigbee.Endpoint) {
	addr := ClusterAddress{IEEEAddress: result.IEEEAddress, Endpoint: endpoint, ClusterID: basicClusterID}

	res, err := callWithRetry(ctx, s.opts.RequestTimeout, s.opts.Attempts, func(invokeCtx context.Context) (ReadResult, error) {
		return s.transport.ReadAttributes(invokeCtx, addr, []uint16{basicAttrManufacturer, basicAttrModelId, basicAttrPowerSource})
	})
	if err != nil {
		s.logger.Warn("failed to read basic cluster of 0x%016x: %v", uint64(result.IEEEAddress), err)
		return
	}

	if v, ok := res.Succeeded[basicAttrManufacturer]; ok {
		result.Manufacturer = asString(decodeAttributeValue(v.Value))
	}
	if v, ok := res.Succeeded[basicAttrModelId]; ok {
		result.Model = asString(decodeAttributeValue(v.Value))
	}
	if v, ok := res.Succeeded[basicAttrPowerSource]; ok {
		result.PowerSource = powerSourceName(v.Value)
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

var powerSourceNames = map[uint8]string{
	0x00: "unknown",
	0x01: "mains_single_phase",
	0x02: "mains_three_phase",
	0x03: "battery",
	0x04: "dc_source",
	0x05: "emergency_mains_constant",
	0x06: "emergency_mains_transfer",
}

func powerSourceName(v interface{}) string {
	var code uint8

	switch value := v.(type) {
	case uint8:
		code = value
	case uint64:
		code = uint8(value)
	case int:
		code = uint8(value)
	default:
		return ""
	}

	// Bit 7 flags battery backup, the source is in the low bits.
	if name, ok := powerSourceNames[code&0x7f]; ok {
		return name
	}

	return fmt.Sprintf("0x%02x", code)
}
