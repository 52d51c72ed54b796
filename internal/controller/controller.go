package controller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zcl/commands/global"
	"github.com/shimmeringbee/zcl/commands/local/color_control"
	"github.com/shimmeringbee/zcl/commands/local/ias_warning_device"
	"github.com/shimmeringbee/zcl/commands/local/ias_zone"
	"github.com/shimmeringbee/zcl/commands/local/level"
	"github.com/shimmeringbee/zcl/commands/local/onoff"
	"github.com/shimmeringbee/zcl/communicator"
	"github.com/shimmeringbee/zigbee"
	"github.com/shimmeringbee/zstack"
	"github.com/supby/gigbeescan/internal/configuration"
	"github.com/supby/gigbeescan/internal/db"
	"github.com/supby/gigbeescan/internal/logger"
	"go.bug.st/serial.v1"
)

// Controller owns the zstack adapter and the ZCL command surface on top of
// it. The scan and admin services talk to the network only through it.
type Controller struct {
	zstack             *zstack.ZStack
	configuration      *configuration.Configuration
	zclCommandRegistry *zcl.CommandRegistry
	zclCommunicator    *communicator.Communicator
	database           db.DeviceDB
	logger             logger.Logger
	transactionSeq     uint32

	// Subscriptions are wired before StartAsync, but the event loop's
	// goroutines read them, so access stays guarded.
	callbackMtx    sync.RWMutex
	onDeviceJoin   func(e zigbee.NodeJoinEvent)
	onDeviceLeave  func(e zigbee.NodeLeaveEvent)
	onDeviceUpdate func(e zigbee.NodeUpdateEvent)
}

func New(
	database db.DeviceDB,
	cfg *configuration.Configuration) *Controller {

	zclCommandRegistry := zcl.NewCommandRegistry()
	global.Register(zclCommandRegistry)
	onoff.Register(zclCommandRegistry)
	level.Register(zclCommandRegistry)
	color_control.Register(zclCommandRegistry)
	ias_warning_device.Register(zclCommandRegistry)
	ias_zone.Register(zclCommandRegistry)

	return &Controller{
		configuration:      cfg,
		zclCommandRegistry: zclCommandRegistry,
		database:           database,
		logger:             logger.GetLogger("[Controller]", cfg.LogLevel),
	}
}

func (c *Controller) SubscribeOnDeviceJoin(cb func(e zigbee.NodeJoinEvent)) {
	c.callbackMtx.Lock()
	defer c.callbackMtx.Unlock()
	c.onDeviceJoin = cb
}

func (c *Controller) SubscribeOnDeviceLeave(cb func(e zigbee.NodeLeaveEvent)) {
	c.callbackMtx.Lock()
	defer c.callbackMtx.Unlock()
	c.onDeviceLeave = cb
}

func (c *Controller) SubscribeOnDeviceUpdate(cb func(e zigbee.NodeUpdateEvent)) {
	c.callbackMtx.Lock()
	defer c.callbackMtx.Unlock()
	c.onDeviceUpdate = cb
}

// StartAsync brings the adapter up and spawns the event loop. The returned
// error is fatal, there is no point running without a radio.
func (c *Controller) StartAsync(ctx context.Context) error {
	z, err := c.initZStack(ctx)
	if err != nil {
		return fmt.Errorf("zstack initialization: %w", err)
	}

	c.zstack = z
	c.zclCommunicator = communicator.NewCommunicator(z, c.zclCommandRegistry)

	go c.startEventLoop(ctx)

	return nil
}

func (c *Controller) Stop() {
	if c.zstack == nil {
		return
	}

	c.zstack.Stop()
}

func (c *Controller) initZStack(ctx context.Context) (*zstack.ZStack, error) {
	initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	mode := &serial.Mode{
		BaudRate: int(c.configuration.SerialConfiguration.BaudRate),
	}

	port, err := serial.Open(c.configuration.SerialConfiguration.PortName, mode)
	if err != nil {
		return nil, err
	}
	port.SetRTS(true)

	/* Construct node table, cache of network nodes. */
	dbDevices, err := c.database.GetDevices(initCtx)
	if err != nil {
		return nil, err
	}
	t := zstack.NewNodeTable()
	znodes := make([]zigbee.Node, len(dbDevices))
	for i, dbNode := range dbDevices {
		znodes[i] = zigbee.Node{
			IEEEAddress:    zigbee.IEEEAddress(dbNode.IEEEAddress),
			NetworkAddress: zigbee.NetworkAddress(dbNode.NetworkAddress),
			LogicalType:    zigbee.LogicalType(dbNode.LogicalType),
			LQI:            dbNode.LQI,
			Depth:          dbNode.Depth,
			LastDiscovered: dbNode.LastDiscovered,
			LastReceived:   dbNode.LastReceived,
		}
	}
	t.Load(znodes)

	z := zstack.New(port, t)

	netCfg := zigbee.NetworkConfiguration{
		PANID:         zigbee.PANID(c.configuration.ZNetworkConfiguration.PANID),
		ExtendedPANID: zigbee.ExtendedPANID(c.configuration.ZNetworkConfiguration.ExtendedPANID),
		NetworkKey:    zigbee.NetworkKey(c.configuration.ZNetworkConfiguration.NetworkKey),
		Channel:       c.configuration.ZNetworkConfiguration.Channel,
	}

	if err := z.Initialise(initCtx, netCfg); err != nil {
		return nil, err
	}

	if c.configuration.PermitJoin {
		if err := z.PermitJoin(initCtx, true); err != nil {
			c.logger.Warn("error permit join: %v", err)
		}
	} else {
		if err := z.DenyJoin(initCtx); err != nil {
			c.logger.Warn("error deny join: %v", err)
		}
	}

	if err := z.RegisterAdapterEndpoint(
		initCtx,
		zigbee.Endpoint(0x01),
		zigbee.ProfileHomeAutomation,
		1,
		1,
		[]zigbee.ClusterID{},
		[]zigbee.ClusterID{}); err != nil {
		return nil, err
	}

	return z, nil
}

func (c *Controller) startEventLoop(ctx context.Context) {
	c.logger.Info("Start event loop")
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event, err := c.zstack.ReadEvent(ctx)
		if err != nil {
			c.logger.Error("Error read event: %v", err)
		}

		switch e := event.(type) {
		case zigbee.NodeJoinEvent:
			c.logger.Debug("Node join: %v", e)
			go c.processNodeJoin(e)
		case zigbee.NodeLeaveEvent:
			c.logger.Debug("Node leave: %v", e)
			go c.processNodeLeave(e)
		case zigbee.NodeUpdateEvent:
			c.logger.Debug("Node update: %v", e)
			go c.processNodeUpdate(e)
		case zigbee.NodeIncomingMessageEvent:
			c.logger.Debug("Node message: %v", e)
			c.saveNode(e.Node)
			c.zclCommunicator.ProcessIncomingMessage(e)
		}
	}
}

func (c *Controller) saveNode(znode zigbee.Node) {
	err := c.database.UpdateDevice(context.Background(), uint64(znode.IEEEAddress), func(device *db.Device) {
		device.NetworkAddress = uint16(znode.NetworkAddress)
		device.LogicalType = uint8(znode.LogicalType)
		device.LQI = znode.LQI
		device.Depth = znode.Depth
		device.LastDiscovered = znode.LastDiscovered
		device.LastReceived = znode.LastReceived
	})
	if err != nil {
		c.logger.Error("Error saving node 0x%x: %v", uint64(znode.IEEEAddress), err)
	}
}

func (c *Controller) processNodeJoin(e zigbee.NodeJoinEvent) {
	c.saveNode(e.Node)

	c.callbackMtx.RLock()
	cb := c.onDeviceJoin
	c.callbackMtx.RUnlock()

	if cb != nil {
		cb(e)
	}
}

func (c *Controller) processNodeLeave(e zigbee.NodeLeaveEvent) {
	c.callbackMtx.RLock()
	cb := c.onDeviceLeave
	c.callbackMtx.RUnlock()

	if cb != nil {
		cb(e)
	}
}

func (c *Controller) processNodeUpdate(e zigbee.NodeUpdateEvent) {
	c.saveNode(e.Node)

	c.callbackMtx.RLock()
	cb := c.onDeviceUpdate
	c.callbackMtx.RUnlock()

	if cb != nil {
		cb(e)
	}
}

func (c *Controller) nextTransactionSequence() uint8 {
	return uint8(atomic.AddUint32(&c.transactionSeq, 1))
}
