package controller

import (
	"context"
	"fmt"

	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zigbee"
	"github.com/supby/gigbeescan/internal/types"
	"github.com/supby/gigbeescan/internal/utils/reflector"
)

// SendClusterCommand injects one cluster specific command into a device,
// fields come from the command message as a loose JSON map.
func (c *Controller) SendClusterCommand(ctx context.Context, devCmd types.DeviceCommandMessage) error {
	message := zcl.Message{
		FrameType:           zcl.FrameLocal,
		Direction:           zcl.ClientToServer,
		TransactionSequence: c.nextTransactionSequence(),
		Manufacturer:        zigbee.NoManufacturer,
		ClusterID:           zigbee.ClusterID(devCmd.ClusterID),
		SourceEndpoint:      adapterEndpoint,
		DestinationEndpoint: zigbee.Endpoint(devCmd.Endpoint),
		CommandIdentifier:   zcl.CommandIdentifier(devCmd.CommandIdentifier),
	}

	command, err := c.zclCommandRegistry.GetLocalCommand(message.ClusterID, message.Manufacturer, message.Direction, message.CommandIdentifier)
	if err != nil {
		return fmt.Errorf("no local command for ClusterID: %v, CommandIdentifier: %v: %w",
			message.ClusterID, message.CommandIdentifier, err)
	}

	reflector.SetStructProperties(devCmd.CommandData, command)

	message.Command = command

	appMsg, err := c.zclCommandRegistry.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal zcl message: %w", err)
	}

	err = c.zstack.SendApplicationMessageToNode(ctx, zigbee.IEEEAddress(devCmd.IEEEAddress), appMsg, false)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	c.logger.Info("Command (ClusterID: %v, Command: %v) is sent to 0x%x",
		message.ClusterID, message.CommandIdentifier, devCmd.IEEEAddress)

	return nil
}
