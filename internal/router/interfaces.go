package router

import (
	"github.com/supby/gigbeescan/internal/types"
)

type MQTTRouter interface {
	PublishDeviceMessage(ieeeAddress uint64, msg interface{}, subtopic string)
	PublishGatewayMessage(msg interface{}, subtopic string)

	SubscribeOnScanMessage(callback func(cmd types.DeviceScanCommand))
	SubscribeOnLeaveMessage(callback func(cmd types.DeviceLeaveCommand))
	SubscribeOnPingMessage(callback func(cmd types.DevicePingCommand))
	SubscribeOnCommandMessage(callback func(cmd types.DeviceCommandMessage))
	SubscribeOnJoinCodeMessage(callback func(cmd types.JoinCodeCommand))
	SubscribeOnNetworkUpdateMessage(callback func(cmd types.NetworkUpdateCommand))
	SubscribeOnSummaryMessage(callback func())
	SubscribeOnSetGatewayConfigMessage(callback func(cmd types.GatewayConfigSetMessage))
}
