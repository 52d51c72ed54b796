package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/supby/gigbeescan/internal/configuration"
	"github.com/supby/gigbeescan/internal/db"
	"github.com/supby/gigbeescan/internal/logger"
	"github.com/supby/gigbeescan/internal/mqtt"
	"github.com/supby/gigbeescan/internal/types"
)

const (
	MQTT_DEVICE_SCAN    = "scan"
	MQTT_DEVICE_LEAVE   = "leave"
	MQTT_DEVICE_PING    = "ping"
	MQTT_DEVICE_COMMAND = "command"
	MQTT_GET_DEVICES    = "get_devices"
	MQTT_DEVICES        = "devices"
	MQTT_GATEWAY        = "gateway"
	MQTT_PERMIT_JOIN    = "permit_join"
	MQTT_JOIN_CODE      = "join_code"
	MQTT_NWK_UPDATE     = "nwk_update"
	MQTT_SUMMARY        = "summary"
)

type mqttRouter struct {
	mqttClient           mqtt.MqttClient
	configurationService configuration.ConfigurationService
	db                   db.DeviceDB
	logger               logger.Logger

	onScanMessage             func(cmd types.DeviceScanCommand)
	onLeaveMessage            func(cmd types.DeviceLeaveCommand)
	onPingMessage             func(cmd types.DevicePingCommand)
	onCommandMessage          func(cmd types.DeviceCommandMessage)
	onJoinCodeMessage         func(cmd types.JoinCodeCommand)
	onNetworkUpdateMessage    func(cmd types.NetworkUpdateCommand)
	onSummaryMessage          func()
	onSetGatewayConfigMessage func(cmd types.GatewayConfigSetMessage)
}

func NewMQTTRouter(
	configurationService configuration.ConfigurationService,
	mqttClient mqtt.MqttClient,
	database db.DeviceDB) MQTTRouter {
	cfg := configurationService.GetConfiguration()
	ret := mqttRouter{
		mqttClient:           mqttClient,
		configurationService: configurationService,
		db:                   database,
		logger:               logger.GetLogger("[MQTT Router]", cfg.LogLevel),
	}

	mqttClient.Subscribe(ret.mqttMessage)

	return &ret
}

func (h *mqttRouter) PublishDeviceMessage(ieeeAddress uint64, msg interface{}, subtopic string) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error Marshal device message: %v", err)
		return
	}

	h.mqttClient.Publish(fmt.Sprintf("0x%x/%v", ieeeAddress, subtopic), jsonData)
}

func (h *mqttRouter) PublishGatewayMessage(msg interface{}, subtopic string) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error Marshal gateway message: %v", err)
		return
	}

	h.mqttClient.Publish(fmt.Sprintf("%v/%v", MQTT_GATEWAY, subtopic), jsonData)
}

func (h *mqttRouter) SubscribeOnScanMessage(callback func(cmd types.DeviceScanCommand)) {
	h.onScanMessage = callback
}

func (h *mqttRouter) SubscribeOnLeaveMessage(callback func(cmd types.DeviceLeaveCommand)) {
	h.onLeaveMessage = callback
}

func (h *mqttRouter) SubscribeOnPingMessage(callback func(cmd types.DevicePingCommand)) {
	h.onPingMessage = callback
}

func (h *mqttRouter) SubscribeOnCommandMessage(callback func(cmd types.DeviceCommandMessage)) {
	h.onCommandMessage = callback
}

func (h *mqttRouter) SubscribeOnJoinCodeMessage(callback func(cmd types.JoinCodeCommand)) {
	h.onJoinCodeMessage = callback
}

func (h *mqttRouter) SubscribeOnNetworkUpdateMessage(callback func(cmd types.NetworkUpdateCommand)) {
	h.onNetworkUpdateMessage = callback
}

func (h *mqttRouter) SubscribeOnSummaryMessage(callback func()) {
	h.onSummaryMessage = callback
}

func (h *mqttRouter) SubscribeOnSetGatewayConfigMessage(callback func(cmd types.GatewayConfigSetMessage)) {
	h.onSetGatewayConfigMessage = callback
}

func (h *mqttRouter) mqttMessage(topic string, message []byte) {
	topicParts := strings.Split(topic, "/")
	if len(topicParts) < 3 {
		return
	}

	if topicParts[1] == MQTT_GATEWAY {
		h.handleGatewayMessage(topicParts[2], message)
		return
	}

	h.handleDeviceMessage(topicParts[1], topicParts[2], message)
}

func (h *mqttRouter) handleGatewayMessage(command string, message []byte) {
	switch command {
	case MQTT_GET_DEVICES:
		h.publishDevicesList()
	case MQTT_PERMIT_JOIN:
		h.handlePermitJoin(message)
	case MQTT_JOIN_CODE:
		h.handleJoinCode(message)
	case MQTT_NWK_UPDATE:
		h.handleNetworkUpdate(message)
	case MQTT_SUMMARY:
		if h.onSummaryMessage != nil {
			h.onSummaryMessage()
		}
	}
}

func (h *mqttRouter) publishDevicesList() {
	devices, err := h.db.GetDevices(context.Background())
	if err != nil {
		h.logger.Error("Error reading devices list: %v", err)
		return
	}

	h.PublishGatewayMessage(devices, MQTT_DEVICES)
}

func (h *mqttRouter) handlePermitJoin(message []byte) {
	var msg mqtt.SetGatewayConfigMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.logger.Error("Error unmarshal permit_join message: %v", err)
		return
	}

	if h.onSetGatewayConfigMessage != nil {
		h.onSetGatewayConfigMessage(types.GatewayConfigSetMessage{
			PermitJoin: msg.PermitJoin,
		})
	}
}

func (h *mqttRouter) handleJoinCode(message []byte) {
	var msg mqtt.JoinCodeMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.logger.Error("Error unmarshal join_code message: %v", err)
		return
	}

	if h.onJoinCodeMessage != nil {
		h.onJoinCodeMessage(types.JoinCodeCommand{
			IEEEAddress: msg.IEEEAddress,
			Key:         msg.Key,
		})
	}
}

func (h *mqttRouter) handleNetworkUpdate(message []byte) {
	var msg mqtt.NetworkUpdateMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.logger.Error("Error unmarshal nwk_update message: %v", err)
		return
	}

	if h.onNetworkUpdateMessage != nil {
		h.onNetworkUpdateMessage(types.NetworkUpdateCommand{
			Channel:  msg.Channel,
			UpdateID: msg.UpdateID,
		})
	}
}

func (h *mqttRouter) handleDeviceMessage(deviceAddrStr string, command string, message []byte) {
	deviceAddr, err := strconv.ParseUint(strings.Replace(deviceAddrStr, "0x", "", -1), 16, 64)
	if err != nil {
		h.logger.Error("Error parsing device address as uint64: %v", err)
		return
	}

	switch command {
	case MQTT_DEVICE_SCAN:
		h.handleDeviceScanCommand(deviceAddr, message)
	case MQTT_DEVICE_LEAVE:
		h.handleDeviceLeaveCommand(deviceAddr)
	case MQTT_DEVICE_PING:
		h.handleDevicePingCommand(deviceAddr)
	case MQTT_DEVICE_COMMAND:
		h.handleDeviceCommand(deviceAddr, message)
	}
}

func (h *mqttRouter) handleDeviceScanCommand(deviceAddr uint64, message []byte) {
	var devMsg mqtt.DeviceScanMessage
	if len(message) > 0 {
		if err := json.Unmarshal(message, &devMsg); err != nil {
			h.logger.Error("Error unmarshal SCAN message: %v", err)
			return
		}
	}

	h.logger.Info("SCAN message received. Device:0x%x", deviceAddr)

	if h.onScanMessage != nil {
		h.onScanMessage(types.DeviceScanCommand{
			IEEEAddress: deviceAddr,
			Endpoints:   devMsg.Endpoints,
		})
	}
}

func (h *mqttRouter) handleDeviceLeaveCommand(deviceAddr uint64) {
	h.logger.Info("LEAVE message received. Device:0x%x", deviceAddr)

	if h.onLeaveMessage != nil {
		h.onLeaveMessage(types.DeviceLeaveCommand{
			IEEEAddress: deviceAddr,
		})
	}
}

func (h *mqttRouter) handleDevicePingCommand(deviceAddr uint64) {
	h.logger.Info("PING message received. Device:0x%x", deviceAddr)

	if h.onPingMessage != nil {
		h.onPingMessage(types.DevicePingCommand{
			IEEEAddress: deviceAddr,
		})
	}
}

func (h *mqttRouter) handleDeviceCommand(deviceAddr uint64, message []byte) {
	var devMsg mqtt.DeviceCommandMessage
	if err := json.Unmarshal(message, &devMsg); err != nil {
		h.logger.Error("Error unmarshal COMMAND message: %v", err)
		return
	}

	h.logger.Info("COMMAND message received. Device:0x%x, ClusterID:%v, CommandID:%v",
		deviceAddr, devMsg.ClusterID, devMsg.CommandIdentifier)

	if h.onCommandMessage != nil {
		h.onCommandMessage(types.DeviceCommandMessage{
			IEEEAddress:       deviceAddr,
			ClusterID:         devMsg.ClusterID,
			Endpoint:          devMsg.Endpoint,
			CommandIdentifier: devMsg.CommandIdentifier,
			CommandData:       devMsg.CommandData,
		})
	}
}
