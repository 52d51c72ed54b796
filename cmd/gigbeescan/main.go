package main

import (
	"context"
	"encoding/hex"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/shimmeringbee/zigbee"

	"github.com/supby/gigbeescan/internal/admin"
	"github.com/supby/gigbeescan/internal/configuration"
	"github.com/supby/gigbeescan/internal/controller"
	"github.com/supby/gigbeescan/internal/db"
	"github.com/supby/gigbeescan/internal/logger"
	"github.com/supby/gigbeescan/internal/mqtt"
	"github.com/supby/gigbeescan/internal/router"
	"github.com/supby/gigbeescan/internal/scan"
	"github.com/supby/gigbeescan/internal/types"
	"github.com/supby/gigbeescan/internal/zcldef"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mainLogger := logger.GetLogger("[main]", logger.LogLevelError)

	var configFile = flag.String("c", "./configuration.yaml", "path to config file name")
	flag.Parse()

	configService, err := configuration.Init(*configFile)
	if err != nil {
		mainLogger.Error("Configuration initialization error: %v", err)
		os.Exit(1)
	}

	cfg := configService.GetConfiguration()

	database, err := db.NewDeviceDB("./data")
	if err != nil {
		mainLogger.Error("db initialization error: %v", err)
		os.Exit(1)
	}
	defer database.Close(ctx)

	zclDefService, err := zcldef.New("./zcldef/zcldef.json", logger.GetLogger("[ZCLDef]", cfg.LogLevel))
	if err != nil {
		mainLogger.Error("zcl definitions load error: %v", err)
		os.Exit(1)
	}

	mqttClient, mqttDisconnect, err := mqtt.NewClient(&cfg)
	if err != nil {
		mainLogger.Error("mqtt initialization error: %v", err)
		os.Exit(1)
	}
	defer mqttDisconnect()

	mqttRouter := router.NewMQTTRouter(configService, mqttClient, database)

	ctrl := controller.New(database, &cfg)
	scanner := scan.NewScanner(ctrl, ctrl, ctrl, zclDefService, logger.GetLogger("[Scanner]", cfg.LogLevel), scanOptions(&cfg))
	adminService := admin.NewService(ctrl, logger.GetLogger("[Admin]", cfg.LogLevel))

	setupSubscriptions(ctx, &cfg, configService, mqttRouter, ctrl, scanner, adminService, database)

	if err := ctrl.StartAsync(ctx); err != nil {
		mainLogger.Error("controller start error: %v", err)
		os.Exit(1)
	}
	defer ctrl.Stop()

	waitForInterruptSignal()

	mainLogger.Info("exiting app...")
}

func scanOptions(cfg *configuration.Configuration) scan.Options {
	opts := scan.DefaultOptions()
	if cfg.ScanConfiguration.PageDelayMs > 0 {
		opts.PageDelay = time.Duration(cfg.ScanConfiguration.PageDelayMs) * time.Millisecond
	}
	if cfg.ScanConfiguration.ReadDelayMs > 0 {
		opts.ReadDelay = time.Duration(cfg.ScanConfiguration.ReadDelayMs) * time.Millisecond
	}
	if cfg.ScanConfiguration.RequestRetries > 0 {
		opts.Attempts = cfg.ScanConfiguration.RequestRetries
	}
	if cfg.ScanConfiguration.RequestTimeoutS > 0 {
		opts.RequestTimeout = time.Duration(cfg.ScanConfiguration.RequestTimeoutS) * time.Second
	}
	return opts
}

func setupSubscriptions(
	ctx context.Context,
	cfg *configuration.Configuration,
	configService configuration.ConfigurationService,
	mqttRouter router.MQTTRouter,
	ctrl *controller.Controller,
	scanner *scan.Scanner,
	adminService *admin.Service,
	database db.DeviceDB) {

	mqttRouter.SubscribeOnScanMessage(func(cmd types.DeviceScanCommand) {
		processScanCommand(ctx, cfg, mqttRouter, scanner, database, cmd)
	})

	mqttRouter.SubscribeOnLeaveMessage(func(cmd types.DeviceLeaveCommand) {
		err := adminService.Leave(ctx, cmd.IEEEAddress)
		mqttRouter.PublishDeviceMessage(cmd.IEEEAddress, statusMessage(err), "leave_result")
	})

	mqttRouter.SubscribeOnPingMessage(func(cmd types.DevicePingCommand) {
		nwk, err := adminService.IEEEPing(ctx, cmd.IEEEAddress)
		result := mqtt.DevicePingResultMessage{
			IEEEAddress:    cmd.IEEEAddress,
			NetworkAddress: nwk,
		}
		if err != nil {
			result.Error = err.Error()
		}
		mqttRouter.PublishDeviceMessage(cmd.IEEEAddress, result, "ping_result")
	})

	mqttRouter.SubscribeOnCommandMessage(func(cmd types.DeviceCommandMessage) {
		err := ctrl.SendClusterCommand(ctx, cmd)
		mqttRouter.PublishDeviceMessage(cmd.IEEEAddress, statusMessage(err), "command_result")
	})

	mqttRouter.SubscribeOnJoinCodeMessage(func(cmd types.JoinCodeCommand) {
		key, err := hex.DecodeString(cmd.Key)
		if err == nil {
			err = adminService.JoinWithCode(ctx, cmd.IEEEAddress, key)
		}
		mqttRouter.PublishGatewayMessage(statusMessage(err), "join_code_result")
	})

	mqttRouter.SubscribeOnNetworkUpdateMessage(func(cmd types.NetworkUpdateCommand) {
		err := adminService.UpdateNetwork(ctx, cmd.Channel, cmd.UpdateID)
		mqttRouter.PublishGatewayMessage(statusMessage(err), "nwk_update_result")
	})

	mqttRouter.SubscribeOnSummaryMessage(func() {
		publishNodeSummaries(ctx, mqttRouter, database, cfg)
	})

	mqttRouter.SubscribeOnSetGatewayConfigMessage(func(cmd types.GatewayConfigSetMessage) {
		processSetGatewayConfig(ctx, configService, ctrl, cmd)
	})

	ctrl.SubscribeOnDeviceJoin(func(e zigbee.NodeJoinEvent) {
		mqttRouter.PublishDeviceMessage(uint64(e.IEEEAddress), e, "join")
	})
	ctrl.SubscribeOnDeviceLeave(func(e zigbee.NodeLeaveEvent) {
		mqttRouter.PublishDeviceMessage(uint64(e.IEEEAddress), e, "leave")
	})
	ctrl.SubscribeOnDeviceUpdate(func(e zigbee.NodeUpdateEvent) {
		mqttRouter.PublishDeviceMessage(uint64(e.IEEEAddress), e, "update")
	})
}

func processScanCommand(
	ctx context.Context,
	cfg *configuration.Configuration,
	mqttRouter router.MQTTRouter,
	scanner *scan.Scanner,
	database db.DeviceDB,
	cmd types.DeviceScanCommand) {

	result := mqtt.DeviceScanResultMessage{IEEEAddress: cmd.IEEEAddress}

	report, err := scanner.ScanDevice(ctx, zigbee.IEEEAddress(cmd.IEEEAddress), cmd.Endpoints)
	if err != nil {
		result.Error = err.Error()
		mqttRouter.PublishDeviceMessage(cmd.IEEEAddress, result, "scan_result")
		return
	}

	filename, err := scan.WriteReport(cfg.ScanConfiguration.ScansDirectory, report)
	if err != nil {
		result.Error = err.Error()
		mqttRouter.PublishDeviceMessage(cmd.IEEEAddress, result, "scan_result")
		return
	}

	result.ReportFile = filename
	result.Endpoints = len(report.Endpoints)

	database.UpdateDevice(ctx, cmd.IEEEAddress, func(device *db.Device) {
		device.Model = report.Model
		device.Manufacturer = report.Manufacturer
		device.PowerSource = report.PowerSource
		device.LastScanFile = filename
		device.LastScanTime = time.Now()
	})

	mqttRouter.PublishDeviceMessage(cmd.IEEEAddress, result, "scan_result")
}

func publishNodeSummaries(
	ctx context.Context,
	mqttRouter router.MQTTRouter,
	database db.DeviceDB,
	cfg *configuration.Configuration) {

	devices, err := database.GetDevices(ctx)
	if err != nil {
		return
	}

	summaryLogger := logger.GetLogger("[Summary]", cfg.LogLevel)

	summaries, messages := nodeSummariesFromDevices(devices)

	scan.LogNodeSummaries(summaryLogger, summaries)
	mqttRouter.PublishGatewayMessage(messages, "summary_result")
}

func nodeSummariesFromDevices(devices []db.Device) ([]scan.NodeSummary, []mqtt.NodeSummaryMessage) {
	summaries := make([]scan.NodeSummary, 0, len(devices))
	messages := make([]mqtt.NodeSummaryMessage, 0, len(devices))
	for _, device := range devices {
		summaries = append(summaries, scan.NodeSummary{
			IEEEAddress:    device.IEEEAddress,
			NetworkAddress: device.NetworkAddress,
			Model:          device.Model,
			Manufacturer:   device.Manufacturer,
			PowerSource:    device.PowerSource,
			LogicalType:    device.LogicalType,
		})
		messages = append(messages, mqtt.NodeSummaryMessage{
			IEEEAddress:    device.IEEEAddress,
			NetworkAddress: device.NetworkAddress,
			LogicalType:    scan.LogicalTypeName(device.LogicalType),
			LQI:            device.LQI,
			Depth:          device.Depth,
			Model:          device.Model,
			Manufacturer:   device.Manufacturer,
			PowerSource:    device.PowerSource,
			LastScanFile:   device.LastScanFile,
		})
	}
	return summaries, messages
}

func processSetGatewayConfig(
	ctx context.Context,
	configService configuration.ConfigurationService,
	ctrl *controller.Controller,
	cmd types.GatewayConfigSetMessage) {

	cfg := configService.GetConfiguration()
	if cmd.PermitJoin == cfg.PermitJoin {
		return
	}

	var err error
	if cmd.PermitJoin {
		err = ctrl.PermitJoin(ctx, true)
	} else {
		err = ctrl.DenyJoin(ctx)
	}
	if err != nil {
		return
	}

	cfg.PermitJoin = cmd.PermitJoin
	configService.Update(cfg)
}

func statusMessage(err error) mqtt.StatusMessage {
	if err != nil {
		return mqtt.StatusMessage{Success: false, Error: err.Error()}
	}
	return mqtt.StatusMessage{Success: true}
}

func waitForInterruptSignal() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt)
	defer func() {
		signal.Stop(sigchan)
	}()
	<-sigchan
}
