package scan

import "github.com/supby/gigbeescan/internal/logger"

// NodeSummary is the coarse per device view logged without a full scan.
type NodeSummary struct {
	IEEEAddress    uint64
	NetworkAddress uint16
	Model          string
	Manufacturer   string
	PowerSource    string
	LogicalType    uint8
}

func LogicalTypeName(logicalType uint8) string {
	switch logicalType {
	case 0:
		return "coordinator"
	case 1:
		return "router"
	case 2:
		return "end_device"
	default:
		return "unknown"
	}
}

// LogNodeSummaries logs one line per known device, independent of and much
// cheaper than a capability scan.
func LogNodeSummaries(log logger.Logger, nodes []NodeSummary) {
	for _, node := range nodes {
		model := node.Model
		if model == "" {
			model = "unknown"
		}
		manufacturer := node.Manufacturer
		if manufacturer == "" {
			manufacturer = "unknown"
		}
		power := node.PowerSource
		if power == "" {
			power = "unknown"
		}

		log.Info("0x%016x: %v %v is a %v. Power source: %v",
			node.IEEEAddress, manufacturer, model, LogicalTypeName(node.LogicalType), power)
	}
}
