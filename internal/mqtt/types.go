package mqtt

type DeviceScanMessage struct {
	Endpoints []uint8
}

type DeviceScanResultMessage struct {
	IEEEAddress uint64
	ReportFile  string
	Endpoints   int
	Error       string `json:",omitempty"`
}

type DevicePingResultMessage struct {
	IEEEAddress    uint64
	NetworkAddress uint16
	Error          string `json:",omitempty"`
}

type DeviceCommandMessage struct {
	ClusterID         uint16
	Endpoint          uint8
	CommandIdentifier uint8
	CommandData       map[string]interface{}
}

type JoinCodeMessage struct {
	IEEEAddress uint64
	Key         string
}

type NetworkUpdateMessage struct {
	Channel  uint8
	UpdateID uint8
}

type SetGatewayConfigMessage struct {
	PermitJoin bool
}

type NodeSummaryMessage struct {
	IEEEAddress    uint64
	NetworkAddress uint16
	LogicalType    string
	LQI            uint8
	Depth          uint8
	Model          string `json:",omitempty"`
	Manufacturer   string `json:",omitempty"`
	PowerSource    string `json:",omitempty"`
	LastScanFile   string `json:",omitempty"`
}

type StatusMessage struct {
	Success bool
	Error   string `json:",omitempty"`
}
