package types

type DeviceScanCommand struct {
	IEEEAddress uint64
	Endpoints   []uint8
}

type DeviceLeaveCommand struct {
	IEEEAddress uint64
}

type DevicePingCommand struct {
	IEEEAddress uint64
}

type DeviceCommandMessage struct {
	IEEEAddress       uint64
	ClusterID         uint16
	Endpoint          uint8
	CommandIdentifier uint8
	CommandData       map[string]interface{}
}

type JoinCodeCommand struct {
	IEEEAddress uint64
	Key         string
}

type NetworkUpdateCommand struct {
	Channel  uint8
	UpdateID uint8
}

type GatewayConfigSetMessage struct {
	PermitJoin bool
}
